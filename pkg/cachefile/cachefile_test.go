package cachefile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngx-tools/ngxcache/pkg/codec"
)

// writeTestCacheFile writes a synthetic but well-formed cache file and
// returns its path.
func writeTestCacheFile(t *testing.T, dir, name, key, httpHeader string, body []byte) string {
	t.Helper()

	keyRegion := codec.KeyPrefix + key + codec.KeySuffix
	headerStart := codec.HeaderSize + len(keyRegion)
	bodyStart := headerStart + len(httpHeader)

	validSec := time.Unix(1700000000, 0)
	header := &codec.Header{
		Version:     codec.SupportedVersion,
		ValidSec:    &validSec,
		CRC32:       0x1234abcd,
		HeaderStart: uint16(headerStart),
		BodyStart:   uint16(bodyStart),
	}

	hc := codec.NewHeaderCodec(nil)
	buf, err := hc.Encode(header)
	require.NoError(t, err)

	buf = append(buf, keyRegion...)
	buf = append(buf, httpHeader...)
	buf = append(buf, body...)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf, 0600))
	return path
}

func TestParse(t *testing.T) {
	dir := t.TempDir()
	path := writeTestCacheFile(t, dir, "b7f6a3e52ca9b7d2", "httpGETexample.com/",
		"HTTP/1.1 200 OK\r\nContent-Length: 4\r\n\r\n", []byte("data"))

	info, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, path, info.Path)
	assert.Equal(t, "httpGETexample.com/", info.Key)
	assert.Contains(t, info.HTTPHeader, "200 OK")
	assert.Equal(t, 4, info.BodyLen())
	require.NotNil(t, info.Header.ValidSec)
	assert.Equal(t, int64(1700000000), info.Header.ValidSec.Unix())
	assert.Nil(t, info.Header.Etag)
}

func TestParse_MissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_TruncatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short")
	require.NoError(t, os.WriteFile(path, make([]byte, 100), 0600))

	_, err := Parse(path)
	assert.ErrorIs(t, err, codec.ErrTruncatedFile)
}

func TestSetExpiry(t *testing.T) {
	dir := t.TempDir()
	path := writeTestCacheFile(t, dir, "entry", "httpGETexample.com/",
		"HTTP/1.1 200 OK\r\n\r\n", []byte("payload"))

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	expire := time.Date(2026, 1, 2, 15, 4, 5, 999000000, time.Local)
	require.NoError(t, SetExpiry(path, expire))

	info, err := Parse(path)
	require.NoError(t, err)
	require.NotNil(t, info.Header.ValidSec)
	// Whole seconds, sub-second part dropped.
	assert.Equal(t, expire.Unix(), info.Header.ValidSec.Unix())

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, after, len(before))

	// Every byte outside the 8-byte expiry field is untouched.
	start := codec.ExpiryFieldOffset
	end := start + codec.ExpiryFieldWidth
	assert.True(t, bytes.Equal(before[:start], after[:start]))
	assert.True(t, bytes.Equal(before[end:], after[end:]))
}

func TestSetExpiry_IgnoresHeaderValidity(t *testing.T) {
	// Patch must succeed even on a file a strict decode rejects.
	path := filepath.Join(t.TempDir(), "wrongversion")
	buf := make([]byte, codec.HeaderSize)
	binary.LittleEndian.PutUint64(buf[0:], 4)
	require.NoError(t, os.WriteFile(path, buf, 0600))

	expire := time.Unix(1800000000, 0)
	require.NoError(t, SetExpiry(path, expire))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	got := binary.LittleEndian.Uint64(after[codec.ExpiryFieldOffset:])
	assert.Equal(t, uint64(1800000000), got)

	// Still undecodable afterwards.
	_, err = Parse(path)
	assert.ErrorIs(t, err, codec.ErrUnsupportedVersion)
}

func TestSetExpiry_MissingFile(t *testing.T) {
	err := SetExpiry(filepath.Join(t.TempDir(), "nope"), time.Now())
	assert.Error(t, err)
}

func TestScan(t *testing.T) {
	dir := t.TempDir()

	sub := filepath.Join(dir, "a", "b2")
	require.NoError(t, os.MkdirAll(sub, 0750))

	writeTestCacheFile(t, dir, "one", "key-one", "HTTP/1.1 200 OK\r\n\r\n", []byte("x"))
	writeTestCacheFile(t, sub, "two", "key-two", "HTTP/1.1 200 OK\r\n\r\n", nil)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "corrupt"), make([]byte, 512), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0000001.tmp"), []byte("partial"), 0600))

	keys := map[string]bool{}
	var failed []string
	err := Scan(dir, func(path string, info *Info, err error) error {
		if err != nil {
			failed = append(failed, path)
			return nil
		}
		keys[info.Key] = true
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]bool{"key-one": true, "key-two": true}, keys)
	require.Len(t, failed, 1)
	assert.Equal(t, filepath.Join(dir, "corrupt"), failed[0])
}

func TestScan_CallbackStopsWalk(t *testing.T) {
	dir := t.TempDir()
	writeTestCacheFile(t, dir, "one", "key-one", "HTTP/1.1 200 OK\r\n\r\n", nil)
	writeTestCacheFile(t, dir, "two", "key-two", "HTTP/1.1 200 OK\r\n\r\n", nil)

	sentinel := errors.New("stop")
	calls := 0
	err := Scan(dir, func(path string, info *Info, err error) error {
		calls++
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls)
}
