package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngx-tools/ngxcache/pkg/api"
	"github.com/ngx-tools/ngxcache/pkg/codec"
)

// writeTestCacheFile lays out a complete cache file on disk: header,
// key region sized to fill [HeaderSize, header_start) exactly, then
// the HTTP header text and body.
func writeTestCacheFile(t *testing.T, dir, name, key, httpHeader string, body []byte) string {
	t.Helper()

	keyRegion := codec.KeyPrefix + key + codec.KeySuffix
	headerStart := codec.HeaderSize + len(keyRegion)
	bodyStart := headerStart + len(httpHeader)

	validSec := time.Unix(1700000000, 0)
	h := &codec.Header{
		Version:     codec.SupportedVersion,
		ValidSec:    &validSec,
		HeaderStart: uint16(headerStart),
		BodyStart:   uint16(bodyStart),
	}

	encoded, err := codec.NewHeaderCodec(nil).Encode(h)
	require.NoError(t, err)

	data := append(encoded, []byte(keyRegion)...)
	data = append(data, []byte(httpHeader)...)
	data = append(data, body...)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestExpireCommand_JSONFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeTestCacheFile(t, dir, "b7f6a3e52ca9b7d2",
		"httpGETexample.com/",
		"HTTP/1.1 200 OK\r\nContent-Length: 4\r\n\r\n",
		[]byte("data"))

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"expire", "--set-expire", "2030-01-02 03:04:05", "--format", "json", path})
	require.NoError(t, rootCmd.Execute())

	var entry api.EntryResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	want := time.Date(2030, 1, 2, 3, 4, 5, 0, time.Local)
	require.NotNil(t, entry.Header.ValidSec)
	assert.True(t, want.Equal(*entry.Header.ValidSec),
		"valid_sec = %v, want %v", entry.Header.ValidSec, want)
	assert.Equal(t, "httpGETexample.com/", entry.Key)
	assert.Equal(t, 4, entry.BodyLength)
}
