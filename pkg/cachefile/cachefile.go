// Package cachefile provides file-level operations on nginx proxy-cache
// files: parsing a file into its decoded form, patching the expiry
// field in place and scanning a cache directory tree.
package cachefile

import (
	"fmt"
	"os"
	"time"

	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"

	"github.com/ngx-tools/ngxcache/pkg/codec"
)

// Info is everything decoded from a single cache file.
type Info struct {
	Path       string
	Header     *codec.Header
	Key        string
	HTTPHeader string
	Body       []byte
}

// BodyLen returns the length of the cached HTTP body in bytes.
func (i *Info) BodyLen() int {
	return len(i.Body)
}

// Parse reads and decodes the cache file at path. Decode anomalies that
// are non-fatal (non-zero header padding) are logged as warnings tagged
// with the file path.
func Parse(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cache file: %w", err)
	}

	hc := codec.NewHeaderCodec(func(format string, args ...interface{}) {
		logrus.WithField("file", path).Warnf(format, args...)
	})

	header, err := hc.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	rec, err := codec.ExtractRecord(header, data)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}

	return &Info{
		Path:       path,
		Header:     header,
		Key:        rec.Key,
		HTTPHeader: rec.HTTPHeader,
		Body:       rec.Body,
	}, nil
}

// SetExpiry rewrites the valid_sec field of the cache file at path to
// expire, truncated to whole seconds. Nothing else in the file is
// touched, and the header is not validated first: patching works even
// on files whose version a strict decode would reject.
//
// The file is held under an exclusive flock for the duration of the
// seek-and-write so a concurrent parse or patch of the same file cannot
// interleave with it.
func SetExpiry(path string, expire time.Time) error {
	// Open before locking: flock creates its target when it is
	// missing, and a typo'd path must not leave a stray file behind.
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return fmt.Errorf("lock %s: held by another process", path)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if _, err := f.Seek(codec.ExpiryFieldOffset, 0); err != nil {
		return fmt.Errorf("seek %s: %w", path, err)
	}

	buf := codec.EncodeExpiry(expire)
	if _, err := f.Write(buf[:]); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return f.Sync()
}
