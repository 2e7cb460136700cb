package codec

import (
	"fmt"
	"strings"
)

// Cache key delimiters. The key region between the fixed header and
// the HTTP header region is the literal "\nKEY: <key>\n".
const (
	KeyPrefix = "\nKEY: "
	KeySuffix = "\n"
)

// Record holds the three variable-length regions that follow the fixed
// header: the logical cache key, the raw HTTP response header text and
// the raw HTTP response body.
type Record struct {
	Key        string
	HTTPHeader string
	Body       []byte
}

// ExtractRecord slices the regions that follow the fixed header out of
// the full file contents, using the offsets declared in h.
//
// The key region [HeaderSize, h.HeaderStart) must be ASCII and wrapped
// in the KEY delimiters; the HTTP header region [h.HeaderStart,
// h.BodyStart) must be ASCII; the body [h.BodyStart, EOF) is opaque
// bytes and is returned as-is.
func ExtractRecord(h *Header, data []byte) (*Record, error) {
	if h.HeaderStart < HeaderSize || h.HeaderStart > h.BodyStart {
		return nil, fmt.Errorf("%w: header_start=%d body_start=%d", ErrInvalidOffsets, h.HeaderStart, h.BodyStart)
	}
	if int(h.BodyStart) > len(data) {
		return nil, fmt.Errorf("%w: body_start=%d, file is %d bytes", ErrTruncatedFile, h.BodyStart, len(data))
	}

	keyRegion := data[HeaderSize:h.HeaderStart]
	if err := checkASCII(keyRegion, "key"); err != nil {
		return nil, err
	}
	key := string(keyRegion)
	if len(key) < len(KeyPrefix)+len(KeySuffix) ||
		!strings.HasPrefix(key, KeyPrefix) || !strings.HasSuffix(key, KeySuffix) {
		return nil, fmt.Errorf("%w: key region %q", ErrBadKeyDelimiter, key)
	}
	key = key[len(KeyPrefix) : len(key)-len(KeySuffix)]

	httpHeader := data[h.HeaderStart:h.BodyStart]
	if err := checkASCII(httpHeader, "http header"); err != nil {
		return nil, err
	}

	return &Record{
		Key:        key,
		HTTPHeader: string(httpHeader),
		Body:       data[h.BodyStart:],
	}, nil
}
