package codec

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Layout of the fixed cache file header. All multi-byte integers are
// little-endian. Offsets are bytes from the start of the file.
const (
	// HeaderSize is the total size of the fixed header.
	HeaderSize = 336

	// SupportedVersion is the only header version this codec understands.
	SupportedVersion = 5

	// ExpiryFieldOffset and ExpiryFieldWidth locate the valid_sec field,
	// the single field the patch operation is allowed to rewrite.
	ExpiryFieldOffset = 8
	ExpiryFieldWidth  = 8

	// Fixed-width text buffer sizes.
	EtagBufSize    = 128
	VaryBufSize    = 128
	VariantBufSize = 16

	// timeSentinel encodes "no value" for the time_t-shaped fields.
	timeSentinel = ^uint64(0)
)

// Byte offsets of the individual header fields.
const (
	versionOff      = 0
	validSecOff     = ExpiryFieldOffset
	updatingSecOff  = 16
	errorSecOff     = 24
	lastModifiedOff = 32
	dateOff         = 40
	crc32Off        = 48
	validMsecOff    = 52
	headerStartOff  = 54
	bodyStartOff    = 56
	etagLenOff      = 58
	etagOff         = 59
	varyLenOff      = etagOff + EtagBufSize
	varyOff         = varyLenOff + 1
	variantOff      = varyOff + VaryBufSize
	paddingOff      = variantOff + VariantBufSize
)

// Header is the decoded form of the fixed cache file header.
//
// Optional fields use pointers: a nil time is the all-ones sentinel on
// disk, a nil string is an all-zero text buffer. The translation between
// sentinel and nil happens only in Decode and Encode; downstream code
// never sees the raw sentinel encodings.
type Header struct {
	Version      uint64
	ValidSec     *time.Time // expiry instant
	UpdatingSec  *time.Time
	ErrorSec     *time.Time
	LastModified *time.Time
	Date         *time.Time
	CRC32        uint32 // opaque, not validated
	ValidMsec    uint16
	HeaderStart  uint16 // offset of the HTTP header region
	BodyStart    uint16 // offset of the HTTP body region
	EtagLen      uint8  // declared length, informational only
	Etag         *string
	VaryLen      uint8 // declared length, informational only
	Vary         *string
	Variant      *string
}

// WarnFunc receives non-fatal decode diagnostics.
type WarnFunc func(format string, args ...interface{})

// HeaderCodec decodes and encodes the fixed cache file header.
type HeaderCodec struct {
	warn WarnFunc
}

// NewHeaderCodec creates a header codec. warn may be nil, in which case
// non-fatal anomalies are discarded.
func NewHeaderCodec(warn WarnFunc) *HeaderCodec {
	return &HeaderCodec{warn: warn}
}

// Decode parses the fixed header at the start of buf.
//
// Decode is strict: an unknown version, non-ASCII text buffer or
// out-of-order offsets fail with a FormatError. The only non-fatal
// anomaly is non-zero trailing padding, which is reported through the
// warn func and does not prevent a successful decode.
func (c *HeaderCodec) Decode(buf []byte) (*Header, error) {
	if len(buf) < HeaderSize {
		return nil, fmt.Errorf("%w: header needs %d bytes, have %d", ErrTruncatedFile, HeaderSize, len(buf))
	}

	h := &Header{}
	h.Version = binary.LittleEndian.Uint64(buf[versionOff:])
	if h.Version != SupportedVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrUnsupportedVersion, h.Version, SupportedVersion)
	}

	h.ValidSec = timeOrNil(binary.LittleEndian.Uint64(buf[validSecOff:]))
	h.UpdatingSec = timeOrNil(binary.LittleEndian.Uint64(buf[updatingSecOff:]))
	h.ErrorSec = timeOrNil(binary.LittleEndian.Uint64(buf[errorSecOff:]))
	h.LastModified = timeOrNil(binary.LittleEndian.Uint64(buf[lastModifiedOff:]))
	h.Date = timeOrNil(binary.LittleEndian.Uint64(buf[dateOff:]))

	h.CRC32 = binary.LittleEndian.Uint32(buf[crc32Off:])
	h.ValidMsec = binary.LittleEndian.Uint16(buf[validMsecOff:])
	h.HeaderStart = binary.LittleEndian.Uint16(buf[headerStartOff:])
	h.BodyStart = binary.LittleEndian.Uint16(buf[bodyStartOff:])
	h.EtagLen = buf[etagLenOff]

	var err error
	if h.Etag, err = textOrNil(buf[etagOff:varyLenOff], "etag"); err != nil {
		return nil, err
	}
	h.VaryLen = buf[varyLenOff]
	if h.Vary, err = textOrNil(buf[varyOff:variantOff], "vary"); err != nil {
		return nil, err
	}
	if h.Variant, err = textOrNil(buf[variantOff:paddingOff], "variant"); err != nil {
		return nil, err
	}

	if !allZero(buf[paddingOff:HeaderSize]) {
		c.warnf("unexpected non-zero header padding: % x", buf[paddingOff:HeaderSize])
	}

	if h.HeaderStart < HeaderSize || h.HeaderStart > h.BodyStart {
		return nil, fmt.Errorf("%w: header_start=%d body_start=%d", ErrInvalidOffsets, h.HeaderStart, h.BodyStart)
	}

	return h, nil
}

// Encode serializes h back into its 336-byte on-disk form. It is the
// exact inverse of Decode for well-formed headers: absent fields encode
// back to their sentinels and the declared etag/vary length bytes are
// written as-is.
func (c *HeaderCodec) Encode(h *Header) ([]byte, error) {
	buf := make([]byte, HeaderSize)

	binary.LittleEndian.PutUint64(buf[versionOff:], h.Version)
	binary.LittleEndian.PutUint64(buf[validSecOff:], nilToSentinel(h.ValidSec))
	binary.LittleEndian.PutUint64(buf[updatingSecOff:], nilToSentinel(h.UpdatingSec))
	binary.LittleEndian.PutUint64(buf[errorSecOff:], nilToSentinel(h.ErrorSec))
	binary.LittleEndian.PutUint64(buf[lastModifiedOff:], nilToSentinel(h.LastModified))
	binary.LittleEndian.PutUint64(buf[dateOff:], nilToSentinel(h.Date))

	binary.LittleEndian.PutUint32(buf[crc32Off:], h.CRC32)
	binary.LittleEndian.PutUint16(buf[validMsecOff:], h.ValidMsec)
	binary.LittleEndian.PutUint16(buf[headerStartOff:], h.HeaderStart)
	binary.LittleEndian.PutUint16(buf[bodyStartOff:], h.BodyStart)
	buf[etagLenOff] = h.EtagLen

	if err := putText(buf[etagOff:varyLenOff], h.Etag, "etag"); err != nil {
		return nil, err
	}
	buf[varyLenOff] = h.VaryLen
	if err := putText(buf[varyOff:variantOff], h.Vary, "vary"); err != nil {
		return nil, err
	}
	if err := putText(buf[variantOff:paddingOff], h.Variant, "variant"); err != nil {
		return nil, err
	}

	return buf, nil
}

// EncodeExpiry converts an instant into the on-disk form of the
// valid_sec field: whole seconds since the epoch, little-endian.
func EncodeExpiry(t time.Time) [ExpiryFieldWidth]byte {
	var buf [ExpiryFieldWidth]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(t.Unix()))
	return buf
}

func (c *HeaderCodec) warnf(format string, args ...interface{}) {
	if c.warn != nil {
		c.warn(format, args...)
	}
}

func timeOrNil(v uint64) *time.Time {
	if v == timeSentinel {
		return nil
	}
	t := time.Unix(int64(v), 0)
	return &t
}

func nilToSentinel(t *time.Time) uint64 {
	if t == nil {
		return timeSentinel
	}
	return uint64(t.Unix())
}

// textOrNil decodes a fixed-width text buffer: all-zero means absent,
// anything else is ASCII text with the trailing zero padding stripped.
func textOrNil(buf []byte, field string) (*string, error) {
	if allZero(buf) {
		return nil, nil
	}
	end := len(buf)
	for end > 0 && buf[end-1] == 0 {
		end--
	}
	text := buf[:end]
	if err := checkASCII(text, field); err != nil {
		return nil, err
	}
	s := string(text)
	return &s, nil
}

func putText(buf []byte, s *string, field string) error {
	if s == nil {
		return nil
	}
	if len(*s) > len(buf) {
		return fmt.Errorf("%s text is %d bytes, buffer holds %d", field, len(*s), len(buf))
	}
	if err := checkASCII([]byte(*s), field); err != nil {
		return err
	}
	copy(buf, *s)
	return nil
}

func checkASCII(b []byte, region string) error {
	for i, c := range b {
		if c > 0x7f {
			return fmt.Errorf("%w: %s byte %d is 0x%02x", ErrNonASCIIText, region, i, c)
		}
	}
	return nil
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
