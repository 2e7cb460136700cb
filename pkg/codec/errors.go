package codec

// FormatError indicates that a cache file does not match the expected
// on-disk layout. The exported Err* values are matched with errors.Is;
// decode paths wrap them with file-specific detail via %w.
type FormatError struct {
	Message string
}

func (e *FormatError) Error() string {
	return e.Message
}

// Errors
var (
	ErrUnsupportedVersion = &FormatError{"unsupported cache header version"}
	ErrNonASCIIText       = &FormatError{"text region contains non-ASCII bytes"}
	ErrBadKeyDelimiter    = &FormatError{"cache key region missing KEY delimiters"}
	ErrInvalidOffsets     = &FormatError{"header offsets out of order"}
	ErrTruncatedFile      = &FormatError{"file shorter than declared offsets"}
)
