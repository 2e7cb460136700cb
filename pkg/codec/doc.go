// Package codec decodes and patches the binary header of nginx
// proxy-cache files.
//
// Every cache file written by the nginx HTTP caching layer starts with
// a fixed 336-byte header, followed by the textual cache key, the raw
// HTTP response headers and the HTTP response body.
//
// # Header Format
//
// All multi-byte integers are little-endian:
//
//	[version(8)][valid_sec(8)][updating_sec(8)][error_sec(8)]
//	[last_modified(8)][date(8)][crc32(4)][valid_msec(2)]
//	[header_start(2)][body_start(2)][etag_len(1)][etag(128)]
//	[vary_len(1)][vary(128)][variant(16)][padding(4)]
//
// Fields:
//   - version: header format version; only version 5 is supported
//   - valid_sec, updating_sec, error_sec, last_modified, date: epoch
//     seconds, with all-ones (2^64-1) meaning "no value"
//   - crc32: checksum of the cache key, passed through unvalidated
//   - header_start, body_start: byte offsets of the HTTP header and
//     body regions, relative to the start of the file
//   - etag, vary, variant: fixed-width ASCII buffers, zero-padded on
//     the right; an all-zero buffer means the field is absent
//
// The four padding bytes before the 336-byte boundary are expected to
// be zero; non-zero padding is reported as a warning but does not fail
// the decode.
//
// # Regions
//
// The offsets in the header locate the three regions that follow it:
//
//	[336, header_start)      "\nKEY: <cache key>\n"
//	[header_start, body_start) raw HTTP response headers (ASCII)
//	[body_start, EOF)          raw HTTP response body (opaque bytes)
//
// ExtractRecord slices and validates these regions.
//
// # Patching
//
// The only supported mutation is rewriting valid_sec, the expiry
// instant, in place. ExpiryFieldOffset and ExpiryFieldWidth locate the
// field and EncodeExpiry produces its on-disk form. Patching is
// deliberately lax: it does not require the rest of the header to
// decode, so an expiry can be rewritten even on files whose version
// this codec would reject.
//
// # Thread Safety
//
// HeaderCodec is stateless apart from its warn func and safe for
// concurrent use. Decoded Header and Record values are plain data.
package codec
