package api

import (
	"time"

	"github.com/ngx-tools/ngxcache/pkg/cachefile"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind      string
	Port      int
	APIKey    string
	CacheRoot string // all inspected paths must live under this directory
}

// HeaderResponse is the JSON rendering of a decoded cache header.
// Optional fields are rendered as explicit nulls, never as their
// on-disk sentinel values.
type HeaderResponse struct {
	Version      uint64     `json:"version"`
	ValidSec     *time.Time `json:"valid_sec"`
	UpdatingSec  *time.Time `json:"updating_sec"`
	ErrorSec     *time.Time `json:"error_sec"`
	LastModified *time.Time `json:"last_modified"`
	Date         *time.Time `json:"date"`
	CRC32        uint32     `json:"crc32"`
	ValidMsec    uint16     `json:"valid_msec"`
	HeaderStart  uint16     `json:"header_start"`
	BodyStart    uint16     `json:"body_start"`
	EtagLen      uint8      `json:"etag_len"`
	Etag         *string    `json:"etag"`
	VaryLen      uint8      `json:"vary_len"`
	Vary         *string    `json:"vary"`
	Variant      *string    `json:"variant"`
}

// EntryResponse is the JSON rendering of one decoded cache file.
type EntryResponse struct {
	Path       string         `json:"path"`
	Header     HeaderResponse `json:"header"`
	Key        string         `json:"key"`
	HTTPHeader string         `json:"http_header"`
	BodyLength int            `json:"body_length"`
}

// ScanEntry is one row of a scan listing.
type ScanEntry struct {
	Path     string     `json:"path"`
	Key      string     `json:"key,omitempty"`
	ValidSec *time.Time `json:"valid_sec,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// ExpireRequest asks for the expiry of one cache file to be rewritten.
type ExpireRequest struct {
	Path     string `json:"path"`
	ExpireAt string `json:"expire_at"`
}

// NewEntryResponse renders a parsed cache file into the wire form
// shared by the API and the CLI's JSON output.
func NewEntryResponse(info *cachefile.Info) EntryResponse {
	h := info.Header
	return EntryResponse{
		Path: info.Path,
		Header: HeaderResponse{
			Version:      h.Version,
			ValidSec:     h.ValidSec,
			UpdatingSec:  h.UpdatingSec,
			ErrorSec:     h.ErrorSec,
			LastModified: h.LastModified,
			Date:         h.Date,
			CRC32:        h.CRC32,
			ValidMsec:    h.ValidMsec,
			HeaderStart:  h.HeaderStart,
			BodyStart:    h.BodyStart,
			EtagLen:      h.EtagLen,
			Etag:         h.Etag,
			VaryLen:      h.VaryLen,
			Vary:         h.Vary,
			Variant:      h.Variant,
		},
		Key:        info.Key,
		HTTPHeader: info.HTTPHeader,
		BodyLength: info.BodyLen(),
	}
}
