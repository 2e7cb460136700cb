package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ngx-tools/ngxcache/pkg/cachefile"
	"github.com/ngx-tools/ngxcache/pkg/codec"
)

// Server holds the API server state
type Server struct {
	config  ServerConfig
	metrics *Metrics
}

// NewServer creates a new API server
func NewServer(config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		config:  config,
		metrics: metrics,
	}
}

// handleHealth reports service liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleGetEntry decodes a single cache file and returns its header
// fields, cache key, HTTP header text and body length.
func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	path, err := s.resolveCachePath(r.URL.Query().Get("path"))
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	info, err := cachefile.Parse(path)
	if s.metrics != nil {
		s.metrics.RecordParse(err == nil, time.Since(start))
	}
	if err != nil {
		sendError(w, err.Error(), parseErrorStatus(err))
		return
	}

	sendSuccess(w, NewEntryResponse(info))
}

// handleExpire rewrites the expiry timestamp of a single cache file.
func (s *Server) handleExpire(w http.ResponseWriter, r *http.Request) {
	var req ExpireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "Invalid JSON in request body", http.StatusBadRequest)
		return
	}

	path, err := s.resolveCachePath(req.Path)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	expire, err := parseExpireAt(req.ExpireAt)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = cachefile.SetExpiry(path, expire)
	if s.metrics != nil {
		s.metrics.RecordExpiry(err == nil)
	}
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, os.ErrNotExist) {
			status = http.StatusNotFound
		}
		sendError(w, err.Error(), status)
		return
	}

	sendSuccess(w, map[string]string{
		"path":      path,
		"expire_at": expire.Format(time.RFC3339),
	})
}

// handleScan walks a cache directory tree and lists every entry found,
// including per-file errors for files that fail to decode.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	root := r.URL.Query().Get("root")
	if root == "" {
		root = s.config.CacheRoot
	}
	root, err := s.resolveCachePath(root)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries := []ScanEntry{}
	err = cachefile.Scan(root, func(path string, info *cachefile.Info, perr error) error {
		entry := ScanEntry{Path: path}
		if perr != nil {
			entry.Error = perr.Error()
		} else {
			entry.Key = info.Key
			entry.ValidSec = info.Header.ValidSec
		}
		entries = append(entries, entry)
		return nil
	})
	if s.metrics != nil {
		s.metrics.RecordScan(err == nil)
	}
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, os.ErrNotExist) {
			status = http.StatusNotFound
		}
		sendError(w, err.Error(), status)
		return
	}

	sendSuccess(w, entries)
}

// resolveCachePath confines a user-supplied path to the configured
// cache root. Relative paths are resolved against the root.
func (s *Server) resolveCachePath(p string) (string, error) {
	if p == "" {
		return "", errors.New("path is required")
	}

	root, err := filepath.Abs(s.config.CacheRoot)
	if err != nil {
		return "", fmt.Errorf("invalid cache root: %w", err)
	}

	abs := p
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(root, abs)
	}
	abs = filepath.Clean(abs)

	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %s is outside the cache root", p)
	}

	return abs, nil
}

// parseExpireAt accepts RFC3339 plus the CLI's date formats.
func parseExpireAt(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("expire_at is required")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return cachefile.ParseExpiry(s)
}

// parseErrorStatus maps a Parse failure to an HTTP status: missing
// files are 404, malformed files are 422, everything else is 500.
func parseErrorStatus(err error) int {
	if errors.Is(err, os.ErrNotExist) {
		return http.StatusNotFound
	}
	var formatErr *codec.FormatError
	if errors.As(err, &formatErr) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
