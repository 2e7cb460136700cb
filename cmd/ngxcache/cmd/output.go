package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ngx-tools/ngxcache/pkg/api"
	"github.com/ngx-tools/ngxcache/pkg/cachefile"
)

const absent = "<none>"

// printInfo displays one decoded cache file in the selected format.
func printInfo(w io.Writer, info *cachefile.Info, format string) error {
	if format == "json" {
		return printInfoJSON(w, info)
	}
	return printInfoTable(w, info)
}

// printInfoTable mirrors the classic inspector layout: header fields,
// cache key, HTTP headers and the body length.
func printInfoTable(w io.Writer, info *cachefile.Info) error {
	fmt.Fprintf(w, "** Nginx cache header ** %s\n", info.Path)

	h := info.Header
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "version:\t%d\n", h.Version)
	fmt.Fprintf(tw, "valid_sec:\t%s\n", formatTime(h.ValidSec))
	fmt.Fprintf(tw, "updating_sec:\t%s\n", formatTime(h.UpdatingSec))
	fmt.Fprintf(tw, "error_sec:\t%s\n", formatTime(h.ErrorSec))
	fmt.Fprintf(tw, "last_modified:\t%s\n", formatTime(h.LastModified))
	fmt.Fprintf(tw, "date:\t%s\n", formatTime(h.Date))
	fmt.Fprintf(tw, "crc32:\t%d\n", h.CRC32)
	fmt.Fprintf(tw, "valid_msec:\t%d\n", h.ValidMsec)
	fmt.Fprintf(tw, "header_start:\t%d\n", h.HeaderStart)
	fmt.Fprintf(tw, "body_start:\t%d\n", h.BodyStart)
	fmt.Fprintf(tw, "etag_len:\t%d\n", h.EtagLen)
	fmt.Fprintf(tw, "etag:\t%s\n", formatText(h.Etag))
	fmt.Fprintf(tw, "vary_len:\t%d\n", h.VaryLen)
	fmt.Fprintf(tw, "vary:\t%s\n", formatText(h.Vary))
	fmt.Fprintf(tw, "variant:\t%s\n", formatText(h.Variant))
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n** Nginx cache key **\n%s\n", info.Key)
	fmt.Fprintf(w, "\n** HTTP headers **\n%s\n", strings.TrimSpace(info.HTTPHeader))
	fmt.Fprintf(w, "\n** HTTP body length **\n%d\n", info.BodyLen())
	return nil
}

func printInfoJSON(w io.Writer, info *cachefile.Info) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(api.NewEntryResponse(info))
}

func formatTime(t *time.Time) string {
	if t == nil {
		return absent
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func formatText(s *string) string {
	if s == nil {
		return absent
	}
	return *s
}
