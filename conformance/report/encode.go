// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/klauspost/compress/zstd"
)

// Format selects a report encoding.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatArrow Format = "arrow"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatArrow:
		return f, nil
	default:
		return "", fmt.Errorf("unknown report format %q (want text, json or arrow)", s)
	}
}

// Compression selects an output compression.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
)

// ParseCompression validates a compression name. The empty string means none.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(strings.ToLower(s)); c {
	case "", CompressionNone:
		return CompressionNone, nil
	case CompressionZstd:
		return c, nil
	default:
		return "", fmt.Errorf("unknown compression %q (want none or zstd)", s)
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// NewWriter wraps w with the selected compression. Closing the returned
// writer flushes the compressor but does not close w.
func NewWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case "", CompressionNone:
		return nopCloser{w}, nil
	case CompressionZstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("creating zstd encoder: %w", err)
		}
		return enc, nil
	default:
		return nil, fmt.Errorf("unknown compression %q", c)
	}
}

// NewReader undoes [NewWriter].
func NewReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case "", CompressionNone:
		return io.NopCloser(r), nil
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		return dec.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("unknown compression %q", c)
	}
}

// Encode writes r to w in format f.
func (r *Report) Encode(w io.Writer, f Format) error {
	switch f {
	case FormatText:
		return r.WriteText(w)
	case FormatJSON:
		return r.WriteJSON(w)
	case FormatArrow:
		return r.WriteArrow(w)
	default:
		return fmt.Errorf("unknown report format %q", f)
	}
}

// WriteJSON writes r as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		*Report
		Summary Summary `json:"summary"`
	}{r, r.Summary()})
}

var (
	passColor = color.New(color.FgGreen)
	failColor = color.New(color.FgRed, color.Bold)
)

// WriteText writes a go test style listing followed by a summary line.
func (r *Report) WriteText(w io.Writer) error {
	return r.writeText(w, func(s Status) string { return string(s) })
}

// WriteColorText is WriteText with PASS and FAIL highlighted. Colors follow
// fatih/color's terminal detection, so output to a pipe stays plain.
func (r *Report) WriteColorText(w io.Writer) error {
	return r.writeText(w, func(s Status) string {
		if s == StatusPass {
			return passColor.Sprint(s)
		}
		return failColor.Sprint(s)
	})
}

func (r *Report) writeText(w io.Writer, status func(Status) string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "conformance run %s for %s\n", r.RunID, r.Implementation)
	for _, suite := range r.Suites {
		for _, c := range suite.Cases {
			fmt.Fprintf(&b, "--- %s: %s/%s (%.3fs)\n", status(c.Status), suite.Name, c.Name, c.Duration.Seconds())
			for _, m := range c.Messages {
				for _, line := range strings.Split(strings.TrimRight(m.Text, "\n"), "\n") {
					fmt.Fprintf(&b, "    %s\n", line)
				}
			}
		}
	}
	s := r.Summary()
	overall := StatusPass
	if s.Failed > 0 {
		overall = StatusFail
	}
	fmt.Fprintf(&b, "%s\t%d passed, %d failed, %d total (%.3fs)\n", status(overall), s.Passed, s.Failed, s.Total, r.Duration.Seconds())
	_, err := io.WriteString(w, b.String())
	return err
}
