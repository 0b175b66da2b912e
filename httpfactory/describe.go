// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package httpfactory

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
)

// RequestSnapshot is a plain-data rendering of a [ServerRequest]'s observable
// fields, suitable for failure messages and reports.
type RequestSnapshot struct {
	Method          string                    `json:"method"`
	URI             string                    `json:"uri"`
	ProtocolVersion string                    `json:"protocol_version"`
	ServerParams    map[string]string         `json:"server_params"`
	CookieParams    map[string]string         `json:"cookie_params"`
	QueryParams     url.Values                `json:"query_params"`
	UploadedFiles   map[string][]FileSnapshot `json:"uploaded_files"`
	ParsedBody      any                       `json:"parsed_body"`
	Attributes      []string                  `json:"attributes"`
}

// FileSnapshot is the plain-data rendering of an [UploadedFile].
type FileSnapshot struct {
	ClientFilename  string `json:"client_filename"`
	ClientMediaType string `json:"client_media_type"`
	Size            int64  `json:"size"`
	Error           string `json:"error"`
}

// Describe captures the observable fields of req. A nil request yields the
// zero snapshot.
func Describe(req ServerRequest) RequestSnapshot {
	if req == nil {
		return RequestSnapshot{}
	}
	snap := RequestSnapshot{
		Method:          req.Method(),
		ProtocolVersion: req.ProtocolVersion(),
		ServerParams:    req.ServerParams(),
		CookieParams:    req.CookieParams(),
		QueryParams:     req.QueryParams(),
		ParsedBody:      req.ParsedBody(),
	}
	if u := req.URI(); u != nil {
		snap.URI = u.String()
	}

	if files := req.UploadedFiles(); len(files) > 0 {
		snap.UploadedFiles = make(map[string][]FileSnapshot, len(files))
		for field, list := range files {
			for _, f := range list {
				snap.UploadedFiles[field] = append(snap.UploadedFiles[field], FileSnapshot{
					ClientFilename:  f.ClientFilename(),
					ClientMediaType: f.ClientMediaType(),
					Size:            f.Size(),
					Error:           f.Error().String(),
				})
			}
		}
	}

	for name := range req.Attributes() {
		snap.Attributes = append(snap.Attributes, name)
	}
	sort.Strings(snap.Attributes)
	return snap
}

// String renders the snapshot as JSON.
func (s RequestSnapshot) String() string {
	data, err := json.Marshal(s)
	if err != nil {
		slog.Debug("httpfactory: snapshot not JSON encodable", "err", err)
		return fmt.Sprintf("%+v", map[string]any{"method": s.Method, "uri": s.URI})
	}
	return string(data)
}
