// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package benchmark measures factory implementations with testing.B. Each
// helper runs one benchmark per fixture as a sub-benchmark of b.
package benchmark

import (
	"strconv"
	"strings"

	"github.com/Query-farm/httpfactory/httpfactory"
)

// Payload is a named stream body.
type Payload struct {
	Name    string
	Content string
}

// Payloads covers empty, small and large stream bodies.
var Payloads = []Payload{
	{Name: "empty", Content: ""},
	{Name: "small", Content: "would you like some crumpets?"},
	{Name: "64KiB", Content: strings.Repeat("x", 64<<10)},
	{Name: "1MiB", Content: strings.Repeat("y", 1<<20)},
}

// Environment is a named set of server params.
type Environment struct {
	Name   string
	Params httpfactory.ServerParams
}

// Environments range from nothing to derive from up to a full CGI
// environment with many extra headers.
var Environments = []Environment{
	{Name: "empty", Params: httpfactory.ServerParams{}},
	{Name: "minimal", Params: httpfactory.ServerParams{
		httpfactory.ParamRequestMethod: "GET",
		httpfactory.ParamHost:          "example.org",
		httpfactory.ParamRequestURI:    "/",
	}},
	{Name: "cgi", Params: cgiParams(32)},
}

func cgiParams(headers int) httpfactory.ServerParams {
	p := httpfactory.ServerParams{
		httpfactory.ParamRequestMethod:  "POST",
		httpfactory.ParamRequestURI:     "/test?foo=1&bar=true",
		httpfactory.ParamQueryString:    "foo=1&bar=true",
		httpfactory.ParamServerName:     "example.org",
		httpfactory.ParamServerPort:     "8443",
		httpfactory.ParamHTTPS:          "on",
		httpfactory.ParamServerProtocol: "HTTP/1.1",
		httpfactory.ParamContentType:    "application/x-www-form-urlencoded",
		httpfactory.ParamCookie:         "session=abc; theme=dark",
	}
	for i := 0; i < headers; i++ {
		p["HTTP_X_HEADER_"+strconv.Itoa(i)] = "value-" + strconv.Itoa(i)
	}
	return p
}

// URIs are parsed by the URI benchmarks.
var URIs = []string{
	"/",
	"http://example.org/test",
	"https://user@example.com:8443/a%20b/c?foo=1&bar=true#frag",
}
