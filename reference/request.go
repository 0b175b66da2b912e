// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package reference

import (
	"maps"
	"net/url"
	"strings"

	"github.com/Query-farm/httpfactory/httpfactory"
)

// Request is an immutable [httpfactory.Request].
type Request struct {
	method   string
	uri      httpfactory.URI
	body     httpfactory.Stream
	protocol string
}

var _ httpfactory.Request = (*Request)(nil)

func (r *Request) Method() string { return r.method }
func (r *Request) URI() httpfactory.URI { return r.uri }
func (r *Request) Body() httpfactory.Stream { return r.body }
func (r *Request) ProtocolVersion() string { return r.protocol }

// ServerRequest is an immutable [httpfactory.ServerRequest]. Accessors hand
// out copies so callers cannot mutate a value after construction.
type ServerRequest struct {
	Request

	server     httpfactory.ServerParams
	cookies    map[string]string
	query      url.Values
	files      map[string][]httpfactory.UploadedFile
	parsedBody any
	attrs      map[string]any
}

var _ httpfactory.ServerRequest = (*ServerRequest)(nil)

func (r *ServerRequest) ServerParams() httpfactory.ServerParams {
	return r.server.Clone()
}

func (r *ServerRequest) CookieParams() map[string]string {
	out := make(map[string]string, len(r.cookies))
	maps.Copy(out, r.cookies)
	return out
}

func (r *ServerRequest) QueryParams() url.Values {
	out := make(url.Values, len(r.query))
	for k, v := range r.query {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func (r *ServerRequest) UploadedFiles() map[string][]httpfactory.UploadedFile {
	out := make(map[string][]httpfactory.UploadedFile, len(r.files))
	for k, v := range r.files {
		out[k] = append([]httpfactory.UploadedFile(nil), v...)
	}
	return out
}

func (r *ServerRequest) ParsedBody() any {
	return r.parsedBody
}

func (r *ServerRequest) Attributes() map[string]any {
	out := make(map[string]any, len(r.attrs))
	maps.Copy(out, r.attrs)
	return out
}

func (r *ServerRequest) clone() *ServerRequest {
	c := *r
	return &c
}

func (r *ServerRequest) WithCookieParams(cookies map[string]string) httpfactory.ServerRequest {
	c := r.clone()
	c.cookies = make(map[string]string, len(cookies))
	maps.Copy(c.cookies, cookies)
	return c
}

func (r *ServerRequest) WithQueryParams(query url.Values) httpfactory.ServerRequest {
	c := r.clone()
	c.query = make(url.Values, len(query))
	for k, v := range query {
		c.query[k] = append([]string(nil), v...)
	}
	return c
}

func (r *ServerRequest) WithUploadedFiles(files map[string][]httpfactory.UploadedFile) httpfactory.ServerRequest {
	c := r.clone()
	c.files = make(map[string][]httpfactory.UploadedFile, len(files))
	for k, v := range files {
		c.files[k] = append([]httpfactory.UploadedFile(nil), v...)
	}
	return c
}

func (r *ServerRequest) WithParsedBody(body any) httpfactory.ServerRequest {
	c := r.clone()
	c.parsedBody = body
	return c
}

func (r *ServerRequest) WithAttribute(name string, value any) httpfactory.ServerRequest {
	c := r.clone()
	c.attrs = make(map[string]any, len(r.attrs)+1)
	maps.Copy(c.attrs, r.attrs)
	c.attrs[name] = value
	return c
}

// protocolVersion extracts "1.0" from SERVER_PROTOCOL=HTTP/1.0.
func protocolVersion(params httpfactory.ServerParams) string {
	proto := params.Get(httpfactory.ParamServerProtocol)
	if v, ok := strings.CutPrefix(proto, "HTTP/"); ok && v != "" {
		return v
	}
	return httpfactory.DefaultProtocolVersion
}
