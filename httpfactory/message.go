// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package httpfactory

import (
	"fmt"
	"io"
	"net/url"
)

// Resource is an open, seekable byte source such as an *os.File. A Resource
// that also implements io.Writer yields a writable [Stream].
type Resource interface {
	io.Reader
	io.Seeker
}

// Stream is a message body.
//
// String returns the entire content from the start of the underlying
// resource regardless of the current read position, and returns "" when the
// content cannot be read. Size reports false when the size is unknown.
type Stream interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer
	fmt.Stringer
	Size() (int64, bool)
}

// URI is an RFC 3986 URI value. String returns the composed reference.
type URI interface {
	fmt.Stringer
	Scheme() string
	Host() string
	// Port returns 0 when the URI carries no explicit port.
	Port() int
	Path() string
	Query() string
	Fragment() string
}

// UploadError mirrors the status of a file upload.
type UploadError int

const (
	UploadOK UploadError = iota
	UploadErrIniSize
	UploadErrFormSize
	UploadErrPartial
	UploadErrNoFile
	_
	UploadErrNoTmpDir
	UploadErrCantWrite
	UploadErrExtension
)

func (e UploadError) String() string {
	switch e {
	case UploadOK:
		return "ok"
	case UploadErrIniSize:
		return "exceeds maximum size"
	case UploadErrFormSize:
		return "exceeds form size"
	case UploadErrPartial:
		return "partial upload"
	case UploadErrNoFile:
		return "no file"
	case UploadErrNoTmpDir:
		return "missing temporary directory"
	case UploadErrCantWrite:
		return "cannot write"
	case UploadErrExtension:
		return "stopped by extension"
	default:
		return fmt.Sprintf("upload error %d", int(e))
	}
}

// UploadedFile describes one file received in a multipart request.
type UploadedFile interface {
	Stream() (Stream, error)
	// Size returns -1 when the size is unknown.
	Size() int64
	Error() UploadError
	ClientFilename() string
	ClientMediaType() string
}

// Request is an outgoing client request.
type Request interface {
	Method() string
	URI() URI
	Body() Stream
	ProtocolVersion() string
}

// Response is an outgoing server response.
type Response interface {
	StatusCode() int
	ReasonPhrase() string
	Body() Stream
	ProtocolVersion() string
}

// ServerRequest is an incoming request as seen by a server.
//
// ServerRequest values are immutable: the With methods return a new value and
// leave the receiver unchanged. The collection accessors return empty (never
// ambient) values when nothing was supplied; ParsedBody returns nil.
type ServerRequest interface {
	Request

	ServerParams() ServerParams
	CookieParams() map[string]string
	QueryParams() url.Values
	UploadedFiles() map[string][]UploadedFile
	ParsedBody() any
	Attributes() map[string]any

	WithCookieParams(cookies map[string]string) ServerRequest
	WithQueryParams(query url.Values) ServerRequest
	WithUploadedFiles(files map[string][]UploadedFile) ServerRequest
	WithParsedBody(body any) ServerRequest
	WithAttribute(name string, value any) ServerRequest
}
