// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package reference

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/Query-farm/httpfactory/httpfactory"
	"github.com/spf13/afero"
	"golang.org/x/net/http/httpguts"
)

// Factory implements every httpfactory factory interface.
type Factory struct {
	fs afero.Fs
}

var (
	_ httpfactory.StreamFactory        = (*Factory)(nil)
	_ httpfactory.ServerRequestFactory = (*Factory)(nil)
	_ httpfactory.URIFactory           = (*Factory)(nil)
	_ httpfactory.RequestFactory       = (*Factory)(nil)
	_ httpfactory.ResponseFactory      = (*Factory)(nil)
	_ httpfactory.UploadedFileFactory  = (*Factory)(nil)
)

// NewFactory returns a factory that opens files on the host file system.
func NewFactory() *Factory {
	return NewFactoryWithFs(afero.NewOsFs())
}

// NewFactoryWithFs returns a factory that opens files on fs.
func NewFactoryWithFs(fs afero.Fs) *Factory {
	return &Factory{fs: fs}
}

// CreateStream returns a writable in-memory stream holding content.
func (f *Factory) CreateStream(content string) (httpfactory.Stream, error) {
	return newTempStream(content)
}

// CreateStreamFromResource wraps r. The stream is writable when r
// implements io.Writer; an *os.File opened read-only still qualifies, and
// its writes fail with [httpfactory.ErrNotWritable].
func (f *Factory) CreateStreamFromResource(r httpfactory.Resource) (httpfactory.Stream, error) {
	if r == nil {
		return nil, &httpfactory.FactoryError{Op: "create stream from resource", Err: httpfactory.ErrNilResource}
	}
	return newStream(r, true), nil
}

// CreateStreamFromFile opens name on the factory's file system.
func (f *Factory) CreateStreamFromFile(name string, flag int) (httpfactory.Stream, error) {
	file, err := f.fs.OpenFile(name, flag, 0o644)
	if err != nil {
		return nil, &httpfactory.FactoryError{Op: "create stream from file", Err: err}
	}
	writable := flag&(os.O_WRONLY|os.O_RDWR) != 0
	return newStream(file, writable), nil
}

// CreateURI parses raw.
func (f *Factory) CreateURI(raw string) (httpfactory.URI, error) {
	return parseURI(raw)
}

// CreateServerRequest builds a request from params alone. Cookies, query
// parameters, uploaded files and the parsed body start empty; params are
// stored as given and never parsed into those collections.
func (f *Factory) CreateServerRequest(params httpfactory.ServerParams, method string, target httpfactory.Target) (httpfactory.ServerRequest, error) {
	if method == "" {
		method = params.Get(httpfactory.ParamRequestMethod)
	}
	if method == "" {
		method = http.MethodGet
	}
	if err := validateMethod(method); err != nil {
		return nil, &httpfactory.FactoryError{Op: "create server request", Err: err}
	}

	var uri httpfactory.URI
	if target.IsZero() {
		derived, err := deriveURI(params)
		if err != nil {
			return nil, err
		}
		if derived == nil {
			derived = &URI{}
		}
		uri = derived
	} else {
		resolved, err := target.Resolve(f)
		if err != nil {
			return nil, err
		}
		uri = resolved
	}

	body, err := newTempStream("")
	if err != nil {
		return nil, err
	}

	return &ServerRequest{
		Request: Request{
			method:   method,
			uri:      uri,
			body:     body,
			protocol: protocolVersion(params),
		},
		server:  params.Clone(),
		cookies: map[string]string{},
		query:   url.Values{},
		files:   map[string][]httpfactory.UploadedFile{},
		attrs:   map[string]any{},
	}, nil
}

// CreateRequest builds a client request for target.
func (f *Factory) CreateRequest(method string, target httpfactory.Target) (httpfactory.Request, error) {
	if err := validateMethod(method); err != nil {
		return nil, &httpfactory.FactoryError{Op: "create request", Err: err}
	}
	uri, err := target.Resolve(f)
	if err != nil {
		return nil, err
	}
	body, err := newTempStream("")
	if err != nil {
		return nil, err
	}
	return &Request{
		method:   method,
		uri:      uri,
		body:     body,
		protocol: httpfactory.DefaultProtocolVersion,
	}, nil
}

// CreateResponse builds a response with an empty body.
func (f *Factory) CreateResponse(code int, reason string) (httpfactory.Response, error) {
	if code < 100 || code > 599 {
		return nil, &httpfactory.FactoryError{
			Op:  "create response",
			Err: fmt.Errorf("%w: %d", httpfactory.ErrInvalidStatus, code),
		}
	}
	if reason == "" {
		reason = http.StatusText(code)
	}
	body, err := newTempStream("")
	if err != nil {
		return nil, err
	}
	return &Response{
		code:     code,
		reason:   reason,
		body:     body,
		protocol: httpfactory.DefaultProtocolVersion,
	}, nil
}

// CreateUploadedFile describes an upload held in s.
func (f *Factory) CreateUploadedFile(s httpfactory.Stream, size int64, uploadErr httpfactory.UploadError, clientFilename, clientMediaType string) (httpfactory.UploadedFile, error) {
	if s == nil {
		return nil, &httpfactory.FactoryError{Op: "create uploaded file", Err: httpfactory.ErrNilResource}
	}
	if size < 0 {
		size = -1
		if n, ok := s.Size(); ok {
			size = n
		}
	}
	return &UploadedFile{
		stream:    s,
		size:      size,
		uploadErr: uploadErr,
		name:      clientFilename,
		mediaType: clientMediaType,
	}, nil
}

func validateMethod(method string) error {
	if method == "" || strings.IndexFunc(method, func(r rune) bool { return !httpguts.IsTokenRune(r) }) != -1 {
		return fmt.Errorf("%w: %q", httpfactory.ErrInvalidMethod, method)
	}
	return nil
}
