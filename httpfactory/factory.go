// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package httpfactory

// StreamFactory creates message bodies.
type StreamFactory interface {
	// CreateStream returns a stream holding content.
	CreateStream(content string) (Stream, error)
	// CreateStreamFromResource wraps an already open resource. The resource's
	// current position does not affect the stream's String value.
	CreateStreamFromResource(r Resource) (Stream, error)
	// CreateStreamFromFile opens name with the given os.OpenFile flag.
	CreateStreamFromFile(name string, flag int) (Stream, error)
}

// ServerRequestFactory creates server-side requests.
type ServerRequestFactory interface {
	// CreateServerRequest builds a request from params. A non-empty method
	// overrides params[REQUEST_METHOD]; a non-zero target overrides the URI
	// derived from params[HTTP_HOST] and params[REQUEST_URI]. The result
	// must depend on the arguments only.
	CreateServerRequest(params ServerParams, method string, target Target) (ServerRequest, error)
}

// URIFactory creates URI values.
type URIFactory interface {
	CreateURI(raw string) (URI, error)
}

// RequestFactory creates client requests.
type RequestFactory interface {
	CreateRequest(method string, target Target) (Request, error)
}

// ResponseFactory creates responses. An empty reason selects the standard
// phrase for code.
type ResponseFactory interface {
	CreateResponse(code int, reason string) (Response, error)
}

// UploadedFileFactory creates uploaded file descriptors. A negative size
// means the size should be taken from the stream.
type UploadedFileFactory interface {
	CreateUploadedFile(s Stream, size int64, uploadErr UploadError, clientFilename, clientMediaType string) (UploadedFile, error)
}

// Target is a URI argument given either as a raw string or as a [URI] value.
// The zero Target means no URI was supplied.
type Target struct {
	raw   string
	uri   URI
	isSet bool
}

// URIString returns a Target for a raw URI string.
func URIString(raw string) Target {
	return Target{raw: raw, isSet: true}
}

// URIValue returns a Target for an existing URI value. A nil URI yields the
// zero Target.
func URIValue(u URI) Target {
	if u == nil {
		return Target{}
	}
	return Target{uri: u, isSet: true}
}

// IsZero reports whether no URI was supplied.
func (t Target) IsZero() bool {
	return !t.isSet
}

// URI returns the URI value when the target was built with [URIValue].
func (t Target) URI() (URI, bool) {
	return t.uri, t.uri != nil
}

// String returns the raw string or the composed URI.
func (t Target) String() string {
	if t.uri != nil {
		return t.uri.String()
	}
	return t.raw
}

// Resolve returns the target as a URI, parsing raw strings with f.
func (t Target) Resolve(f URIFactory) (URI, error) {
	if t.uri != nil {
		return t.uri, nil
	}
	if !t.isSet {
		return nil, &FactoryError{Op: "resolve target", Err: ErrInvalidURI}
	}
	return f.CreateURI(t.raw)
}
