// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package conformance

import (
	"net/http"
	"strconv"

	"github.com/Query-farm/httpfactory/httpfactory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uriComponents is one URI data set with its expected accessors.
type uriComponents struct {
	raw      string
	scheme   string
	host     string
	port     int
	path     string
	query    string
	fragment string
}

func dataURIs() []uriComponents {
	return []uriComponents{
		{raw: "http://example.org/test?foo=1&bar=true", scheme: "http", host: "example.org", path: "/test", query: "foo=1&bar=true"},
		{raw: overrideURI, scheme: "https", host: "example.com", path: "/foobar", query: "bar=2&foo=false"},
		{raw: "https://example.com:8443/a%20b#frag", scheme: "https", host: "example.com", port: 8443, path: "/a%20b", fragment: "frag"},
		{raw: "/relative/path", path: "/relative/path"},
	}
}

// URIFactorySuite checks that URIs round-trip and expose their components.
func URIFactorySuite(f httpfactory.URIFactory) Suite {
	var cases []Case
	for i, data := range dataURIs() {
		cases = append(cases, Case{
			Name: "CreateURI_" + strconv.Itoa(i),
			Run: func(t T) {
				u, err := f.CreateURI(data.raw)
				require.NoError(t, err)
				require.NotNil(t, u, "factory returned a nil URI")

				assert.Equal(t, data.raw, u.String(), "string form")
				assert.Equal(t, data.scheme, u.Scheme(), "scheme of %s", data.raw)
				assert.Equal(t, data.host, u.Host(), "host of %s", data.raw)
				assert.Equal(t, data.port, u.Port(), "port of %s", data.raw)
				assert.Equal(t, data.path, u.Path(), "path of %s", data.raw)
				assert.Equal(t, data.query, u.Query(), "query of %s", data.raw)
				assert.Equal(t, data.fragment, u.Fragment(), "fragment of %s", data.raw)
			},
		})
	}
	return Suite{Name: SuiteURI, Cases: cases}
}

// RequestFactorySuite checks that client requests keep their method and
// target for both string and URI value targets.
func RequestFactorySuite(f httpfactory.RequestFactory, uf httpfactory.URIFactory) Suite {
	var cases []Case
	for _, method := range dataMethods() {
		cases = append(cases,
			Case{Name: "CreateRequest_" + method, Run: func(t T) {
				req, err := f.CreateRequest(method, httpfactory.URIString(isolationURI))
				assertRequest(t, req, err, method, isolationURI)
			}},
			Case{Name: "CreateRequestWithURIObject_" + method, Run: func(t T) {
				u, err := uf.CreateURI(isolationURI)
				require.NoError(t, err, "creating URI value")
				req, err := f.CreateRequest(method, httpfactory.URIValue(u))
				assertRequest(t, req, err, method, isolationURI)
			}},
		)
	}
	return Suite{Name: SuiteRequest, Cases: cases}
}

func assertRequest(t T, req httpfactory.Request, err error, method, uri string) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, req, "factory returned a nil request")
	assert.Equal(t, method, req.Method(), "method")
	require.NotNil(t, req.URI(), "uri")
	assert.Equal(t, uri, req.URI().String(), "uri")
	require.NotNil(t, req.Body(), "body")
	assert.Empty(t, req.Body().String(), "body of a new request")
}

// ResponseFactorySuite checks status codes and reason phrases.
func ResponseFactorySuite(f httpfactory.ResponseFactory) Suite {
	codes := []int{
		http.StatusOK,
		http.StatusNoContent,
		http.StatusMovedPermanently,
		http.StatusNotFound,
		http.StatusTeapot,
		http.StatusInternalServerError,
	}
	var cases []Case
	for _, code := range codes {
		cases = append(cases, Case{
			Name: "CreateResponse_" + strconv.Itoa(code),
			Run: func(t T) {
				resp, err := f.CreateResponse(code, "")
				assertResponse(t, resp, err, code, http.StatusText(code))
			},
		})
	}
	cases = append(cases, Case{
		Name: "CreateResponseWithReasonPhrase",
		Run: func(t T) {
			resp, err := f.CreateResponse(http.StatusOK, "Everything Is Fine")
			assertResponse(t, resp, err, http.StatusOK, "Everything Is Fine")
		},
	})
	return Suite{Name: SuiteResponse, Cases: cases}
}

func assertResponse(t T, resp httpfactory.Response, err error, code int, reason string) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, resp, "factory returned a nil response")
	assert.Equal(t, code, resp.StatusCode(), "status code")
	assert.Equal(t, reason, resp.ReasonPhrase(), "reason phrase")
	require.NotNil(t, resp.Body(), "body")
	assert.Empty(t, resp.Body().String(), "body of a new response")
}

// UploadedFileFactorySuite checks that uploaded file descriptors keep what
// they were created with.
func UploadedFileFactorySuite(f httpfactory.UploadedFileFactory, sf httpfactory.StreamFactory) Suite {
	return Suite{
		Name: SuiteUploadedFile,
		Cases: []Case{
			{Name: "CreateUploadedFile", Run: func(t T) {
				stream, err := sf.CreateStream(crumpets)
				require.NoError(t, err, "creating stream")

				file, err := f.CreateUploadedFile(stream, int64(len(crumpets)), httpfactory.UploadOK, "crumpets.txt", "text/plain")
				require.NoError(t, err)
				require.NotNil(t, file, "factory returned a nil uploaded file")

				assert.EqualValues(t, len(crumpets), file.Size(), "size")
				assert.Equal(t, httpfactory.UploadOK, file.Error(), "upload error")
				assert.Equal(t, "crumpets.txt", file.ClientFilename(), "client filename")
				assert.Equal(t, "text/plain", file.ClientMediaType(), "client media type")
				got, err := file.Stream()
				require.NoError(t, err, "stream of a completed upload")
				assertStream(t, got, nil, crumpets)
			}},
			{Name: "CreateUploadedFileWithUnknownSize", Run: func(t T) {
				stream, err := sf.CreateStream(crumpets)
				require.NoError(t, err, "creating stream")

				file, err := f.CreateUploadedFile(stream, -1, httpfactory.UploadOK, "", "")
				require.NoError(t, err)
				require.NotNil(t, file, "factory returned a nil uploaded file")

				if size, ok := stream.Size(); ok {
					assert.Equal(t, size, file.Size(), "size taken from the stream")
				}
			}},
			{Name: "CreateUploadedFileWithError", Run: func(t T) {
				stream, err := sf.CreateStream("")
				require.NoError(t, err, "creating stream")

				file, err := f.CreateUploadedFile(stream, 0, httpfactory.UploadErrPartial, "partial.bin", "application/octet-stream")
				require.NoError(t, err)
				require.NotNil(t, file, "factory returned a nil uploaded file")

				assert.Equal(t, httpfactory.UploadErrPartial, file.Error(), "upload error")
				_, err = file.Stream()
				assert.Error(t, err, "stream of a failed upload")
			}},
		},
	}
}
