// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package conformance

import (
	"net/url"

	"github.com/Query-farm/httpfactory/httpfactory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ServerRequestFactorySuite checks method and URI precedence for every
// server parameter map from the data provider, and that ambient process
// state never reaches a constructed request. uf builds the URI values passed
// as explicit targets.
func ServerRequestFactorySuite(f httpfactory.ServerRequestFactory, uf httpfactory.URIFactory) Suite {
	var cases []Case
	for _, server := range dataServer() {
		suffix := "_" + server[httpfactory.ParamRequestMethod]
		cases = append(cases,
			Case{Name: "CreateServerRequest" + suffix, Run: func(t T) { createServerRequest(t, f, server) }},
			Case{Name: "CreateServerRequestWithOverriddenMethod" + suffix, Run: func(t T) { createServerRequestWithOverriddenMethod(t, f, server) }},
			Case{Name: "CreateServerRequestWithOverriddenURI" + suffix, Run: func(t T) { createServerRequestWithOverriddenURI(t, f, server) }},
			Case{Name: "CreateServerRequestWithURIObject" + suffix, Run: func(t T) { createServerRequestWithURIObject(t, f, uf, server) }},
		)
	}
	cases = append(cases,
		Case{Name: "DoesNotReadServerEnvironment", Run: func(t T) { doesNotReadServerEnvironment(t, f) }},
		Case{Name: "DoesNotReadCookieEnvironment", Run: func(t T) { doesNotReadCookieEnvironment(t, f) }},
		Case{Name: "DoesNotReadQueryEnvironment", Run: func(t T) { doesNotReadQueryEnvironment(t, f) }},
		Case{Name: "DoesNotReadUploadedFiles", Run: func(t T) { doesNotReadUploadedFiles(t, f) }},
		Case{Name: "DoesNotReadPostBody", Run: func(t T) { doesNotReadPostBody(t, f) }},
		Case{Name: "ExplicitParamsAreImmutable", Run: func(t T) { explicitParamsAreImmutable(t, f) }},
	)
	return Suite{Name: SuiteServerRequest, Cases: cases}
}

func createServerRequest(t T, f httpfactory.ServerRequestFactory, server httpfactory.ServerParams) {
	method := server[httpfactory.ParamRequestMethod]
	uri := derivedURI(server)

	req, err := f.CreateServerRequest(server.Clone(), "", httpfactory.Target{})

	assertServerRequest(t, req, err, method, uri)
}

func createServerRequestWithOverriddenMethod(t T, f httpfactory.ServerRequestFactory, server httpfactory.ServerParams) {
	uri := derivedURI(server)

	req, err := f.CreateServerRequest(server.Clone(), overrideMethod, httpfactory.Target{})

	assertServerRequest(t, req, err, overrideMethod, uri)
}

func createServerRequestWithOverriddenURI(t T, f httpfactory.ServerRequestFactory, server httpfactory.ServerParams) {
	method := server[httpfactory.ParamRequestMethod]

	req, err := f.CreateServerRequest(server.Clone(), "", httpfactory.URIString(overrideURI))

	assertServerRequest(t, req, err, method, overrideURI)
}

func createServerRequestWithURIObject(t T, f httpfactory.ServerRequestFactory, uf httpfactory.URIFactory, server httpfactory.ServerParams) {
	method := server[httpfactory.ParamRequestMethod]
	uri := derivedURI(server)
	u, err := uf.CreateURI(uri)
	require.NoError(t, err, "creating URI value")

	req, err := f.CreateServerRequest(httpfactory.ServerParams{}, method, httpfactory.URIValue(u))

	assertServerRequest(t, req, err, method, uri)
}

// isolatedRequest installs a and builds a request from explicit arguments
// only.
func isolatedRequest(t T, f httpfactory.ServerRequestFactory, a Ambient, params httpfactory.ServerParams) httpfactory.ServerRequest {
	t.Helper()
	a.Install(t)

	req, err := f.CreateServerRequest(params, "POST", httpfactory.URIString(isolationURI))
	require.NoError(t, err)
	require.NotNil(t, req, "factory returned a nil server request")
	return req
}

func doesNotReadServerEnvironment(t T, f httpfactory.ServerRequestFactory) {
	a := ambientServer()
	req := isolatedRequest(t, f, a, httpfactory.ServerParams{})

	serverParams := map[string]string(req.ServerParams())

	assert.NotEqual(t, a.Env, serverParams, "server params of %s", httpfactory.Describe(req))
	assert.NotContains(t, serverParams, "HTTP_X_FOO", "server params of %s", httpfactory.Describe(req))
}

func doesNotReadCookieEnvironment(t T, f httpfactory.ServerRequestFactory) {
	req := isolatedRequest(t, f, ambientCookie(), httpfactory.ServerParams{})

	assert.Empty(t, req.CookieParams(), "cookie params of %s", httpfactory.Describe(req))
}

func doesNotReadQueryEnvironment(t T, f httpfactory.ServerRequestFactory) {
	req := isolatedRequest(t, f, ambientQuery(), httpfactory.ServerParams{})

	assert.Empty(t, req.QueryParams(), "query params of %s", httpfactory.Describe(req))
}

func doesNotReadUploadedFiles(t T, f httpfactory.ServerRequestFactory) {
	a, err := ambientFiles()
	require.NoError(t, err, "building multipart body")
	req := isolatedRequest(t, f, a, httpfactory.ServerParams{})

	assert.Empty(t, req.UploadedFiles(), "uploaded files of %s", httpfactory.Describe(req))
}

func doesNotReadPostBody(t T, f httpfactory.ServerRequestFactory) {
	req := isolatedRequest(t, f, ambientPost(), httpfactory.ServerParams{
		httpfactory.ParamContentType: "application/x-www-form-urlencoded",
	})

	assert.Empty(t, req.ParsedBody(), "parsed body of %s", httpfactory.Describe(req))
	require.NotNil(t, req.Body(), "body of %s", httpfactory.Describe(req))
	assert.Empty(t, req.Body().String(), "body of %s", httpfactory.Describe(req))
}

// explicitParamsAreImmutable checks that collections supplied through the
// With methods are the only source of request data.
func explicitParamsAreImmutable(t T, f httpfactory.ServerRequestFactory) {
	orig, err := f.CreateServerRequest(httpfactory.ServerParams{}, "POST", httpfactory.URIString(isolationURI))
	require.NoError(t, err)
	require.NotNil(t, orig, "factory returned a nil server request")

	cookies := map[string]string{"session": "abc"}
	query := url.Values{"foo": {"bar"}}
	body := url.Values{"baz": {"qux"}}

	derived := orig.
		WithCookieParams(cookies).
		WithQueryParams(query).
		WithParsedBody(body).
		WithAttribute("route", "test")

	assert.Equal(t, cookies, derived.CookieParams(), "cookie params of %s", httpfactory.Describe(derived))
	assert.Equal(t, query, derived.QueryParams(), "query params of %s", httpfactory.Describe(derived))
	assert.Equal(t, body, derived.ParsedBody(), "parsed body of %s", httpfactory.Describe(derived))
	assert.Equal(t, "test", derived.Attributes()["route"], "attributes of %s", httpfactory.Describe(derived))

	assert.Empty(t, orig.CookieParams(), "original cookie params changed")
	assert.Empty(t, orig.QueryParams(), "original query params changed")
	assert.Empty(t, orig.ParsedBody(), "original parsed body changed")
	assert.Empty(t, orig.Attributes(), "original attributes changed")

	cookies["session"] = "changed"
	assert.Equal(t, "abc", derived.CookieParams()["session"], "request shares the caller's cookie map")
}
