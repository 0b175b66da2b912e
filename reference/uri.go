// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package reference

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Query-farm/httpfactory/httpfactory"
)

// defaultPorts maps schemes to the port implied when none is given.
var defaultPorts = map[string]int{
	"http":  80,
	"https": 443,
}

// URI is a [httpfactory.URI] backed by net/url.
type URI struct {
	u url.URL
}

var _ httpfactory.URI = (*URI)(nil)

func parseURI(raw string) (*URI, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &httpfactory.FactoryError{
			Op:  "create uri",
			Err: fmt.Errorf("%w: %q: %v", httpfactory.ErrInvalidURI, raw, err),
		}
	}
	return &URI{u: *u}, nil
}

func (u *URI) String() string {
	return u.u.String()
}

func (u *URI) Scheme() string {
	return strings.ToLower(u.u.Scheme)
}

func (u *URI) Host() string {
	return strings.ToLower(u.u.Hostname())
}

// Port returns 0 for a missing port or the scheme's default port.
func (u *URI) Port() int {
	p, err := strconv.Atoi(u.u.Port())
	if err != nil {
		return 0
	}
	if defaultPorts[u.Scheme()] == p {
		return 0
	}
	return p
}

func (u *URI) Path() string {
	return u.u.EscapedPath()
}

func (u *URI) Query() string {
	return u.u.RawQuery
}

func (u *URI) Fragment() string {
	return u.u.EscapedFragment()
}

// deriveURI composes the request URI from CGI server variables. It returns
// nil when params carry nothing to build a URI from.
func deriveURI(params httpfactory.ServerParams) (*URI, error) {
	scheme := "http"
	if https := strings.ToLower(params.Get(httpfactory.ParamHTTPS)); https != "" && https != "off" {
		scheme = "https"
	}

	host := params.Get(httpfactory.ParamHost)
	if host == "" {
		host = params.Get(httpfactory.ParamServerName)
		if port := params.Get(httpfactory.ParamServerPort); host != "" && port != "" {
			if p, err := strconv.Atoi(port); err != nil || defaultPorts[scheme] != p {
				host += ":" + port
			}
		}
	}

	requestURI := params.Get(httpfactory.ParamRequestURI)
	query := params.Get(httpfactory.ParamQueryString)
	if host == "" && requestURI == "" && query == "" {
		return nil, nil
	}

	u := url.URL{Host: host}
	if host != "" {
		u.Scheme = scheme
	}
	if requestURI != "" {
		ref, err := url.ParseRequestURI(requestURI)
		if err != nil {
			return nil, &httpfactory.FactoryError{
				Op:  "derive uri",
				Err: fmt.Errorf("%w: %s=%q: %v", httpfactory.ErrInvalidURI, httpfactory.ParamRequestURI, requestURI, err),
			}
		}
		u.Path, u.RawPath, u.RawQuery = ref.Path, ref.RawPath, ref.RawQuery
		u.ForceQuery = ref.ForceQuery
	}
	if u.RawQuery == "" && !u.ForceQuery {
		u.RawQuery = query
	}
	if u.Path == "" && host != "" {
		u.Path = "/"
	}
	return &URI{u: u}, nil
}
