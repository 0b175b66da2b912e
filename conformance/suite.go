// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package conformance

import (
	"testing"

	"github.com/Query-farm/httpfactory/httpfactory"
)

// T is the part of *testing.T the cases use. *testing.T satisfies it, as
// does the recorder used by [Runner].
type T interface {
	Helper()
	Name() string
	Errorf(format string, args ...any)
	FailNow()
	Failed() bool
	Logf(format string, args ...any)
	Setenv(key, value string)
	Cleanup(f func())
	TempDir() string
}

// Case is one named check.
type Case struct {
	Name string
	Run  func(t T)
}

// Suite is a named list of cases.
type Suite struct {
	Name  string
	Cases []Case
}

// Suite names.
const (
	SuiteStream        = "StreamFactory"
	SuiteServerRequest = "ServerRequestFactory"
	SuiteURI           = "URIFactory"
	SuiteRequest       = "RequestFactory"
	SuiteResponse      = "ResponseFactory"
	SuiteUploadedFile  = "UploadedFileFactory"
)

// RunSuite runs every case of s as a subtest of t.
func RunSuite(t *testing.T, s Suite) {
	t.Helper()
	t.Run(s.Name, func(t *testing.T) {
		for _, c := range s.Cases {
			t.Run(c.Name, func(t *testing.T) {
				c.Run(t)
			})
		}
	})
}

// TestStreamFactory checks f against the stream contract.
func TestStreamFactory(t *testing.T, f httpfactory.StreamFactory) {
	t.Helper()
	RunSuite(t, StreamFactorySuite(f))
}

// TestServerRequestFactory checks f against the server request contract. uf
// builds the URI values passed as explicit targets.
func TestServerRequestFactory(t *testing.T, f httpfactory.ServerRequestFactory, uf httpfactory.URIFactory) {
	t.Helper()
	RunSuite(t, ServerRequestFactorySuite(f, uf))
}

// TestURIFactory checks f against the URI contract.
func TestURIFactory(t *testing.T, f httpfactory.URIFactory) {
	t.Helper()
	RunSuite(t, URIFactorySuite(f))
}

// TestRequestFactory checks f against the client request contract.
func TestRequestFactory(t *testing.T, f httpfactory.RequestFactory, uf httpfactory.URIFactory) {
	t.Helper()
	RunSuite(t, RequestFactorySuite(f, uf))
}

// TestResponseFactory checks f against the response contract.
func TestResponseFactory(t *testing.T, f httpfactory.ResponseFactory) {
	t.Helper()
	RunSuite(t, ResponseFactorySuite(f))
}

// TestUploadedFileFactory checks f against the uploaded file contract. sf
// supplies the streams being uploaded.
func TestUploadedFileFactory(t *testing.T, f httpfactory.UploadedFileFactory, sf httpfactory.StreamFactory) {
	t.Helper()
	RunSuite(t, UploadedFileFactorySuite(f, sf))
}

// Factory is an implementation of every factory contract.
type Factory interface {
	httpfactory.StreamFactory
	httpfactory.ServerRequestFactory
	httpfactory.URIFactory
	httpfactory.RequestFactory
	httpfactory.ResponseFactory
	httpfactory.UploadedFileFactory
}

// AllSuites returns every suite for an implementation of all contracts.
func AllSuites(f Factory) []Suite {
	return []Suite{
		StreamFactorySuite(f),
		ServerRequestFactorySuite(f, f),
		URIFactorySuite(f),
		RequestFactorySuite(f, f),
		ResponseFactorySuite(f),
		UploadedFileFactorySuite(f, f),
	}
}
