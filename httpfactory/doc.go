// Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package httpfactory defines the HTTP message factory contracts that
// implementations prove themselves against with the conformance suites in
// package conformance.
//
// The contracts are the Go rendition of the PSR-7 message interfaces and the
// PSR-17 factories that construct them. A factory hides the concrete message
// type behind an interface so that middleware can construct streams,
// requests and responses without depending on a particular implementation.
//
// # Factories
//
// Six factory interfaces are defined:
//
//   - [StreamFactory]: streams from a string, an open [Resource], or a file.
//   - [ServerRequestFactory]: server-side requests from a [ServerParams] map,
//     optionally overriding the method and target URI.
//   - [URIFactory]: URI values from a raw string.
//   - [RequestFactory]: client requests from a method and target.
//   - [ResponseFactory]: responses from a status code and reason phrase.
//   - [UploadedFileFactory]: uploaded file descriptors wrapping a [Stream].
//
// # Targets
//
// Methods that accept a URI take a [Target], which holds either a raw
// string ([URIString]) or a [URI] value ([URIValue]). The zero Target means
// the caller did not supply a URI and the implementation should derive one.
//
// # Isolation
//
// [ServerRequestFactory.CreateServerRequest] must build its result from its
// arguments alone. The process environment and standard input play the role
// of ambient request state for CGI-style programs and must never leak into a
// request constructed through a factory.
package httpfactory
