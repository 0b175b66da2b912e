// Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package conformance provides the shared test suites that an
// implementation of the httpfactory contracts runs to prove it behaves
// correctly. Each suite is a list of named cases built from data providers:
// stream contents, server parameter maps for every common method, explicit
// method and URI overrides, and ambient process state that must never leak
// into a constructed request.
//
// Implementers call the Test functions from their own tests, in the manner
// of testing/fstest:
//
//	func TestFactory(t *testing.T) {
//		f := mylib.NewFactory()
//		conformance.TestStreamFactory(t, f)
//		conformance.TestServerRequestFactory(t, f, f)
//	}
//
// Outside of go test, a [Runner] executes the same suites and collects a
// [report.Report]; the httpfactory-conformance command is built on it.
//
// Cases that check isolation install ambient state (environment variables
// and a replacement os.Stdin) for their duration, so suites must not run in
// parallel with each other.
package conformance
