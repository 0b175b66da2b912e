// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package conformance

import (
	"io"
	"os"
	"path/filepath"

	"github.com/Query-farm/httpfactory/httpfactory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// StreamFactorySuite checks that streams coerce to exactly the bytes they
// were created from.
func StreamFactorySuite(f httpfactory.StreamFactory) Suite {
	return Suite{
		Name: SuiteStream,
		Cases: []Case{
			{Name: "CreateStream", Run: func(t T) { createStreamFromEmptyResource(t, f) }},
			{Name: "CreateStreamWithContent", Run: func(t T) { createStreamWithContent(t, f) }},
			{Name: "CreateStreamFromString", Run: func(t T) { createStreamFromString(t, f) }},
			{Name: "CreateStreamFromEmptyString", Run: func(t T) { createStreamFromEmptyString(t, f) }},
			{Name: "CreateStreamFromFile", Run: func(t T) { createStreamFromFile(t, f) }},
		},
	}
}

// tempResource returns an open temporary file removed at cleanup.
func tempResource(t T) *os.File {
	t.Helper()
	res, err := os.CreateTemp(t.TempDir(), "stream-*")
	require.NoError(t, err, "creating temporary resource")
	t.Cleanup(func() { res.Close() })
	return res
}

func createStreamFromEmptyResource(t T, f httpfactory.StreamFactory) {
	res := tempResource(t)

	stream, err := f.CreateStreamFromResource(res)

	assertStream(t, stream, err, "")
}

// createStreamWithContent leaves the resource positioned after the written
// bytes; the stream must still coerce to all of them.
func createStreamWithContent(t T, f httpfactory.StreamFactory) {
	res := tempResource(t)
	_, err := io.WriteString(res, crumpets)
	require.NoError(t, err, "writing resource")

	stream, err := f.CreateStreamFromResource(res)

	assertStream(t, stream, err, crumpets)
}

func createStreamFromString(t T, f httpfactory.StreamFactory) {
	stream, err := f.CreateStream(crumpets)

	assertStream(t, stream, err, crumpets)
}

func createStreamFromEmptyString(t T, f httpfactory.StreamFactory) {
	stream, err := f.CreateStream("")

	assertStream(t, stream, err, "")
	if size, ok := stream.Size(); ok {
		assert.Zero(t, size, "size of an empty stream")
	}
}

func createStreamFromFile(t T, f httpfactory.StreamFactory) {
	name := filepath.Join(t.TempDir(), "crumpets.txt")
	require.NoError(t, os.WriteFile(name, []byte(crumpets), 0o600), "writing fixture file")

	stream, err := f.CreateStreamFromFile(name, os.O_RDONLY)
	if stream != nil {
		t.Cleanup(func() { stream.Close() })
	}

	assertStream(t, stream, err, crumpets)
	if size, ok := stream.Size(); ok {
		assert.EqualValues(t, len(crumpets), size, "size of a file stream")
	}
}
