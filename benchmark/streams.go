// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package benchmark

import (
	"io"
	"strconv"
	"testing"

	"github.com/Query-farm/httpfactory/httpfactory"
)

// StreamFactory benchmarks CreateStream followed by a full read, per payload.
func StreamFactory(b *testing.B, f httpfactory.StreamFactory) {
	for _, p := range Payloads {
		b.Run("CreateStream/"+p.Name, func(b *testing.B) {
			b.SetBytes(int64(len(p.Content)))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				s, err := f.CreateStream(p.Content)
				if err != nil {
					b.Fatal(err)
				}
				if _, err := io.Copy(io.Discard, s); err != nil {
					b.Fatal(err)
				}
				s.Close()
			}
		})
	}
}

// ServerRequestFactory benchmarks CreateServerRequest with derived and
// explicit targets, per environment.
func ServerRequestFactory(b *testing.B, f httpfactory.ServerRequestFactory) {
	for _, env := range Environments {
		b.Run("Derived/"+env.Name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := f.CreateServerRequest(env.Params, "", httpfactory.Target{}); err != nil {
					b.Fatal(err)
				}
			}
		})
		b.Run("Explicit/"+env.Name, func(b *testing.B) {
			target := httpfactory.URIString("https://example.com/foobar?bar=2&foo=false")
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := f.CreateServerRequest(env.Params, "OPTIONS", target); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// URIFactory benchmarks CreateURI, per fixture URI.
func URIFactory(b *testing.B, f httpfactory.URIFactory) {
	for i, raw := range URIs {
		b.Run("CreateURI/"+strconv.Itoa(i), func(b *testing.B) {
			b.ReportAllocs()
			for n := 0; n < b.N; n++ {
				if _, err := f.CreateURI(raw); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
