// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package conformance

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"strconv"

	"github.com/stretchr/testify/require"
)

// Ambient is process-wide request state of the kind a CGI program reads:
// meta-variables in the environment and the request body on standard input.
type Ambient struct {
	Env   map[string]string
	Stdin []byte
}

// Install sets a's environment variables and replaces os.Stdin with a file
// holding a.Stdin. Everything is restored when t cleans up.
func (a Ambient) Install(t T) {
	t.Helper()
	for k, v := range a.Env {
		t.Setenv(k, v)
	}
	if a.Stdin == nil {
		return
	}

	f, err := os.CreateTemp(t.TempDir(), "stdin-*")
	require.NoError(t, err, "creating ambient stdin")
	_, err = f.Write(a.Stdin)
	require.NoError(t, err, "writing ambient stdin")
	_, err = f.Seek(0, io.SeekStart)
	require.NoError(t, err, "rewinding ambient stdin")

	orig := os.Stdin
	os.Stdin = f
	t.Cleanup(func() {
		os.Stdin = orig
		f.Close()
	})
}

// ambientServer sets a single extra server variable.
func ambientServer() Ambient {
	return Ambient{Env: map[string]string{"HTTP_X_FOO": "bar"}}
}

func ambientCookie() Ambient {
	return Ambient{Env: map[string]string{"HTTP_COOKIE": "foo=bar"}}
}

func ambientQuery() Ambient {
	return Ambient{Env: map[string]string{
		"QUERY_STRING": "foo=bar",
		"REQUEST_URI":  "/?foo=bar",
	}}
}

func ambientPost() Ambient {
	body := []byte("foo=bar")
	return Ambient{
		Env: map[string]string{
			"REQUEST_METHOD": "POST",
			"CONTENT_TYPE":   "application/x-www-form-urlencoded",
			"CONTENT_LENGTH": strconv.Itoa(len(body)),
		},
		Stdin: body,
	}
}

// ambientFiles posts foobar.dat as a multipart upload.
func ambientFiles() (Ambient, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="upload"; filename="foobar.dat"`)
	h.Set("Content-Type", "application/octet-stream")
	part, err := w.CreatePart(h)
	if err != nil {
		return Ambient{}, err
	}
	if _, err := io.WriteString(part, "data"); err != nil {
		return Ambient{}, err
	}
	if err := w.Close(); err != nil {
		return Ambient{}, err
	}
	return Ambient{
		Env: map[string]string{
			"REQUEST_METHOD": "POST",
			"CONTENT_TYPE":   w.FormDataContentType(),
			"CONTENT_LENGTH": strconv.Itoa(body.Len()),
		},
		Stdin: body.Bytes(),
	}, nil
}
