package conformance

import (
	"github.com/Query-farm/httpfactory/httpfactory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertStream(t T, s httpfactory.Stream, err error, content string) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, s, "factory returned a nil stream")
	assert.Equal(t, content, s.String(), "stream contents")
}

func assertServerRequest(t T, req httpfactory.ServerRequest, err error, method, uri string) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, req, "factory returned a nil server request")
	assert.Equal(t, method, req.Method(), "method of %s", httpfactory.Describe(req))
	require.NotNil(t, req.URI(), "uri of %s", httpfactory.Describe(req))
	assert.Equal(t, uri, req.URI().String(), "uri of %s", httpfactory.Describe(req))
}
