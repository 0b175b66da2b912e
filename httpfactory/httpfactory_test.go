package httpfactory_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"testing"

	"github.com/Query-farm/httpfactory/httpfactory"
	"github.com/Query-farm/httpfactory/reference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTarget(t *testing.T) {
	f := reference.NewFactory()

	t.Run("zero", func(t *testing.T) {
		var target httpfactory.Target
		assert.True(t, target.IsZero())
		assert.Empty(t, target.String())

		_, err := target.Resolve(f)
		assert.ErrorIs(t, err, httpfactory.ErrInvalidURI)
		assert.ErrorIs(t, err, httpfactory.ErrFactory)
	})

	t.Run("string", func(t *testing.T) {
		target := httpfactory.URIString("https://example.com/foobar?bar=2")
		assert.False(t, target.IsZero())
		_, ok := target.URI()
		assert.False(t, ok)

		u, err := target.Resolve(f)
		require.NoError(t, err)
		assert.Equal(t, "https", u.Scheme())
		assert.Equal(t, "/foobar", u.Path())
		assert.Equal(t, "bar=2", u.Query())
	})

	t.Run("empty string is set", func(t *testing.T) {
		target := httpfactory.URIString("")
		assert.False(t, target.IsZero())

		u, err := target.Resolve(f)
		require.NoError(t, err)
		assert.Empty(t, u.String())
	})

	t.Run("value", func(t *testing.T) {
		u, err := f.CreateURI("http://example.org/test")
		require.NoError(t, err)

		target := httpfactory.URIValue(u)
		got, ok := target.URI()
		require.True(t, ok)
		assert.Same(t, u, got)
		assert.Equal(t, "http://example.org/test", target.String())

		resolved, err := target.Resolve(f)
		require.NoError(t, err)
		assert.Same(t, u, resolved)
	})

	t.Run("nil value", func(t *testing.T) {
		assert.True(t, httpfactory.URIValue(nil).IsZero())
	})
}

func TestFactoryError(t *testing.T) {
	cause := fmt.Errorf("%w: %d", httpfactory.ErrInvalidStatus, 42)
	err := fmt.Errorf("wrapped: %w", &httpfactory.FactoryError{Op: "create response", Err: cause})

	assert.ErrorIs(t, err, httpfactory.ErrFactory)
	assert.ErrorIs(t, err, httpfactory.ErrInvalidStatus)
	assert.NotErrorIs(t, err, httpfactory.ErrInvalidURI)
	assert.EqualError(t, err, "wrapped: httpfactory: create response: invalid status code: 42")

	var ferr *httpfactory.FactoryError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, "create response", ferr.Op)

	assert.EqualError(t, &httpfactory.FactoryError{Op: "resolve"}, "httpfactory: resolve")
	assert.NotErrorIs(t, errors.New("plain"), httpfactory.ErrFactory)
}

func TestUploadErrorString(t *testing.T) {
	assert.Equal(t, "ok", httpfactory.UploadOK.String())
	assert.Equal(t, "missing temporary directory", httpfactory.UploadErrNoTmpDir.String())
	assert.EqualValues(t, 6, httpfactory.UploadErrNoTmpDir)
}

func TestServerParamsClone(t *testing.T) {
	var nilParams httpfactory.ServerParams
	clone := nilParams.Clone()
	require.NotNil(t, clone)
	assert.Empty(t, clone)

	params := httpfactory.ServerParams{httpfactory.ParamHost: "example.org"}
	clone = params.Clone()
	clone[httpfactory.ParamHost] = "other"
	assert.Equal(t, "example.org", params.Get(httpfactory.ParamHost))
	assert.Empty(t, params.Get(httpfactory.ParamCookie))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, httpfactory.RequestSnapshot{}, httpfactory.Describe(nil))

	f := reference.NewFactory()
	req, err := f.CreateServerRequest(httpfactory.ServerParams{
		httpfactory.ParamRequestMethod: "POST",
		httpfactory.ParamHost:          "example.org",
		httpfactory.ParamRequestURI:    "/test?foo=1",
	}, "", httpfactory.Target{})
	require.NoError(t, err)

	stream, err := f.CreateStream("data")
	require.NoError(t, err)
	file, err := f.CreateUploadedFile(stream, -1, httpfactory.UploadOK, "foobar.dat", "application/octet-stream")
	require.NoError(t, err)

	req = req.
		WithQueryParams(url.Values{"foo": {"1"}}).
		WithUploadedFiles(map[string][]httpfactory.UploadedFile{"upload": {file}}).
		WithAttribute("zeta", 1).
		WithAttribute("alpha", 2)

	snap := httpfactory.Describe(req)
	assert.Equal(t, "POST", snap.Method)
	assert.Equal(t, "http://example.org/test?foo=1", snap.URI)
	assert.Equal(t, "1.1", snap.ProtocolVersion)
	assert.Equal(t, []string{"alpha", "zeta"}, snap.Attributes)
	require.Len(t, snap.UploadedFiles["upload"], 1)
	assert.Equal(t, httpfactory.FileSnapshot{
		ClientFilename:  "foobar.dat",
		ClientMediaType: "application/octet-stream",
		Size:            4,
		Error:           "ok",
	}, snap.UploadedFiles["upload"][0])

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(snap.String()), &decoded))
	assert.Equal(t, "POST", decoded["method"])
}
