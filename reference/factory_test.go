package reference

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/Query-farm/httpfactory/conformance"
	"github.com/Query-farm/httpfactory/httpfactory"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"
	"pgregory.net/rapid"
)

func TestConformance(t *testing.T) {
	f := NewFactory()
	conformance.TestStreamFactory(t, f)
	conformance.TestServerRequestFactory(t, f, f)
	conformance.TestURIFactory(t, f)
	conformance.TestRequestFactory(t, f, f)
	conformance.TestResponseFactory(t, f)
	conformance.TestUploadedFileFactory(t, f, f)
}

type FactoryTestSuite struct {
	suite.Suite

	fs      afero.Fs
	factory *Factory
}

func TestFactoryTestSuite(t *testing.T) {
	suite.Run(t, new(FactoryTestSuite))
}

func (s *FactoryTestSuite) SetupTest() {
	s.fs = afero.NewMemMapFs()
	s.factory = NewFactoryWithFs(s.fs)
}

func (s *FactoryTestSuite) Test_CreateStream_Is_Writable() {
	stream, err := s.factory.CreateStream("crumpets")
	s.Require().NoError(err)

	_, err = stream.Seek(0, io.SeekEnd)
	s.Require().NoError(err)
	_, err = io.WriteString(stream, " and tea")
	s.Require().NoError(err)

	s.Equal("crumpets and tea", stream.String())
	size, ok := stream.Size()
	s.True(ok)
	s.EqualValues(len("crumpets and tea"), size)
}

func (s *FactoryTestSuite) Test_CreateStreamFromFile_ReadOnly_Rejects_Writes() {
	s.Require().NoError(afero.WriteFile(s.fs, "/data.txt", []byte("content"), 0o644))

	stream, err := s.factory.CreateStreamFromFile("/data.txt", os.O_RDONLY)
	s.Require().NoError(err)
	defer stream.Close()

	s.Equal("content", stream.String())
	_, err = stream.Write([]byte("x"))
	s.ErrorIs(err, httpfactory.ErrNotWritable)
	s.ErrorIs(err, httpfactory.ErrFactory)
}

func (s *FactoryTestSuite) Test_CreateStreamFromFile_Missing() {
	_, err := s.factory.CreateStreamFromFile("/missing.txt", os.O_RDONLY)
	s.Require().Error(err)

	var ferr *httpfactory.FactoryError
	s.Require().True(errors.As(err, &ferr))
	s.Equal("create stream from file", ferr.Op)
}

func (s *FactoryTestSuite) Test_Closed_Stream() {
	stream, err := s.factory.CreateStream("crumpets")
	s.Require().NoError(err)
	s.Require().NoError(stream.Close())
	s.Require().NoError(stream.Close())

	s.Empty(stream.String())
	_, err = stream.Read(make([]byte, 1))
	s.ErrorIs(err, httpfactory.ErrClosed)
	_, ok := stream.Size()
	s.False(ok)
}

func (s *FactoryTestSuite) Test_CreateStreamFromResource_Nil() {
	_, err := s.factory.CreateStreamFromResource(nil)
	s.ErrorIs(err, httpfactory.ErrNilResource)
}

func (s *FactoryTestSuite) Test_CreateStreamFromResource_ReadOnly_File() {
	name := filepath.Join(s.T().TempDir(), "data.txt")
	s.Require().NoError(os.WriteFile(name, []byte("content"), 0o644))

	file, err := os.Open(name)
	s.Require().NoError(err)
	stream, err := s.factory.CreateStreamFromResource(file)
	s.Require().NoError(err)
	defer stream.Close()

	_, err = stream.Write([]byte("x"))
	s.ErrorIs(err, httpfactory.ErrNotWritable)
	s.ErrorIs(err, httpfactory.ErrFactory)
	s.Equal("content", stream.String())
}

func (s *FactoryTestSuite) Test_CreateServerRequest_Defaults() {
	req, err := s.factory.CreateServerRequest(nil, "", httpfactory.Target{})
	s.Require().NoError(err)

	s.Equal(http.MethodGet, req.Method())
	s.Empty(req.URI().String())
	s.Equal(httpfactory.DefaultProtocolVersion, req.ProtocolVersion())
	s.NotNil(req.ServerParams())
	s.Empty(req.ServerParams())
}

func (s *FactoryTestSuite) Test_CreateServerRequest_Derives_HTTPS_And_Server_Name() {
	req, err := s.factory.CreateServerRequest(httpfactory.ServerParams{
		httpfactory.ParamHTTPS:          "on",
		httpfactory.ParamServerName:     "example.org",
		httpfactory.ParamServerPort:     "8443",
		httpfactory.ParamRequestURI:     "/path",
		httpfactory.ParamQueryString:    "a=b",
		httpfactory.ParamServerProtocol: "HTTP/1.0",
	}, "", httpfactory.Target{})
	s.Require().NoError(err)

	s.Equal("https://example.org:8443/path?a=b", req.URI().String())
	s.Equal(8443, req.URI().Port())
	s.Equal("1.0", req.ProtocolVersion())
}

func (s *FactoryTestSuite) Test_CreateServerRequest_Omits_Default_Port() {
	req, err := s.factory.CreateServerRequest(httpfactory.ServerParams{
		httpfactory.ParamHTTPS:      "off",
		httpfactory.ParamServerName: "example.org",
		httpfactory.ParamServerPort: "80",
	}, "", httpfactory.Target{})
	s.Require().NoError(err)

	s.Equal("http://example.org/", req.URI().String())
}

func (s *FactoryTestSuite) Test_CreateServerRequest_Keeps_Empty_Query() {
	req, err := s.factory.CreateServerRequest(httpfactory.ServerParams{
		httpfactory.ParamHost:       "example.org",
		httpfactory.ParamRequestURI: "/test?",
	}, "", httpfactory.Target{})
	s.Require().NoError(err)
	s.Equal("http://example.org/test?", req.URI().String())
	s.Empty(req.URI().Query())

	// An explicit empty query is not filled from QUERY_STRING.
	req, err = s.factory.CreateServerRequest(httpfactory.ServerParams{
		httpfactory.ParamHost:        "example.org",
		httpfactory.ParamRequestURI:  "/test?",
		httpfactory.ParamQueryString: "foo=bar",
	}, "", httpfactory.Target{})
	s.Require().NoError(err)
	s.Equal("http://example.org/test?", req.URI().String())
}

func (s *FactoryTestSuite) Test_CreateServerRequest_Does_Not_Parse_Params() {
	req, err := s.factory.CreateServerRequest(httpfactory.ServerParams{
		httpfactory.ParamQueryString: "foo=bar",
		httpfactory.ParamCookie:      "session=abc",
		httpfactory.ParamContentType: "application/x-www-form-urlencoded",
	}, "POST", httpfactory.Target{})
	s.Require().NoError(err)

	s.Empty(req.QueryParams())
	s.Empty(req.CookieParams())
	s.Nil(req.ParsedBody())
	s.Equal("foo=bar", req.ServerParams()[httpfactory.ParamQueryString])
}

func (s *FactoryTestSuite) Test_CreateServerRequest_Copies_Params() {
	params := httpfactory.ServerParams{httpfactory.ParamHost: "example.org"}
	req, err := s.factory.CreateServerRequest(params, "", httpfactory.Target{})
	s.Require().NoError(err)

	params[httpfactory.ParamHost] = "changed.example"
	s.Equal("example.org", req.ServerParams()[httpfactory.ParamHost])

	got := req.ServerParams()
	got["HTTP_X_FOO"] = "bar"
	s.NotContains(req.ServerParams(), "HTTP_X_FOO")
}

func (s *FactoryTestSuite) Test_CreateServerRequest_Invalid_Input() {
	_, err := s.factory.CreateServerRequest(nil, "BAD METHOD", httpfactory.Target{})
	s.ErrorIs(err, httpfactory.ErrInvalidMethod)

	_, err = s.factory.CreateServerRequest(httpfactory.ServerParams{
		httpfactory.ParamHost:       "example.org",
		httpfactory.ParamRequestURI: "not a path",
	}, "", httpfactory.Target{})
	s.ErrorIs(err, httpfactory.ErrInvalidURI)

	_, err = s.factory.CreateServerRequest(nil, "", httpfactory.URIString("http://[::1"))
	s.ErrorIs(err, httpfactory.ErrInvalidURI)
}

func (s *FactoryTestSuite) Test_CreateRequest_Requires_Target() {
	_, err := s.factory.CreateRequest(http.MethodGet, httpfactory.Target{})
	s.ErrorIs(err, httpfactory.ErrInvalidURI)
}

func (s *FactoryTestSuite) Test_CreateResponse_Rejects_Invalid_Codes() {
	for _, code := range []int{0, 99, 600} {
		_, err := s.factory.CreateResponse(code, "")
		s.ErrorIs(err, httpfactory.ErrInvalidStatus, "code %d", code)
	}
}

func (s *FactoryTestSuite) Test_UploadedFile_Size_From_Stream() {
	stream, err := s.factory.CreateStream("12345")
	s.Require().NoError(err)

	file, err := s.factory.CreateUploadedFile(stream, -7, httpfactory.UploadOK, "a.txt", "text/plain")
	s.Require().NoError(err)
	s.EqualValues(5, file.Size())

	_, err = s.factory.CreateUploadedFile(nil, 0, httpfactory.UploadOK, "", "")
	s.ErrorIs(err, httpfactory.ErrNilResource)
}

func TestCreateStreamRoundTrip(t *testing.T) {
	f := NewFactory()
	rapid.Check(t, func(rt *rapid.T) {
		content := rapid.String().Draw(rt, "content")

		stream, err := f.CreateStream(content)
		if err != nil {
			rt.Fatalf("CreateStream: %v", err)
		}
		if got := stream.String(); got != content {
			rt.Fatalf("String() = %q, want %q", got, content)
		}
		if got := stream.String(); got != content {
			rt.Fatalf("second String() = %q, want %q", got, content)
		}
	})
}

func TestServerRequestDerivation(t *testing.T) {
	f := NewFactory()
	hostGen := rapid.StringMatching(`[a-z][a-z0-9]{0,10}(\.[a-z]{2,5}){1,2}`)
	pathGen := rapid.StringMatching(`(/[a-z0-9]{1,8}){1,3}(\?([a-z]{1,4}=[a-z0-9]{1,4})?)?`)
	methodGen := rapid.SampledFrom([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"})

	rapid.Check(t, func(rt *rapid.T) {
		method := methodGen.Draw(rt, "method")
		host := hostGen.Draw(rt, "host")
		path := pathGen.Draw(rt, "path")
		override := rapid.Bool().Draw(rt, "override")

		params := httpfactory.ServerParams{
			httpfactory.ParamRequestMethod: method,
			httpfactory.ParamHost:          host,
			httpfactory.ParamRequestURI:    path,
		}
		want := method
		explicit := ""
		if override {
			explicit, want = "OPTIONS", "OPTIONS"
		}

		req, err := f.CreateServerRequest(params, explicit, httpfactory.Target{})
		if err != nil {
			rt.Fatalf("CreateServerRequest: %v", err)
		}
		if req.Method() != want {
			rt.Fatalf("Method() = %q, want %q", req.Method(), want)
		}
		if got, wantURI := req.URI().String(), "http://"+host+path; got != wantURI {
			rt.Fatalf("URI() = %q, want %q", got, wantURI)
		}
	})
}
