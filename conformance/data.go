package conformance

import (
	"net/http"

	"github.com/Query-farm/httpfactory/httpfactory"
)

// Fixture values shared by the suites.
const (
	crumpets = "would you like some crumpets?"

	serverRequestURI  = "/test?foo=1&bar=true"
	serverQueryString = "foo=1&bar=true"
	serverHost        = "example.org"

	overrideMethod = http.MethodOptions
	overrideURI    = "https://example.com/foobar?bar=2&foo=false"
	isolationURI   = "http://example.org/test"
)

// dataMethods lists the request methods every server request case runs with.
func dataMethods() []string {
	return []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodDelete,
		http.MethodOptions,
		http.MethodHead,
	}
}

// dataServer returns one server parameter map per method.
func dataServer() []httpfactory.ServerParams {
	var data []httpfactory.ServerParams
	for _, method := range dataMethods() {
		data = append(data, httpfactory.ServerParams{
			httpfactory.ParamRequestMethod: method,
			httpfactory.ParamRequestURI:    serverRequestURI,
			httpfactory.ParamQueryString:   serverQueryString,
			httpfactory.ParamHost:          serverHost,
		})
	}
	return data
}

// derivedURI is the URI a factory must build from server params.
func derivedURI(server httpfactory.ServerParams) string {
	return "http://" + server[httpfactory.ParamHost] + server[httpfactory.ParamRequestURI]
}
