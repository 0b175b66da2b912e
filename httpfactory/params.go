package httpfactory

import "maps"

// Well-known CGI meta-variable names used as ServerParams keys.
const (
	ParamRequestMethod  = "REQUEST_METHOD"
	ParamRequestURI     = "REQUEST_URI"
	ParamQueryString    = "QUERY_STRING"
	ParamHost           = "HTTP_HOST"
	ParamHTTPS          = "HTTPS"
	ParamServerName     = "SERVER_NAME"
	ParamServerPort     = "SERVER_PORT"
	ParamServerProtocol = "SERVER_PROTOCOL"
	ParamContentType    = "CONTENT_TYPE"
	ParamCookie         = "HTTP_COOKIE"

	DefaultProtocolVersion = "1.1"
)

// ServerParams holds CGI-style server variables keyed by meta-variable name.
type ServerParams map[string]string

// Clone returns a copy of p. Cloning a nil map yields an empty map.
func (p ServerParams) Clone() ServerParams {
	out := make(ServerParams, len(p))
	maps.Copy(out, p)
	return out
}

// Get returns the value stored under key, or "".
func (p ServerParams) Get(key string) string {
	return p[key]
}
