package reference

import "github.com/Query-farm/httpfactory/httpfactory"

// Response is an immutable [httpfactory.Response].
type Response struct {
	code     int
	reason   string
	body     httpfactory.Stream
	protocol string
}

var _ httpfactory.Response = (*Response)(nil)

func (r *Response) StatusCode() int { return r.code }
func (r *Response) ReasonPhrase() string { return r.reason }
func (r *Response) Body() httpfactory.Stream { return r.body }
func (r *Response) ProtocolVersion() string { return r.protocol }

// UploadedFile is an immutable [httpfactory.UploadedFile].
type UploadedFile struct {
	stream    httpfactory.Stream
	size      int64
	uploadErr httpfactory.UploadError
	name      string
	mediaType string
}

var _ httpfactory.UploadedFile = (*UploadedFile)(nil)

// Stream fails for uploads that did not complete.
func (f *UploadedFile) Stream() (httpfactory.Stream, error) {
	if f.uploadErr != httpfactory.UploadOK {
		return nil, &httpfactory.FactoryError{Op: "uploaded file stream: " + f.uploadErr.String()}
	}
	return f.stream, nil
}

func (f *UploadedFile) Size() int64 { return f.size }
func (f *UploadedFile) Error() httpfactory.UploadError { return f.uploadErr }
func (f *UploadedFile) ClientFilename() string { return f.name }
func (f *UploadedFile) ClientMediaType() string { return f.mediaType }
