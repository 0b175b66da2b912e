// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package reference

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"syscall"

	"github.com/Query-farm/httpfactory/httpfactory"
	"github.com/spf13/afero/mem"
)

// tempName names the in-memory buffers backing string streams.
const tempName = "temp"

// Stream is a [httpfactory.Stream] over any seekable resource.
type Stream struct {
	res    httpfactory.Resource
	w      io.Writer // nil for read-only streams
	closed bool
}

var _ httpfactory.Stream = (*Stream)(nil)

// newStream wraps res; it is writable when writable is set and res
// implements io.Writer.
func newStream(res httpfactory.Resource, writable bool) *Stream {
	s := &Stream{res: res}
	if w, ok := res.(io.Writer); ok && writable {
		s.w = w
	}
	return s
}

// newTempStream returns a writable in-memory stream holding content,
// positioned at the start.
func newTempStream(content string) (*Stream, error) {
	f := mem.NewFileHandle(mem.CreateFile(tempName))
	if _, err := io.WriteString(f, content); err != nil {
		return nil, &httpfactory.FactoryError{Op: "create stream", Err: err}
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, &httpfactory.FactoryError{Op: "create stream", Err: err}
	}
	return newStream(f, true), nil
}

func (s *Stream) Read(p []byte) (int, error) {
	if s.closed {
		return 0, &httpfactory.FactoryError{Op: "read stream", Err: httpfactory.ErrClosed}
	}
	return s.res.Read(p)
}

func (s *Stream) Write(p []byte) (int, error) {
	if s.closed {
		return 0, &httpfactory.FactoryError{Op: "write stream", Err: httpfactory.ErrClosed}
	}
	if s.w == nil {
		return 0, &httpfactory.FactoryError{Op: "write stream", Err: httpfactory.ErrNotWritable}
	}
	n, err := s.w.Write(p)
	if errors.Is(err, syscall.EBADF) {
		// *os.File implements io.Writer whatever its open mode.
		return n, &httpfactory.FactoryError{Op: "write stream", Err: fmt.Errorf("%w: %v", httpfactory.ErrNotWritable, err)}
	}
	return n, err
}

func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	if s.closed {
		return 0, &httpfactory.FactoryError{Op: "seek stream", Err: httpfactory.ErrClosed}
	}
	return s.res.Seek(offset, whence)
}

// Close closes the underlying resource when it is an io.Closer. Closing
// twice is a no-op.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if c, ok := s.res.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Size reports the resource size. Resources exposing Stat are asked
// directly; otherwise the size is measured by seeking to the end and back.
func (s *Stream) Size() (int64, bool) {
	if s.closed {
		return 0, false
	}
	if st, ok := s.res.(interface{ Stat() (fs.FileInfo, error) }); ok {
		if info, err := st.Stat(); err == nil {
			return info.Size(), true
		}
	}
	cur, err := s.res.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, false
	}
	end, err := s.res.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, false
	}
	if _, err := s.res.Seek(cur, io.SeekStart); err != nil {
		return 0, false
	}
	return end, true
}

// String rewinds the resource and returns everything it holds. The read
// position is left at the end, as after a full read.
func (s *Stream) String() string {
	if s.closed {
		return ""
	}
	if _, err := s.res.Seek(0, io.SeekStart); err != nil {
		slog.Debug("reference: stream rewind failed", "err", err)
		return ""
	}
	data, err := io.ReadAll(s.res)
	if err != nil {
		slog.Debug("reference: stream read failed", "err", err)
		return ""
	}
	return string(data)
}
