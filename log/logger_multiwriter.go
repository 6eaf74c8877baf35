package log

import (
	"errors"
	"fmt"
	"io"
)

var (
	errWriterAlreadyLoaded = errors.New("io.Writer already loaded")
	errWriterIsNil         = errors.New("io.Writer is nil")
)

// Add registers another destination, each destination may only be added once
func (mw *multiWriter) Add(writer io.Writer) error {
	if writer == nil {
		return errWriterIsNil
	}
	mw.mu.Lock()
	defer mw.mu.Unlock()
	for i := range mw.writers {
		if mw.writers[i] == writer {
			return errWriterAlreadyLoaded
		}
	}
	mw.writers = append(mw.writers, writer)
	return nil
}

// Write sends p to every destination in registration order, stopping at the
// first destination that fails or writes short
func (mw *multiWriter) Write(p []byte) (int, error) {
	mw.mu.RLock()
	defer mw.mu.RUnlock()
	for _, w := range mw.writers {
		n, err := w.Write(p)
		switch {
		case err != nil:
			return n, fmt.Errorf("%T %w", w, err)
		case n != len(p):
			return n, fmt.Errorf("%T %w", w, io.ErrShortWrite)
		}
	}
	return len(p), nil
}

// MultiWriter returns a writer duplicating output to every supplied writer
func MultiWriter(writers ...io.Writer) (*multiWriter, error) {
	mw := &multiWriter{writers: make([]io.Writer, 0, len(writers))}
	for _, w := range writers {
		if err := mw.Add(w); err != nil {
			return nil, err
		}
	}
	return mw, nil
}
