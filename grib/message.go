package grib

import (
	"os"

	"github.com/nwpio/gribcodes/errs"
	"github.com/nwpio/gribcodes/internal/engine"
)

// message is the shared core of all message variants: one engine handle
// plus the release bookkeeping. Read operations are defined on it and
// promoted into every variant.
type message struct {
	h *engine.Handle
}

func (m *message) handle() (*engine.Handle, error) {
	if m.h == nil {
		return nil, errs.ErrNullHandle
	}

	return m.h, nil
}

// release frees the handle once; further calls are no-ops.
func (m *message) release() error {
	if m.h == nil {
		return nil
	}
	h := m.h
	m.h = nil
	if st := h.Release(); st.IsFailure() {
		return errorFromStatus(st)
	}

	return nil
}

// releaseLogged is release for cleanup paths with no caller to report to.
func (m *message) releaseLogged(ctx string) {
	if err := m.release(); err != nil {
		log().Warn().Err(err).Str("context", ctx).Msg("handle release failed")
	}
}

// clone produces an independent writable copy of the current message state.
func (m *message) clone() (*ClonedMessage, error) {
	h, err := m.handle()
	if err != nil {
		return nil, errs.ErrCloneFailed
	}
	dup, st := h.Clone()
	if st.IsFailure() || dup == nil {
		return nil, errs.ErrCloneFailed
	}

	return &ClonedMessage{message: message{h: dup}}, nil
}

// writeToFile appends the serialized message to path, or truncates first
// when appendMode is false.
func (m *message) writeToFile(path string, appendMode bool) error {
	h, err := m.handle()
	if err != nil {
		return err
	}
	frame, st := h.Bytes()
	if st.IsFailure() {
		return errorFromStatus(st)
	}

	mode := os.O_CREATE | os.O_WRONLY
	if appendMode {
		mode |= os.O_APPEND
	} else {
		mode |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, mode, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(frame); err != nil {
		return err
	}

	return nil
}

// Message is a view borrowed from a MessageIter. It stays valid until the
// iterator advances or is closed; afterwards every operation fails with
// ErrNullHandle. Release it early to drop the handle before the next
// advance.
type Message struct {
	message
}

// Release frees the message's handle ahead of the next iterator advance.
// Releasing twice is a no-op.
func (m *Message) Release() error { return m.release() }

// Clone copies the message into an independent writable ClonedMessage that
// outlives the iterator.
func (m *Message) Clone() (*ClonedMessage, error) { return m.clone() }

// WriteToFile serializes the message to path. With appendMode the record
// is appended, otherwise the file is replaced.
func (m *Message) WriteToFile(path string, appendMode bool) error {
	return m.writeToFile(path, appendMode)
}

// SharedMessage owns its handle and keeps the shared source alive until
// released. It is safe to pass between goroutines; reads of distinct
// SharedMessages may run concurrently.
type SharedMessage struct {
	message
	src *sharedSource
}

// Release frees the handle and drops the message's reference on the shared
// source. Releasing twice is a no-op.
func (m *SharedMessage) Release() error {
	err := m.release()
	if m.src != nil {
		m.src.unref()
		m.src = nil
	}

	return err
}

// Clone copies the message into an independent writable ClonedMessage with
// no tie to the shared source.
func (m *SharedMessage) Clone() (*ClonedMessage, error) { return m.clone() }

// WriteToFile serializes the message to path. With appendMode the record
// is appended, otherwise the file is replaced.
func (m *SharedMessage) WriteToFile(path string, appendMode bool) error {
	return m.writeToFile(path, appendMode)
}

// ClonedMessage owns a deep copy of a message and is the only variant that
// accepts writes. It has no ties to the source it originated from.
type ClonedMessage struct {
	message
}

// Release frees the message's handle. Releasing twice is a no-op.
func (m *ClonedMessage) Release() error { return m.release() }

// Clone copies the message again.
func (m *ClonedMessage) Clone() (*ClonedMessage, error) { return m.clone() }

// WriteToFile serializes the message to path. With appendMode the record
// is appended, otherwise the file is replaced.
func (m *ClonedMessage) WriteToFile(path string, appendMode bool) error {
	return m.writeToFile(path, appendMode)
}
