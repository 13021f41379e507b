package grib

import (
	"sync"

	"github.com/nwpio/gribcodes/errs"
	"github.com/nwpio/gribcodes/internal/engine"
)

// MessageIter walks a Source message by message, lending each one out as a
// borrowed Message. Advancing releases the previously returned message, so
// at most one borrowed Message is alive per iterator. Exhaustion is a nil
// message with a nil error, and it is sticky: once the end is reached every
// further Next reports it again.
type MessageIter struct {
	src  *Source
	cur  *Message
	done bool
}

// Messages begins borrowing iteration over the source. The source must not
// be closed or handed to SharedMessages while the iterator is in use.
func (f *Source) Messages() (*MessageIter, error) {
	if f.closed {
		return nil, errs.ErrSourceClosed
	}

	return &MessageIter{src: f}, nil
}

// Next advances to the next message. The previously returned Message is
// released first and must not be used afterwards.
func (it *MessageIter) Next() (*Message, error) {
	if it.done {
		return nil, nil
	}
	if it.src.closed {
		return nil, errs.ErrSourceClosed
	}

	if it.cur != nil {
		it.cur.releaseLogged("message iterator advance")
		it.cur = nil
	}

	h, st := it.src.stream.Next()
	if st.IsFailure() {
		return nil, errorFromStatus(st)
	}
	if h == nil {
		it.done = true
		return nil, nil
	}

	it.cur = &Message{message: message{h: h}}

	return it.cur, nil
}

// Close releases the current borrowed message, ending the iteration early.
// The source itself stays open.
func (it *MessageIter) Close() error {
	it.done = true
	if it.cur != nil {
		err := it.cur.release()
		it.cur = nil

		return err
	}

	return nil
}

// sharedSource guards a consumed Source for SharedMessages. The stream is
// closed once the iterator and every message derived from it are done.
type sharedSource struct {
	mu   sync.Mutex
	src  *Source
	refs int
}

func (s *sharedSource) ref() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs++
}

func (s *sharedSource) unref() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		if err := s.src.Close(); err != nil {
			log().Warn().Err(err).Msg("shared source close failed")
		}
	}
}

func (s *sharedSource) next() (*engine.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.src.closed {
		return nil, errs.ErrSourceClosed
	}

	h, st := s.src.stream.Next()
	if st.IsFailure() {
		return nil, errorFromStatus(st)
	}

	return h, nil
}

// SharedIter walks a Source and yields SharedMessages that own their
// handles and may outlive both the iterator and each other. The iterator
// consumes the Source; it is closed automatically once the iterator and
// all its messages are released.
type SharedIter struct {
	shared *sharedSource
	done   bool
	closed bool
}

// SharedMessages consumes the source for shared iteration. The caller must
// not use the source directly afterwards.
func (f *Source) SharedMessages() (*SharedIter, error) {
	if f.closed {
		return nil, errs.ErrSourceClosed
	}

	shared := &sharedSource{src: f, refs: 1} // iterator's own reference

	return &SharedIter{shared: shared}, nil
}

// Next advances to the next message. Unlike MessageIter, previously
// returned messages stay valid until individually released. Exhaustion is
// a nil message with a nil error and is sticky.
func (it *SharedIter) Next() (*SharedMessage, error) {
	if it.done || it.closed {
		return nil, nil
	}

	h, err := it.shared.next()
	if err != nil {
		return nil, err
	}
	if h == nil {
		it.done = true
		return nil, nil
	}

	it.shared.ref()

	return &SharedMessage{message: message{h: h}, src: it.shared}, nil
}

// Close drops the iterator's reference on the source. The source closes
// once the last outstanding SharedMessage is released.
func (it *SharedIter) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	it.shared.unref()

	return nil
}
