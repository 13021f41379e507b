package engine

import "encoding/binary"

// bitReader reads unsigned integers of arbitrary bit width from a byte slice.
// Bits are consumed MSB-first within each byte (big-endian bit order).
type bitReader struct {
	buf []byte
	pos int // current bit position
}

func newBitReader(b []byte) *bitReader { return &bitReader{buf: b} }

// read reads n bits (0 <= n <= 64) and returns them as a uint64.
// Byte-aligned reads of 8/16/32/64 bits use binary.BigEndian for speed.
func (r *bitReader) read(n int) (uint64, bool) {
	if n == 0 {
		return 0, true
	}
	end := r.pos + n
	if end > len(r.buf)*8 {
		return 0, false
	}
	if r.pos%8 == 0 {
		off := r.pos / 8
		switch n {
		case 8:
			r.pos = end
			return uint64(r.buf[off]), true
		case 16:
			r.pos = end
			return uint64(binary.BigEndian.Uint16(r.buf[off:])), true
		case 32:
			r.pos = end
			return uint64(binary.BigEndian.Uint32(r.buf[off:])), true
		case 64:
			r.pos = end
			return binary.BigEndian.Uint64(r.buf[off:]), true
		}
	}
	var v uint64
	for i := 0; i < n; i++ {
		byteIdx := (r.pos + i) / 8
		bitIdx := 7 - ((r.pos + i) % 8) // MSB first within byte
		bit := (r.buf[byteIdx] >> bitIdx) & 1
		v = (v << 1) | uint64(bit)
	}
	r.pos = end

	return v, true
}

// bitWriter appends unsigned integers of arbitrary bit width to a byte slice,
// MSB-first within each byte. The final byte is zero padded.
type bitWriter struct {
	buf  []byte
	nbit int // bits used in the last byte, 0 when aligned
}

func newBitWriter() *bitWriter { return &bitWriter{} }

// write appends the low n bits of v (0 <= n <= 64).
func (w *bitWriter) write(v uint64, n int) {
	for i := n - 1; i >= 0; i-- {
		if w.nbit == 0 {
			w.buf = append(w.buf, 0)
		}
		bit := byte((v >> i) & 1)
		last := len(w.buf) - 1
		w.buf[last] |= bit << (7 - w.nbit)
		w.nbit = (w.nbit + 1) % 8
	}
}

// bytes returns the packed bytes written so far.
func (w *bitWriter) bytes() []byte { return w.buf }
