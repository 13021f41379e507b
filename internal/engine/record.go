package engine

import (
	"math"

	"github.com/nwpio/gribcodes/endian"
	"github.com/nwpio/gribcodes/format"
	"github.com/nwpio/gribcodes/internal/hash"
	"github.com/nwpio/gribcodes/internal/pool"
	"github.com/nwpio/gribcodes/packing"
	"github.com/nwpio/gribcodes/status"
)

// Record frame layout, edition 1:
//
//	magic "GRC" + edition byte
//	total length      uint64
//	packing type      uint8
//	key count         uint16
//	key directory     (name, id, type, flags, namespace, count, offset, length)
//	packed length     uint32
//	packed payload
//	frame checksum    uint64 (xxHash64 of every preceding byte)
//	end marker "7777"
//
// All integers are big-endian. Directory offsets and lengths address the
// unpacked payload.
const (
	recordEdition = 1

	// magic + edition + total length + packing + key count
	recordHeaderSize = 3 + 1 + 8 + 1 + 2

	// packed length + checksum + end marker
	recordMinTailSize = 4 + 8 + 4

	// Per-array cap on scaled value width. 24 bits keeps quantization error
	// below 1/2^24 of the field range.
	packedValueBits = 24
)

var (
	recordMagic = []byte{'G', 'R', 'C'}
	endMarker   = []byte{'7', '7', '7', '7'}

	wire = endian.GetBigEndianEngine()
)

// Key attribute flags carried in the directory.
const (
	flagReadOnly uint8 = 1 << iota
	flagComputed
	flagCoded
	flagFunction
	flagOptional
	flagEditionSpecific
	flagDuplicate
)

// keyEntry is one key in a record. Exactly one of the value fields is
// populated, selected by ntype.
type keyEntry struct {
	name      string
	id        uint64
	ntype     format.NativeType
	flags     uint8
	namespace string

	longs   []int64
	doubles []float64
	str     []byte
	raw     []byte
}

func (e *keyEntry) count() int {
	switch e.ntype {
	case format.TypeLong:
		return len(e.longs)
	case format.TypeDouble:
		return len(e.doubles)
	case format.TypeString:
		return 1
	case format.TypeBytes:
		return len(e.raw)
	default:
		return 0
	}
}

func (e *keyEntry) clone() *keyEntry {
	dup := &keyEntry{
		name:      e.name,
		id:        e.id,
		ntype:     e.ntype,
		flags:     e.flags,
		namespace: e.namespace,
	}
	if e.longs != nil {
		dup.longs = append([]int64(nil), e.longs...)
	}
	if e.doubles != nil {
		dup.doubles = append([]float64(nil), e.doubles...)
	}
	if e.str != nil {
		dup.str = append([]byte(nil), e.str...)
	}
	if e.raw != nil {
		dup.raw = append([]byte(nil), e.raw...)
	}

	return dup
}

// record is the in-memory form of one self-describing record. Directory
// order is preserved; byID maps key name hashes to directory positions.
type record struct {
	packing format.PackingType
	entries []*keyEntry
	byID    map[uint64]int
}

func newRecord(pt format.PackingType) *record {
	return &record{
		packing: pt,
		entries: nil,
		byID:    make(map[uint64]int),
	}
}

func (r *record) lookup(name string) *keyEntry {
	if i, ok := r.byID[hash.ID(name)]; ok {
		return r.entries[i]
	}

	return nil
}

func (r *record) put(e *keyEntry) {
	e.id = hash.ID(e.name)
	if i, ok := r.byID[e.id]; ok {
		r.entries[i] = e
		return
	}
	r.byID[e.id] = len(r.entries)
	r.entries = append(r.entries, e)
}

func (r *record) clone() *record {
	dup := newRecord(r.packing)
	for _, e := range r.entries {
		dup.put(e.clone())
	}

	return dup
}

// encode serializes the record into a caller-owned frame.
func (r *record) encode() ([]byte, status.Status) {
	codec, err := packing.GetCodec(r.packing)
	if err != nil {
		return nil, status.EncodingError
	}

	payload := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(payload)

	type entryLoc struct {
		offset uint64
		length uint32
	}
	locs := make([]entryLoc, len(r.entries))

	for i, e := range r.entries {
		start := payload.Len()
		if st := encodeEntryPayload(payload, e); st.IsFailure() {
			return nil, st
		}
		locs[i] = entryLoc{offset: uint64(start), length: uint32(payload.Len() - start)}
	}

	packed, err := codec.Compress(payload.Bytes())
	if err != nil {
		return nil, status.EncodingError
	}

	frame := make([]byte, 0, recordHeaderSize+len(packed)+recordMinTailSize)
	frame = append(frame, recordMagic...)
	frame = append(frame, recordEdition)
	frame = wire.AppendUint64(frame, 0) // total length, patched below
	frame = append(frame, byte(r.packing))
	frame = wire.AppendUint16(frame, uint16(len(r.entries)))

	for i, e := range r.entries {
		frame = wire.AppendUint16(frame, uint16(len(e.name)))
		frame = append(frame, e.name...)
		frame = wire.AppendUint64(frame, e.id)
		frame = append(frame, byte(e.ntype), e.flags)
		frame = append(frame, byte(len(e.namespace)))
		frame = append(frame, e.namespace...)
		frame = wire.AppendUint32(frame, uint32(e.count()))
		frame = wire.AppendUint64(frame, locs[i].offset)
		frame = wire.AppendUint32(frame, locs[i].length)
	}

	frame = wire.AppendUint32(frame, uint32(len(packed)))
	frame = append(frame, packed...)

	// The checksum covers the header, the directory and the packed payload,
	// so the total length is patched in before it is computed.
	wire.PutUint64(frame[4:12], uint64(len(frame)+8+len(endMarker)))
	frame = wire.AppendUint64(frame, hash.Checksum(frame))
	frame = append(frame, endMarker...)

	return frame, status.Success
}

func encodeEntryPayload(payload *pool.ByteBuffer, e *keyEntry) status.Status {
	switch e.ntype {
	case format.TypeLong:
		for _, v := range e.longs {
			payload.B = wire.AppendUint64(payload.B, uint64(v))
		}
	case format.TypeDouble:
		if len(e.doubles) == 1 {
			payload.B = wire.AppendUint64(payload.B, math.Float64bits(e.doubles[0]))
			return status.Success
		}

		return encodePackedDoubles(payload, e.doubles)
	case format.TypeString:
		payload.MustWrite(e.str)
	case format.TypeBytes:
		payload.MustWrite(e.raw)
	case format.TypeMissing, format.TypeSection, format.TypeLabel, format.TypeUndefined:
		// No payload.
	default:
		return status.EncodingError
	}

	return status.Success
}

// encodePackedDoubles writes a double array as a simple-packed block:
// reference value, binary scale exponent, bits per value, then the scaled
// offsets MSB-first. A constant field packs to zero bits per value.
func encodePackedDoubles(payload *pool.ByteBuffer, vals []float64) status.Status {
	ref := math.Inf(1)
	top := math.Inf(-1)
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return status.EncodingError
		}
		ref = math.Min(ref, v)
		top = math.Max(top, v)
	}

	rng := top - ref
	if rng == 0 {
		payload.B = wire.AppendUint64(payload.B, math.Float64bits(ref))
		payload.B = wire.AppendUint16(payload.B, 0)
		payload.MustWrite([]byte{0})

		return status.Success
	}

	maxScaled := float64(uint64(1)<<packedValueBits - 1)
	exp := int(math.Ceil(math.Log2(rng / maxScaled)))
	for rng/math.Ldexp(1, exp) > maxScaled {
		exp++
	}
	if exp < math.MinInt16 || exp > math.MaxInt16 {
		return status.EncodingError
	}
	step := math.Ldexp(1, exp)

	scaled, cleanup := pool.GetInt64Slice(len(vals))
	defer cleanup()

	for i, v := range vals {
		s := int64(math.Round((v - ref) / step))
		if s < 0 {
			s = 0
		}
		if float64(s) > maxScaled {
			s = int64(maxScaled)
		}
		scaled[i] = s
	}

	payload.B = wire.AppendUint64(payload.B, math.Float64bits(ref))
	payload.B = wire.AppendUint16(payload.B, uint16(int16(exp)))
	payload.MustWrite([]byte{packedValueBits})

	bw := newBitWriter()
	for _, s := range scaled {
		bw.write(uint64(s), packedValueBits)
	}
	payload.MustWrite(bw.bytes())

	return status.Success
}

// decodeRecord parses one record frame. The frame must span exactly one
// record; Stream handles locating frames in a byte sequence.
func decodeRecord(frame []byte) (*record, status.Status) {
	if len(frame) < recordHeaderSize+recordMinTailSize {
		return nil, status.PrematureEndOfFile
	}
	if string(frame[:3]) != string(recordMagic) {
		return nil, status.InvalidMessage
	}
	if frame[3] != recordEdition {
		return nil, status.DecodingError
	}
	if wire.Uint64(frame[4:12]) != uint64(len(frame)) {
		return nil, status.WrongLength
	}
	if string(frame[len(frame)-4:]) != string(endMarker) {
		return nil, status.EndMarkerNotFound
	}
	if wire.Uint64(frame[len(frame)-12:]) != hash.Checksum(frame[:len(frame)-12]) {
		return nil, status.MessageMalformed
	}

	pt := format.PackingType(frame[12])
	codec, err := packing.GetCodec(pt)
	if err != nil {
		return nil, status.DecodingError
	}
	keyCount := int(wire.Uint16(frame[13:15]))

	type dirEntry struct {
		entry  *keyEntry
		count  int
		offset uint64
		length uint32
	}
	dir := make([]dirEntry, 0, keyCount)

	pos := recordHeaderSize
	need := func(n int) bool { return pos+n <= len(frame)-recordMinTailSize }

	for kc := 0; kc < keyCount; kc++ {
		if !need(2) {
			return nil, status.DecodingError
		}
		nameLen := int(wire.Uint16(frame[pos:]))
		pos += 2
		if !need(nameLen + 8 + 2 + 1) {
			return nil, status.DecodingError
		}
		name := string(frame[pos : pos+nameLen])
		pos += nameLen
		id := wire.Uint64(frame[pos:])
		pos += 8
		ntype := format.NativeType(frame[pos])
		flags := frame[pos+1]
		pos += 2
		nsLen := int(frame[pos])
		pos++
		if !need(nsLen + 4 + 8 + 4) {
			return nil, status.DecodingError
		}
		namespace := string(frame[pos : pos+nsLen])
		pos += nsLen
		count := int(wire.Uint32(frame[pos:]))
		pos += 4
		offset := wire.Uint64(frame[pos:])
		pos += 8
		length := wire.Uint32(frame[pos:])
		pos += 4

		if id != hash.ID(name) {
			return nil, status.MessageMalformed
		}

		dir = append(dir, dirEntry{
			entry: &keyEntry{
				name:      name,
				id:        id,
				ntype:     ntype,
				flags:     flags,
				namespace: namespace,
			},
			count:  count,
			offset: offset,
			length: length,
		})
	}

	if pos+4 > len(frame)-12 {
		return nil, status.DecodingError
	}
	packedLen := int(wire.Uint32(frame[pos:]))
	pos += 4
	if pos+packedLen != len(frame)-12 {
		return nil, status.WrongLength
	}
	packed := frame[pos : pos+packedLen]

	payload, err := codec.Decompress(packed)
	if err != nil {
		return nil, status.DecodingError
	}

	rec := newRecord(pt)
	for _, d := range dir {
		end := d.offset + uint64(d.length)
		if end > uint64(len(payload)) {
			return nil, status.DecodingError
		}
		if st := decodeEntryPayload(d.entry, d.count, payload[d.offset:end]); st.IsFailure() {
			return nil, st
		}
		rec.put(d.entry)
	}

	return rec, status.Success
}

func decodeEntryPayload(e *keyEntry, count int, data []byte) status.Status {
	switch e.ntype {
	case format.TypeLong:
		if int64(len(data)) != int64(count)*8 {
			return status.DecodingError
		}
		e.longs = make([]int64, count)
		for i := 0; i < count; i++ {
			e.longs[i] = int64(wire.Uint64(data[i*8:]))
		}
	case format.TypeDouble:
		if count == 1 {
			if len(data) != 8 {
				return status.DecodingError
			}
			e.doubles = []float64{math.Float64frombits(wire.Uint64(data))}
			return status.Success
		}

		return decodePackedDoubles(e, count, data)
	case format.TypeString:
		e.str = append([]byte(nil), data...)
	case format.TypeBytes:
		e.raw = append([]byte(nil), data...)
	case format.TypeMissing, format.TypeSection, format.TypeLabel, format.TypeUndefined:
		if len(data) != 0 {
			return status.DecodingError
		}
	default:
		return status.DecodingError
	}

	return status.Success
}

func decodePackedDoubles(e *keyEntry, count int, data []byte) status.Status {
	if len(data) < 11 {
		return status.DecodingError
	}
	ref := math.Float64frombits(wire.Uint64(data))
	exp := int(int16(wire.Uint16(data[8:])))
	bits := int(data[10])
	if bits > 64 {
		return status.InvalidBitsPerValue
	}

	// count must agree with the block size before anything is allocated.
	if bits == 0 {
		if len(data) != 11 {
			return status.DecodingError
		}
	} else if int64(len(data)) != 11+(int64(count)*int64(bits)+7)/8 {
		return status.DecodingError
	}

	e.doubles = make([]float64, count)
	if bits == 0 {
		for i := range e.doubles {
			e.doubles[i] = ref
		}

		return status.Success
	}

	step := math.Ldexp(1, exp)
	br := newBitReader(data[11:])
	for i := 0; i < count; i++ {
		s, ok := br.read(bits)
		if !ok {
			return status.DecodingError
		}
		e.doubles[i] = ref + float64(s)*step
	}

	return status.Success
}
