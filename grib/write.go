package grib

// Writes are restricted to ClonedMessage: it is the only variant that owns
// its handle exclusively, so a write can never surprise another reader of
// the same handle. Clone first, then write.

// WriteInt64 stores a scalar integer under the key, creating it if absent.
func (m *ClonedMessage) WriteInt64(key string, v int64) error {
	h, err := m.handle()
	if err != nil {
		return err
	}

	return errorFromStatus(h.SetLong(key, v))
}

// WriteFloat64 stores a scalar float under the key, creating it if absent.
func (m *ClonedMessage) WriteFloat64(key string, v float64) error {
	h, err := m.handle()
	if err != nil {
		return err
	}

	return errorFromStatus(h.SetDouble(key, v))
}

// WriteString stores a string under the key, creating it if absent.
func (m *ClonedMessage) WriteString(key, v string) error {
	h, err := m.handle()
	if err != nil {
		return err
	}

	return errorFromStatus(h.SetString(key, v))
}

// WriteBytes stores raw bytes under the key, creating it if absent.
func (m *ClonedMessage) WriteBytes(key string, v []byte) error {
	h, err := m.handle()
	if err != nil {
		return err
	}

	return errorFromStatus(h.SetBytes(key, v))
}

// WriteInt64Slice stores an integer array under the key.
func (m *ClonedMessage) WriteInt64Slice(key string, v []int64) error {
	h, err := m.handle()
	if err != nil {
		return err
	}

	return errorFromStatus(h.SetLongArray(key, v))
}

// WriteFloat64Slice stores a float array under the key. Large arrays are
// bit-packed on serialization, so values may quantize within the packing
// precision.
func (m *ClonedMessage) WriteFloat64Slice(key string, v []float64) error {
	h, err := m.handle()
	if err != nil {
		return err
	}

	return errorFromStatus(h.SetDoubleArray(key, v))
}

// WriteMissing marks an existing key as missing.
func (m *ClonedMessage) WriteMissing(key string) error {
	h, err := m.handle()
	if err != nil {
		return err
	}

	return errorFromStatus(h.SetMissing(key))
}
