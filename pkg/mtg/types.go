package mtg

// RawMessage is a chunk of pre encoded bytes which can be embedded
// in a message as is, and scanned back without interpretation.
type RawMessage []byte

// MarshalBinary implements encoding.BinaryMarshaler
func (r RawMessage) MarshalBinary() ([]byte, error) {
	return r, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler
func (r *RawMessage) UnmarshalBinary(data []byte) error {
	*r = data
	return nil
}
