package mtg

import (
	"bytes"
	"encoding"
	"encoding/binary"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// Scan reads values from a memo body in the order they were encoded
// and returns the remaining bytes untouched.
func Scan(body []byte, dest ...interface{}) ([]byte, error) {
	r := bytes.NewReader(body)

	for _, v := range dest {
		if err := scanValue(r, v); err != nil {
			return nil, err
		}
	}

	return body[len(body)-r.Len():], nil
}

func scanValue(r *bytes.Reader, v interface{}) error {
	switch v := v.(type) {
	case *bool:
		b, err := r.ReadByte()
		if err != nil {
			return err
		}
		*v = b != 0
		return nil
	case *int:
		n, err := binary.ReadVarint(r)
		if err != nil {
			return err
		}
		*v = int(n)
		return nil
	case *int8:
		n, err := binary.ReadVarint(r)
		if err != nil {
			return err
		}
		*v = int8(n)
		return nil
	case *int16:
		n, err := binary.ReadVarint(r)
		if err != nil {
			return err
		}
		*v = int16(n)
		return nil
	case *int32:
		n, err := binary.ReadVarint(r)
		if err != nil {
			return err
		}
		*v = int32(n)
		return nil
	case *int64:
		n, err := binary.ReadVarint(r)
		if err != nil {
			return err
		}
		*v = n
		return nil
	case *uint:
		n, err := binary.ReadUvarint(r)
		if err != nil {
			return err
		}
		*v = uint(n)
		return nil
	case *uint8:
		n, err := binary.ReadUvarint(r)
		if err != nil {
			return err
		}
		*v = uint8(n)
		return nil
	case *uint16:
		n, err := binary.ReadUvarint(r)
		if err != nil {
			return err
		}
		*v = uint16(n)
		return nil
	case *uint32:
		n, err := binary.ReadUvarint(r)
		if err != nil {
			return err
		}
		*v = uint32(n)
		return nil
	case *uint64:
		n, err := binary.ReadUvarint(r)
		if err != nil {
			return err
		}
		*v = n
		return nil
	case *string:
		data, err := readBytes(r)
		if err != nil {
			return err
		}
		*v = string(data)
		return nil
	case *[]byte:
		data, err := readBytes(r)
		if err != nil {
			return err
		}
		*v = data
		return nil
	case *uuid.UUID:
		data := make([]byte, uuid.Size)
		if _, err := r.Read(data); err != nil {
			return err
		}
		id, err := uuid.FromBytes(data)
		if err != nil {
			return err
		}
		*v = id
		return nil
	case *decimal.Decimal:
		data, err := readBytes(r)
		if err != nil {
			return err
		}
		d, err := decimal.NewFromString(string(data))
		if err != nil {
			return err
		}
		*v = d
		return nil
	case *RawMessage:
		data, err := readBytes(r)
		if err != nil {
			return err
		}
		*v = data
		return nil
	case encoding.BinaryUnmarshaler:
		data, err := readBytes(r)
		if err != nil {
			return err
		}
		return v.UnmarshalBinary(data)
	default:
		return fmt.Errorf("mtg: scan unsupported type %T", v)
	}
}

func readBytes(r *bytes.Reader) ([]byte, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, err
	}

	if n > uint64(r.Len()) {
		return nil, fmt.Errorf("mtg: truncated message, want %d bytes, got %d", n, r.Len())
	}

	data := make([]byte, n)
	if _, err := r.Read(data); err != nil {
		return nil, err
	}

	return data, nil
}
