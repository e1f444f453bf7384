package mtg

import (
	"bytes"
	"encoding"
	"encoding/binary"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// Encode encodes values into a memo body. Each value is written
// with its own delimiter so that Scan can consume them one by one
// and return the untouched remain.
func Encode(values ...interface{}) ([]byte, error) {
	var b bytes.Buffer

	for _, v := range values {
		if err := encodeValue(&b, v); err != nil {
			return nil, err
		}
	}

	return b.Bytes(), nil
}

func encodeValue(b *bytes.Buffer, v interface{}) error {
	switch v := v.(type) {
	case bool:
		if v {
			return b.WriteByte(1)
		}
		return b.WriteByte(0)
	case int:
		return writeVarint(b, int64(v))
	case int8:
		return writeVarint(b, int64(v))
	case int16:
		return writeVarint(b, int64(v))
	case int32:
		return writeVarint(b, int64(v))
	case int64:
		return writeVarint(b, v)
	case uint:
		return writeUvarint(b, uint64(v))
	case uint8:
		return writeUvarint(b, uint64(v))
	case uint16:
		return writeUvarint(b, uint64(v))
	case uint32:
		return writeUvarint(b, uint64(v))
	case uint64:
		return writeUvarint(b, v)
	case string:
		return writeBytes(b, []byte(v))
	case []byte:
		return writeBytes(b, v)
	case uuid.UUID:
		_, err := b.Write(v.Bytes())
		return err
	case decimal.Decimal:
		return writeBytes(b, []byte(v.String()))
	case RawMessage:
		return writeBytes(b, v)
	case encoding.BinaryMarshaler:
		data, err := v.MarshalBinary()
		if err != nil {
			return err
		}
		return writeBytes(b, data)
	default:
		return fmt.Errorf("mtg: encode unsupported type %T", v)
	}
}

func writeVarint(b *bytes.Buffer, v int64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutVarint(buf[:], v)
	_, err := b.Write(buf[:n])
	return err
}

func writeUvarint(b *bytes.Buffer, v uint64) error {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], v)
	_, err := b.Write(buf[:n])
	return err
}

func writeBytes(b *bytes.Buffer, data []byte) error {
	if err := writeUvarint(b, uint64(len(data))); err != nil {
		return err
	}

	_, err := b.Write(data)
	return err
}
