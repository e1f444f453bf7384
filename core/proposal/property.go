package proposal

import (
	"vault/pkg/mtg"
)

// SetProperty set a global property
type SetProperty struct {
	Key   string `json:"key,omitempty"`
	Value string `json:"value,omitempty"`
}

// MarshalBinary marshal property to binary
func (s SetProperty) MarshalBinary() (data []byte, err error) {
	return mtg.Encode(s.Key, s.Value)
}

// UnmarshalBinary unmarshal property from binary
func (s *SetProperty) UnmarshalBinary(data []byte) error {
	var key, value string

	if _, err := mtg.Scan(data, &key, &value); err != nil {
		return err
	}

	s.Key = key
	s.Value = value

	return nil
}
