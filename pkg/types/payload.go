package types

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// Payload is an opaque binary value that may arrive as raw bytes, a bare base64
// string or a data URL. JSON strings are kept verbatim; media.Normalize decodes them.
type Payload []byte

func (p *Payload) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("payload must be a string: %w", err)
	}

	*p = Payload(s)
	return nil
}

func (p Payload) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	if utf8.Valid(p) {
		return json.Marshal(string(p))
	}
	return json.Marshal(base64.StdEncoding.EncodeToString(p))
}

func (p Payload) Empty() bool {
	return len(p) == 0
}
