// Package codec centralizes snapshot payload encoding.
//
// Codec selection is a compatibility boundary: persisted snapshots record the
// codec name in their header and are decoded with the codec of that name.
package codec

import "fmt"

// Stable codec names as recorded in snapshot headers.
const (
	NameJSON   = "json"
	NameGoJSON = "go-json"
)

// Codec turns snapshot payloads into bytes and back.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName resolves a header codec name.
func ByName(name string) (Codec, bool) {
	switch name {
	case NameJSON:
		return JSON{}, true
	case NameGoJSON:
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Names lists the codecs ByName resolves.
func Names() []string {
	return []string{NameGoJSON, NameJSON}
}

// MustMarshal encodes v or panics. A nil codec means Default.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s: marshal snapshot payload: %w", c.Name(), err))
	}
	return b
}
