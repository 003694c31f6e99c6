package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// Snapshots encoded with JSON decode with any JSON reader, which makes it the
// portable choice for tooling outside this module.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return NameJSON }

// Default is the codec used for newly written snapshots.
var Default Codec = GoJSON{}
