package store

import (
	"errors"

	jsoniter "github.com/json-iterator/go"
)

// ErrCorrupt marks a blob that is not valid JSON
var ErrCorrupt = errors.New("corrupt blob")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONCodec serializes state slices as JSON. Output is byte-compatible with
// encoding/json so existing blobs keep loading.
type JSONCodec struct{}

func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	if !json.Valid(data) {
		return ErrCorrupt
	}
	return json.Unmarshal(data, v)
}
