// Package encoding holds the wire codecs shared by the storage backend:
// a length-prefixed little-endian layout for embedding vectors and JSON for
// the schemaless node properties map.
package encoding

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidVector is returned when vector bytes cannot be decoded
var ErrInvalidVector = errors.New("invalid vector data")

// EncodeVector encodes a float32 vector as a little-endian byte blob,
// prefixed with the element count as an int32.
func EncodeVector(vector []float32) ([]byte, error) {
	if vector == nil {
		return nil, ErrInvalidVector
	}
	if len(vector) > math.MaxInt32 {
		return nil, fmt.Errorf("vector too large: %d elements", len(vector))
	}

	buf := make([]byte, 4+4*len(vector))
	binary.LittleEndian.PutUint32(buf, uint32(len(vector)))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[4+4*i:], math.Float32bits(v))
	}
	return buf, nil
}

// DecodeVector decodes a blob produced by EncodeVector.
func DecodeVector(data []byte) ([]float32, error) {
	if len(data) < 4 {
		return nil, ErrInvalidVector
	}

	n := int(int32(binary.LittleEndian.Uint32(data)))
	if n < 0 || len(data) < 4+4*n {
		return nil, ErrInvalidVector
	}

	vector := make([]float32, n)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4+4*i:]))
	}
	return vector, nil
}

// EncodeProperties encodes a properties map as a JSON string. A nil map
// encodes to the empty string so the column stays NULL-equivalent.
func EncodeProperties(props map[string]any) (string, error) {
	if props == nil {
		return "", nil
	}
	data, err := json.Marshal(props)
	if err != nil {
		return "", fmt.Errorf("failed to encode properties: %w", err)
	}
	return string(data), nil
}

// DecodeProperties decodes a JSON string back into a properties map.
func DecodeProperties(jsonStr string) (map[string]any, error) {
	if jsonStr == "" {
		return nil, nil
	}
	var props map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &props); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %w", err)
	}
	return props, nil
}
