package encoding

import (
	"errors"
	"testing"
)

func TestVectorRoundTrip(t *testing.T) {
	vectors := [][]float32{
		{1.0, 0.0, 0.5},
		{-1.5, 3.25},
		{},
	}

	for _, vec := range vectors {
		blob, err := EncodeVector(vec)
		if err != nil {
			t.Fatalf("Failed to encode %v: %v", vec, err)
		}
		got, err := DecodeVector(blob)
		if err != nil {
			t.Fatalf("Failed to decode %v: %v", vec, err)
		}
		if len(got) != len(vec) {
			t.Fatalf("Length mismatch: %v vs %v", got, vec)
		}
		for i := range vec {
			if got[i] != vec[i] {
				t.Errorf("Element %d: %v != %v", i, got[i], vec[i])
			}
		}
	}
}

func TestEncodeNilVector(t *testing.T) {
	if _, err := EncodeVector(nil); !errors.Is(err, ErrInvalidVector) {
		t.Errorf("Expected ErrInvalidVector for nil vector, got %v", err)
	}
}

func TestDecodeInvalidVector(t *testing.T) {
	cases := [][]byte{
		nil,
		{1, 2},
		{10, 0, 0, 0, 1, 2}, // claims 10 elements, holds less than one
	}
	for _, data := range cases {
		if _, err := DecodeVector(data); !errors.Is(err, ErrInvalidVector) {
			t.Errorf("Expected ErrInvalidVector for %v, got %v", data, err)
		}
	}
}

func TestPropertiesRoundTrip(t *testing.T) {
	props := map[string]any{
		"name":   "Alice",
		"age":    float64(30),
		"active": true,
		"tags":   []any{"a", "b"},
	}

	encoded, err := EncodeProperties(props)
	if err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}
	got, err := DecodeProperties(encoded)
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if got["name"] != "Alice" || got["age"] != float64(30) || got["active"] != true {
		t.Errorf("Round trip mismatch: %+v", got)
	}
}

func TestNilPropertiesEncodeEmpty(t *testing.T) {
	encoded, err := EncodeProperties(nil)
	if err != nil {
		t.Fatalf("Failed to encode nil: %v", err)
	}
	if encoded != "" {
		t.Errorf("Expected empty string for nil map, got %q", encoded)
	}
	got, err := DecodeProperties("")
	if err != nil {
		t.Fatalf("Failed to decode empty: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil map, got %+v", got)
	}
}
