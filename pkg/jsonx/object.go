// Package jsonx converts arbitrary values into JSON objects.
package jsonx

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// Object converts val into a JSON object by encoding and decoding it.
// Numbers are kept as json.Number so large integers survive the round trip.
// A nil val yields a nil map; values that do not encode to an object are an error.
func Object(val any) (map[string]any, error) {
	switch v := val.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return v, nil
	}

	b, err := json.Marshal(val)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var result map[string]any
	if err := dec.Decode(&result); err != nil {
		return nil, fmt.Errorf("%T is not a json object: %w", val, err)
	}
	return result, nil
}

// Merge copies every key of src into dst, allocating dst when it is nil.
func Merge(dst, src map[string]any) map[string]any {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
