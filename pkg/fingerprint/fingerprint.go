// Package fingerprint computes change-detector fingerprints for dataset
// payloads. The hash is a rolling 31-polynomial accumulated in 32-bit
// signed arithmetic; it is cheap and deterministic, not cryptographic.
package fingerprint

import (
	"encoding/json"
	"strconv"
)

// Sum hashes a string: h = h*31 + codepoint, wrapped to int32, rendered
// as a decimal string.
func Sum(s string) string {
	var h int32
	for _, r := range s {
		h = (h << 5) - h + int32(r)
	}
	return strconv.FormatInt(int64(h), 10)
}

// Object canonically serializes a JSON-serializable value and hashes the
// result. encoding/json sorts map keys, so equal-by-value inputs always
// produce the same fingerprint.
func Object(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return Sum(string(b)), nil
}
