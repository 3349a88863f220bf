// Package canonicalize provides RFC 8785 (JSON Canonicalization Scheme)
// serialization for nzcore documents. Every signature in this system is
// computed over canonical bytes; any encoding variance between signer and
// verifier would silently produce a different signature.
package canonicalize

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
	"golang.org/x/text/unicode/norm"

	"github.com/nzcore-labs/nzcore/pkg/nzerr"
)

// Serialize returns the RFC 8785 canonical JSON representation of v.
//
// v is first marshaled with the standard library (so struct tags, omitempty,
// and custom MarshalJSON methods are respected), then every string value is
// normalized to NFC (so two byte-distinct but canonically-equivalent Unicode
// encodings of the same text never produce different signatures), then
// transformed into canonical form: keys sorted by UTF-16 code unit, numbers
// in the shortest round-tripping form, minimal string escapes, no
// insignificant whitespace.
func Serialize(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: pre-marshal failed: %v", nzerr.ErrNonCanonical, err)
	}

	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("%w: %v", nzerr.ErrNonCanonical, err)
	}
	normalized, err := json.Marshal(normalizeStrings(generic))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", nzerr.ErrNonCanonical, err)
	}

	canonical, err := jcs.Transform(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", nzerr.ErrNonCanonical, err)
	}
	return canonical, nil
}

// normalizeStrings walks a value decoded from JSON (map[string]interface{},
// []interface{}, string, float64, bool, nil) and replaces every string with
// its NFC normal form.
func normalizeStrings(v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		return norm.NFC.String(val)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, child := range val {
			out[k] = normalizeStrings(child)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, child := range val {
			out[i] = normalizeStrings(child)
		}
		return out
	default:
		return v
	}
}

// SerializeString is Serialize returning a string.
func SerializeString(v interface{}) (string, error) {
	b, err := Serialize(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// AssertCanonical re-serializes the value parsed from raw and compares it
// byte-for-byte (constant-time) against raw. Any difference means raw was
// not already in canonical form.
func AssertCanonical(raw []byte) error {
	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", nzerr.ErrNonCanonical, err)
	}

	reserialized, err := Serialize(generic)
	if err != nil {
		return err
	}

	if !ConstantTimeBytesEqual(raw, reserialized) {
		return fmt.Errorf("%w: input is not in canonical form", nzerr.ErrNonCanonical)
	}
	return nil
}

// CanonicalEqual reports whether a and b canonicalize to the same bytes,
// compared in constant time.
func CanonicalEqual(a, b interface{}) (bool, error) {
	ca, err := Serialize(a)
	if err != nil {
		return false, err
	}
	cb, err := Serialize(b)
	if err != nil {
		return false, err
	}
	return ConstantTimeBytesEqual(ca, cb), nil
}

// ConstantTimeBytesEqual compares two byte slices without short-circuiting
// on the first mismatch, as required for comparisons over canonical forms,
// hashes, and signatures.
func ConstantTimeBytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// PrepareForSigning strips the top-level "signature" field from doc (if
// present) and returns the canonical serialization of the remainder. doc
// must marshal to a JSON object.
func PrepareForSigning(doc interface{}) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: pre-marshal failed: %v", nzerr.ErrNonCanonical, err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: document is not a JSON object: %v", nzerr.ErrNonCanonical, err)
	}
	delete(fields, "signature")

	return Serialize(fields)
}
