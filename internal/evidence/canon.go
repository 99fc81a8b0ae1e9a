// Package evidence implements content-addressed canonicalization, hashing,
// and verification for reflex proof bundles. It has no dependency on the
// reflex controller or gateway packages — it operates purely on values.
package evidence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Canonicalize produces a deterministic byte-sequence representation of v:
// map keys are sorted, sequence order is preserved, numbers are normalized
// via Go's shortest round-trip float formatting, and no whitespace varies
// between calls. It round-trips v through JSON first so struct values,
// maps, and slices are all handled uniformly.
func Canonicalize(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: marshal: %w", err)
	}

	var generic interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("canonicalize: decode: %w", err)
	}

	var buf bytes.Buffer
	if err := encode(&buf, generic); err != nil {
		return nil, fmt.Errorf("canonicalize: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, v interface{}) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case json.Number:
		buf.WriteString(normalizeNumber(val))
	case string:
		encodeString(buf, val)
	case []interface{}:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			encodeString(buf, k)
			buf.WriteByte(':')
			if err := encode(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("canonicalize: unsupported type %T", v)
	}
	return nil
}

// normalizeNumber reduces a JSON number to its shortest round-trip decimal
// form with no leading '+' or redundant exponent notation, so that
// semantically equal numeric values always canonicalize to the same bytes
// regardless of how the source encoded them (e.g. "1.50" vs "1.5").
func normalizeNumber(n json.Number) string {
	if f, err := n.Float64(); err == nil {
		if f == float64(int64(f)) {
			return strconv.FormatInt(int64(f), 10)
		}
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return n.String()
}

func encodeString(buf *bytes.Buffer, s string) {
	data, _ := json.Marshal(s)
	buf.Write(data)
}
