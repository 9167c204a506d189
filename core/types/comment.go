package types

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"
)

// DecodeComment decodes a message comment into a JSON object.
// Anything else (empty text, invalid JSON, trailing data, a non-object
// value, an integer literal wider than 64 bits) yields nil.
// Numbers are kept as json.Number.
func DecodeComment(text string) map[string]any {
	if text == "" {
		return nil
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil
	}
	obj, ok := v.(map[string]any)
	if !ok || !integersFit(obj) {
		return nil
	}
	return obj
}

func integersFit(v any) bool {
	switch v := v.(type) {
	case map[string]any:
		for _, e := range v {
			if !integersFit(e) {
				return false
			}
		}
	case []any:
		for _, e := range v {
			if !integersFit(e) {
				return false
			}
		}
	case json.Number:
		s := string(v)
		if strings.ContainsAny(s, ".eE") {
			return true
		}
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			return true
		}
		_, err := strconv.ParseUint(s, 10, 64)
		return err == nil
	}
	return true
}
