// Package structured turns free-form LLM replies into typed values.
//
// Replies are located by the outermost JSON delimiters, decoded, optionally
// checked against a JSON schema and then decoded leniently into Go structs.
package structured

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"
)

// ErrNoJSON is returned when the reply contains no JSON payload of the expected shape.
var ErrNoJSON = errors.New("no json payload found in reply")

// ContractError describes a reply that could not be turned into the expected value.
type ContractError struct {
	Stage string
	Err   error
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("llm reply %s: %v", e.Stage, e.Err)
}

func (e *ContractError) Unwrap() error { return e.Err }

// ObjectSpan returns the text between the first '{' and the last '}'.
func ObjectSpan(raw string) (string, error) {
	return span(raw, '{', '}')
}

// ArraySpan returns the text between the first '[' and the last ']'.
func ArraySpan(raw string) (string, error) {
	return span(raw, '[', ']')
}

func span(raw string, opening, closing byte) (string, error) {
	start := strings.IndexByte(raw, opening)
	end := strings.LastIndexByte(raw, closing)
	if start == -1 || end < start {
		return "", &ContractError{Stage: "locate", Err: ErrNoJSON}
	}
	return raw[start : end+1], nil
}

// DecodeObject extracts a JSON object from raw and decodes it into out.
func DecodeObject(raw, schema string, out any) error {
	payload, err := ObjectSpan(raw)
	if err != nil {
		return err
	}
	return decode(payload, schema, out)
}

// DecodeArray extracts a JSON array from raw and decodes it into out.
func DecodeArray(raw, schema string, out any) error {
	payload, err := ArraySpan(raw)
	if err != nil {
		return err
	}
	return decode(payload, schema, out)
}

func decode(payload, schema string, out any) error {
	var doc any
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return &ContractError{Stage: "parse", Err: err}
	}

	if schema != "" {
		if err := validate(schema, doc); err != nil {
			return err
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       lenientHook,
		WeaklyTypedInput: true,
		TagName:          "json",
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("build decoder: %w", err)
	}
	if err := decoder.Decode(doc); err != nil {
		return &ContractError{Stage: "decode", Err: err}
	}
	return nil
}

func validate(schema string, doc any) error {
	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schema), gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return &ContractError{Stage: "schema", Err: errors.New(strings.Join(msgs, "; "))}
}

var leadingNumber = regexp.MustCompile(`-?\d+(\.\d+)?`)

// lenientHook smooths over the shapes LLMs commonly return: lists or objects
// where a comma-joined string is expected, the reverse, and numbers wrapped in
// prose.
func lenientHook(from, to reflect.Type, data any) (any, error) {
	if data == nil {
		return data, nil
	}

	switch to.Kind() {
	case reflect.String:
		if k := from.Kind(); k == reflect.Slice || k == reflect.Map {
			return flatten(data), nil
		}
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int64:
		if from.Kind() == reflect.String {
			s := strings.TrimSpace(data.(string))
			if _, err := strconv.ParseFloat(s, 64); err == nil {
				return s, nil
			}
			if m := leadingNumber.FindString(s); m != "" {
				return m, nil
			}
			return "0", nil
		}
	case reflect.Slice:
		if to.Elem().Kind() == reflect.String && from.Kind() == reflect.String {
			return SplitList(data.(string)), nil
		}
	}
	return data, nil
}

// flatten renders nested JSON values as a comma-joined string. Object values
// are taken in key order.
func flatten(data any) string {
	if data == nil {
		return ""
	}
	v := reflect.ValueOf(data)
	var parts []string
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			parts = appendPart(parts, v.Index(i).Interface())
		}
	case reflect.Map:
		keys := make([]string, 0, v.Len())
		values := make(map[string]any, v.Len())
		for _, k := range v.MapKeys() {
			key := fmt.Sprint(k.Interface())
			keys = append(keys, key)
			values[key] = v.MapIndex(k).Interface()
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = appendPart(parts, values[k])
		}
	default:
		return strings.TrimSpace(fmt.Sprint(data))
	}
	return strings.Join(parts, ", ")
}

func appendPart(parts []string, item any) []string {
	if s := flatten(item); s != "" {
		parts = append(parts, s)
	}
	return parts
}

// SplitList splits a comma-separated string into trimmed, non-empty items.
func SplitList(s string) []string {
	raw := strings.Split(s, ",")
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
