package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	stderrors "errors"                         // Standard errors package
	"github.com/mcncl/jsonsum/internal/errors" // Custom errors package
	"github.com/mcncl/jsonsum/internal/models"
)

// ParseValue decodes exactly one JSON value from data. Numbers are kept as
// json.Number, objects and arrays become models.JSONObject and
// models.JSONArray.
func ParseValue(data []byte) (models.JSONValue, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber() // Ensure numbers are read as json.Number

	var value models.JSONValue
	if err := decoder.Decode(&value); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.NewParsingError("line is empty or contains only whitespace", errors.ErrInvalidJSON)
		}
		var syntaxError *json.SyntaxError
		if stderrors.As(err, &syntaxError) {
			return nil, errors.NewParsingError(
				fmt.Sprintf("JSON syntax error at offset %d: %v", syntaxError.Offset, syntaxError),
				errors.ErrInvalidJSON,
			)
		}
		if stderrors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
		}
		return nil, errors.NewParsingError(fmt.Sprintf("failed to decode JSON: %v", err), errors.ErrInvalidJSON)
	}

	// Anything but whitespace after the first value makes the line invalid.
	var trailing json.RawMessage
	if err := decoder.Decode(&trailing); !stderrors.Is(err, io.EOF) {
		return nil, errors.NewParsingError(
			fmt.Sprintf("unexpected data after JSON value at offset %d", decoder.InputOffset()),
			errors.ErrInvalidJSON,
		)
	}

	return normalizeJSONValue(value), nil
}

// ParseRecord decodes one line of input into a record. The line must hold a
// single JSON object.
func ParseRecord(line []byte) (models.JSONObject, error) {
	value, err := ParseValue(line)
	if err != nil {
		return nil, err
	}

	obj, ok := value.(models.JSONObject)
	if !ok {
		return nil, errors.NewRecordError(
			fmt.Sprintf("top-level JSON value is %s, not an object", models.KindOf(value)),
			errors.ErrNotObject,
		)
	}
	return obj, nil
}

// normalizeJSONValue converts raw JSON types into our model types
func normalizeJSONValue(val models.JSONValue) models.JSONValue {
	switch v := val.(type) {
	case map[string]interface{}:
		obj := make(models.JSONObject, len(v))
		for key, value := range v {
			obj[key] = normalizeJSONValue(value)
		}
		return obj
	case []interface{}:
		arr := make(models.JSONArray, len(v))
		for i, value := range v {
			arr[i] = normalizeJSONValue(value)
		}
		return arr
	default:
		return v // Primitives (string, json.Number, bool, nil) are returned as is
	}
}
