// Package extract recovers a JSON document from free-form model output.
//
// Models asked for "JSON only" still occasionally wrap the object in prose or
// markdown fences. Strict parsing is tried first; Brace is a best-effort
// fallback that takes everything from the first '{' to the last '}'. It will
// pick the wrong span when the text holds several JSON blocks, or prose with
// stray braces after the object.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrNoJSON is returned when no extractor could produce valid JSON.
var ErrNoJSON = errors.New("no JSON found in model output")

type Extractor interface {
	Extract(text string) (json.RawMessage, error)
}

// Strict accepts the text only if all of it (ignoring surrounding whitespace)
// is one valid JSON value.
type Strict struct{}

func (Strict) Extract(text string) (json.RawMessage, error) {
	t := strings.TrimSpace(text)
	if t == "" {
		return nil, errors.New("empty text")
	}
	if !json.Valid([]byte(t)) {
		return nil, errors.New("text is not valid JSON")
	}
	return json.RawMessage(t), nil
}

var braceRX = regexp.MustCompile(`(?s)\{.*\}`)

// Brace parses the outermost {...} span.
type Brace struct{}

func (Brace) Extract(text string) (json.RawMessage, error) {
	m := braceRX.FindString(text)
	if m == "" {
		return nil, errors.New("no {...} span")
	}
	if !json.Valid([]byte(m)) {
		return nil, errors.New("{...} span is not valid JSON")
	}
	return json.RawMessage(m), nil
}

// Chain tries each extractor in order and returns the first success.
type Chain []Extractor

func (c Chain) Extract(text string) (json.RawMessage, error) {
	var errs []error
	for _, e := range c {
		raw, err := e.Extract(text)
		if err == nil {
			return raw, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, ErrNoJSON
	}
	return nil, fmt.Errorf("%w: %w", ErrNoJSON, errors.Join(errs...))
}

// Default is strict parsing followed by the brace fallback.
func Default() Extractor { return Chain{Strict{}, Brace{}} }
