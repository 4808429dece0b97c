package domain

import (
	"encoding/json"
	"fmt"
)

// Some API versions report the page total under this name.
const legacyPageCountField = "totalPageCount"

// PageUsage is the quota accounting attached to every parse result.
type PageUsage struct {
	PageCount     int `json:"pageCount"`
	PageUsed      int `json:"pageUsed"`
	PageRemaining int `json:"pageRemaining"`
}

// Usage returns the page accounting of the result.
func (u PageUsage) Usage() PageUsage {
	return u
}

// ParseResult is the outcome of a synchronous parse. It is either a
// *SingleDocumentResult or a *MultiDocumentResult; use a type switch.
type ParseResult interface {
	Usage() PageUsage
	isParseResult()
}

// SingleDocumentResult is returned when exactly one document was processed.
// Result is the template-defined extraction payload.
type SingleDocumentResult struct {
	Result json.RawMessage `json:"result"`
	PageUsage
}

func (*SingleDocumentResult) isParseResult() {}

// DocumentResult is the extraction output for one file of a multi-document result.
type DocumentResult struct {
	Filename string          `json:"filename"`
	Result   json.RawMessage `json:"result"`
}

// MultiDocumentResult is returned for multi-file and archive submissions.
type MultiDocumentResult struct {
	Results []DocumentResult `json:"results"`
	PageUsage
	Source ResultSource `json:"source,omitempty"`
}

func (*MultiDocumentResult) isParseResult() {}

// NormalizeParsePayload decodes a raw parse response into its top-level fields
// and renames the legacy page total to pageCount.
func NormalizeParsePayload(raw []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, fmt.Errorf("expected a JSON object, got null")
	}
	if legacy, ok := fields[legacyPageCountField]; ok {
		fields["pageCount"] = legacy
		delete(fields, legacyPageCountField)
	}
	return fields, nil
}

// DecodeParseResult normalizes raw and selects the result variant: a payload
// with a results array is multi-document, anything else is single-document.
func DecodeParseResult(raw []byte) (ParseResult, error) {
	fields, err := NormalizeParsePayload(raw)
	if err != nil {
		return nil, err
	}
	normalized, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}

	if results, ok := fields["results"]; ok && !IsNullJSON(results) {
		var multi MultiDocumentResult
		if err := json.Unmarshal(normalized, &multi); err != nil {
			return nil, fmt.Errorf("decoding multi-document result: %w", err)
		}
		return &multi, nil
	}

	var single SingleDocumentResult
	if err := json.Unmarshal(normalized, &single); err != nil {
		return nil, fmt.Errorf("decoding single-document result: %w", err)
	}
	return &single, nil
}
