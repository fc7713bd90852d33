// Package chart extracts and validates the structured chart payload that the
// model may embed in its free-text answer.
//
// The wire format is a single delimited block inside the response text:
//
//	<chart>
//	```json
//	{"type":"trend","items":[{"name":"Q1","value":12.4},{"name":"Q2","value":15.1}]}
//	```
//	</chart>
//
// The code fence is optional. Absence or malformation of the block is never
// an error: the answer renders text-only and the caller records that parsing
// did not cover this response.
package chart

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// Delimiter tags wrapping the embedded payload.
const (
	OpenTag  = "<chart>"
	CloseTag = "</chart>"
)

// Supported chart types.
const (
	TypeTrend   = "trend"
	TypeSector  = "sector"
	TypeHeatmap = "heatmap"
)

// Item is a single chart data point.
type Item struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Payload is a validated chart description.
// Items preserve the order in which the model emitted them.
type Payload struct {
	Type  string `json:"type"`
	Items []Item `json:"items"`
}

// itemSchema validates one chart item: an object with a string name and a
// numeric value. Extra fields are tolerated; the model sometimes decorates
// items with units or colors and those must not cost us the data point.
var itemSchema = mustResolve(&jsonschema.Schema{
	Type:     "object",
	Required: []string{"name", "value"},
	Properties: map[string]*jsonschema.Schema{
		"name":  {Type: "string"},
		"value": {Type: "number"},
	},
})

func mustResolve(s *jsonschema.Schema) *jsonschema.Resolved {
	r, err := s.Resolve(nil)
	if err != nil {
		panic("chart: resolving item schema: " + err.Error())
	}
	return r
}

// rawPayload defers item decoding so individually malformed items can be
// dropped without rejecting the whole payload.
type rawPayload struct {
	Type  string            `json:"type"`
	Items []json.RawMessage `json:"items"`
}

// Extract locates the delimited payload in text and validates it.
//
// Returns (nil, false) when no payload is present, when the block does not
// parse as JSON, when the chart type is unknown, or when no item survives
// validation. Items that fail the schema (missing name, non-numeric or
// non-finite value) are dropped individually; the rest of the payload is
// kept. Extract never mutates text and is idempotent.
func Extract(text string) (*Payload, bool) {
	raw, found := block(text)
	if !found {
		return nil, false
	}

	raw = stripFences(raw)

	var rp rawPayload
	if err := json.Unmarshal([]byte(raw), &rp); err != nil {
		return nil, false
	}

	switch rp.Type {
	case TypeTrend, TypeSector, TypeHeatmap:
	default:
		return nil, false
	}

	items := make([]Item, 0, len(rp.Items))
	for _, rawItem := range rp.Items {
		var instance any
		if err := json.Unmarshal(rawItem, &instance); err != nil {
			continue
		}
		if err := itemSchema.Validate(instance); err != nil {
			continue
		}
		var item Item
		if err := json.Unmarshal(rawItem, &item); err != nil {
			continue
		}
		if math.IsNaN(item.Value) || math.IsInf(item.Value, 0) {
			continue
		}
		items = append(items, item)
	}

	// An empty item list renders no chart; treat the payload as absent.
	if len(items) == 0 {
		return nil, false
	}

	return &Payload{Type: rp.Type, Items: items}, true
}

// Strip removes the delimited block (tags included) from text for display.
// The service returns response text untouched; hiding the raw payload from
// the rendered answer is a presentation concern and lives here for reuse by
// every surface (TUI, CLI, API consumers).
func Strip(text string) string {
	start := strings.Index(text, OpenTag)
	if start < 0 {
		return text
	}
	rest := text[start+len(OpenTag):]
	end := strings.Index(rest, CloseTag)
	if end < 0 {
		return text
	}
	stripped := text[:start] + rest[end+len(CloseTag):]
	return strings.TrimSpace(stripped)
}

// block returns the trimmed content between the first OpenTag/CloseTag pair.
func block(text string) (string, bool) {
	start := strings.Index(text, OpenTag)
	if start < 0 {
		return "", false
	}
	rest := text[start+len(OpenTag):]
	end := strings.Index(rest, CloseTag)
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// stripFences removes optional triple-backtick markers (with or without a
// language tag) wrapping the JSON object.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop a language tag such as "json" on the opening fence line.
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		firstLine := strings.TrimSpace(s[:nl])
		if firstLine == "" || firstLine == "json" {
			s = s[nl+1:]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
