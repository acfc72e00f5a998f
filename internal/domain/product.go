package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FieldPlaceholder is substituted for any product field the search API did
// not return. A malformed record never aborts an analysis batch.
const FieldPlaceholder = "N/A"

// Product is one ranked hit from the assortment search API. ID, Title and
// Description are convenience views of the payload; the raw payload itself is
// retained because relevance matching runs over every field of the record,
// not just the ones we parse.
type Product struct {
	ID          string
	Title       string
	Description string

	payload json.RawMessage
}

// DecodeProduct builds a Product from one raw record of a search response.
// Missing or malformed fields fall back to FieldPlaceholder.
func DecodeProduct(raw json.RawMessage) Product {
	p := Product{
		ID:          FieldPlaceholder,
		Title:       FieldPlaceholder,
		Description: FieldPlaceholder,
		payload:     append(json.RawMessage(nil), raw...),
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var record map[string]interface{}
	if err := dec.Decode(&record); err != nil {
		return p
	}

	p.ID = stringField(record, "product_id")
	p.Title = stringField(record, "title")
	p.Description = stringField(record, "description")
	return p
}

// SearchText returns the entire record serialized to a single lowercase text
// blob. Matching deliberately runs over the full payload so a concept can
// live in any field (brand, category, attributes, even price).
func (p Product) SearchText() string {
	return strings.ToLower(string(p.payload))
}

// MarshalJSON emits the original record so a cached product round-trips to
// the exact payload the search API returned.
func (p Product) MarshalJSON() ([]byte, error) {
	if len(p.payload) == 0 {
		return []byte("{}"), nil
	}
	return p.payload, nil
}

func (p *Product) UnmarshalJSON(data []byte) error {
	*p = DecodeProduct(data)
	return nil
}

// stringField extracts a display string from a decoded record, tolerating
// non-string values (numeric product ids are common).
func stringField(record map[string]interface{}, key string) string {
	value, ok := record[key]
	if !ok || value == nil {
		return FieldPlaceholder
	}

	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return FieldPlaceholder
		}
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
