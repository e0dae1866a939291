// Copyright 2024 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package item defines the normalized result item flowing through the
// pipeline, and the codecs between the backend page shapes and that form.
//
// Backends return pages in one of three shapes depending on the query:
// bare documents, ORDER BY envelopes carrying the sort key alongside the
// payload, and per-partition aggregate rows. The pipeline core only ever
// sees the normalized Item.
package item

import (
	"bytes"
	"encoding/json"
)

// ClauseValue is the normalized form of one backend {"item": <value>} object,
// as produced for ORDER BY keys and value aggregates.
//
// Defined distinguishes a missing "item" property (the document lacked the
// ordering path) from an explicit JSON null. Undefined sorts before every
// defined value, null included.
type ClauseValue struct {
	// Defined reports whether the "item" property was present at all.
	Defined bool

	// Value is nil, bool, json.Number, string, []interface{} or
	// map[string]interface{}. Numbers stay json.Number so integer keys
	// compare without float rounding.
	Value interface{}
}

// NewClauseValue wraps a defined value.
func NewClauseValue(v interface{}) ClauseValue {
	return ClauseValue{Defined: true, Value: v}
}

// UndefinedClauseValue is the value for a document missing the ordering path.
func UndefinedClauseValue() ClauseValue {
	return ClauseValue{}
}

func (c *ClauseValue) UnmarshalJSON(data []byte) error {
	var wire struct {
		Item json.RawMessage `json:"item"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Item == nil {
		*c = ClauseValue{}
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(wire.Item))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return err
	}
	*c = ClauseValue{Defined: true, Value: v}
	return nil
}

func (c ClauseValue) MarshalJSON() ([]byte, error) {
	if !c.Defined {
		return []byte("{}"), nil
	}
	return json.Marshal(struct {
		Item interface{} `json:"item"`
	}{Item: c.Value})
}

// Item is one normalized query result. Exactly one of Payload and Aggregates
// is meaningful: aggregate rows carry no payload.
type Item struct {
	// OrderBy holds one clause value per ORDER BY clause, empty for
	// unordered queries.
	OrderBy []ClauseValue

	// Aggregates holds the per-partition accumulator values for value
	// aggregate queries.
	Aggregates []ClauseValue

	// Payload is the opaque document body handed back to the host.
	Payload json.RawMessage
}
