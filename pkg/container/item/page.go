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

package item

import (
	"encoding/json"

	"github.com/matrixorigin/moquery/pkg/common/moerr"
)

// ResultShape describes how a raw page body maps onto normalized items.
// The pipeline fixes the shape at construction from the plan.
type ResultShape int

const (
	// RawPayload pages are plain document lists.
	RawPayload ResultShape = iota

	// OrderBy pages wrap each document in an envelope carrying its sort key.
	OrderBy

	// ValueAggregate pages carry one clause-value list per partition
	// accumulator row, with no document payload.
	ValueAggregate
)

func (s ResultShape) String() string {
	switch s {
	case OrderBy:
		return "OrderBy"
	case ValueAggregate:
		return "ValueAggregate"
	default:
		return "RawPayload"
	}
}

type documentPage struct {
	Documents []json.RawMessage `json:"Documents"`
}

type orderByEnvelope struct {
	OrderByItems []ClauseValue   `json:"orderByItems"`
	Payload      json.RawMessage `json:"payload"`
}

// DecodePage converts a raw page body into normalized items.
func (s ResultShape) DecodePage(body []byte) ([]Item, error) {
	var page documentPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, moerr.NewInvalidPage(err.Error())
	}
	items := make([]Item, 0, len(page.Documents))
	for _, doc := range page.Documents {
		switch s {
		case RawPayload:
			items = append(items, Item{Payload: doc})
		case OrderBy:
			var env orderByEnvelope
			if err := json.Unmarshal(doc, &env); err != nil {
				return nil, moerr.NewInvalidPage(err.Error())
			}
			items = append(items, Item{OrderBy: env.OrderByItems, Payload: env.Payload})
		case ValueAggregate:
			var aggs []ClauseValue
			if err := json.Unmarshal(doc, &aggs); err != nil {
				return nil, moerr.NewInvalidPage(err.Error())
			}
			items = append(items, Item{Aggregates: aggs})
		}
	}
	return items, nil
}

// EncodePage is the inverse of DecodePage. Test fixtures use it to simulate
// backend pages.
func (s ResultShape) EncodePage(items []Item) ([]byte, error) {
	docs := make([]json.RawMessage, 0, len(items))
	for _, it := range items {
		switch s {
		case RawPayload:
			docs = append(docs, it.Payload)
		case OrderBy:
			doc, err := json.Marshal(orderByEnvelope{
				OrderByItems: it.OrderBy,
				Payload:      it.Payload,
			})
			if err != nil {
				return nil, moerr.NewInvalidPage(err.Error())
			}
			docs = append(docs, doc)
		case ValueAggregate:
			doc, err := json.Marshal(it.Aggregates)
			if err != nil {
				return nil, moerr.NewInvalidPage(err.Error())
			}
			docs = append(docs, doc)
		}
	}
	return json.Marshal(documentPage{Documents: docs})
}
