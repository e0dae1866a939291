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

// Package testutil provides item builders and a paged fake backend for
// pipeline tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/matrixorigin/moquery/pkg/container/item"
	"github.com/matrixorigin/moquery/pkg/partition"
	"github.com/matrixorigin/moquery/pkg/pipeline"
)

// Key normalizes a Go value into a clause value the way the page decoder
// would: numbers become json.Number.
func Key(v interface{}) item.ClauseValue {
	switch n := v.(type) {
	case int:
		return item.NewClauseValue(json.Number(strconv.Itoa(n)))
	case int64:
		return item.NewClauseValue(json.Number(strconv.FormatInt(n, 10)))
	case float64:
		return item.NewClauseValue(json.Number(strconv.FormatFloat(n, 'g', -1, 64)))
	default:
		return item.NewClauseValue(v)
	}
}

// NewItem builds a raw-payload item.
func NewItem(payload string) item.Item {
	return item.Item{Payload: json.RawMessage(payload)}
}

// NewOrderByItem builds an item carrying one ordering key per value.
func NewOrderByItem(payload string, keys ...interface{}) item.Item {
	it := NewItem(payload)
	for _, k := range keys {
		it.OrderBy = append(it.OrderBy, Key(k))
	}
	return it
}

// NewAggregateItem builds a per-partition aggregate row.
func NewAggregateItem(values ...interface{}) item.Item {
	var it item.Item
	for _, v := range values {
		it.Aggregates = append(it.Aggregates, Key(v))
	}
	return it
}

// Ranges builds n ranges named pkrange-0..n-1 with adjacent boundaries.
func Ranges(n int) []partition.Range {
	ranges := make([]partition.Range, n)
	for i := range ranges {
		ranges[i] = partition.Range{
			ID:           fmt.Sprintf("pkrange-%d", i),
			MinInclusive: fmt.Sprintf("%02X", i*16),
			MaxExclusive: fmt.Sprintf("%02X", (i+1)*16),
		}
	}
	return ranges
}

// Backend serves pages for data requests.
type Backend interface {
	Fetch(pkrangeID, continuation string) (items []item.Item, next string, err error)
}

// PagedBackend serves pre-built pages per partition. Continuations are page
// indexes, matching how a real backend's tokens are opaque to the pipeline.
type PagedBackend struct {
	Pages map[string][][]item.Item
}

func (b *PagedBackend) Fetch(pkrangeID, continuation string) ([]item.Item, string, error) {
	pages, ok := b.Pages[pkrangeID]
	if !ok {
		return nil, "", fmt.Errorf("no such partition: %s", pkrangeID)
	}
	idx := 0
	if continuation != "" {
		var err error
		idx, err = strconv.Atoi(continuation)
		if err != nil {
			return nil, "", fmt.Errorf("bad continuation %q: %v", continuation, err)
		}
	}
	if idx >= len(pages) {
		return nil, "", nil
	}
	next := ""
	if idx+1 < len(pages) {
		next = strconv.Itoa(idx + 1)
	}
	return pages[idx], next, nil
}

// RunToCompletion drives a pipeline against a backend until it terminates
// and returns every emitted payload in order.
func RunToCompletion(p *pipeline.QueryPipeline, backend Backend) ([]json.RawMessage, error) {
	var out []json.RawMessage
	for {
		batch, err := p.NextBatch()
		if err != nil {
			return nil, err
		}
		out = append(out, batch.Items...)
		if batch.Terminated {
			return out, nil
		}
		for _, req := range batch.Requests {
			items, next, err := backend.Fetch(req.PartitionKeyRangeID, req.Continuation)
			if err != nil {
				return nil, err
			}
			if err := p.ProvideData(req.PartitionKeyRangeID, items, next); err != nil {
				return nil, err
			}
		}
	}
}
