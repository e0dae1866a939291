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

// Package partition tracks per-partition pagination state. A Component owns
// one partition key range: a FIFO buffer of items the host has delivered but
// the merge has not yet consumed, plus the continuation token identifying the
// next page.
package partition

import (
	"github.com/matrixorigin/moquery/pkg/common/moerr"
	"github.com/matrixorigin/moquery/pkg/container/item"
)

// Range is one physical partition key range. Boundaries are hex-encoded
// effective partition keys; min is inclusive, max exclusive.
type Range struct {
	ID           string `json:"id"`
	MinInclusive string `json:"minInclusive"`
	MaxExclusive string `json:"maxExclusive"`
}

// Overlaps reports whether the range intersects [min, max]. Boundaries
// compare lexicographically. The query min's inclusivity cannot matter: the
// range's own max is always exclusive, so touching it at min is never an
// overlap either way.
func (r Range) Overlaps(min, max string, maxInclusive bool) bool {
	if r.MaxExclusive <= min {
		return false
	}
	if max < r.MinInclusive {
		return false
	}
	if max == r.MinInclusive && !maxInclusive {
		return false
	}
	return true
}

// DataRequest asks the host to fetch one page from one partition.
// Continuation is a verbatim echo of the token from the previous page, or
// empty for the first page.
type DataRequest struct {
	PartitionKeyRangeID string `json:"partitionKeyRangeId"`
	Continuation        string `json:"continuation"`
}

type paginationState int

const (
	// stateInitial: no page requested yet, the next request carries no token.
	stateInitial paginationState = iota
	// stateContinuing: at least one page received, token recorded.
	stateContinuing
	// stateDone: the backend returned an empty continuation, no more pages.
	stateDone
)

// Component is the pipeline-side cursor over one partition.
type Component struct {
	r      Range
	state  paginationState
	token  string
	buffer []item.Item
}

// NewComponent starts a component in the initial state with an empty buffer.
func NewComponent(r Range) *Component {
	return &Component{r: r}
}

// NewComponents builds one component per range, preserving order. Component
// order is the tie-break for equal ordering keys, so callers fix it once here.
func NewComponents(ranges []Range) []*Component {
	comps := make([]*Component, len(ranges))
	for i, r := range ranges {
		comps[i] = NewComponent(r)
	}
	return comps
}

// Range returns the partition key range this component serves.
func (c *Component) Range() Range {
	return c.r
}

// ID returns the partition key range id.
func (c *Component) ID() string {
	return c.r.ID
}

// Exhausted reports whether the backend has no more pages for this partition.
func (c *Component) Exhausted() bool {
	return c.state == stateDone
}

// FullyRetired reports whether the component can never yield another item:
// exhausted and drained.
func (c *Component) FullyRetired() bool {
	return c.state == stateDone && len(c.buffer) == 0
}

// Len returns the number of buffered items.
func (c *Component) Len() int {
	return len(c.buffer)
}

// Front peeks at the oldest buffered item without consuming it.
func (c *Component) Front() (*item.Item, bool) {
	if len(c.buffer) == 0 {
		return nil, false
	}
	return &c.buffer[0], true
}

// Pop consumes and returns the oldest buffered item.
func (c *Component) Pop() (item.Item, bool) {
	if len(c.buffer) == 0 {
		return item.Item{}, false
	}
	it := c.buffer[0]
	c.buffer = c.buffer[1:]
	return it, true
}

// Provide appends a page of items and records the continuation. An empty
// continuation marks the partition exhausted. Providing to an already
// exhausted partition is a protocol violation.
func (c *Component) Provide(items []item.Item, continuation string) error {
	if c.state == stateDone {
		return moerr.NewPartitionExhausted(c.r.ID)
	}
	c.buffer = append(c.buffer, items...)
	if continuation == "" {
		c.state = stateDone
	} else {
		c.state = stateContinuing
		c.token = continuation
	}
	return nil
}

// Request returns the fetch request for this partition's next page, or false
// when the partition is exhausted. The request is issued even while the
// buffer still holds items, so the host can fetch ahead of consumption.
func (c *Component) Request() (DataRequest, bool) {
	if c.state == stateDone {
		return DataRequest{}, false
	}
	return DataRequest{PartitionKeyRangeID: c.r.ID, Continuation: c.token}, true
}
