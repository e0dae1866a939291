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

package exec

import (
	"github.com/matrixorigin/moquery/pkg/common/moerr"
	"github.com/matrixorigin/moquery/pkg/container/item"
	"github.com/matrixorigin/moquery/pkg/partition"
)

// ComponentSet is the request/provide half of a producer, shared by every
// merge strategy. Producers embed it and implement only Next/StartBatch.
type ComponentSet struct {
	Comps []*partition.Component
}

// NewComponentSet builds components for the given ranges, preserving order.
func NewComponentSet(ranges []partition.Range) ComponentSet {
	return ComponentSet{Comps: partition.NewComponents(ranges)}
}

// Requests returns one request per non-exhausted partition, in component
// order, each echoing that partition's current continuation.
func (s *ComponentSet) Requests() []partition.DataRequest {
	var reqs []partition.DataRequest
	for _, c := range s.Comps {
		if req, ok := c.Request(); ok {
			reqs = append(reqs, req)
		}
	}
	return reqs
}

// Provide routes a page to the component owning pkrangeID.
func (s *ComponentSet) Provide(pkrangeID string, items []item.Item, continuation string) error {
	for _, c := range s.Comps {
		if c.ID() == pkrangeID {
			return c.Provide(items, continuation)
		}
	}
	return moerr.NewUnknownPartition(pkrangeID)
}

// AllRetired reports whether every component is fully retired.
func (s *ComponentSet) AllRetired() bool {
	for _, c := range s.Comps {
		if !c.FullyRetired() {
			return false
		}
	}
	return true
}

// AllExhausted reports whether every partition has delivered its last page,
// buffered items notwithstanding.
func (s *ComponentSet) AllExhausted() bool {
	for _, c := range s.Comps {
		if !c.Exhausted() {
			return false
		}
	}
	return true
}

// StartBatch is a no-op for strategies without per-batch state.
func (s *ComponentSet) StartBatch() {}
