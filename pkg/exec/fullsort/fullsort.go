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

// Package fullsort implements the non-streaming ORDER BY producer. Vector
// and full-text scoring functions do not give per-partition sorted pages, so
// nothing can be emitted until every partition has delivered every page; the
// producer buffers the full result set and sorts it once.
package fullsort

import (
	"sort"

	"github.com/matrixorigin/moquery/pkg/compare"
	"github.com/matrixorigin/moquery/pkg/container/item"
	"github.com/matrixorigin/moquery/pkg/exec"
	"github.com/matrixorigin/moquery/pkg/partition"
	"github.com/matrixorigin/moquery/pkg/plan"
)

type Producer struct {
	exec.ComponentSet
	ord    *compare.Order
	buffer []item.Item
	sorted bool
}

func New(ranges []partition.Range, directions []plan.SortDirection) *Producer {
	return &Producer{
		ComponentSet: exec.NewComponentSet(ranges),
		ord:          compare.New(directions),
	}
}

func (p *Producer) Next() (exec.Result, error) {
	// Move everything delivered so far out of the component buffers.
	// Draining in component order keeps the tie-break stable under the
	// stable sort below.
	for _, c := range p.Comps {
		for {
			it, ok := c.Pop()
			if !ok {
				break
			}
			p.buffer = append(p.buffer, it)
		}
	}
	if !p.AllExhausted() {
		return exec.Result{}, nil
	}
	if !p.sorted {
		var sortErr error
		sort.SliceStable(p.buffer, func(i, j int) bool {
			c, err := p.ord.Compare(p.buffer[i].OrderBy, p.buffer[j].OrderBy)
			if err != nil && sortErr == nil {
				sortErr = err
			}
			return c < 0
		})
		if sortErr != nil {
			return exec.Result{}, sortErr
		}
		p.sorted = true
	}
	if len(p.buffer) == 0 {
		return exec.Result{Terminated: true}, nil
	}
	it := p.buffer[0]
	p.buffer = p.buffer[1:]
	return exec.Result{Item: &it}, nil
}
