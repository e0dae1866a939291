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

// Package mergeorder implements the streaming k-way merge producer for
// ORDER BY queries. Each partition delivers its items already sorted; the
// producer repeatedly emits the smallest front item across partitions.
package mergeorder

import (
	"github.com/matrixorigin/moquery/pkg/compare"
	"github.com/matrixorigin/moquery/pkg/exec"
	"github.com/matrixorigin/moquery/pkg/partition"
	"github.com/matrixorigin/moquery/pkg/plan"
)

type Producer struct {
	exec.ComponentSet
	ord *compare.Order
}

func New(ranges []partition.Range, directions []plan.SortDirection) *Producer {
	return &Producer{
		ComponentSet: exec.NewComponentSet(ranges),
		ord:          compare.New(directions),
	}
}

// Next emits the smallest front item, or stalls. The merge must stall while
// any non-exhausted component has an empty buffer: that partition's next page
// could hold the globally smallest item, so emitting anything would break the
// output ordering. Ties keep the earliest component, which makes the merge
// deterministic for equal keys.
func (p *Producer) Next() (exec.Result, error) {
	best := -1
	for i, c := range p.Comps {
		front, ok := c.Front()
		if !ok {
			if c.Exhausted() {
				continue
			}
			return exec.Result{}, nil
		}
		if best < 0 {
			best = i
			continue
		}
		bestFront, _ := p.Comps[best].Front()
		cmp, err := p.ord.Compare(front.OrderBy, bestFront.OrderBy)
		if err != nil {
			return exec.Result{}, err
		}
		if cmp < 0 {
			best = i
		}
	}
	if best < 0 {
		return exec.Result{Terminated: true}, nil
	}
	it, _ := p.Comps[best].Pop()
	return exec.Result{Item: &it}, nil
}
