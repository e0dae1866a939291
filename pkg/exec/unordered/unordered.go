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

// Package unordered implements the sequencing producer for queries without
// ORDER BY. Output is the concatenation of per-partition streams in component
// order; nothing is compared.
package unordered

import (
	"github.com/matrixorigin/moquery/pkg/exec"
	"github.com/matrixorigin/moquery/pkg/partition"
)

// Producer drains one component per batch. The cursor advances past fully
// retired components only at batch boundaries, so a single batch never
// interleaves two partitions.
type Producer struct {
	exec.ComponentSet
	cursor int
}

func New(ranges []partition.Range) *Producer {
	return &Producer{ComponentSet: exec.NewComponentSet(ranges)}
}

// StartBatch repositions the cursor on the first component that can still
// yield items.
func (p *Producer) StartBatch() {
	for p.cursor < len(p.Comps) && p.Comps[p.cursor].FullyRetired() {
		p.cursor++
	}
}

func (p *Producer) Next() (exec.Result, error) {
	if p.cursor >= len(p.Comps) {
		return exec.Result{Terminated: true}, nil
	}
	c := p.Comps[p.cursor]
	if it, ok := c.Pop(); ok {
		return exec.Result{Item: &it}, nil
	}
	// The active component's buffer is drained. Even if later components
	// hold data, this batch is over; the next batch picks them up.
	if p.AllRetired() {
		return exec.Result{Terminated: true}, nil
	}
	return exec.Result{}, nil
}
