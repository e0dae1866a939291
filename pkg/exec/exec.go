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

// Package exec defines the pull-model interfaces the pipeline is assembled
// from. A producer merges partition buffers into one stream; stages wrap the
// producer (and each other) as Sources.
package exec

import (
	"github.com/matrixorigin/moquery/pkg/container/item"
	"github.com/matrixorigin/moquery/pkg/partition"
)

// Result is one pull outcome.
//
//   - Item != nil: one item was produced.
//   - Item == nil, Terminated == false: the source is stalled until the host
//     provides more partition data.
//   - Terminated == true: the source will never produce another item.
type Result struct {
	Item       *item.Item
	Terminated bool
}

// Source yields merged items one at a time.
type Source interface {
	Next() (Result, error)
}

// Producer is the innermost Source. It owns the partition components and the
// request/provide side of the protocol.
type Producer interface {
	Source

	// StartBatch marks a batch boundary. Producers whose draining policy is
	// per-batch (the unordered sequencer) reposition their cursor here.
	StartBatch()

	// Requests lists the fetch requests for every partition that may still
	// have pages, buffered data or not.
	Requests() []partition.DataRequest

	// Provide appends a page of items to the identified partition.
	Provide(pkrangeID string, items []item.Item, continuation string) error
}
