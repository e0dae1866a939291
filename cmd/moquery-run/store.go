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

package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/btree"

	"github.com/matrixorigin/moquery/pkg/common/moerr"
	"github.com/matrixorigin/moquery/pkg/config"
	"github.com/matrixorigin/moquery/pkg/container/item"
	"github.com/matrixorigin/moquery/pkg/partition"
)

type document struct {
	ID    string `json:"id"`
	PK    string `json:"pk"`
	Value int    `json:"value"`
}

func (d *document) Less(than btree.Item) bool {
	other := than.(*document)
	if d.Value != other.Value {
		return d.Value < other.Value
	}
	return d.ID < other.ID
}

// memStore is an in-memory multi-partition document store. Each partition
// keeps its documents in a btree ordered by (value, id), so pages come out
// sorted the way a streaming ORDER BY merge expects.
type memStore struct {
	ranges   []partition.Range
	trees    map[string]*btree.BTree
	pageSize int
}

func newMemStore(cfg config.StoreConfig) *memStore {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	s := &memStore{
		trees:    make(map[string]*btree.BTree),
		pageSize: cfg.PageSize,
	}
	for i := 0; i < cfg.Partitions; i++ {
		r := partition.Range{
			ID:           fmt.Sprintf("pkrange-%d", i),
			MinInclusive: fmt.Sprintf("%02X", i*16),
			MaxExclusive: fmt.Sprintf("%02X", (i+1)*16),
		}
		tree := btree.New(8)
		for j := 0; j < cfg.DocumentsPerPartition; j++ {
			tree.ReplaceOrInsert(&document{
				ID:    fmt.Sprintf("doc-%d-%d", i, j),
				PK:    r.ID,
				Value: rng.Intn(cfg.Partitions * cfg.DocumentsPerPartition),
			})
		}
		s.ranges = append(s.ranges, r)
		s.trees[r.ID] = tree
	}
	return s
}

func (s *memStore) Ranges() []partition.Range {
	return s.ranges
}

// Fetch serves one page in document order. The continuation is the offset of
// the next page, opaque to the pipeline.
func (s *memStore) Fetch(pkrangeID, continuation string) ([]item.Item, string, error) {
	tree, ok := s.trees[pkrangeID]
	if !ok {
		return nil, "", moerr.NewUnknownPartition(pkrangeID)
	}
	offset := 0
	if continuation != "" {
		var err error
		if offset, err = strconv.Atoi(continuation); err != nil {
			return nil, "", moerr.NewInvalidPage("bad continuation: " + continuation)
		}
	}

	var items []item.Item
	pos := 0
	tree.Ascend(func(i btree.Item) bool {
		doc := i.(*document)
		if pos < offset {
			pos++
			return true
		}
		if len(items) >= s.pageSize {
			return false
		}
		payload, err := json.Marshal(doc)
		if err != nil {
			return false
		}
		items = append(items, item.Item{
			OrderBy: []item.ClauseValue{
				item.NewClauseValue(json.Number(strconv.Itoa(doc.Value))),
			},
			Payload: payload,
		})
		pos++
		return true
	})

	next := ""
	if offset+len(items) < tree.Len() {
		next = strconv.Itoa(offset + len(items))
	}
	return items, next, nil
}
