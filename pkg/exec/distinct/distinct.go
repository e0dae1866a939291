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

// Package distinct implements DISTINCT dedup over the merged stream.
//
// Items are compared by a hash of their whitespace-normalized payload. The
// ordered variant assumes duplicates arrive adjacent (the stream is sorted)
// and remembers only the previous hash; the unordered variant keeps the full
// set of hashes seen.
package distinct

import (
	"bytes"
	"encoding/json"

	"github.com/cespare/xxhash/v2"

	"github.com/matrixorigin/moquery/pkg/common/moerr"
	"github.com/matrixorigin/moquery/pkg/container/item"
	"github.com/matrixorigin/moquery/pkg/exec"
)

type Distinct struct {
	src     exec.Source
	ordered bool

	prev    uint64
	hasPrev bool
	seen    map[uint64]struct{}
}

// NewOrdered dedups adjacent duplicates only.
func NewOrdered(src exec.Source) *Distinct {
	return &Distinct{src: src, ordered: true}
}

// NewUnordered dedups across the whole stream.
func NewUnordered(src exec.Source) *Distinct {
	return &Distinct{src: src, seen: make(map[uint64]struct{})}
}

func hashItem(it *item.Item) (uint64, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, it.Payload); err != nil {
		return 0, moerr.NewInvalidPage(err.Error())
	}
	return xxhash.Sum64(buf.Bytes()), nil
}

func (d *Distinct) Next() (exec.Result, error) {
	for {
		r, err := d.src.Next()
		if err != nil || r.Item == nil {
			return r, err
		}
		h, err := hashItem(r.Item)
		if err != nil {
			return exec.Result{}, err
		}
		if d.ordered {
			if d.hasPrev && h == d.prev {
				continue
			}
			d.prev, d.hasPrev = h, true
			return r, nil
		}
		if _, dup := d.seen[h]; dup {
			continue
		}
		d.seen[h] = struct{}{}
		return r, nil
	}
}
