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

// Package aggregate implements the value-aggregate stage for
// SELECT VALUE COUNT/SUM/AVG/MIN/MAX queries. The stage consumes the entire
// merged stream of per-partition partials and emits exactly one item.
package aggregate

import (
	"encoding/json"
	"fmt"

	"github.com/matrixorigin/moquery/pkg/common/moerr"
	"github.com/matrixorigin/moquery/pkg/container/item"
	"github.com/matrixorigin/moquery/pkg/exec"
)

type Aggregate struct {
	src     exec.Source
	aggs    []Aggregator
	emitted bool
}

// New builds one aggregator per plan aggregate name.
func New(names []string, src exec.Source) (*Aggregate, error) {
	aggs := make([]Aggregator, len(names))
	for i, name := range names {
		a, err := NewAggregator(name)
		if err != nil {
			return nil, err
		}
		aggs[i] = a
	}
	return &Aggregate{src: src, aggs: aggs}, nil
}

// Next folds partials until the input terminates, then emits the single
// result item. No item can be emitted earlier: any partition still holding
// pages could change every aggregate.
func (a *Aggregate) Next() (exec.Result, error) {
	if a.emitted {
		return exec.Result{Terminated: true}, nil
	}
	for {
		r, err := a.src.Next()
		if err != nil {
			return exec.Result{}, err
		}
		if r.Item != nil {
			if len(r.Item.Aggregates) != len(a.aggs) {
				return exec.Result{}, moerr.NewInvalidPage(fmt.Sprintf(
					"aggregate row has %d values, plan has %d", len(r.Item.Aggregates), len(a.aggs)))
			}
			for i := range a.aggs {
				if err := a.aggs[i].Add(r.Item.Aggregates[i]); err != nil {
					return exec.Result{}, err
				}
			}
			continue
		}
		if !r.Terminated {
			return exec.Result{}, nil
		}
		break
	}

	a.emitted = true
	payload, err := a.payload()
	if err != nil {
		return exec.Result{}, err
	}
	return exec.Result{Item: &item.Item{Payload: payload}}, nil
}

// payload is the bare value for a single aggregate, an array of values
// otherwise.
func (a *Aggregate) payload() (json.RawMessage, error) {
	values := make([]interface{}, len(a.aggs))
	for i, agg := range a.aggs {
		v, err := agg.Value()
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	var out interface{} = values
	if len(values) == 1 {
		out = values[0]
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, moerr.NewInternalError("cannot serialize aggregate result: %s", err.Error())
	}
	return data, nil
}
