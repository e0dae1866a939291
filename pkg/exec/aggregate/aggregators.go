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

package aggregate

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/matrixorigin/moquery/pkg/common/moerr"
	"github.com/matrixorigin/moquery/pkg/compare"
	"github.com/matrixorigin/moquery/pkg/container/item"
)

// Aggregator folds per-partition accumulator values into one global value.
// Partitions pre-aggregate their own documents; the pipeline only combines
// the partial results.
type Aggregator interface {
	// Add folds in one partition's partial value.
	Add(c item.ClauseValue) error

	// Value returns the final value for the result payload.
	Value() (interface{}, error)
}

// NewAggregator maps a plan aggregate name to its implementation. Names are
// matched case-insensitively.
func NewAggregator(name string) (Aggregator, error) {
	switch strings.ToLower(name) {
	case "count":
		return &countAggregator{}, nil
	case "sum":
		return &sumAggregator{}, nil
	case "average":
		return &averageAggregator{}, nil
	case "min":
		return &minmaxAggregator{key: "min", keep: -1}, nil
	case "max":
		return &minmaxAggregator{key: "max", keep: 1}, nil
	default:
		return nil, moerr.NewUnsupportedPlan("unknown aggregate: " + name)
	}
}

func asInt64(v interface{}) (int64, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	i, err := n.Int64()
	return i, err == nil
}

func asFloat64(v interface{}) (float64, bool) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := n.Float64()
	return f, err == nil
}

type countAggregator struct {
	count int64
}

func (a *countAggregator) Add(c item.ClauseValue) error {
	v, ok := asInt64(c.Value)
	if !c.Defined || !ok {
		return moerr.NewInvalidPage("count aggregate expects an integer value")
	}
	a.count += v
	return nil
}

func (a *countAggregator) Value() (interface{}, error) {
	return a.count, nil
}

type sumAggregator struct {
	sum float64
}

func (a *sumAggregator) Add(c item.ClauseValue) error {
	v, ok := asFloat64(c.Value)
	if !c.Defined || !ok {
		return moerr.NewInvalidPage("sum aggregate expects a numeric value")
	}
	a.sum += v
	return nil
}

func (a *sumAggregator) Value() (interface{}, error) {
	if math.IsNaN(a.sum) || math.IsInf(a.sum, 0) {
		return nil, moerr.NewInternalError("sum aggregate has non-finite value")
	}
	return a.sum, nil
}

// averageAggregator combines {"sum": s, "count": n} partials, so the global
// average is exact regardless of how documents were distributed.
type averageAggregator struct {
	sum   float64
	count int64
}

func (a *averageAggregator) Add(c item.ClauseValue) error {
	obj, ok := c.Value.(map[string]interface{})
	if !c.Defined || !ok {
		return moerr.NewInvalidPage("average aggregate expects an object with sum and count")
	}
	s, sok := asFloat64(obj["sum"])
	n, nok := asInt64(obj["count"])
	if !sok || !nok {
		return moerr.NewInvalidPage("average aggregate expects an object with sum and count")
	}
	a.sum += s
	a.count += n
	return nil
}

func (a *averageAggregator) Value() (interface{}, error) {
	if a.count == 0 {
		return float64(0), nil
	}
	avg := a.sum / float64(a.count)
	if math.IsNaN(avg) || math.IsInf(avg, 0) {
		return nil, moerr.NewInternalError("average aggregate has non-finite value")
	}
	return avg, nil
}

// minmaxAggregator handles both the bare-value form and the object form
// {"min"/"max": v, "count": n} some backends produce. Object partials with
// a zero count come from empty partitions and are skipped.
type minmaxAggregator struct {
	key     string
	keep    int // comparison outcome that replaces the current best
	best    item.ClauseValue
	hasBest bool
}

func (a *minmaxAggregator) Add(c item.ClauseValue) error {
	if !c.Defined {
		return moerr.NewInvalidPage(a.key + " aggregate expects a value")
	}
	candidate := c
	if obj, ok := c.Value.(map[string]interface{}); ok {
		n, nok := asInt64(obj["count"])
		if !nok {
			return moerr.NewInvalidPage(a.key + " aggregate expects an object with " + a.key + " and count")
		}
		if n == 0 {
			return nil
		}
		v, vok := obj[a.key]
		if !vok {
			return moerr.NewInvalidPage(a.key + " aggregate expects an object with " + a.key + " and count")
		}
		candidate = item.NewClauseValue(v)
	}
	if !a.hasBest {
		a.best, a.hasBest = candidate, true
		return nil
	}
	cmp, err := compare.ClauseValues(candidate, a.best)
	if err != nil {
		return err
	}
	if cmp == a.keep {
		a.best = candidate
	}
	return nil
}

func (a *minmaxAggregator) Value() (interface{}, error) {
	if !a.hasBest {
		return nil, nil
	}
	return a.best.Value, nil
}
