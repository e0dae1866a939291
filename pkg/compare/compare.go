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

// Package compare implements the ordering rules for query clause values and
// multi-clause ordering keys.
//
// Values of different JSON types order by a fixed type ordinal:
// undefined < null < bool < number < string. Objects and arrays have no
// ordering and comparing them is an error, as is a non-finite number.
package compare

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/matrixorigin/moquery/pkg/common/moerr"
	"github.com/matrixorigin/moquery/pkg/container/item"
	"github.com/matrixorigin/moquery/pkg/plan"
)

const (
	ordinalUndefined = 0
	ordinalNull      = 1
	ordinalBool      = 2
	// 3 is reserved; existing implementations skip it.
	ordinalNumber = 4
	ordinalString = 5
)

func typeOrdinal(c item.ClauseValue) (int, error) {
	if !c.Defined {
		return ordinalUndefined, nil
	}
	switch c.Value.(type) {
	case nil:
		return ordinalNull, nil
	case bool:
		return ordinalBool, nil
	case json.Number, float64, int, int64:
		return ordinalNumber, nil
	case string:
		return ordinalString, nil
	default:
		return 0, moerr.NewIncomparableKeys(
			fmt.Sprintf("cannot compare non-primitive value of type %T", c.Value))
	}
}

func asNumber(v interface{}) json.Number {
	switch n := v.(type) {
	case json.Number:
		return n
	case float64:
		return json.Number(fmt.Sprintf("%v", n))
	case int:
		return json.Number(fmt.Sprintf("%d", n))
	case int64:
		return json.Number(fmt.Sprintf("%d", n))
	}
	panic("not a number")
}

func compareNumbers(a, b json.Number) (int, error) {
	// Integer fast path, so large integer keys never lose precision.
	if ai, aerr := a.Int64(); aerr == nil {
		if bi, berr := b.Int64(); berr == nil {
			switch {
			case ai < bi:
				return -1, nil
			case ai > bi:
				return 1, nil
			default:
				return 0, nil
			}
		}
	}
	af, err := a.Float64()
	if err != nil {
		return 0, moerr.NewIncomparableKeys(err.Error())
	}
	bf, err := b.Float64()
	if err != nil {
		return 0, moerr.NewIncomparableKeys(err.Error())
	}
	if math.IsNaN(af) || math.IsNaN(bf) || math.IsInf(af, 0) || math.IsInf(bf, 0) {
		return 0, moerr.NewIncomparableKeys("encountered NaN or Infinity")
	}
	switch {
	case af < bf:
		return -1, nil
	case af > bf:
		return 1, nil
	default:
		return 0, nil
	}
}

// ClauseValues compares two clause values, returning -1, 0 or 1.
func ClauseValues(a, b item.ClauseValue) (int, error) {
	ao, err := typeOrdinal(a)
	if err != nil {
		return 0, err
	}
	bo, err := typeOrdinal(b)
	if err != nil {
		return 0, err
	}
	if ao != bo {
		if ao < bo {
			return -1, nil
		}
		return 1, nil
	}
	switch ao {
	case ordinalUndefined, ordinalNull:
		return 0, nil
	case ordinalBool:
		av, bv := a.Value.(bool), b.Value.(bool)
		switch {
		case av == bv:
			return 0, nil
		case !av:
			return -1, nil
		default:
			return 1, nil
		}
	case ordinalNumber:
		return compareNumbers(asNumber(a.Value), asNumber(b.Value))
	default:
		return strings.Compare(a.Value.(string), b.Value.(string)), nil
	}
}

// Order compares multi-clause ordering keys under per-clause directions.
type Order struct {
	directions []plan.SortDirection
}

func New(directions []plan.SortDirection) *Order {
	return &Order{directions: directions}
}

// Compare walks the clauses left to right, inverting each clause's result
// for descending clauses, and returns the first non-equal outcome.
func (o *Order) Compare(a, b []item.ClauseValue) (int, error) {
	if len(a) != len(o.directions) || len(b) != len(o.directions) {
		return 0, moerr.NewIncomparableKeys(fmt.Sprintf(
			"ordering key has %d/%d clauses, plan has %d", len(a), len(b), len(o.directions)))
	}
	for i, dir := range o.directions {
		c, err := ClauseValues(a[i], b[i])
		if err != nil {
			return 0, err
		}
		if dir == plan.Descending {
			c = -c
		}
		if c != 0 {
			return c, nil
		}
	}
	return 0, nil
}
