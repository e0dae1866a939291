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

package compare

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/moquery/pkg/common/moerr"
	"github.com/matrixorigin/moquery/pkg/container/item"
	"github.com/matrixorigin/moquery/pkg/plan"
)

func num(s string) item.ClauseValue {
	return item.NewClauseValue(json.Number(s))
}

func TestClauseValuesTypeOrdinal(t *testing.T) {
	undefined := item.UndefinedClauseValue()
	null := item.NewClauseValue(nil)
	boolean := item.NewClauseValue(false)
	number := num("0")
	str := item.NewClauseValue("")

	ladder := []item.ClauseValue{undefined, null, boolean, number, str}
	for i := 0; i < len(ladder); i++ {
		for j := 0; j < len(ladder); j++ {
			c, err := ClauseValues(ladder[i], ladder[j])
			require.NoError(t, err)
			switch {
			case i < j:
				require.Equal(t, -1, c, "ladder[%d] vs ladder[%d]", i, j)
			case i > j:
				require.Equal(t, 1, c, "ladder[%d] vs ladder[%d]", i, j)
			default:
				require.Equal(t, 0, c, "ladder[%d] vs ladder[%d]", i, j)
			}
		}
	}
}

func TestClauseValuesSameType(t *testing.T) {
	cases := []struct {
		name     string
		a, b     item.ClauseValue
		expected int
	}{
		{"strings", item.NewClauseValue("apple"), item.NewClauseValue("banana"), -1},
		{"equal strings", item.NewClauseValue("a"), item.NewClauseValue("a"), 0},
		{"bools", item.NewClauseValue(false), item.NewClauseValue(true), -1},
		{"ints", num("3"), num("10"), -1},
		{"floats", num("1.5"), num("1.25"), 1},
		{"int vs float", num("2"), num("2.5"), -1},
		{"equal numbers", num("7"), num("7.0"), 0},
		{"nulls", item.NewClauseValue(nil), item.NewClauseValue(nil), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := ClauseValues(tc.a, tc.b)
			require.NoError(t, err)
			require.Equal(t, tc.expected, c)
		})
	}
}

func TestClauseValuesLargeIntegersKeepPrecision(t *testing.T) {
	// Adjacent int64 values that collapse to the same float64.
	c, err := ClauseValues(num("9007199254740993"), num("9007199254740992"))
	require.NoError(t, err)
	require.Equal(t, 1, c)
}

func TestClauseValuesNonPrimitive(t *testing.T) {
	obj := item.NewClauseValue(map[string]interface{}{"a": json.Number("1")})
	_, err := ClauseValues(obj, num("1"))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrIncomparableKeys))

	arr := item.NewClauseValue([]interface{}{json.Number("1")})
	_, err = ClauseValues(num("1"), arr)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrIncomparableKeys))
}

func TestOrderDescending(t *testing.T) {
	ord := New([]plan.SortDirection{plan.Descending})
	c, err := ord.Compare([]item.ClauseValue{num("1")}, []item.ClauseValue{num("2")})
	require.NoError(t, err)
	require.Equal(t, 1, c)
}

func TestOrderMultiClause(t *testing.T) {
	ord := New([]plan.SortDirection{plan.Ascending, plan.Descending})

	// First clause equal, second decides inverted.
	a := []item.ClauseValue{num("1"), num("5")}
	b := []item.ClauseValue{num("1"), num("9")}
	c, err := ord.Compare(a, b)
	require.NoError(t, err)
	require.Equal(t, 1, c)

	// First clause decides, second never consulted.
	a = []item.ClauseValue{num("0"), item.NewClauseValue(map[string]interface{}{})}
	b = []item.ClauseValue{num("1"), num("1")}
	c, err = ord.Compare(a, b)
	require.NoError(t, err)
	require.Equal(t, -1, c)
}

func TestOrderClauseCountMismatch(t *testing.T) {
	ord := New([]plan.SortDirection{plan.Ascending})
	_, err := ord.Compare(nil, []item.ClauseValue{num("1")})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrIncomparableKeys))
}
