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

package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/moquery/pkg/common/moerr"
)

func TestDecodeWirePlan(t *testing.T) {
	data := []byte(`{
		"partitionedQueryExecutionInfoVersion": 2,
		"queryInfo": {
			"distinctType": "Unordered",
			"top": 10,
			"offset": 5,
			"limit": 20,
			"orderBy": ["Ascending", "Descending"],
			"orderByExpressions": ["c.a", "c.b"],
			"rewrittenQuery": "SELECT * FROM c",
			"hasSelectValue": false,
			"hasNonStreamingOrderBy": true
		},
		"queryRanges": [
			{"min":"00","max":"FF","isMinInclusive":true,"isMaxInclusive":false}
		]
	}`)

	p, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, 2, p.Version)
	require.Equal(t, DistinctUnordered, p.QueryInfo.DistinctType)
	require.Equal(t, int64(10), *p.QueryInfo.Top)
	require.Equal(t, int64(5), *p.QueryInfo.Offset)
	require.Equal(t, int64(20), *p.QueryInfo.Limit)
	require.Equal(t, []SortDirection{Ascending, Descending}, p.QueryInfo.OrderBy)
	require.True(t, p.QueryInfo.HasNonStreamingOrderBy)
	require.Len(t, p.QueryRanges, 1)
	require.True(t, p.QueryRanges[0].IsMinInclusive)
}

func TestDecodeDefaults(t *testing.T) {
	p, err := Decode([]byte(`{"queryInfo":{}}`))
	require.NoError(t, err)
	require.Equal(t, DistinctNone, p.QueryInfo.DistinctType)
	require.Nil(t, p.QueryInfo.Top)
	require.Empty(t, p.QueryInfo.OrderBy)
}

func TestDecodeRejectsBadEnums(t *testing.T) {
	_, err := Decode([]byte(`{"queryInfo":{"orderBy":["Sideways"]}}`))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidPlan))

	_, err = Decode([]byte(`{"queryInfo":{"distinctType":"Kinda"}}`))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidPlan))
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		qi   QueryInfo
		code uint16
	}{
		{"plain", QueryInfo{}, moerr.Ok},
		{"value aggregate", QueryInfo{Aggregates: []string{"Count"}, HasSelectValue: true}, moerr.Ok},
		{"non-value aggregate", QueryInfo{Aggregates: []string{"Count"}}, moerr.ErrUnsupportedPlan},
		{"aggregate with order by", QueryInfo{
			Aggregates:     []string{"Count"},
			HasSelectValue: true,
			OrderBy:        []SortDirection{Ascending},
		}, moerr.ErrUnsupportedPlan},
		{"group by", QueryInfo{GroupByExpressions: []string{"c.x"}}, moerr.ErrUnsupportedPlan},
		{"group by aliases", QueryInfo{GroupByAliasToAggregate: map[string]string{"x": "Count"}}, moerr.ErrUnsupportedPlan},
		{"clause count mismatch", QueryInfo{
			OrderBy:            []SortDirection{Ascending},
			OrderByExpressions: []string{"c.a", "c.b"},
		}, moerr.ErrInvalidPlan},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := (&ExecutionPlan{QueryInfo: tc.qi}).Validate()
			if tc.code == moerr.Ok {
				require.NoError(t, err)
			} else {
				require.True(t, moerr.IsMoErrCode(err, tc.code))
			}
		})
	}
}
