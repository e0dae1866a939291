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

package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/moquery/pkg/common/moerr"
	"github.com/matrixorigin/moquery/pkg/partition"
	"github.com/matrixorigin/moquery/pkg/plan"
)

func TestEmptyRangeSetRejected(t *testing.T) {
	_, err := New().CreatePipeline("SELECT * FROM c", &plan.ExecutionPlan{}, nil)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrEmptyRangeSet))
}

func TestRangesSortedByMinInclusive(t *testing.T) {
	ranges := []partition.Range{
		{ID: "p2", MinInclusive: "20", MaxExclusive: "30"},
		{ID: "p0", MinInclusive: "00", MaxExclusive: "10"},
		{ID: "p1", MinInclusive: "10", MaxExclusive: "20"},
	}
	p, err := New().CreatePipeline("SELECT * FROM c", &plan.ExecutionPlan{}, ranges)
	require.NoError(t, err)

	batch, err := p.NextBatch()
	require.NoError(t, err)
	ids := make([]string, len(batch.Requests))
	for i, req := range batch.Requests {
		ids[i] = req.PartitionKeyRangeID
	}
	require.Equal(t, []string{"p0", "p1", "p2"}, ids)
}

func TestQueryRangeFiltering(t *testing.T) {
	ranges := []partition.Range{
		{ID: "p0", MinInclusive: "00", MaxExclusive: "10"},
		{ID: "p1", MinInclusive: "10", MaxExclusive: "20"},
		{ID: "p2", MinInclusive: "20", MaxExclusive: "30"},
	}
	ep := &plan.ExecutionPlan{QueryRanges: []plan.QueryRange{
		{Min: "15", Max: "25", IsMinInclusive: true, IsMaxInclusive: true},
	}}
	p, err := New().CreatePipeline("SELECT * FROM c", ep, ranges)
	require.NoError(t, err)

	batch, err := p.NextBatch()
	require.NoError(t, err)
	require.Len(t, batch.Requests, 2)
	require.Equal(t, "p1", batch.Requests[0].PartitionKeyRangeID)
	require.Equal(t, "p2", batch.Requests[1].PartitionKeyRangeID)
}

func TestQueryRangeFilteringCanEmptyTheSet(t *testing.T) {
	ranges := []partition.Range{{ID: "p0", MinInclusive: "00", MaxExclusive: "10"}}
	ep := &plan.ExecutionPlan{QueryRanges: []plan.QueryRange{
		{Min: "50", Max: "60", IsMinInclusive: true, IsMaxInclusive: true},
	}}
	_, err := New().CreatePipeline("SELECT * FROM c", ep, ranges)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrEmptyRangeSet))
}

func TestSupportedFeatures(t *testing.T) {
	features := New().SupportedFeatures()
	require.Contains(t, features, "OrderBy")
	require.Contains(t, features, "OffsetAndLimit")
	require.Contains(t, features, "NonStreamingOrderBy")
}

func TestCreatePipelineFromJSON(t *testing.T) {
	planJSON := []byte(`{
		"partitionedQueryExecutionInfoVersion": 1,
		"queryInfo": {
			"orderBy": ["Ascending"],
			"orderByExpressions": ["c.key"],
			"rewrittenQuery": "SELECT * FROM c WHERE {documentdb-formattableorderbyquery-filter} ORDER BY c.key"
		},
		"queryRanges": []
	}`)
	rangesJSON := []byte(`{"PartitionKeyRanges":[
		{"id":"p0","minInclusive":"00","maxExclusive":"FF"}
	]}`)

	p, err := New().CreatePipelineFromJSON("SELECT * FROM c ORDER BY c.key", planJSON, rangesJSON)
	require.NoError(t, err)
	require.Equal(t, "SELECT * FROM c WHERE true ORDER BY c.key", p.Query())
}

func TestCreatePipelineFromJSONRejectsGarbage(t *testing.T) {
	_, err := New().CreatePipelineFromJSON("q", []byte(`nope`), []byte(`{}`))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidPlan))
}
