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

// Package engine exposes the stateless pipeline factory the host embeds.
package engine

import (
	"encoding/json"
	"sort"

	"github.com/matrixorigin/moquery/pkg/common/moerr"
	"github.com/matrixorigin/moquery/pkg/logutil"
	"github.com/matrixorigin/moquery/pkg/partition"
	"github.com/matrixorigin/moquery/pkg/pipeline"
	"github.com/matrixorigin/moquery/pkg/plan"
)

// supportedFeatures is forwarded by hosts when requesting a plan, so the
// gateway rejects queries needing anything the pipeline cannot run.
const supportedFeatures = "OffsetAndLimit,OrderBy,MultipleOrderBy,Top,NonStreamingOrderBy,Aggregate,Distinct"

// QueryEngine creates pipelines. It holds no state; one engine can serve any
// number of concurrent pipeline constructions.
type QueryEngine struct{}

func New() *QueryEngine {
	return &QueryEngine{}
}

// SupportedFeatures returns the feature list to forward with plan requests.
func (e *QueryEngine) SupportedFeatures() string {
	return supportedFeatures
}

// CreatePipeline validates the plan and the range set and builds a pipeline.
// Ranges are sorted by MinInclusive and, when the plan carries query ranges,
// filtered down to the ranges the query actually touches.
func (e *QueryEngine) CreatePipeline(query string, p *plan.ExecutionPlan, ranges []partition.Range) (*pipeline.QueryPipeline, error) {
	if len(ranges) == 0 {
		return nil, moerr.NewEmptyRangeSet()
	}
	sorted := make([]partition.Range, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinInclusive < sorted[j].MinInclusive
	})
	sorted = overlappingRanges(sorted, p.QueryRanges)
	if len(sorted) == 0 {
		return nil, moerr.NewEmptyRangeSet()
	}
	return pipeline.New(query, p, sorted)
}

// CreatePipelineFromJSON builds a pipeline from the wire forms of the plan
// and the partition key range listing.
func (e *QueryEngine) CreatePipelineFromJSON(query string, planJSON, rangesJSON []byte) (*pipeline.QueryPipeline, error) {
	p, err := plan.Decode(planJSON)
	if err != nil {
		return nil, err
	}
	var listing struct {
		Ranges []partition.Range `json:"PartitionKeyRanges"`
	}
	if err := json.Unmarshal(rangesJSON, &listing); err != nil {
		return nil, moerr.NewInvalidPlan(err.Error())
	}
	return e.CreatePipeline(query, p, listing.Ranges)
}

// overlappingRanges drops partition ranges outside every query range. An
// empty query range list means the query touches the whole keyspace.
func overlappingRanges(ranges []partition.Range, queryRanges []plan.QueryRange) []partition.Range {
	if len(queryRanges) == 0 {
		return ranges
	}
	kept := ranges[:0]
	for _, r := range ranges {
		for _, qr := range queryRanges {
			if r.Overlaps(qr.Min, qr.Max, qr.IsMaxInclusive) {
				kept = append(kept, r)
				break
			}
		}
	}
	return kept
}

// EnableTracing turns on debug logging for pipeline internals. It only
// affects log output, never query results.
func EnableTracing() {
	logutil.EnableDebug()
}
