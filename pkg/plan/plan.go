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

// Package plan models the gateway query execution plan. The plan tells the
// pipeline which producer to build, which stages wrap it, and which query
// ranges the query actually touches.
package plan

import (
	"encoding/json"
	"fmt"

	"github.com/matrixorigin/moquery/pkg/common/moerr"
)

// SortDirection is the direction of one ORDER BY clause.
type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

func (d SortDirection) String() string {
	if d == Descending {
		return "Descending"
	}
	return "Ascending"
}

func (d *SortDirection) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "Ascending":
		*d = Ascending
	case "Descending":
		*d = Descending
	default:
		return moerr.NewInvalidPlan(fmt.Sprintf("unknown sort direction %q", s))
	}
	return nil
}

// DistinctKind selects the dedup behavior requested by the plan.
type DistinctKind int

const (
	DistinctNone DistinctKind = iota
	// DistinctOrdered relies on the stream being sorted, so equal items are
	// adjacent and only the previous item needs to be remembered.
	DistinctOrdered
	DistinctUnordered
)

func (k DistinctKind) String() string {
	switch k {
	case DistinctOrdered:
		return "Ordered"
	case DistinctUnordered:
		return "Unordered"
	default:
		return "None"
	}
}

func (k *DistinctKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "", "None":
		*k = DistinctNone
	case "Ordered":
		*k = DistinctOrdered
	case "Unordered":
		*k = DistinctUnordered
	default:
		return moerr.NewInvalidPlan(fmt.Sprintf("unknown distinct type %q", s))
	}
	return nil
}

// QueryRange is one effective partition key range of the query, in the
// gateway wire shape. Boundaries are hex-encoded effective partition keys and
// compare lexicographically.
type QueryRange struct {
	Min            string `json:"min"`
	Max            string `json:"max"`
	IsMinInclusive bool   `json:"isMinInclusive"`
	IsMaxInclusive bool   `json:"isMaxInclusive"`
}

// QueryInfo carries the per-query execution hints from the gateway.
type QueryInfo struct {
	DistinctType            DistinctKind      `json:"distinctType"`
	Top                     *int64            `json:"top"`
	Offset                  *int64            `json:"offset"`
	Limit                   *int64            `json:"limit"`
	OrderBy                 []SortDirection   `json:"orderBy"`
	OrderByExpressions      []string          `json:"orderByExpressions"`
	GroupByExpressions      []string          `json:"groupByExpressions"`
	GroupByAliases          []string          `json:"groupByAliases"`
	Aggregates              []string          `json:"aggregates"`
	GroupByAliasToAggregate map[string]string `json:"groupByAliasToAggregateType"`
	RewrittenQuery          string            `json:"rewrittenQuery"`
	HasSelectValue          bool              `json:"hasSelectValue"`
	HasNonStreamingOrderBy  bool              `json:"hasNonStreamingOrderBy"`
}

// ExecutionPlan is the decoded gateway query plan.
type ExecutionPlan struct {
	Version     int          `json:"partitionedQueryExecutionInfoVersion"`
	QueryInfo   QueryInfo    `json:"queryInfo"`
	QueryRanges []QueryRange `json:"queryRanges"`
}

// Decode parses the wire form of an execution plan.
func Decode(data []byte) (*ExecutionPlan, error) {
	var p ExecutionPlan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, moerr.NewInvalidPlan(err.Error())
	}
	return &p, nil
}

// Validate rejects plans that need features the pipeline does not implement.
// Rejection must happen at construction so the host can fall back before any
// partition is queried.
func (p *ExecutionPlan) Validate() error {
	qi := &p.QueryInfo
	if len(qi.Aggregates) > 0 && !qi.HasSelectValue {
		return moerr.NewUnsupportedPlan("non-value aggregates are not supported")
	}
	if len(qi.Aggregates) > 0 && len(qi.OrderBy) > 0 {
		return moerr.NewUnsupportedPlan("cannot mix aggregates with ORDER BY")
	}
	if len(qi.GroupByExpressions) > 0 || len(qi.GroupByAliases) > 0 ||
		len(qi.GroupByAliasToAggregate) > 0 {
		return moerr.NewUnsupportedPlan("GROUP BY queries are not supported")
	}
	if len(qi.OrderBy) > 0 && len(qi.OrderByExpressions) > 0 &&
		len(qi.OrderBy) != len(qi.OrderByExpressions) {
		return moerr.NewInvalidPlan("orderBy and orderByExpressions lengths differ")
	}
	return nil
}
