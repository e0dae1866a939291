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

// Package pipeline assembles and drives the cross-partition query pipeline.
//
// The pipeline is demand-driven and performs no I/O. Each NextBatch call
// returns the items that can be emitted from buffered data together with the
// page requests the host must perform; the host fetches the pages, hands them
// back through ProvideData, and calls NextBatch again. The loop ends when a
// batch reports Terminated.
package pipeline

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/matrixorigin/moquery/pkg/common/moerr"
	"github.com/matrixorigin/moquery/pkg/container/item"
	"github.com/matrixorigin/moquery/pkg/exec"
	"github.com/matrixorigin/moquery/pkg/exec/aggregate"
	"github.com/matrixorigin/moquery/pkg/exec/distinct"
	"github.com/matrixorigin/moquery/pkg/exec/fullsort"
	"github.com/matrixorigin/moquery/pkg/exec/limit"
	"github.com/matrixorigin/moquery/pkg/exec/mergeorder"
	"github.com/matrixorigin/moquery/pkg/exec/offset"
	"github.com/matrixorigin/moquery/pkg/exec/unordered"
	"github.com/matrixorigin/moquery/pkg/logutil"
	"github.com/matrixorigin/moquery/pkg/partition"
	"github.com/matrixorigin/moquery/pkg/plan"
)

// formattableOrderByFilter is the placeholder the gateway leaves in rewritten
// ORDER BY queries. Single-partition queries need no extra filtering, so it
// collapses to a constant predicate.
const formattableOrderByFilter = "{documentdb-formattableorderbyquery-filter}"

// Batch is the outcome of one pipeline turn.
type Batch struct {
	// Items holds the payloads released in this turn, in final output order.
	Items []json.RawMessage

	// Requests lists the page fetches the host must perform before more
	// items can be released. Empty once the pipeline has terminated.
	Requests []partition.DataRequest

	// Terminated reports that no future turn will yield items.
	Terminated bool
}

// QueryPipeline reassembles per-partition page streams into one result
// stream. Not safe for concurrent use.
type QueryPipeline struct {
	query      string
	shape      item.ResultShape
	producer   exec.Producer
	head       exec.Source
	terminated bool
}

// New validates the plan and assembles the stage stack over the merge
// strategy it selects. Ranges are used in the given order; callers that need
// the canonical ordering sort before constructing.
func New(query string, p *plan.ExecutionPlan, ranges []partition.Range) (*QueryPipeline, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(ranges) == 0 {
		return nil, moerr.NewEmptyRangeSet()
	}
	qi := &p.QueryInfo
	if qi.DistinctType != plan.DistinctNone && len(qi.Aggregates) > 0 {
		return nil, moerr.NewUnsupportedPlan("cannot mix DISTINCT with aggregates")
	}

	shape := item.RawPayload
	var producer exec.Producer
	if len(qi.OrderBy) == 0 {
		logutil.Debug("using unordered pipeline")
		producer = unordered.New(ranges)
	} else {
		shape = item.OrderBy
		if qi.HasNonStreamingOrderBy {
			logutil.Debug("using non-streaming ORDER BY pipeline",
				zap.Int("clauses", len(qi.OrderBy)))
			producer = fullsort.New(ranges, qi.OrderBy)
		} else {
			logutil.Debug("using streaming ORDER BY pipeline",
				zap.Int("clauses", len(qi.OrderBy)))
			producer = mergeorder.New(ranges, qi.OrderBy)
		}
	}

	// The stack builds inside-out. LIMIT must end up outermost so OFFSET
	// skips items without spending the limit budget.
	var head exec.Source = producer
	switch qi.DistinctType {
	case plan.DistinctOrdered:
		head = distinct.NewOrdered(head)
	case plan.DistinctUnordered:
		head = distinct.NewUnordered(head)
	}
	if len(qi.Aggregates) > 0 {
		shape = item.ValueAggregate
		agg, err := aggregate.New(qi.Aggregates, head)
		if err != nil {
			return nil, err
		}
		head = agg
	}
	if qi.Offset != nil {
		head = offset.New(*qi.Offset, head)
	}
	if qi.Top != nil {
		head = limit.New(*qi.Top, head)
	}
	if qi.Limit != nil {
		head = limit.New(*qi.Limit, head)
	}

	text := query
	if qi.RewrittenQuery != "" {
		text = strings.ReplaceAll(qi.RewrittenQuery, formattableOrderByFilter, "true")
		logutil.Debug("rewrote query per gateway plan",
			zap.String("original", query), zap.String("rewritten", text))
	}

	return &QueryPipeline{
		query:    text,
		shape:    shape,
		producer: producer,
		head:     head,
	}, nil
}

// Query returns the text the host must use for single-partition queries: the
// gateway's rewritten form when the plan carries one, the original otherwise.
func (q *QueryPipeline) Query() string {
	return q.query
}

// ResultShape tells the host how to decode single-partition page bodies.
func (q *QueryPipeline) ResultShape() item.ResultShape {
	return q.shape
}

// Completed reports whether the pipeline has terminated.
func (q *QueryPipeline) Completed() bool {
	return q.terminated
}

// NextBatch runs one turn: it drains every item the buffered data allows,
// then reports the outstanding page requests. Calling it after termination
// is harmless and returns an empty terminated batch.
func (q *QueryPipeline) NextBatch() (*Batch, error) {
	if q.terminated {
		return &Batch{Terminated: true}, nil
	}
	q.producer.StartBatch()

	var items []json.RawMessage
	for {
		r, err := q.head.Next()
		if err != nil {
			return nil, err
		}
		if r.Item != nil {
			items = append(items, r.Item.Payload)
			continue
		}
		if r.Terminated {
			q.terminated = true
		}
		break
	}

	batch := &Batch{Items: items, Terminated: q.terminated}
	if !q.terminated {
		batch.Requests = q.producer.Requests()
	}
	logutil.Debug("pipeline turn finished",
		zap.Int("items", len(batch.Items)),
		zap.Int("requests", len(batch.Requests)),
		zap.Bool("terminated", batch.Terminated))
	return batch, nil
}

// ProvideData appends one fetched page to the identified partition's buffer.
// An empty continuation marks the partition exhausted.
func (q *QueryPipeline) ProvideData(pkrangeID string, items []item.Item, continuation string) error {
	return q.producer.Provide(pkrangeID, items, continuation)
}

// ProvideRawData decodes a raw page body according to the pipeline's result
// shape and provides the items.
func (q *QueryPipeline) ProvideRawData(pkrangeID string, body []byte, continuation string) error {
	items, err := q.shape.DecodePage(body)
	if err != nil {
		return err
	}
	return q.ProvideData(pkrangeID, items, continuation)
}
