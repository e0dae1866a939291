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

// moquery-run drives an ORDER BY query pipeline against a generated
// in-memory store and prints the merged stream. It shows the host side of
// the protocol: fetch the requested pages (here with a worker pool), provide
// them, repeat until the pipeline terminates.
package main

import (
	"flag"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/matrixorigin/moquery/pkg/config"
	"github.com/matrixorigin/moquery/pkg/container/item"
	"github.com/matrixorigin/moquery/pkg/engine"
	"github.com/matrixorigin/moquery/pkg/logutil"
	"github.com/matrixorigin/moquery/pkg/partition"
	"github.com/matrixorigin/moquery/pkg/plan"
)

var (
	configFile = flag.String("config", "", "toml configuration file")
	limitN     = flag.Int64("limit", 0, "add a LIMIT stage")
	offsetN    = flag.Int64("offset", 0, "add an OFFSET stage")
	trace      = flag.Bool("trace", false, "enable debug tracing")
)

type fetchResult struct {
	req   partition.DataRequest
	items []item.Item
	next  string
	err   error
}

func main() {
	flag.Parse()

	cfg, err := config.ParseFile(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logutil.Setup(cfg.Log)
	if *trace {
		engine.EnableTracing()
	}

	store := newMemStore(cfg.Store)

	qi := plan.QueryInfo{
		OrderBy:            []plan.SortDirection{plan.Ascending},
		OrderByExpressions: []string{"c.value"},
	}
	if *limitN > 0 {
		qi.Limit = limitN
	}
	if *offsetN > 0 {
		qi.Offset = offsetN
	}
	execPlan := &plan.ExecutionPlan{QueryInfo: qi}

	query := "SELECT * FROM c ORDER BY c.value"
	p, err := engine.New().CreatePipeline(query, execPlan, store.Ranges())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logutil.Info("pipeline created", zap.String("query", p.Query()))

	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer pool.Release()

	emitted := 0
	for {
		batch, err := p.NextBatch()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		for _, payload := range batch.Items {
			fmt.Println(string(payload))
			emitted++
		}
		if batch.Terminated {
			break
		}

		// Pages are fetched concurrently, but the pipeline itself is
		// single-threaded: results are handed back on this goroutine.
		results := make([]fetchResult, len(batch.Requests))
		var wg sync.WaitGroup
		for i, req := range batch.Requests {
			i, req := i, req
			wg.Add(1)
			if err := pool.Submit(func() {
				defer wg.Done()
				activity := uuid.NewString()
				items, next, err := store.Fetch(req.PartitionKeyRangeID, req.Continuation)
				logutil.Debug("fetched page",
					zap.String("activityId", activity),
					zap.String("pkrange", req.PartitionKeyRangeID),
					zap.Int("items", len(items)))
				results[i] = fetchResult{req: req, items: items, next: next, err: err}
			}); err != nil {
				wg.Done()
				results[i] = fetchResult{req: req, err: err}
			}
		}
		wg.Wait()

		for _, res := range results {
			if res.err != nil {
				fmt.Fprintln(os.Stderr, res.err)
				os.Exit(1)
			}
			if err := p.ProvideData(res.req.PartitionKeyRangeID, res.items, res.next); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		}
	}
	logutil.Info("query complete", zap.Int("items", emitted))
}
