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

// Package config holds the toml configuration for the sample runner.
package config

import (
	"github.com/BurntSushi/toml"

	"github.com/matrixorigin/moquery/pkg/common/moerr"
	"github.com/matrixorigin/moquery/pkg/logutil"
)

const (
	defaultPartitions = 4
	defaultDocuments  = 64
	defaultPageSize   = 8
	defaultWorkers    = 4
)

// StoreConfig shapes the in-memory backend the runner queries.
type StoreConfig struct {
	// Partitions is the number of partition key ranges.
	Partitions int `toml:"partitions"`

	// DocumentsPerPartition is the number of generated documents per range.
	DocumentsPerPartition int `toml:"documents-per-partition"`

	// PageSize is the number of documents per served page.
	PageSize int `toml:"page-size"`

	// Seed fixes the document generator, 0 means time-based.
	Seed int64 `toml:"seed"`
}

// RunnerConfig is the root of the runner's toml file.
type RunnerConfig struct {
	Log   logutil.LogConfig `toml:"log"`
	Store StoreConfig       `toml:"store"`

	// Workers is the fetch pool size used to serve data requests.
	Workers int `toml:"workers"`
}

// SetDefault fills unset fields.
func (c *RunnerConfig) SetDefault() {
	if c.Store.Partitions <= 0 {
		c.Store.Partitions = defaultPartitions
	}
	if c.Store.DocumentsPerPartition <= 0 {
		c.Store.DocumentsPerPartition = defaultDocuments
	}
	if c.Store.PageSize <= 0 {
		c.Store.PageSize = defaultPageSize
	}
	if c.Workers <= 0 {
		c.Workers = defaultWorkers
	}
}

// ParseFile loads a toml runner configuration and applies defaults. An empty
// path yields the default configuration.
func ParseFile(path string) (*RunnerConfig, error) {
	var cfg RunnerConfig
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, moerr.NewInternalError("cannot parse config file %s: %s", path, err.Error())
		}
	}
	cfg.SetDefault()
	return &cfg, nil
}
