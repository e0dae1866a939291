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

// Package offset implements the OFFSET stage. It sits inside LIMIT in the
// stage stack, so skipped items never count against the limit.
package offset

import "github.com/matrixorigin/moquery/pkg/exec"

type Offset struct {
	src     exec.Source
	skipped int64
	n       int64
}

func New(n int64, src exec.Source) *Offset {
	return &Offset{src: src, n: n}
}

func (o *Offset) Next() (exec.Result, error) {
	for o.skipped < o.n {
		r, err := o.src.Next()
		if err != nil || r.Item == nil {
			return r, err
		}
		o.skipped++
	}
	return o.src.Next()
}
