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

// Package limit implements the counting stage shared by LIMIT and TOP. Once
// the count is spent the stage terminates the stream without pulling from
// its input again, which lets the pipeline stop fetching pages early.
package limit

import "github.com/matrixorigin/moquery/pkg/exec"

type Limit struct {
	src       exec.Source
	remaining int64
}

func New(n int64, src exec.Source) *Limit {
	return &Limit{src: src, remaining: n}
}

func (l *Limit) Next() (exec.Result, error) {
	if l.remaining <= 0 {
		return exec.Result{Terminated: true}, nil
	}
	r, err := l.src.Next()
	if err != nil {
		return exec.Result{}, err
	}
	if r.Item != nil {
		l.remaining--
	}
	return r, nil
}
