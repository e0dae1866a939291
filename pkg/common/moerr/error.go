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

package moerr

import (
	"errors"
	"fmt"
)

const (
	Ok uint16 = 0

	// Group 1: construction errors. The plan or the range set handed to the
	// engine cannot produce a runnable pipeline.
	ErrEmptyRangeSet   uint16 = 20101
	ErrUnsupportedPlan uint16 = 20102
	ErrInvalidPlan     uint16 = 20103

	// Group 2: protocol errors. The host broke the step/provide-data contract;
	// the pipeline instance must be discarded.
	ErrUnknownPartition   uint16 = 20201
	ErrPartitionExhausted uint16 = 20202

	// Group 3: data errors observed while merging.
	ErrIncomparableKeys uint16 = 20301
	ErrInvalidPage      uint16 = 20302

	ErrInternal uint16 = 20901
)

// Error is a coded error. Codes let the host classify failures without
// matching on message text.
type Error struct {
	code    uint16
	message string
}

func (e *Error) Error() string {
	return e.message
}

// Code returns the numeric error code.
func (e *Error) Code() uint16 {
	return e.code
}

func newError(code uint16, format string, args ...interface{}) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

// IsMoErrCode reports whether err is a moquery error carrying the given code.
func IsMoErrCode(err error, code uint16) bool {
	var me *Error
	if errors.As(err, &me) {
		return me.code == code
	}
	return false
}

func NewEmptyRangeSet() *Error {
	return newError(ErrEmptyRangeSet, "at least one partition key range is required")
}

func NewUnsupportedPlan(msg string) *Error {
	return newError(ErrUnsupportedPlan, "unsupported query plan: %s", msg)
}

func NewInvalidPlan(msg string) *Error {
	return newError(ErrInvalidPlan, "invalid query plan: %s", msg)
}

func NewUnknownPartition(id string) *Error {
	return newError(ErrUnknownPartition, "unknown partition key range id: %s", id)
}

func NewPartitionExhausted(id string) *Error {
	return newError(ErrPartitionExhausted, "partition key range %s already signaled exhaustion", id)
}

func NewIncomparableKeys(msg string) *Error {
	return newError(ErrIncomparableKeys, "cannot compare ordering keys: %s", msg)
}

func NewInvalidPage(msg string) *Error {
	return newError(ErrInvalidPage, "invalid result page: %s", msg)
}

func NewInternalError(format string, args ...interface{}) *Error {
	return newError(ErrInternal, "internal error: "+format, args...)
}
