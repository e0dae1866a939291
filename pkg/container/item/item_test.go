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

package item

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/moquery/pkg/common/moerr"
)

func TestClauseValueDistinguishesMissingFromNull(t *testing.T) {
	var missing ClauseValue
	require.NoError(t, json.Unmarshal([]byte(`{}`), &missing))
	require.False(t, missing.Defined)

	var null ClauseValue
	require.NoError(t, json.Unmarshal([]byte(`{"item":null}`), &null))
	require.True(t, null.Defined)
	require.Nil(t, null.Value)
}

func TestClauseValueKeepsNumbersExact(t *testing.T) {
	var c ClauseValue
	require.NoError(t, json.Unmarshal([]byte(`{"item":9007199254740993}`), &c))
	require.Equal(t, json.Number("9007199254740993"), c.Value)
}

func TestDecodeRawPayloadPage(t *testing.T) {
	body := []byte(`{"Documents":[{"a":1},{"a":2}]}`)
	items, err := RawPayload.DecodePage(body)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.JSONEq(t, `{"a":1}`, string(items[0].Payload))
	require.Empty(t, items[0].OrderBy)
}

func TestDecodeOrderByPage(t *testing.T) {
	body := []byte(`{"Documents":[{"orderByItems":[{"item":42}],"payload":{"a":1}}]}`)
	items, err := OrderBy.DecodePage(body)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, []ClauseValue{NewClauseValue(json.Number("42"))}, items[0].OrderBy)
	require.JSONEq(t, `{"a":1}`, string(items[0].Payload))
}

func TestDecodeValueAggregatePage(t *testing.T) {
	body := []byte(`{"Documents":[[{"item":42}]]}`)
	items, err := ValueAggregate.DecodePage(body)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Nil(t, items[0].Payload)
	require.Equal(t, []ClauseValue{NewClauseValue(json.Number("42"))}, items[0].Aggregates)
}

func TestDecodePageRejectsGarbage(t *testing.T) {
	_, err := RawPayload.DecodePage([]byte(`not json`))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidPage))

	_, err = OrderBy.DecodePage([]byte(`{"Documents":[17]}`))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidPage))
}

func TestEncodePageFeedsDecodePage(t *testing.T) {
	in := []Item{
		{OrderBy: []ClauseValue{NewClauseValue("x")}, Payload: json.RawMessage(`{"a":1}`)},
		{OrderBy: []ClauseValue{UndefinedClauseValue()}, Payload: json.RawMessage(`{"a":2}`)},
	}
	body, err := OrderBy.EncodePage(in)
	require.NoError(t, err)
	out, err := OrderBy.DecodePage(body)
	require.NoError(t, err)
	require.Equal(t, in, out)
}
