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

package logutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		name     string
		expected zapcore.Level
		ok       bool
	}{
		{"debug", zapcore.DebugLevel, true},
		{"info", zapcore.InfoLevel, true},
		{"warn", zapcore.WarnLevel, true},
		{"error", zapcore.ErrorLevel, true},
		{"", 0, false},
		{"verbose", 0, false},
	}
	for _, tc := range cases {
		lv, ok := parseLevel(tc.name)
		require.Equal(t, tc.ok, ok, "level %q", tc.name)
		if tc.ok {
			require.Equal(t, tc.expected, lv, "level %q", tc.name)
		}
	}
}

func TestSetupAppliesLevelOnce(t *testing.T) {
	Setup(LogConfig{Level: "warn"})
	core := GetGlobalLogger().Core()
	require.False(t, core.Enabled(zapcore.InfoLevel))
	require.True(t, core.Enabled(zapcore.WarnLevel))

	// Later calls are ignored.
	Setup(LogConfig{Level: "error"})
	require.True(t, GetGlobalLogger().Core().Enabled(zapcore.WarnLevel))

	EnableDebug()
	require.True(t, GetGlobalLogger().Core().Enabled(zapcore.DebugLevel))
}
