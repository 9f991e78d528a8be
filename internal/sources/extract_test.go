// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractScriptArray(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{
			name:   "compact",
			markup: `x;$api_schedule_list=[1,2];y`,
			want:   `[1,2]`,
		},
		{
			name:   "spaced and multiline",
			markup: "var $api_schedule_list  =\n [\n {\"a\": 1}\n];",
			want:   "[\n {\"a\": 1}\n]",
		},
		{
			name:   "nested arrays",
			markup: `$api_schedule_list = [[1,[2]],{"b":[3]}]; var z = [9];`,
			want:   `[[1,[2]],{"b":[3]}]`,
		},
		{
			name:   "brackets inside strings",
			markup: `$api_schedule_list = [{"t":"drama ]; [part 2"},{"q":"say \"]\""}];`,
			want:   `[{"t":"drama ]; [part 2"},{"q":"say \"]\""}]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractScriptArray(tt.markup, "$api_schedule_list")
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestExtractScriptArray_Failures(t *testing.T) {
	for name, markup := range map[string]string{
		"absent":       `<html>nothing here</html>`,
		"other name":   `$api_schedule_list_v2 = [1];`,
		"unterminated": `$api_schedule_list = [{"a":1}`,
		"not an array": `$api_schedule_list = {"a":1};`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ExtractScriptArray(markup, "$api_schedule_list")
			assert.ErrorIs(t, err, ErrExtraction)
		})
	}
}
