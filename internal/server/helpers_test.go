package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    flexibleID
		wantErr bool
	}{
		{name: "string", input: `"12345"`, want: "12345"},
		{name: "padded string", input: `" 42 "`, want: "42"},
		{name: "number", input: `12345`, want: "12345"},
		{name: "large number", input: `9007199254740993`, want: "9007199254740993"},
		{name: "null", input: `null`, want: ""},
		{name: "object", input: `{}`, wantErr: true},
		{name: "bool", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got flexibleID
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFlexibleID_Uint(t *testing.T) {
	id, ok := flexibleID("17").Uint()
	assert.True(t, ok)
	assert.Equal(t, uint(17), id)

	for _, bad := range []flexibleID{"", "0", "-3", "abc", "1.5"} {
		_, ok := bad.Uint()
		assert.False(t, ok, "expected %q to be rejected", bad)
	}
}
