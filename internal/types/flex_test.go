package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexListAcceptsScalarOrArray(t *testing.T) {
	var body struct {
		One  FlexList[string] `json:"one"`
		Many FlexList[string] `json:"many"`
		None FlexList[string] `json:"none"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"one":"a","many":["b","c"],"none":null}`), &body))

	assert.Equal(t, []string{"a"}, body.One.Slice())
	assert.Equal(t, []string{"b", "c"}, body.Many.Slice())
	assert.Nil(t, body.None.Slice())
}

func TestFlexUint64(t *testing.T) {
	var body struct {
		A FlexUint64 `json:"a"`
		B FlexUint64 `json:"b"`
		C FlexUint64 `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":7,"b":"42","c":""}`), &body))
	assert.Equal(t, uint64(7), body.A.Uint64())
	assert.Equal(t, uint64(42), body.B.Uint64())
	assert.Equal(t, uint64(0), body.C.Uint64())

	assert.Error(t, json.Unmarshal([]byte(`{"a":"x1"}`), &body))
	assert.Error(t, json.Unmarshal([]byte(`{"a":true}`), &body))
}

func TestFlexTimeLayouts(t *testing.T) {
	cases := map[string]time.Time{
		`"2026-03-01T08:30:00+07:00"`: time.Date(2026, 3, 1, 1, 30, 0, 0, time.UTC),
		`"2026-03-01 08:30:00"`:       time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC),
		`"2026-03-01T08:30"`:          time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC),
		`"2026-03-01"`:                time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	for input, want := range cases {
		var ft FlexTime
		require.NoError(t, json.Unmarshal([]byte(input), &ft), input)
		assert.True(t, want.Equal(ft.Time), input)
		require.NotNil(t, ft.Ptr())
	}

	var empty FlexTime
	require.NoError(t, json.Unmarshal([]byte(`null`), &empty))
	assert.Nil(t, empty.Ptr())

	out, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))

	assert.Error(t, json.Unmarshal([]byte(`"next tuesday"`), &empty))
}

func TestOptionalTimePresence(t *testing.T) {
	var body struct {
		Absent  OptionalTime `json:"absent"`
		Null    OptionalTime `json:"null"`
		Blank   OptionalTime `json:"blank"`
		Present OptionalTime `json:"present"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"null":null,"blank":"","present":"2026-11-01"}`), &body))

	assert.False(t, body.Absent.Set)
	assert.True(t, body.Null.Set)
	assert.Nil(t, body.Null.Ptr())
	assert.True(t, body.Blank.Set)
	assert.Nil(t, body.Blank.Ptr())
	assert.True(t, body.Present.Set)
	require.NotNil(t, body.Present.Ptr())
	assert.Equal(t, time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), *body.Present.Ptr())
}

func TestCustomErrorHelpers(t *testing.T) {
	err := NewFieldError("division_id", "The selected division is invalid.")
	assert.Equal(t, 422, err.Code)
	assert.Equal(t, []string{"The selected division is invalid."}, err.Fields["division_id"])

	wrapped := NewConflictError("already registered", assert.AnError)
	ce, ok := AsCustomError(wrapped)
	require.True(t, ok)
	assert.Equal(t, 409, ce.Code)
	assert.ErrorIs(t, wrapped, assert.AnError)
	assert.True(t, IsType(wrapped, TypeConflict))
	assert.False(t, IsType(assert.AnError, TypeConflict))
}
