package api_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriflow-io/veriflow/pkg/api"
)

func TestValueKinds(t *testing.T) {
	assert.Equal(t, api.String, api.NewString("hi").Kind())
	assert.Equal(t, api.Integer, api.NewInteger(42).Kind())
	assert.Equal(t, api.Decimal, api.NewDecimal(1.5).Kind())
	assert.Equal(t, api.Boolean, api.NewBoolean(true).Kind())

	special := api.NewSpecial("regex-pattern", "a+b")
	assert.Equal(t, api.KindSpecialType, special.Kind().Tag)
	assert.Equal(t, "regex-pattern", special.SpecialID())
}

func TestValueAccessors(t *testing.T) {
	s, err := api.NewString("hello").AsString()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	i, err := api.NewInteger(-7).AsInteger()
	require.NoError(t, err)
	assert.Equal(t, int32(-7), i)

	_, err = api.NewString("nope").AsInteger()
	assert.ErrorIs(t, err, api.ErrValueNotKind)

	// special types read back as their string value
	v, err := api.NewSpecial("id", "payload").AsString()
	require.NoError(t, err)
	assert.Equal(t, "payload", v)
}

func TestSpecialKindEquality(t *testing.T) {
	a := api.SpecialKind("date", "Date")
	b := api.SpecialKind("date", "A Different Display Name")
	c := api.SpecialKind("time", "Time")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(api.String))
}

func TestValueJSONRoundTrip(t *testing.T) {
	values := []api.ParameterValue{
		api.NewString("text"),
		api.NewInteger(123),
		api.NewDecimal(2.25),
		api.NewBoolean(true),
		api.NewSpecial("date", "2024-01-01"),
	}

	for _, v := range values {
		data, err := json.Marshal(v)
		require.NoError(t, err)

		var back api.ParameterValue
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, v, back)
	}
}

func TestValueWireShape(t *testing.T) {
	data, err := json.Marshal(api.NewInteger(5))
	require.NoError(t, err)
	assert.JSONEq(t, `{"t":"Integer","v":5}`, string(data))

	data, err = json.Marshal(api.NewSpecial("browser-handle", "w1"))
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"t":"SpecialType","v":{"id":"browser-handle","value":"w1"}}`,
		string(data))
}

func TestDefaultValues(t *testing.T) {
	assert.Equal(t, api.NewString(""), api.String.DefaultValue())
	assert.Equal(t, api.NewInteger(0), api.Integer.DefaultValue())
	assert.Equal(t, api.NewDecimal(0), api.Decimal.DefaultValue())
	assert.Equal(t, api.NewBoolean(false), api.Boolean.DefaultValue())
	assert.Equal(t, api.NewSpecial("x", ""),
		api.SpecialKind("x", "X").DefaultValue())
}

func TestValueDisplay(t *testing.T) {
	assert.Equal(t, "2", api.NewInteger(2).String())
	assert.Equal(t, "true", api.NewBoolean(true).String())
	assert.Equal(t, "abc", api.NewString("abc").String())
}
