package script

import (
	"errors"
	"fmt"
	"math"

	"github.com/Shopify/go-lua"

	"github.com/veriflow-io/veriflow/pkg/api"
)

var ErrBadValue = errors.New("value cannot be converted")

// pushValue places a parameter value on the Lua stack. Special-typed values
// surface as their string payload; scripts never see the type ID
func pushValue(L *lua.State, v api.ParameterValue) {
	switch v.Kind().Tag {
	case api.KindInteger:
		i, _ := v.AsInteger()
		L.PushInteger(int(i))
	case api.KindDecimal:
		f, _ := v.AsDecimal()
		L.PushNumber(float64(f))
	case api.KindBoolean:
		b, _ := v.AsBoolean()
		L.PushBoolean(b)
	default:
		s, _ := v.AsString()
		L.PushString(s)
	}
}

// valueAt converts the Lua value at index into a parameter value of the
// declared kind. Booleans convert strictly; the numeric and string kinds
// follow Lua's usual coercions
func valueAt(L *lua.State, index int, kind api.ParameterKind) (api.ParameterValue, error) {
	switch kind.Tag {
	case api.KindString:
		s, err := stringAt(L, index)
		if err != nil {
			return api.ParameterValue{}, err
		}
		return api.NewString(s), nil

	case api.KindInteger:
		n, ok := L.ToNumber(index)
		if !ok || n != math.Trunc(n) {
			return api.ParameterValue{}, conversionError(L, index, kind)
		}
		return api.NewInteger(int32(n)), nil

	case api.KindDecimal:
		n, ok := L.ToNumber(index)
		if !ok {
			return api.ParameterValue{}, conversionError(L, index, kind)
		}
		return api.NewDecimal(float32(n)), nil

	case api.KindBoolean:
		if L.TypeOf(index) != lua.TypeBoolean {
			return api.ParameterValue{}, conversionError(L, index, kind)
		}
		return api.NewBoolean(L.ToBoolean(index)), nil

	case api.KindSpecialType:
		s, err := stringAt(L, index)
		if err != nil {
			return api.ParameterValue{}, err
		}
		id := ""
		if kind.Special != nil {
			id = kind.Special.ID
		}
		return api.NewSpecial(id, s), nil

	default:
		return api.ParameterValue{},
			fmt.Errorf("%w: %s", api.ErrUnknownKindTag, kind.Tag)
	}
}

func stringAt(L *lua.State, index int) (string, error) {
	t := L.TypeOf(index)
	if t != lua.TypeString && t != lua.TypeNumber {
		return "", fmt.Errorf("%w: %s to string", ErrBadValue, lua.TypeNameOf(L, index))
	}
	s, _ := L.ToString(index)
	return s, nil
}

func conversionError(L *lua.State, index int, kind api.ParameterKind) error {
	return fmt.Errorf("%w: %s to %s", ErrBadValue, lua.TypeNameOf(L, index), kind)
}
