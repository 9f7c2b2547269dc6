package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

type (
	// KindTag identifies the base shape of a parameter kind or value
	KindTag string

	// SpecialType is an engine-defined semantic subtype. Its value is always
	// transported as a string; two special types are the same type iff their
	// IDs match
	SpecialType struct {
		ID           string `json:"id"`
		FriendlyName string `json:"friendly_name,omitempty"`
	}

	// ParameterKind is the declared type of an instruction parameter or
	// output
	ParameterKind struct {
		Tag     KindTag      `json:"t"`
		Special *SpecialType `json:"v,omitempty"`
	}

	// ParameterValue is a tagged union mirroring ParameterKind, holding a
	// concrete value. The zero value is an empty String
	ParameterValue struct {
		tag       KindTag
		str       string
		i32       int32
		f32       float32
		b         bool
		specialID string
	}

	valueEnvelope struct {
		Tag KindTag         `json:"t"`
		V   json.RawMessage `json:"v"`
	}

	specialValue struct {
		ID    string `json:"id"`
		Value string `json:"value"`
	}
)

const (
	KindString      KindTag = "String"
	KindInteger     KindTag = "Integer"
	KindDecimal     KindTag = "Decimal"
	KindBoolean     KindTag = "Boolean"
	KindSpecialType KindTag = "SpecialType"
)

// Base kinds, ready for use in instruction declarations
var (
	String  = ParameterKind{Tag: KindString}
	Integer = ParameterKind{Tag: KindInteger}
	Decimal = ParameterKind{Tag: KindDecimal}
	Boolean = ParameterKind{Tag: KindBoolean}
)

var (
	ErrUnknownKindTag = errors.New("unknown parameter kind tag")
	ErrValueNotKind   = errors.New("value does not hold requested kind")
)

// SpecialKind builds the ParameterKind for an engine-defined special type
func SpecialKind(id, friendlyName string) ParameterKind {
	return ParameterKind{
		Tag:     KindSpecialType,
		Special: &SpecialType{ID: id, FriendlyName: friendlyName},
	}
}

// Equal reports whether two kinds are the same type. Special types compare
// by ID only; their friendly names are presentation data
func (k ParameterKind) Equal(other ParameterKind) bool {
	if k.Tag != other.Tag {
		return false
	}
	if k.Tag != KindSpecialType {
		return true
	}
	return k.Special != nil && other.Special != nil &&
		k.Special.ID == other.Special.ID
}

func (k ParameterKind) String() string {
	if k.Tag == KindSpecialType && k.Special != nil {
		if k.Special.FriendlyName != "" {
			return k.Special.FriendlyName
		}
		return k.Special.ID
	}
	return string(k.Tag)
}

// DefaultValue returns the zero value appropriate for this kind, used when a
// parameter source resets to Literal
func (k ParameterKind) DefaultValue() ParameterValue {
	switch k.Tag {
	case KindInteger:
		return NewInteger(0)
	case KindDecimal:
		return NewDecimal(0)
	case KindBoolean:
		return NewBoolean(false)
	case KindSpecialType:
		id := ""
		if k.Special != nil {
			id = k.Special.ID
		}
		return NewSpecial(id, "")
	default:
		return NewString("")
	}
}

// NewString creates a String parameter value
func NewString(s string) ParameterValue {
	return ParameterValue{tag: KindString, str: s}
}

// NewInteger creates an Integer parameter value
func NewInteger(i int32) ParameterValue {
	return ParameterValue{tag: KindInteger, i32: i}
}

// NewDecimal creates a Decimal parameter value
func NewDecimal(f float32) ParameterValue {
	return ParameterValue{tag: KindDecimal, f32: f}
}

// NewBoolean creates a Boolean parameter value
func NewBoolean(b bool) ParameterValue {
	return ParameterValue{tag: KindBoolean, b: b}
}

// NewSpecial creates a value of an engine-defined special type
func NewSpecial(id, value string) ParameterValue {
	return ParameterValue{tag: KindSpecialType, specialID: id, str: value}
}

// Kind returns the kind matching this value's active variant
func (v ParameterValue) Kind() ParameterKind {
	if v.tag == KindSpecialType {
		return SpecialKind(v.specialID, "")
	}
	if v.tag == "" {
		return String
	}
	return ParameterKind{Tag: v.tag}
}

// AsString returns the held string for String and SpecialType values
func (v ParameterValue) AsString() (string, error) {
	switch v.tag {
	case KindString, KindSpecialType, "":
		return v.str, nil
	}
	return "", fmt.Errorf("%w: %s as string", ErrValueNotKind, v.tag)
}

// AsInteger returns the held 32-bit integer
func (v ParameterValue) AsInteger() (int32, error) {
	if v.tag != KindInteger {
		return 0, fmt.Errorf("%w: %s as integer", ErrValueNotKind, v.tag)
	}
	return v.i32, nil
}

// AsDecimal returns the held 32-bit float
func (v ParameterValue) AsDecimal() (float32, error) {
	if v.tag != KindDecimal {
		return 0, fmt.Errorf("%w: %s as decimal", ErrValueNotKind, v.tag)
	}
	return v.f32, nil
}

// AsBoolean returns the held boolean
func (v ParameterValue) AsBoolean() (bool, error) {
	if v.tag != KindBoolean {
		return false, fmt.Errorf("%w: %s as boolean", ErrValueNotKind, v.tag)
	}
	return v.b, nil
}

// SpecialID returns the special type ID, or the empty string for base kinds
func (v ParameterValue) SpecialID() string {
	return v.specialID
}

func (v ParameterValue) String() string {
	switch v.tag {
	case KindInteger:
		return strconv.FormatInt(int64(v.i32), 10)
	case KindDecimal:
		return strconv.FormatFloat(float64(v.f32), 'g', -1, 32)
	case KindBoolean:
		return strconv.FormatBool(v.b)
	default:
		return v.str
	}
}

func (v ParameterValue) MarshalJSON() ([]byte, error) {
	var inner any
	switch v.tag {
	case KindInteger:
		inner = v.i32
	case KindDecimal:
		inner = v.f32
	case KindBoolean:
		inner = v.b
	case KindSpecialType:
		inner = specialValue{ID: v.specialID, Value: v.str}
	default:
		inner = v.str
	}
	raw, err := json.Marshal(inner)
	if err != nil {
		return nil, err
	}
	tag := v.tag
	if tag == "" {
		tag = KindString
	}
	return json.Marshal(valueEnvelope{Tag: tag, V: raw})
}

func (v *ParameterValue) UnmarshalJSON(data []byte) error {
	var env valueEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	switch env.Tag {
	case KindString:
		var s string
		if err := json.Unmarshal(env.V, &s); err != nil {
			return err
		}
		*v = NewString(s)
	case KindInteger:
		var i int32
		if err := json.Unmarshal(env.V, &i); err != nil {
			return err
		}
		*v = NewInteger(i)
	case KindDecimal:
		var f float32
		if err := json.Unmarshal(env.V, &f); err != nil {
			return err
		}
		*v = NewDecimal(f)
	case KindBoolean:
		var b bool
		if err := json.Unmarshal(env.V, &b); err != nil {
			return err
		}
		*v = NewBoolean(b)
	case KindSpecialType:
		var sv specialValue
		if err := json.Unmarshal(env.V, &sv); err != nil {
			return err
		}
		*v = NewSpecial(sv.ID, sv.Value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKindTag, env.Tag)
	}
	return nil
}
