package sdk

import "github.com/veriflow-io/veriflow/pkg/api"

// Params is the validated parameter map handed to an instruction handler.
// The accessors assume validation has already matched kinds and return zero
// values on any mismatch
type Params map[string]api.ParameterValue

// String retrieves a string parameter, also covering special-typed values
func (p Params) String(id string) string {
	s, _ := p[id].AsString()
	return s
}

// Integer retrieves a 32-bit integer parameter
func (p Params) Integer(id string) int32 {
	i, _ := p[id].AsInteger()
	return i
}

// Decimal retrieves a 32-bit float parameter
func (p Params) Decimal(id string) float32 {
	f, _ := p[id].AsDecimal()
	return f
}

// Boolean retrieves a boolean parameter
func (p Params) Boolean(id string) bool {
	b, _ := p[id].AsBoolean()
	return b
}
