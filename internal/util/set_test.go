package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veriflow-io/veriflow/internal/util"
)

func TestSet(t *testing.T) {
	s := util.SetOf("a", "b", "a")
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains("c"))

	s.Add("c")
	assert.True(t, s.Contains("c"))
	assert.Equal(t, 3, s.Len())
}
