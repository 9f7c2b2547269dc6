package script

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/Shopify/go-lua"
	"github.com/kode4food/lru"
)

// Compiler compiles action scripts to bytecode, caching by source hash so
// repeated executions of the same action skip the parse
type Compiler struct {
	cache *lru.Cache[[]byte]
}

const compiledCacheSize = 128

var ErrCompile = errors.New("script compile error")

// Globals removed from the script environment. Actions talk to the outside
// world through engine instructions only
var sandboxExclude = [...]string{
	"io", "os", "debug", "package", "require", "dofile", "loadfile", "load",
}

// NewCompiler creates a compiler with a bounded bytecode cache
func NewCompiler() *Compiler {
	return &Compiler{cache: lru.NewCache[[]byte](compiledCacheSize)}
}

// Compile returns the bytecode for source, compiling on a cache miss
func (c *Compiler) Compile(source string) ([]byte, error) {
	return c.cache.Get(hashSource(source), func() ([]byte, error) {
		return compile(source)
	})
}

func compile(source string) ([]byte, error) {
	L := lua.NewState()
	setupSandbox(L)

	if err := lua.LoadString(L, source); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}

	var buf bytes.Buffer
	if err := L.Dump(&buf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}
	return buf.Bytes(), nil
}

func setupSandbox(L *lua.State) {
	lua.OpenLibraries(L)
	L.Global("_G")
	for _, name := range sandboxExclude {
		L.PushNil()
		L.SetField(-2, name)
	}
	L.Pop(1)
}

func hashSource(source string) string {
	h := sha256.Sum256([]byte(source))
	return hex.EncodeToString(h[:])
}
