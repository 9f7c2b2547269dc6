// veriflow-engine runs one of the built-in engines as a standalone process
// speaking the out-of-process engine contract: one JSON request per
// invocation, one JSON response on stdout. The engine is selected with the
// VF_BUILTIN_ENGINE environment variable so the single argument slot stays
// free for the request payload.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/veriflow-io/veriflow/internal/engines/arithmetic"
	"github.com/veriflow-io/veriflow/internal/engines/compare"
	"github.com/veriflow-io/veriflow/internal/engines/convert"
	"github.com/veriflow-io/veriflow/internal/engines/evidence"
	"github.com/veriflow-io/veriflow/internal/engines/random"
	"github.com/veriflow-io/veriflow/internal/engines/regex"
	"github.com/veriflow-io/veriflow/pkg/log"
	"github.com/veriflow-io/veriflow/pkg/sdk"
)

const (
	appName    = "veriflow-engine"
	appVersion = "0.4.0"

	engineVar = "VF_BUILTIN_ENGINE"
)

var engines = map[string]func() sdk.Handler{
	"arithmetic": func() sdk.Handler { return arithmetic.New() },
	"compare":    func() sdk.Handler { return compare.New() },
	"convert":    func() sdk.Handler { return convert.New() },
	"random":     func() sdk.Handler { return random.New() },
	"regex":      func() sdk.Handler { return regex.New() },
	"evidence":   func() sdk.Handler { return evidence.New() },
}

func main() {
	slog.SetDefault(log.New(appName, appVersion))
	name := os.Getenv(engineVar)
	if name == "" {
		name = "arithmetic"
	}
	build, ok := engines[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown engine %q for %s\n", name, engineVar)
		os.Exit(1)
	}
	sdk.Serve(build())
}
