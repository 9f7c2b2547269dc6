package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/veriflow-io/veriflow/internal/action"
	"github.com/veriflow-io/veriflow/internal/config"
	"github.com/veriflow-io/veriflow/internal/engines/arithmetic"
	"github.com/veriflow-io/veriflow/internal/engines/compare"
	"github.com/veriflow-io/veriflow/internal/engines/convert"
	"github.com/veriflow-io/veriflow/internal/engines/evidence"
	"github.com/veriflow-io/veriflow/internal/engines/random"
	"github.com/veriflow-io/veriflow/internal/engines/regex"
	"github.com/veriflow-io/veriflow/internal/flow"
	"github.com/veriflow-io/veriflow/internal/registry"
	"github.com/veriflow-io/veriflow/internal/transport"
	"github.com/veriflow-io/veriflow/pkg/api"
	"github.com/veriflow-io/veriflow/pkg/log"
	"github.com/veriflow-io/veriflow/pkg/sdk"
)

const (
	appName    = "veriflow"
	appVersion = "0.4.0"
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

type runtime struct {
	cfg      *config.Config
	registry *registry.Registry
	library  *action.Library
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		slog.Error("Command failed", log.Error(err))
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg := config.NewDefaultConfig()
	cfg.LoadFromEnv()

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Headless test-automation runtime",
		Long:          "Runs automation flows and actions against pluggable instruction engines.",
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			setupLogging(cfg)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfg.EngineDir, "engines",
		cfg.EngineDir, "directory scanned for engine binaries")
	cmd.PersistentFlags().StringVar(&cfg.ActionDir, "actions",
		cfg.ActionDir, "directory scanned for action documents")

	cmd.AddCommand(newRunCommand(cfg))
	cmd.AddCommand(newInstructionsCommand(cfg))
	return cmd
}

func newRunCommand(cfg *config.Config) *cobra.Command {
	var (
		dryRun bool
		params string
	)

	cmd := &cobra.Command{
		Use:   "run <flow file>",
		Short: "Execute an automation flow",
		Long: "Executes every step of a flow document in order and prints " +
			"the collected evidence as JSON on stdout.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer rt.close()
			return rt.runFlow(
				cmd.Context(), cmd.OutOrStdout(), args[0], params, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"ask engines to skip side effects")
	cmd.Flags().StringVar(&params, "params", "[]",
		"flow invocation parameters as a JSON array of typed values")
	return cmd
}

func newInstructionsCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "instructions",
		Short: "List every available instruction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer rt.close()
			return rt.listInstructions(cmd.OutOrStdout())
		},
	}
}

func setupLogging(cfg *config.Config) {
	level, ok := logLevels[cfg.LogLevel]
	if !ok {
		level = slog.LevelInfo
	}
	slog.SetDefault(log.NewWithLevel(appName, appVersion, level))
	slog.SetLogLoggerLevel(level)
}

func newRuntime(ctx context.Context, cfg *config.Config) (*runtime, error) {
	reg := registry.New()
	for _, engine := range builtinEngines() {
		if err := reg.Add(ctx, transport.NewLocal(engine)); err != nil {
			_ = reg.Close()
			return nil, err
		}
	}
	if _, err := os.Stat(cfg.EngineDir); err == nil {
		if err := reg.Discover(ctx, cfg.EngineDir); err != nil {
			_ = reg.Close()
			return nil, err
		}
	}

	lib := action.NewLibrary()
	if _, err := os.Stat(cfg.ActionDir); err == nil {
		if err := lib.LoadDir(cfg.ActionDir); err != nil {
			_ = reg.Close()
			return nil, err
		}
	}

	// missing instructions fail the load, not the first affected run
	for id, missing := range lib.MissingInstructions(reg.Missing) {
		_ = reg.Close()
		return nil, fmt.Errorf(
			"action %s requires unavailable instructions %v", id, missing)
	}

	return &runtime{cfg: cfg, registry: reg, library: lib}, nil
}

func builtinEngines() []sdk.Handler {
	return []sdk.Handler{
		arithmetic.New(),
		compare.New(),
		convert.New(),
		random.New(),
		regex.New(),
		evidence.New(),
	}
}

func (rt *runtime) close() {
	if err := rt.registry.Close(); err != nil {
		slog.Warn("Engine shutdown failed", log.Error(err))
	}
}

func (rt *runtime) runFlow(
	ctx context.Context, w io.Writer, path, paramsJSON string, dryRun bool,
) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	f, err := flow.Load(data)
	if err != nil {
		return err
	}

	var params []api.ParameterValue
	if err := json.Unmarshal([]byte(paramsJSON), &params); err != nil {
		return fmt.Errorf("invalid --params: %w", err)
	}

	slog.Info("Executing flow",
		slog.String("name", f.Name), slog.Int("steps", len(f.Steps)))

	executor := flow.NewExecutor(rt.registry, rt.library)
	result := executor.ExecuteFlow(ctx, f, params, dryRun).Wait()

	if err := json.NewEncoder(w).Encode(result.Evidence); err != nil {
		return err
	}
	return result.Err
}

func (rt *runtime) listInstructions(w io.Writer) error {
	for _, e := range rt.registry.Engines() {
		fmt.Fprintf(w, "%s %s (namespace %s)\n", e.Name, e.Version, e.Namespace)
		for _, inst := range e.Instructions {
			fmt.Fprintf(w, "  %s  %s.%s  %s\n",
				inst.ID, e.Namespace, inst.ScriptName, inst.FriendlyName)
		}
	}
	return nil
}
