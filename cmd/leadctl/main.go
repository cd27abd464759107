package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-console/internal/bootstrap"
	"github.com/xavierca1/lead-console/internal/config"
	"github.com/xavierca1/lead-console/internal/infra/remote"
	"github.com/xavierca1/lead-console/internal/logger"
	"github.com/xavierca1/lead-console/internal/usecase"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

type globalFlags struct {
	backend string
	dataDir string
	instant bool
	verbose bool
	json    bool
}

// app is built once per invocation, after flag parsing.
type app struct {
	out     io.Writer
	errOut  io.Writer
	flags   *globalFlags
	logger  *zap.Logger
	state   *bootstrap.StateStore
	console *bootstrap.Console
}

// printNotifier shows notifications on stderr.
type printNotifier struct {
	w io.Writer
}

func (p printNotifier) Notify(_ context.Context, n usecase.Notification) {
	prefix := ""
	if n.Variant == usecase.VariantDestructive {
		prefix = "! "
	}
	fmt.Fprintf(p.w, "%s%s: %s\n", prefix, n.Title, n.Description)
}

func (a *app) open(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.flags.backend != "" {
		cfg.StoreBackend = a.flags.backend
	}
	if a.flags.dataDir != "" {
		cfg.DataDir = a.flags.dataDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	// one-shot commands never wait for a search debounce or an import delay
	cfg.SearchDebounce = 0
	cfg.ImportDelay = 0

	a.logger = logger.NewDevelopment(a.flags.verbose)

	a.state, err = bootstrap.OpenStore(ctx, cfg, a.logger)
	if err != nil {
		return err
	}

	var rt usecase.Remote = bootstrap.NewRemote(cfg)
	if a.flags.instant {
		rt = remote.Instant{}
	}

	a.console = bootstrap.NewConsole(ctx, cfg, a.state.Store, rt, printNotifier{a.errOut}, nil, a.logger)
	return nil
}

func (a *app) close() {
	if a.console != nil {
		a.console.Close()
	}
	if a.state != nil {
		a.state.Close()
	}
	if a.logger != nil {
		a.logger.Sync()
	}
}

func newApp(out, errOut io.Writer) *app {
	return &app{out: out, errOut: errOut, flags: &globalFlags{}}
}

func newRootCmd(a *app) *cobra.Command {

	root := &cobra.Command{
		Use:           "leadctl",
		Short:         "Manage imported sales leads and opportunities",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["offline"] == "true" {
				return nil
			}
			return a.open(cmd.Context())
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.backend, "backend", "", "State backend: memory, file, redis, postgres or sqlite (default from STORE_BACKEND)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "Directory of the file backend (default from DATA_DIR)")
	pf.BoolVar(&a.flags.instant, "instant", false, "Skip the simulated remote latency and failures")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "Debug logging")
	pf.BoolVar(&a.flags.json, "json", false, "Print JSON instead of tables")

	root.AddCommand(
		newImportCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newUpdateCmd(a),
		newConvertCmd(a),
		newClearCmd(a),
		newExportCmd(a),
		newSampleCmd(a),
		newOppsCmd(a),
	)
	return root
}

func main() {
	a := newApp(os.Stdout, os.Stderr)
	err := newRootCmd(a).ExecuteContext(context.Background())
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
