package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/htbctl/internal/adapters/htb"
	logAdapter "github.com/bft-labs/htbctl/internal/adapters/log"
	"github.com/bft-labs/htbctl/internal/app"
	"github.com/bft-labs/htbctl/internal/cliconfig"
)

const helpBanner = `
 █████       █████    █████       █████████  █████    █████
░░███       ░░███    ░░███       ███░░░░░███░░███    ░░███
 ░███████   ███████   ░███████  ███     ░░░  ░███████ ░███
 ░███░░███ ░░░███░    ░███░░███░███          ░███░░░  ░███
 ░███ ░███   ░███     ░███ ░███░███          ░███     ░███
 ░███ ░███   ░███ ███ ░███ ░███░░███     ███ ░███ ███ ░███
 ████ █████  ░░█████  ████████  ░░█████████  ░░█████  █████
░░░░ ░░░░░    ░░░░░  ░░░░░░░░    ░░░░░░░░░    ░░░░░  ░░░░░
`

const helpDescription = `
Manage your HackTheBox lab machine from the terminal: search the catalog,
spawn an instance and wait for its address, stop or reset it, and submit
flags with a difficulty rating.

The account has exactly one active machine slot; htbctl observes and reports
it, the platform enforces it. Credentials come from a token file (default
/etc/hackthebox/api-token.txt) or the HTB_TOKEN environment variable.
`

var longHelp = strings.TrimSpace(helpBanner) + "\n\n" + strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  htbctl search lame
  htbctl start lame
  htbctl info --json
  htbctl submit 1f4d...9c:40
  htbctl stop
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cliOptions carries flag state shared by every subcommand.
type cliOptions struct {
	cfgPath string
	cfg     cliconfig.Config
	log     zerolog.Logger
}

// load applies config-file and environment values under the already-set
// flags, then validates. Flag > env > file > default.
func (o *cliOptions) load(cmd *cobra.Command) error {
	cfgFile := o.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&o.cfg, fc, changed); err != nil {
			return err
		}
	}

	if err := cliconfig.ApplyEnvConfig(&o.cfg, changed); err != nil {
		return err
	}

	return o.cfg.Validate()
}

// controller resolves the credential and wires the full stack: HTTP client,
// catalog adapter, lifecycle controller.
func (o *cliOptions) controller() (*app.Controller, error) {
	if err := o.cfg.LoadToken(); err != nil {
		return nil, err
	}
	logger := logAdapter.NewZerologAdapterWithLogger(o.log)
	client := htb.NewClient(&http.Client{Timeout: o.cfg.HTTPTimeout}, logger, o.cfg.BaseURL, o.cfg.Token)
	return app.NewController(client,
		app.WithLogger(logger),
		app.WithTickInterval(o.cfg.TickInterval),
		app.WithPollBudgets(o.cfg.SpawnTicks, o.cfg.StopTicks),
	), nil
}

func newRootCommand(log zerolog.Logger) *cobra.Command {
	opts := &cliOptions{
		cfg: cliconfig.DefaultConfig(),
		log: log,
	}

	root := &cobra.Command{
		Use:     "htbctl",
		Short:   "Manage your HackTheBox lab machine from the terminal",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),

		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.cfgPath, "config", "", "path to config file (default: $HOME/.htbctl/config.toml)")
	pf.StringVar(&opts.cfg.TokenPath, "token-path", opts.cfg.TokenPath, "path to the API token file")
	pf.StringVar(&opts.cfg.Iface, "iface", opts.cfg.Iface, "VPN tunnel interface name")
	pf.DurationVar(&opts.cfg.HTTPTimeout, "timeout", opts.cfg.HTTPTimeout, "HTTP timeout")
	pf.BoolVar(&opts.cfg.JSON, "json", opts.cfg.JSON, "render JSON instead of tables")
	pf.BoolVar(&opts.cfg.IncludeRetired, "retired", opts.cfg.IncludeRetired, "include retired machines in name searches")

	pf.StringVar(&opts.cfg.BaseURL, "base-url", opts.cfg.BaseURL, "base API URL (override only for testing)")
	if err := pf.MarkHidden("base-url"); err != nil {
		log.Info().Err(err).Msg("failed to hide base-url flag")
	}
	pf.DurationVar(&opts.cfg.TickInterval, "tick", opts.cfg.TickInterval, "polling tick interval")
	if err := pf.MarkHidden("tick"); err != nil {
		log.Info().Err(err).Msg("failed to hide tick flag")
	}

	root.AddCommand(
		newSearchCommand(opts),
		newStartCommand(opts),
		newInfoCommand(opts),
		newStopCommand(opts),
		newResetCommand(opts),
		newSubmitCommand(opts),
		newLocalCommand(opts),
		newTargetCommand(opts),
	)
	return root
}

func main() {
	log := cliconfig.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCommand(log)
	if err := root.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("htbctl")
		os.Exit(1)
	}
}
