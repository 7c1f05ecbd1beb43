// Package cli implements the pokefinder command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/pokefinder/internal/config"
	"github.com/rshade/pokefinder/internal/logging"
	"github.com/rshade/pokefinder/internal/session"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath  string
	debug       bool
	output      string
	cacheTTL    string
	dataDir     string
	storeEngine string
}

// app carries per-invocation state from PersistentPreRunE to the commands.
type app struct {
	flags       globalFlags
	cfg         *config.Config
	sess        *session.Session
	logResult   *logging.Result
	sessionOpts []session.Option
}

// NewRootCmd creates the root Cobra command for the pokefinder CLI.
func NewRootCmd(ver string) *cobra.Command {
	cmd, _ := newRootCmd(ver)
	return cmd
}

// Execute runs the CLI with ctx. The store and log file are released whether
// or not the command fails.
func Execute(ctx context.Context, ver string) error {
	cmd, a := newRootCmd(ver)
	return a.execute(ctx, cmd)
}

func (a *app) execute(ctx context.Context, cmd *cobra.Command) error {
	runErr := cmd.ExecuteContext(ctx)
	if closeErr := a.close(); closeErr != nil {
		return errors.Join(runErr, closeErr)
	}
	return runErr
}

// newRootCmd builds the command tree. Tests pass session options to point
// the session at a fake API.
func newRootCmd(ver string, opts ...session.Option) (*cobra.Command, *app) {
	a := &app{sessionOpts: opts}

	cmd := &cobra.Command{
		Use:           "pokefinder",
		Short:         "Look up Pokémon, abilities and types with a local cache",
		Long:          "pokefinder: search PokeAPI, keep a search history and favorites, and pit two Pokémon against each other.",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.loadConfig(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd, a.cfg, a.flags.debug)
			a.logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.cleanup(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default $POKEFINDER_HOME/config.yaml or ~/.pokefinder/config.yaml)")
	pf.BoolVar(&a.flags.debug, "debug", false, "enable debug logging")
	pf.StringVarP(&a.flags.output, "output", "o", "", "output format: table or json (default from config)")
	pf.StringVar(&a.flags.cacheTTL, "cache-ttl", "", "cache TTL, e.g. 24h, 1d or seconds (overrides config file and env var)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "directory holding the cache, history and favorites")
	pf.StringVar(&a.flags.storeEngine, "store-engine", "", "storage engine: file, sqlite or memory")

	cmd.AddCommand(
		newSearchCmd(a),
		newAbilityCmd(a),
		newTypeCmd(a),
		newHistoryCmd(a),
		newFavoritesCmd(a),
		newBattleCmd(a),
		newBrowseCmd(a),
		newCacheCmd(a),
		newConfigCmd(a),
	)
	return cmd, a
}

const rootCmdExample = `  # Look up a Pokémon by name or id
  pokefinder search pikachu
  pokefinder search 25

  # Look up an ability
  pokefinder ability "solar power"

  # Compare two Pokémon
  pokefinder battle charmander bulbasaur

  # Browse the search history interactively
  pokefinder browse history

  # Use a one hour cache and print JSON
  pokefinder search eevee --cache-ttl 1h -o json`

// annotationSkipConfigFile marks commands that must run without reading the
// config file, such as config init.
const annotationSkipConfigFile = "pokefinder/skip-config-file"

// loadConfig resolves the config file, the environment and then the flags.
func (a *app) loadConfig(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if _, skip := cmd.Annotations[annotationSkipConfigFile]; skip {
		cfg = config.New()
		err = cfg.ApplyEnv(os.LookupEnv)
	} else {
		cfg, err = config.Load(a.flags.configPath)
	}
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("cache-ttl") {
		cfg.Cache.TTL = a.flags.cacheTTL
	}
	if flags.Changed("data-dir") {
		cfg.DataDir = a.flags.dataDir
	}
	if flags.Changed("store-engine") {
		cfg.Cache.Engine = a.flags.storeEngine
	}
	if flags.Changed("output") {
		cfg.Output.DefaultFormat = a.flags.output
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// session opens the session on first use.
func (a *app) session(ctx context.Context) (*session.Session, error) {
	if a.sess != nil {
		return a.sess, nil
	}
	if a.cfg == nil {
		return nil, fmt.Errorf("%w: configuration not loaded", config.ErrInvalidConfig)
	}
	sess, err := session.Open(ctx, a.cfg, a.sessionOpts...)
	if err != nil {
		return nil, err
	}
	a.sess = sess
	return sess, nil
}

// jsonOutput reports whether results should be printed as JSON.
func (a *app) jsonOutput() bool {
	return a.cfg != nil && a.cfg.Output.DefaultFormat == config.FormatJSON
}

func (a *app) cleanup(cmd *cobra.Command) error {
	logger.Debug().Ctx(cmd.Context()).Str("command", cmd.Name()).Msg("command finished")
	return a.close()
}

// close releases the session and the log file. It is safe to call twice.
func (a *app) close() error {
	var sessErr error
	if a.sess != nil {
		sessErr = a.sess.Close()
		a.sess = nil
	}
	if err := a.logResult.Close(); err != nil {
		return err
	}
	if sessErr != nil {
		return fmt.Errorf("closing store: %w", sessErr)
	}
	return nil
}
