package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ninja0404/token-launcher/pkg/config"
	sdkrpc "github.com/ninja0404/token-launcher/pkg/rpc"
)

func main() {
	if err := newRootCmd(os.Getenv).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalOpts struct {
	rpcURL        string
	commitment    string
	envFile       string
	profile       string
	retryAttempts int
	rateLimitRPS  float64
	logLevel      string
	timeoutSec    int

	getenv func(string) string
}

func newRootCmd(getenv func(string) string) *cobra.Command {
	opts := &globalOpts{getenv: getenv}

	root := &cobra.Command{
		Use:           "launcher",
		Short:         "Launch a creator token: mint, metadata, supply and a DAMM v2 pool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.rpcURL, "rpc-url", "", "RPC endpoint (default: SOLANA_RPC_URL, then SOLANA_CLUSTER_MAINNET, then mainnet)")
	root.PersistentFlags().StringVar(&opts.commitment, "commitment", "confirmed", "RPC commitment level")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading the environment (missing file is fine)")
	root.PersistentFlags().StringVar(&opts.profile, "profile", "", "YAML token profile overriding the built-in token parameters")
	root.PersistentFlags().IntVar(&opts.retryAttempts, "retry-attempts", 1, "read attempts per RPC call (1 disables retry; sends are never retried)")
	root.PersistentFlags().Float64Var(&opts.rateLimitRPS, "rate-limit-rps", 8, "rate limit RPS (0 to disable)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	root.PersistentFlags().IntVar(&opts.timeoutSec, "timeout-sec", 60, "RPC timeout seconds")

	root.AddCommand(
		newRunCmd(opts),
		newConfigCmd(opts),
		newAMMConfigsCmd(opts),
		newMintInfoCmd(opts),
	)
	return root
}

// loadEnv reads the dotenv file into the process environment; only meaningful
// when getenv is os.Getenv.
func (g *globalOpts) loadEnv() error {
	if g.envFile == "" {
		return nil
	}
	return config.LoadDotEnv(g.envFile)
}

// launchConfig resolves the full launch configuration without touching the network.
func (g *globalOpts) launchConfig() (config.LaunchConfig, error) {
	if err := g.loadEnv(); err != nil {
		return config.LaunchConfig{}, err
	}
	cfg, err := config.LoadLaunchConfig(g.getenv)
	if err != nil {
		return config.LaunchConfig{}, err
	}
	if g.rpcURL != "" {
		cfg.RPCURL = g.rpcURL
	}
	if g.profile != "" {
		p, err := config.LoadTokenProfile(g.profile)
		if err != nil {
			return config.LaunchConfig{}, err
		}
		if cfg, err = cfg.ApplyProfile(p); err != nil {
			return config.LaunchConfig{}, err
		}
	}
	return cfg, nil
}

// readOnlyURL resolves the endpoint for commands that do not need the signing key.
func (g *globalOpts) readOnlyURL() (string, error) {
	if err := g.loadEnv(); err != nil {
		return "", err
	}
	if g.rpcURL != "" {
		return g.rpcURL, nil
	}
	return config.RPCURLFromEnv(g.getenv), nil
}

func (g *globalOpts) rpcClient(url string, log zerolog.Logger) *sdkrpc.Client {
	cfg := config.LauncherRPCConfig(url)
	if g.commitment != "" {
		cfg.Commitment = g.commitment
	}
	cfg.RateLimit.RPS = g.rateLimitRPS
	if g.retryAttempts > 1 {
		cfg.Retry.Enabled = true
		cfg.Retry.MaxAttempts = g.retryAttempts
	}
	if g.timeoutSec > 0 {
		cfg.Timeout = time.Duration(g.timeoutSec) * time.Second
	}
	cfg.Logger = log
	return sdkrpc.NewClient(cfg)
}

func (g *globalOpts) commitmentType() solanarpc.CommitmentType {
	if g.commitment == "" {
		return solanarpc.CommitmentConfirmed
	}
	return solanarpc.CommitmentType(g.commitment)
}

func newLogger(cmd *cobra.Command, lvl string) zerolog.Logger {
	return zerolog.New(cmd.ErrOrStderr()).Level(parseLogLevel(lvl)).With().Timestamp().Logger()
}

func parseLogLevel(lvl string) zerolog.Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
