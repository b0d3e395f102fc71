package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ninja0404/token-launcher/pkg/autofill"
	"github.com/ninja0404/token-launcher/pkg/config"
	"github.com/ninja0404/token-launcher/pkg/jito"
	"github.com/ninja0404/token-launcher/pkg/launch"
	"github.com/ninja0404/token-launcher/pkg/ledger"
	"github.com/ninja0404/token-launcher/pkg/txbuilder"
	"github.com/ninja0404/token-launcher/pkg/types"
)

type runOpts struct {
	ammConfig       string
	openConfigOnly  bool
	vanitySuffix    string
	vanityPrefix    string
	vanityTimeout   time.Duration
	useJito         bool
	jitoTipLamports uint64
	skipPreflight   bool
	preview         bool
}

func newRunCmd(g *globalOpts) *cobra.Command {
	opts := &runOpts{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Create the token, mint the supply and create the pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLaunch(cmd, g, opts)
		},
	}
	cmd.Flags().StringVar(&opts.ammConfig, "amm-config", "", "DAMM v2 config to use (default: first config found)")
	cmd.Flags().BoolVar(&opts.openConfigOnly, "open-config", false, "skip configs restricted to another pool creator")
	cmd.Flags().StringVar(&opts.vanitySuffix, "vanity-suffix", "", "search for a mint address with this suffix")
	cmd.Flags().StringVar(&opts.vanityPrefix, "vanity-prefix", "", "search for a mint address with this prefix")
	cmd.Flags().DurationVar(&opts.vanityTimeout, "vanity-timeout", 5*time.Minute, "vanity search timeout")
	cmd.Flags().BoolVar(&opts.useJito, "jito", false, "submit transactions through the Jito block engine")
	cmd.Flags().Uint64Var(&opts.jitoTipLamports, "jito-tip-lamports", 0, "Jito tip per transaction in lamports (requires --jito)")
	cmd.Flags().BoolVar(&opts.skipPreflight, "skip-preflight", false, "skip preflight checks")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "print the plan and simulate the first transaction without submitting")
	return cmd
}

func runLaunch(cmd *cobra.Command, g *globalOpts, opts *runOpts) error {
	// Every local input is validated before the first RPC call.
	cfg, err := g.launchConfig()
	if err != nil {
		return err
	}
	selector := launch.ConfigSelector(launch.FirstConfig)
	if opts.openConfigOnly {
		selector = launch.FirstOpenTo(cfg.Payer())
	}
	if opts.ammConfig != "" {
		pk, err := solana.PublicKeyFromBase58(opts.ammConfig)
		if err != nil {
			return types.NewConfigError("--amm-config", fmt.Errorf("%w: %v", types.ErrInvalidPublicKey, err))
		}
		selector = launch.ConfigByAddress(pk)
	}
	if opts.jitoTipLamports > 0 && !opts.useJito {
		return types.NewConfigError("--jito-tip-lamports", fmt.Errorf("requires --jito"))
	}

	log := newLogger(cmd, g.logLevel)
	logBanner(log, cfg)

	client := g.rpcClient(cfg.RPCURL, log)
	builder := txbuilder.NewBuilder(client, g.commitmentType()).WithSkipPreflight(opts.skipPreflight)

	var afOpts []autofill.Option
	if opts.vanitySuffix != "" {
		afOpts = append(afOpts, autofill.WithVanitySuffix(opts.vanitySuffix))
	}
	if opts.vanityPrefix != "" {
		afOpts = append(afOpts, autofill.WithVanityPrefix(opts.vanityPrefix))
	}
	if opts.vanitySuffix != "" || opts.vanityPrefix != "" {
		afOpts = append(afOpts, autofill.WithVanityTimeout(opts.vanityTimeout))
	}
	if opts.useJito {
		builder.WithJito(jito.NewClient(nil, ""))
		if opts.jitoTipLamports > 0 {
			afOpts = append(afOpts, autofill.WithJitoTip(opts.jitoTipLamports))
		}
	}
	if opts.preview {
		afOpts = append(afOpts, autofill.WithPreview(cmd.OutOrStdout()))
	}

	led := ledger.New(client, builder, cfg.Signer(), log, afOpts...)
	orch := launch.New(led, led, cfg, launch.WithSelector(selector), launch.WithLogger(log))

	if opts.preview {
		return runPreview(cmd, orch, led, cfg)
	}

	report, err := orch.Run(cmd.Context())
	if err != nil {
		return err
	}
	printReport(cmd, cfg, report)
	return nil
}

func runPreview(cmd *cobra.Command, orch *launch.Orchestrator, led *ledger.Ledger, cfg config.LaunchConfig) error {
	plan, err := orch.Plan(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(struct {
		Payer          string `json:"payer"`
		Name           string `json:"name"`
		Symbol         string `json:"symbol"`
		URI            string `json:"uri"`
		Supply         uint64 `json:"supply_base_units"`
		Config         string `json:"amm_config"`
		TokenAAmount   uint64 `json:"token_a_amount"`
		TokenBAmount   uint64 `json:"token_b_amount"`
		InitSqrtPrice  string `json:"init_sqrt_price"`
		LiquidityDelta string `json:"liquidity_delta"`
	}{
		Payer:          plan.Payer.String(),
		Name:           plan.Metadata.Name,
		Symbol:         plan.Metadata.Symbol,
		URI:            plan.Metadata.URI,
		Supply:         plan.SupplyBaseUnits,
		Config:         plan.Pool.Config.Address.String(),
		TokenAAmount:   plan.Pool.TokenAAmount,
		TokenBAmount:   plan.Pool.TokenBAmount,
		InitSqrtPrice:  plan.Pool.Params.InitSqrtPrice.String(),
		LiquidityDelta: plan.Pool.Params.LiquidityDelta.String(),
	})

	logs, err := led.SimulateCreateMint(cmd.Context(), cfg.Decimals)
	if len(logs) > 0 {
		fmt.Fprintln(out, "create mint simulation logs:")
		for _, l := range logs {
			fmt.Fprintf(out, "  %s\n", l)
		}
	}
	if err != nil {
		return fmt.Errorf("simulate create mint: %w", err)
	}
	return nil
}

func logBanner(log zerolog.Logger, cfg config.LaunchConfig) {
	log.Info().
		Str("rpc", cfg.RPCURL).
		Str("cluster", cfg.Cluster()).
		Str("payer", cfg.Payer().String()).
		Uint8("decimals", cfg.Decimals).
		Str("supply", cfg.TotalSupply.String()).
		Str("pool_creator_tokens", cfg.PoolCreatorTokens.String()).
		Str("pool_native_amount", cfg.PoolNativeAmount.String()).
		Str("native_mint", cfg.NativeMint.String()).
		Msg("starting token launch")
}

func printReport(cmd *cobra.Command, cfg config.LaunchConfig, r launch.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "token=%s\n", r.Mint)
	fmt.Fprintf(out, "token_url=%s\n", cfg.AddressExplorerURL(r.Mint))
	fmt.Fprintf(out, "create_mint_tx=%s\n", r.CreateMintSig)
	fmt.Fprintf(out, "metadata_tx=%s\n", r.MetadataSig)
	fmt.Fprintf(out, "mint_supply_tx=%s\n", r.MintSupplySig)
	fmt.Fprintf(out, "amm_config=%s\n", r.Config)
	fmt.Fprintf(out, "pool=%s\n", r.Pool.Pool)
	fmt.Fprintf(out, "position_nft_mint=%s\n", r.Pool.PositionNftMint)
	fmt.Fprintf(out, "pool_tx=%s\n", r.Pool.Signature)
	fmt.Fprintf(out, "pool_tx_url=%s\n", cfg.TxExplorerURL(r.Pool.Signature))
}
