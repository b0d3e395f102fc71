package main

import (
	"encoding/json"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/ninja0404/token-launcher/pkg/launch"
	"github.com/ninja0404/token-launcher/pkg/ledger"
	"github.com/ninja0404/token-launcher/pkg/program/cpamm"
)

func newConfigCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the resolved launch config (no secrets, no network)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.launchConfig()
			if err != nil {
				return err
			}
			md, err := launch.BuildMetadata(cfg)
			if err != nil {
				return err
			}
			supply, err := cfg.TotalSupplyBaseUnits()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rpc=%s\ncluster=%s\npayer=%s\n", cfg.RPCURL, cfg.Cluster(), cfg.Payer())
			fmt.Fprintf(out, "decimals=%d\nsupply=%s\nsupply_base_units=%d\n", cfg.Decimals, cfg.TotalSupply, supply)
			fmt.Fprintf(out, "name=%q\nsymbol=%q\nuri=%s\n", md.Name, md.Symbol, md.URI)
			fmt.Fprintf(out, "pool_creator_tokens=%s\npool_native_amount=%s\nnative_mint=%s\n",
				cfg.PoolCreatorTokens, cfg.PoolNativeAmount, cfg.NativeMint)
			return nil
		},
	}
}

func newAMMConfigsCmd(g *globalOpts) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "amm-configs",
		Short: "List DAMM v2 config accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := g.readOnlyURL()
			if err != nil {
				return err
			}
			log := newLogger(cmd, g.logLevel)
			led := ledger.New(g.rpcClient(url, log), nil, nil, log)

			configs, err := led.ListConfigs(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				bz, _ := json.MarshalIndent(configRows(configs), "", "  ")
				fmt.Fprintln(out, string(bz))
				return nil
			}
			for _, row := range configRows(configs) {
				fmt.Fprintf(out, "%s index=%d creator_authority=%s activation_type=%d collect_fee_mode=%d sqrt_min=%s sqrt_max=%s\n",
					row.Address, row.Index, row.PoolCreatorAuthority, row.ActivationType, row.CollectFeeMode, row.SqrtMinPrice, row.SqrtMaxPrice)
			}
			fmt.Fprintf(out, "total=%d\n", len(configs))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

type configRow struct {
	Address              string `json:"address"`
	Index                uint64 `json:"index"`
	PoolCreatorAuthority string `json:"pool_creator_authority"`
	ActivationType       uint8  `json:"activation_type"`
	CollectFeeMode       uint8  `json:"collect_fee_mode"`
	CliffFeeNumerator    uint64 `json:"cliff_fee_numerator"`
	SqrtMinPrice         string `json:"sqrt_min_price"`
	SqrtMaxPrice         string `json:"sqrt_max_price"`
}

func configRows(configs []cpamm.ConfigAccount) []configRow {
	rows := make([]configRow, 0, len(configs))
	for _, c := range configs {
		rows = append(rows, configRow{
			Address:              c.Address.String(),
			Index:                c.Config.Index,
			PoolCreatorAuthority: c.Config.PoolCreatorAuthority.String(),
			ActivationType:       c.Config.ActivationType,
			CollectFeeMode:       c.Config.CollectFeeMode,
			CliffFeeNumerator:    c.Config.PoolFees.BaseFee.CliffFeeNumerator,
			SqrtMinPrice:         cpamm.BigInt(c.Config.SqrtMinPrice).String(),
			SqrtMaxPrice:         cpamm.BigInt(c.Config.SqrtMaxPrice).String(),
		})
	}
	return rows
}

func newMintInfoCmd(g *globalOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "mint-info [mint]",
		Short: "Show decimals, supply and authorities of a mint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mint, err := solana.PublicKeyFromBase58(args[0])
			if err != nil {
				return fmt.Errorf("mint invalid pubkey: %w", err)
			}
			url, err := g.readOnlyURL()
			if err != nil {
				return err
			}
			log := newLogger(cmd, g.logLevel)
			led := ledger.New(g.rpcClient(url, log), nil, nil, log)

			m, err := led.MintInfo(cmd.Context(), mint)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "mint=%s\ndecimals=%d\nsupply=%d\n", mint, m.Decimals, m.Supply)
			fmt.Fprintf(out, "mint_authority=%s\nfreeze_authority=%s\n", optionalKey(m.MintAuthority), optionalKey(m.FreezeAuthority))
			return nil
		},
	}
}

func optionalKey(pk *solana.PublicKey) string {
	if pk == nil {
		return "none"
	}
	return pk.String()
}
