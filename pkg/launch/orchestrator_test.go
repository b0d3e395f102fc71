package launch_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninja0404/token-launcher/pkg/config"
	"github.com/ninja0404/token-launcher/pkg/constants"
	"github.com/ninja0404/token-launcher/pkg/launch"
	"github.com/ninja0404/token-launcher/pkg/program/cpamm"
	"github.com/ninja0404/token-launcher/pkg/types"
)

var errBoom = errors.New("boom")

// fakeLedger records calls in order and fails the named call when failOn is set.
type fakeLedger struct {
	calls    []string
	failOn   string
	mint     solana.PublicKey
	decimals map[solana.PublicKey]uint8
	configs  []cpamm.ConfigAccount

	metadata launch.Metadata
	minted   uint64
	poolReq  *launch.PoolRequest
}

func newFakeLedger(configs ...cpamm.ConfigAccount) *fakeLedger {
	mint := solana.NewWallet().PublicKey()
	return &fakeLedger{
		mint: mint,
		decimals: map[solana.PublicKey]uint8{
			mint:               8,
			constants.WSOLMint: 9,
		},
		configs: configs,
	}
}

func (f *fakeLedger) record(call string) error {
	f.calls = append(f.calls, call)
	if call == f.failOn {
		return errBoom
	}
	return nil
}

func (f *fakeLedger) CreateMint(ctx context.Context, decimals uint8) (launch.MintResult, error) {
	if err := f.record("create_mint"); err != nil {
		return launch.MintResult{}, err
	}
	f.decimals[f.mint] = decimals
	return launch.MintResult{Mint: f.mint, Signature: solana.Signature{1}}, nil
}

func (f *fakeLedger) AttachMetadata(ctx context.Context, mint solana.PublicKey, md launch.Metadata) (solana.Signature, error) {
	if err := f.record("attach_metadata"); err != nil {
		return solana.Signature{}, err
	}
	f.metadata = md
	return solana.Signature{2}, nil
}

func (f *fakeLedger) MintSupply(ctx context.Context, mint solana.PublicKey, amount uint64) (solana.Signature, error) {
	if err := f.record("mint_supply"); err != nil {
		return solana.Signature{}, err
	}
	f.minted = amount
	return solana.Signature{3}, nil
}

func (f *fakeLedger) MintDecimals(ctx context.Context, mint solana.PublicKey) (uint8, error) {
	if err := f.record("mint_decimals"); err != nil {
		return 0, err
	}
	d, ok := f.decimals[mint]
	if !ok {
		return 0, types.ErrMintNotFound
	}
	return d, nil
}

func (f *fakeLedger) ListConfigs(ctx context.Context) ([]cpamm.ConfigAccount, error) {
	if err := f.record("list_configs"); err != nil {
		return nil, err
	}
	return f.configs, nil
}

func (f *fakeLedger) CreatePool(ctx context.Context, req launch.PoolRequest) (launch.PoolResult, error) {
	if err := f.record("create_pool"); err != nil {
		return launch.PoolResult{}, err
	}
	f.poolReq = &req
	pool, _, _ := cpamm.DerivePoolPDA(req.Config.Address, req.TokenAMint, req.TokenBMint)
	return launch.PoolResult{Signature: solana.Signature{4}, Pool: pool}, nil
}

func testConfig(t *testing.T) config.LaunchConfig {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	values := make([]int, len(key))
	for i, b := range key {
		values[i] = int(b)
	}
	raw, err := json.Marshal(values)
	require.NoError(t, err)

	cfg, err := config.LoadLaunchConfig(func(k string) string {
		if k == config.EnvSigningKey {
			return string(raw)
		}
		return ""
	})
	require.NoError(t, err)
	return cfg
}

func configAccount() cpamm.ConfigAccount {
	return cpamm.ConfigAccount{Address: solana.NewWallet().PublicKey()}
}

func TestRunHappyPath(t *testing.T) {
	first, second := configAccount(), configAccount()
	f := newFakeLedger(first, second)
	cfg := testConfig(t)

	report, err := launch.New(f, f, cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"create_mint", "attach_metadata", "mint_supply",
		"list_configs", "mint_decimals", "mint_decimals", "create_pool",
	}, f.calls)

	assert.Equal(t, launch.Metadata{
		Name:   "Moxie's TORY",
		Symbol: "TORY",
		URI:    config.DefaultMetadataURI,
	}, f.metadata)
	assert.Equal(t, uint64(100_000_000_000_000_000), f.minted)

	require.NotNil(t, f.poolReq)
	assert.Equal(t, first.Address, f.poolReq.Config.Address)
	assert.Equal(t, f.mint, f.poolReq.TokenAMint)
	assert.Equal(t, constants.WSOLMint, f.poolReq.TokenBMint)
	assert.Equal(t, uint64(12_500_000_000_000_000), f.poolReq.TokenAAmount)
	assert.Equal(t, uint64(69_000_000_000), f.poolReq.TokenBAmount)
	assert.Equal(t, 1, f.poolReq.Params.LiquidityDelta.Sign())

	assert.Equal(t, f.mint, report.Mint)
	assert.Equal(t, solana.Signature{1}, report.CreateMintSig)
	assert.Equal(t, solana.Signature{2}, report.MetadataSig)
	assert.Equal(t, solana.Signature{3}, report.MintSupplySig)
	assert.Equal(t, solana.Signature{4}, report.Pool.Signature)
	assert.Equal(t, first.Address, report.Config)
	assert.Equal(t, f.poolReq.TokenAAmount, report.TokenAAmount)
}

func TestRunScalesEachSideByItsOwnDecimals(t *testing.T) {
	f := newFakeLedger(configAccount())
	cfg := testConfig(t)
	cfg.Decimals = 6

	_, err := launch.New(f, f, cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(125_000_000_000_000), f.poolReq.TokenAAmount)
	assert.Equal(t, uint64(69_000_000_000), f.poolReq.TokenBAmount)
	assert.Equal(t, uint64(1_000_000_000_000_000), f.minted)
}

func TestRunWithoutConfigs(t *testing.T) {
	f := newFakeLedger()
	var logs bytes.Buffer

	report, err := launch.New(f, f, testConfig(t), launch.WithLogger(zerolog.New(&logs))).Run(context.Background())
	require.ErrorIs(t, err, types.ErrNoAMMConfigs)
	step, ok := types.FailedStep(err)
	require.True(t, ok)
	assert.Equal(t, types.StepCreatePool, step)

	assert.NotContains(t, f.calls, "create_pool")
	assert.Equal(t, f.mint, report.Mint, "the mint and supply stay on-chain")
	assert.Contains(t, logs.String(), "launch aborted")
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	cases := []struct {
		failOn string
		step   types.Step
		calls  int
	}{
		{"create_mint", types.StepCreateToken, 1},
		{"attach_metadata", types.StepCreateToken, 2},
		{"mint_supply", types.StepMintSupply, 3},
		{"list_configs", types.StepCreatePool, 4},
		{"create_pool", types.StepCreatePool, 7},
	}
	for _, tc := range cases {
		t.Run(tc.failOn, func(t *testing.T) {
			f := newFakeLedger(configAccount())
			f.failOn = tc.failOn

			_, err := launch.New(f, f, testConfig(t)).Run(context.Background())
			require.ErrorIs(t, err, errBoom)
			step, ok := types.FailedStep(err)
			require.True(t, ok)
			assert.Equal(t, tc.step, step)
			assert.Len(t, f.calls, tc.calls)
			assert.Equal(t, tc.failOn, f.calls[len(f.calls)-1])
		})
	}
}

func TestRunRejectsBadConfigBeforeAnyCall(t *testing.T) {
	f := newFakeLedger(configAccount())
	cfg := testConfig(t)
	cfg.MetadataURI = ""

	_, err := launch.New(f, f, cfg).Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, f.calls)

	cfg = testConfig(t)
	cfg.Decimals = 12
	_, err = launch.New(f, f, cfg).Run(context.Background())
	var cerr *types.ConfigError
	require.ErrorAs(t, err, &cerr)
	assert.ErrorIs(t, err, types.ErrAmountOverflow)
	assert.Empty(t, f.calls)
}

func TestRunWithSelector(t *testing.T) {
	first, second := configAccount(), configAccount()
	f := newFakeLedger(first, second)

	report, err := launch.New(f, f, testConfig(t), launch.WithSelector(launch.ConfigByAddress(second.Address))).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, second.Address, report.Config)

	f = newFakeLedger(first)
	_, err = launch.New(f, f, testConfig(t), launch.WithSelector(launch.ConfigByAddress(second.Address))).Run(context.Background())
	assert.ErrorIs(t, err, types.ErrConfigNotFound)
	assert.NotContains(t, f.calls, "create_pool")
}

func TestSelectors(t *testing.T) {
	creator := solana.NewWallet().PublicKey()
	gated := cpamm.ConfigAccount{Address: solana.NewWallet().PublicKey()}
	gated.Config.PoolCreatorAuthority = solana.NewWallet().PublicKey()
	open := configAccount()

	got, err := launch.FirstConfig([]cpamm.ConfigAccount{gated, open})
	require.NoError(t, err)
	assert.Equal(t, gated.Address, got.Address)

	got, err = launch.FirstOpenTo(creator)([]cpamm.ConfigAccount{gated, open})
	require.NoError(t, err)
	assert.Equal(t, open.Address, got.Address)

	_, err = launch.FirstOpenTo(creator)([]cpamm.ConfigAccount{gated})
	assert.ErrorIs(t, err, types.ErrConfigNotFound)

	_, err = launch.FirstConfig(nil)
	assert.ErrorIs(t, err, types.ErrNoAMMConfigs)
}

func TestBuildMetadata(t *testing.T) {
	cfg := testConfig(t)
	cfg.TokenName = strings.Repeat("N", 40)
	cfg.TokenSymbol = "verylongsymbol"
	cfg.MetadataURI = "https://x.invalid/" + strings.Repeat("u", 300)

	md, err := launch.BuildMetadata(cfg)
	require.NoError(t, err)
	assert.Len(t, md.Name, 32)
	assert.True(t, strings.HasPrefix(md.Name, "Moxie's NNN"))
	assert.Equal(t, "VERYLONGSY", md.Symbol)
	assert.Len(t, md.URI, 200)

	cfg.TokenName = "TORY"
	cfg.TokenSymbol = "tory"
	cfg.MetadataURI = config.DefaultMetadataURI
	md, err = launch.BuildMetadata(cfg)
	require.NoError(t, err)
	assert.Equal(t, "Moxie's TORY", md.Name)
	assert.Equal(t, "TORY", md.Symbol)

	// full case mapping: ß expands to SS before the byte cut
	cfg.TokenSymbol = "straße"
	md, err = launch.BuildMetadata(cfg)
	require.NoError(t, err)
	assert.Equal(t, "STRASSE", md.Symbol)

	cfg.TokenSymbol = "ßßßßßß"
	md, err = launch.BuildMetadata(cfg)
	require.NoError(t, err)
	assert.Equal(t, "SSSSSSSSSS", md.Symbol)
}

func TestPlanIsReadOnly(t *testing.T) {
	cfgAcc := configAccount()
	f := newFakeLedger(cfgAcc)
	cfg := testConfig(t)

	plan, err := launch.New(f, f, cfg).Plan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"list_configs", "mint_decimals"}, f.calls)
	assert.Equal(t, cfg.Payer(), plan.Payer)
	assert.Equal(t, "Moxie's TORY", plan.Metadata.Name)
	assert.Equal(t, uint64(100_000_000_000_000_000), plan.SupplyBaseUnits)
	assert.Equal(t, cfgAcc.Address, plan.Pool.Config.Address)
	assert.Equal(t, uint64(12_500_000_000_000_000), plan.Pool.TokenAAmount)
	assert.Equal(t, uint64(69_000_000_000), plan.Pool.TokenBAmount)
}
