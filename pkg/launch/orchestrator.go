package launch

import (
	"context"
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"github.com/ninja0404/token-launcher/pkg/config"
	"github.com/ninja0404/token-launcher/pkg/program/cpamm"
	"github.com/ninja0404/token-launcher/pkg/quote"
	"github.com/ninja0404/token-launcher/pkg/types"
)

// Report collects everything a successful run produced.
type Report struct {
	Mint            solana.PublicKey
	CreateMintSig   solana.Signature
	MetadataSig     solana.Signature
	MintSupplySig   solana.Signature
	SupplyBaseUnits uint64
	Config          solana.PublicKey
	TokenAAmount    uint64
	TokenBAmount    uint64
	Pool            PoolResult
	PoolParams      quote.PoolCreationParams
}

// Orchestrator sequences the launch steps. It holds no state between runs.
type Orchestrator struct {
	tokens   TokenService
	pools    PoolService
	cfg      config.LaunchConfig
	selector ConfigSelector
	log      zerolog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSelector replaces the default FirstConfig rule.
func WithSelector(s ConfigSelector) Option {
	return func(o *Orchestrator) {
		if s != nil {
			o.selector = s
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

func New(tokens TokenService, pools PoolService, cfg config.LaunchConfig, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		tokens:   tokens,
		pools:    pools,
		cfg:      cfg,
		selector: FirstConfig,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes create token, mint supply and create pool in order. The first
// failure stops the run and comes back as a *types.StepError. Nothing already
// on-chain is undone.
func (o *Orchestrator) Run(ctx context.Context) (Report, error) {
	md, err := BuildMetadata(o.cfg)
	if err != nil {
		return Report{}, err
	}
	supply, err := o.cfg.TotalSupplyBaseUnits()
	if err != nil {
		return Report{}, types.NewConfigError("supply", err)
	}

	var report Report
	report.SupplyBaseUnits = supply

	mint, err := o.CreateToken(ctx, md)
	if err != nil {
		return report, err
	}
	report.Mint = mint.Mint
	report.CreateMintSig = mint.Signature
	report.MetadataSig = mint.MetadataSig

	report.MintSupplySig, err = o.MintSupply(ctx, mint.Mint, supply)
	if err != nil {
		o.warnRemaining(mint.Mint, "mint and metadata exist, supply was not minted")
		return report, err
	}

	pool, err := o.CreatePool(ctx, mint.Mint)
	if err != nil {
		o.warnRemaining(mint.Mint, "full supply is minted to the payer, no pool was created")
		return report, err
	}
	report.Config = pool.request.Config.Address
	report.TokenAAmount = pool.request.TokenAAmount
	report.TokenBAmount = pool.request.TokenBAmount
	report.PoolParams = pool.request.Params
	report.Pool = pool.PoolResult

	o.log.Info().
		Str("token", mint.Mint.String()).
		Str("token_url", o.cfg.AddressExplorerURL(mint.Mint)).
		Str("pool", pool.Pool.String()).
		Str("pool_tx_url", o.cfg.TxExplorerURL(pool.Signature)).
		Msg("launch complete")
	return report, nil
}

// CreatedToken is the outcome of the create-token step.
type CreatedToken struct {
	MintResult
	MetadataSig solana.Signature
}

// CreateToken creates the mint, then attaches metadata to it.
func (o *Orchestrator) CreateToken(ctx context.Context, md Metadata) (CreatedToken, error) {
	o.log.Info().
		Str("name", md.Name).
		Str("symbol", md.Symbol).
		Str("uri", md.URI).
		Int("name_len", len(md.Name)).
		Int("symbol_len", len(md.Symbol)).
		Int("uri_len", len(md.URI)).
		Msg("token metadata")

	mint, err := o.tokens.CreateMint(ctx, o.cfg.Decimals)
	if err != nil {
		return CreatedToken{}, &types.StepError{Step: types.StepCreateToken, Err: fmt.Errorf("create mint: %w", err)}
	}
	o.log.Info().Str("mint", mint.Mint.String()).Str("sig", mint.Signature.String()).Msg("mint created")

	sig, err := o.tokens.AttachMetadata(ctx, mint.Mint, md)
	if err != nil {
		o.warnRemaining(mint.Mint, "mint exists without metadata")
		return CreatedToken{MintResult: mint}, &types.StepError{Step: types.StepCreateToken, Err: fmt.Errorf("create metadata: %w", err)}
	}
	o.log.Info().Str("sig", sig.String()).Msg("metadata created")
	return CreatedToken{MintResult: mint, MetadataSig: sig}, nil
}

// MintSupply mints amount base units into the payer's ATA.
func (o *Orchestrator) MintSupply(ctx context.Context, mint solana.PublicKey, amount uint64) (solana.Signature, error) {
	sig, err := o.tokens.MintSupply(ctx, mint, amount)
	if err != nil {
		return solana.Signature{}, &types.StepError{Step: types.StepMintSupply, Err: err}
	}
	o.log.Info().Uint64("amount", amount).Str("sig", sig.String()).Msg("supply minted")
	return sig, nil
}

type createdPool struct {
	PoolResult
	request PoolRequest
}

// CreatePool selects a config, scales both seeds by their own mint's decimals and
// creates the pool with mint as token A and the native mint as token B.
func (o *Orchestrator) CreatePool(ctx context.Context, mint solana.PublicKey) (createdPool, error) {
	fail := func(err error) (createdPool, error) {
		return createdPool{}, &types.StepError{Step: types.StepCreatePool, Err: err}
	}

	chosen, err := o.selectConfig(ctx)
	if err != nil {
		return fail(err)
	}
	decA, err := o.tokens.MintDecimals(ctx, mint)
	if err != nil {
		return fail(fmt.Errorf("token a decimals: %w", err))
	}
	decB, err := o.tokens.MintDecimals(ctx, o.cfg.NativeMint)
	if err != nil {
		return fail(fmt.Errorf("token b decimals: %w", err))
	}
	req, err := o.poolRequest(chosen, mint, decA, decB)
	if err != nil {
		return fail(err)
	}

	res, err := o.pools.CreatePool(ctx, req)
	if err != nil {
		return fail(err)
	}
	o.log.Info().Str("pool", res.Pool.String()).Str("sig", res.Signature.String()).Msg("pool created")
	return createdPool{PoolResult: res, request: req}, nil
}

func (o *Orchestrator) selectConfig(ctx context.Context) (cpamm.ConfigAccount, error) {
	configs, err := o.pools.ListConfigs(ctx)
	if err != nil {
		return cpamm.ConfigAccount{}, fmt.Errorf("list configs: %w", err)
	}
	if len(configs) == 0 {
		return cpamm.ConfigAccount{}, types.ErrNoAMMConfigs
	}
	chosen, err := o.selector(configs)
	if err != nil {
		return cpamm.ConfigAccount{}, fmt.Errorf("select config: %w", err)
	}
	o.log.Info().Int("available", len(configs)).Str("config", chosen.Address.String()).Msg("amm config selected")
	return chosen, nil
}

func (o *Orchestrator) poolRequest(chosen cpamm.ConfigAccount, mint solana.PublicKey, decA, decB uint8) (PoolRequest, error) {
	amountA, err := quote.ToBaseUnits(o.cfg.PoolCreatorTokens, decA)
	if err != nil {
		return PoolRequest{}, fmt.Errorf("token a amount: %w", err)
	}
	amountB, err := quote.ToBaseUnits(o.cfg.PoolNativeAmount, decB)
	if err != nil {
		return PoolRequest{}, fmt.Errorf("token b amount: %w", err)
	}
	o.log.Info().Uint64("token_a", amountA).Uint64("token_b", amountB).Msg("raw pool amounts")

	params, err := quote.PreparePoolCreation(
		new(big.Int).SetUint64(amountA),
		new(big.Int).SetUint64(amountB),
		cpamm.MinSqrtPrice,
		cpamm.MaxSqrtPrice,
	)
	if err != nil {
		return PoolRequest{}, fmt.Errorf("prepare pool params: %w", err)
	}
	o.log.Info().
		Str("init_sqrt_price", params.InitSqrtPrice.String()).
		Str("liquidity", params.LiquidityDelta.String()).
		Msg("pool params")

	return PoolRequest{
		Config:       chosen,
		TokenAMint:   mint,
		TokenBMint:   o.cfg.NativeMint,
		TokenAAmount: amountA,
		TokenBAmount: amountB,
		Params:       params,
	}, nil
}

func (o *Orchestrator) warnRemaining(mint solana.PublicKey, state string) {
	o.log.Warn().Str("mint", mint.String()).Msg("launch aborted, " + state)
}
