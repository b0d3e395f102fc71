// Package ledger implements the launch services against a Solana cluster.
package ledger

import (
	"context"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/rs/zerolog"

	"github.com/ninja0404/token-launcher/pkg/autofill"
	"github.com/ninja0404/token-launcher/pkg/constants"
	"github.com/ninja0404/token-launcher/pkg/launch"
	"github.com/ninja0404/token-launcher/pkg/program/cpamm"
	"github.com/ninja0404/token-launcher/pkg/program/metadata"
	sdkrpc "github.com/ninja0404/token-launcher/pkg/rpc"
	"github.com/ninja0404/token-launcher/pkg/txbuilder"
	"github.com/ninja0404/token-launcher/pkg/types"
	"github.com/ninja0404/token-launcher/pkg/wallet"
)

var (
	_ launch.TokenService = (*Ledger)(nil)
	_ launch.PoolService  = (*Ledger)(nil)
)

// Ledger submits one confirmed transaction per write, signed by the payer.
type Ledger struct {
	rpc     *sdkrpc.Client
	builder *txbuilder.Builder
	payer   wallet.Signer
	level   txbuilder.ConfirmationLevel
	opts    []autofill.Option
	log     zerolog.Logger
}

// New wires a Ledger. opts are passed to every autofill builder (vanity, Jito tip, preview).
func New(rpc *sdkrpc.Client, builder *txbuilder.Builder, payer wallet.Signer, log zerolog.Logger, opts ...autofill.Option) *Ledger {
	return &Ledger{
		rpc:     rpc,
		builder: builder,
		payer:   payer,
		level:   txbuilder.LevelFromCommitment(rpc.Commitment()),
		opts:    opts,
		log:     log,
	}
}

func (l *Ledger) send(ctx context.Context, signers []wallet.Signer, instrs []solana.Instruction) (solana.Signature, error) {
	return l.builder.BuildSignSendAndConfirm(ctx, l.payer, signers, l.level, instrs...)
}

// CreateMint allocates and initializes a mint with the payer as mint and freeze authority.
func (l *Ledger) CreateMint(ctx context.Context, decimals uint8) (launch.MintResult, error) {
	plan, instrs, err := autofill.CreateMint(ctx, l.rpc, l.payer.PublicKey(), decimals, l.opts...)
	if err != nil {
		return launch.MintResult{}, err
	}
	l.log.Debug().Str("mint", plan.Mint.String()).Uint64("rent", plan.Lamports).Msg("creating mint")

	sig, err := l.send(ctx, []wallet.Signer{plan.Key}, instrs)
	if err != nil {
		return launch.MintResult{}, err
	}
	return launch.MintResult{Mint: plan.Mint, Signature: sig}, nil
}

// SimulateCreateMint signs the create-mint transaction and simulates it without
// submitting, which checks payer funds and signatures.
func (l *Ledger) SimulateCreateMint(ctx context.Context, decimals uint8) ([]string, error) {
	plan, instrs, err := autofill.CreateMint(ctx, l.rpc, l.payer.PublicKey(), decimals, l.opts...)
	if err != nil {
		return nil, err
	}
	res, err := l.builder.BuildSignSimulate(ctx, l.payer, []wallet.Signer{plan.Key}, instrs...)
	if res == nil {
		return nil, err
	}
	return res.Logs, err
}

// AttachMetadata creates the mutable Metaplex metadata record for mint.
func (l *Ledger) AttachMetadata(ctx context.Context, mint solana.PublicKey, md launch.Metadata) (solana.Signature, error) {
	data := metadata.DataV2{
		Name:   md.Name,
		Symbol: md.Symbol,
		URI:    md.URI,
	}
	accts, _, instrs, err := autofill.CreateMetadata(l.payer.PublicKey(), mint, data, l.opts...)
	if err != nil {
		return solana.Signature{}, err
	}
	l.log.Debug().Str("metadata", accts.Metadata.String()).Msg("creating metadata")
	return l.send(ctx, nil, instrs)
}

// MintSupply mints amount into the payer's ATA, creating it if needed.
func (l *Ledger) MintSupply(ctx context.Context, mint solana.PublicKey, amount uint64) (solana.Signature, error) {
	ata, instrs, err := autofill.MintTo(ctx, l.rpc, l.payer.PublicKey(), mint, amount, l.opts...)
	if err != nil {
		return solana.Signature{}, err
	}
	l.log.Debug().Str("ata", ata.String()).Int("instructions", len(instrs)).Msg("minting supply")
	return l.send(ctx, nil, instrs)
}

// MintInfo fetches and decodes an SPL Token or Token-2022 mint.
func (l *Ledger) MintInfo(ctx context.Context, mint solana.PublicKey) (token.Mint, error) {
	acc, err := l.rpc.GetAccountInfo(ctx, mint)
	if err != nil {
		return token.Mint{}, fmt.Errorf("%w: %s: %w", types.ErrMintNotFound, mint, err)
	}
	return DecodeMint(mint, acc.Owner, acc.Data.GetBinary())
}

// DecodeMint decodes the base mint layout, which Token-2022 shares.
func DecodeMint(addr, owner solana.PublicKey, data []byte) (token.Mint, error) {
	if !owner.Equals(constants.TokenProgramID) && !owner.Equals(constants.Token2022ProgramID) {
		return token.Mint{}, fmt.Errorf("%w: %s is owned by %s", types.ErrMintNotFound, addr, owner)
	}
	if len(data) < constants.MintAccountSize {
		return token.Mint{}, fmt.Errorf("%w: %s data too short", types.ErrMintNotFound, addr)
	}
	var m token.Mint
	if err := bin.NewBinDecoder(data[:constants.MintAccountSize]).Decode(&m); err != nil {
		return token.Mint{}, fmt.Errorf("decode mint %s: %w", addr, err)
	}
	if !m.IsInitialized {
		return token.Mint{}, fmt.Errorf("%w: %s is not initialized", types.ErrMintNotFound, addr)
	}
	return m, nil
}

// MintDecimals reads the decimals of an existing mint.
func (l *Ledger) MintDecimals(ctx context.Context, mint solana.PublicKey) (uint8, error) {
	m, err := l.MintInfo(ctx, mint)
	if err != nil {
		return 0, err
	}
	return m.Decimals, nil
}

// ListConfigs returns every DAMM v2 Config account in RPC order. Accounts that
// fail to decode are skipped.
func (l *Ledger) ListConfigs(ctx context.Context) ([]cpamm.ConfigAccount, error) {
	res, err := l.rpc.GetProgramAccounts(ctx, cpamm.ProgramKey, cpamm.ConfigDiscriminator)
	if err != nil {
		return nil, err
	}
	out := make([]cpamm.ConfigAccount, 0, len(res))
	for _, keyed := range res {
		if keyed == nil || keyed.Account == nil {
			continue
		}
		var cfg cpamm.Config
		if err := cfg.Unmarshal(keyed.Account.Data.GetBinary()); err != nil {
			l.log.Debug().Err(err).Str("account", keyed.Pubkey.String()).Msg("skipping config")
			continue
		}
		out = append(out, cpamm.ConfigAccount{Address: keyed.Pubkey, Config: cfg})
	}
	return out, nil
}

// CreatePool initializes the pool with a fresh position NFT mint, which co-signs.
func (l *Ledger) CreatePool(ctx context.Context, req launch.PoolRequest) (launch.PoolResult, error) {
	position, err := wallet.NewRandomLocal()
	if err != nil {
		return launch.PoolResult{}, fmt.Errorf("position key: %w", err)
	}
	params := autofill.PoolParams{
		Payer:           l.payer.PublicKey(),
		Config:          req.Config.Address,
		PositionNftMint: position.PublicKey(),
		TokenAMint:      req.TokenAMint,
		TokenBMint:      req.TokenBMint,
		TokenAAmount:    req.TokenAAmount,
		TokenBAmount:    req.TokenBAmount,
		Liquidity:       req.Params.LiquidityDelta,
		InitSqrtPrice:   req.Params.InitSqrtPrice,
	}
	accts, _, instrs, err := autofill.CreatePool(ctx, l.rpc, params, l.opts...)
	if err != nil {
		return launch.PoolResult{}, err
	}
	l.log.Debug().
		Str("pool", accts.Pool.String()).
		Str("position_nft_mint", position.PublicKey().String()).
		Int("instructions", len(instrs)).
		Msg("creating pool")

	sig, err := l.send(ctx, []wallet.Signer{position}, instrs)
	if err != nil {
		return launch.PoolResult{}, err
	}
	return launch.PoolResult{
		Signature:       sig,
		Pool:            accts.Pool,
		Position:        accts.Position,
		PositionNftMint: position.PublicKey(),
	}, nil
}
