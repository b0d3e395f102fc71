package autofill

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"

	"github.com/ninja0404/token-launcher/pkg/constants"
	"github.com/ninja0404/token-launcher/pkg/program/cpamm"
	sdkrpc "github.com/ninja0404/token-launcher/pkg/rpc"
	"github.com/ninja0404/token-launcher/pkg/types"
)

// PoolParams is everything CreatePool needs beyond what it can derive.
type PoolParams struct {
	Payer           solana.PublicKey
	Config          solana.PublicKey
	PositionNftMint solana.PublicKey
	TokenAMint      solana.PublicKey
	TokenBMint      solana.PublicKey
	TokenAProgram   solana.PublicKey // default: SPL Token
	TokenBProgram   solana.PublicKey // default: SPL Token
	TokenAAmount    uint64
	TokenBAmount    uint64
	Liquidity       *big.Int
	InitSqrtPrice   *big.Int
}

// CreatePool constructs a DAMM v2 initialize_pool instruction with auto-filled
// PDAs and payer token accounts.
//
// The instruction list is, in order: compute unit limit, missing payer ATAs,
// WSOL wrap for a native-mint side, initialize_pool, optional Jito tip.
// Signers are the payer and the position NFT mint.
func CreatePool(ctx context.Context, rpc *sdkrpc.Client, p PoolParams, opts ...Option) (cpamm.InitializePoolAccounts, cpamm.InitializePoolArgs, []solana.Instruction, error) {
	if rpc == nil {
		return cpamm.InitializePoolAccounts{}, cpamm.InitializePoolArgs{}, nil, types.ErrNilRPC
	}
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{
		"payer":           p.Payer,
		"config":          p.Config,
		"positionNftMint": p.PositionNftMint,
		"tokenAMint":      p.TokenAMint,
		"tokenBMint":      p.TokenBMint,
	}); err != nil {
		return cpamm.InitializePoolAccounts{}, cpamm.InitializePoolArgs{}, nil, err
	}
	if p.TokenAMint.Equals(p.TokenBMint) {
		return cpamm.InitializePoolAccounts{}, cpamm.InitializePoolArgs{}, nil, types.NewValidationError("tokenBMint", "must differ from tokenAMint")
	}
	if p.TokenAAmount == 0 || p.TokenBAmount == 0 {
		return cpamm.InitializePoolAccounts{}, cpamm.InitializePoolArgs{}, nil, types.ErrZeroAmount
	}
	options := newOptions(opts)

	accts, err := PoolAccounts(p)
	if err != nil {
		return cpamm.InitializePoolAccounts{}, cpamm.InitializePoolArgs{}, nil, err
	}
	applyPubkeyOverrides(&accts, options.Overrides)

	liquidity, err := cpamm.U128(p.Liquidity)
	if err != nil {
		return cpamm.InitializePoolAccounts{}, cpamm.InitializePoolArgs{}, nil, fmt.Errorf("liquidity: %w", err)
	}
	sqrtPrice, err := cpamm.U128(p.InitSqrtPrice)
	if err != nil {
		return cpamm.InitializePoolAccounts{}, cpamm.InitializePoolArgs{}, nil, fmt.Errorf("sqrt price: %w", err)
	}
	args := cpamm.InitializePoolArgs{
		Liquidity:       liquidity,
		SqrtPrice:       sqrtPrice,
		ActivationPoint: options.ActivationPoint,
	}

	var instrs []solana.Instruction
	if options.ComputeUnitLimit > 0 {
		instrs = append(instrs, computebudget.NewSetComputeUnitLimitInstruction(options.ComputeUnitLimit).Build())
	}

	ataReqs := []ataRequest{
		{Payer: p.Payer, Wallet: p.Payer, Mint: accts.TokenAMint, TokenProgram: accts.TokenAProgram},
		{Payer: p.Payer, Wallet: p.Payer, Mint: accts.TokenBMint, TokenProgram: accts.TokenBProgram},
	}
	ataInstrs, err := ensureATABatch(ctx, rpc, ataReqs, options.KnownATAs)
	if err != nil {
		return cpamm.InitializePoolAccounts{}, cpamm.InitializePoolArgs{}, nil, err
	}
	instrs = append(instrs, ataInstrs...)

	// The program pulls the native side from the payer's WSOL account, so fund it first.
	if accts.TokenAMint.Equals(constants.WSOLMint) {
		instrs = append(instrs, buildWrapWSOL(p.Payer, accts.PayerTokenA, p.TokenAAmount)...)
	}
	if accts.TokenBMint.Equals(constants.WSOLMint) {
		instrs = append(instrs, buildWrapWSOL(p.Payer, accts.PayerTokenB, p.TokenBAmount)...)
	}

	ix, err := cpamm.BuildInitializePool(accts, args)
	if err != nil {
		return cpamm.InitializePoolAccounts{}, cpamm.InitializePoolArgs{}, nil, err
	}
	instrs = append(instrs, ix)
	if instrs, err = appendJitoTip(instrs, p.Payer, options); err != nil {
		return cpamm.InitializePoolAccounts{}, cpamm.InitializePoolArgs{}, nil, err
	}

	if options.Preview != nil {
		_ = json.NewEncoder(options.Preview).Encode(struct {
			Accounts      cpamm.InitializePoolAccounts `json:"accounts"`
			Liquidity     string                       `json:"liquidity"`
			InitSqrtPrice string                       `json:"init_sqrt_price"`
		}{accts, p.Liquidity.String(), p.InitSqrtPrice.String()})
	}
	return accts, args, instrs, nil
}

// PoolAccounts derives every initialize_pool account from the params without RPC.
func PoolAccounts(p PoolParams) (cpamm.InitializePoolAccounts, error) {
	tokenAProgram := p.TokenAProgram
	if tokenAProgram.IsZero() {
		tokenAProgram = constants.TokenProgramID
	}
	tokenBProgram := p.TokenBProgram
	if tokenBProgram.IsZero() {
		tokenBProgram = constants.TokenProgramID
	}

	pool, _, err := cpamm.DerivePoolPDA(p.Config, p.TokenAMint, p.TokenBMint)
	if err != nil {
		return cpamm.InitializePoolAccounts{}, fmt.Errorf("derive pool: %w", err)
	}
	poolAuthority, _, err := cpamm.DerivePoolAuthorityPDA()
	if err != nil {
		return cpamm.InitializePoolAccounts{}, fmt.Errorf("derive pool authority: %w", err)
	}
	position, _, err := cpamm.DerivePositionPDA(p.PositionNftMint)
	if err != nil {
		return cpamm.InitializePoolAccounts{}, fmt.Errorf("derive position: %w", err)
	}
	positionNftAccount, _, err := cpamm.DerivePositionNftAccountPDA(p.PositionNftMint)
	if err != nil {
		return cpamm.InitializePoolAccounts{}, fmt.Errorf("derive position nft account: %w", err)
	}
	vaultA, _, err := cpamm.DeriveTokenVaultPDA(p.TokenAMint, pool)
	if err != nil {
		return cpamm.InitializePoolAccounts{}, fmt.Errorf("derive token a vault: %w", err)
	}
	vaultB, _, err := cpamm.DeriveTokenVaultPDA(p.TokenBMint, pool)
	if err != nil {
		return cpamm.InitializePoolAccounts{}, fmt.Errorf("derive token b vault: %w", err)
	}
	eventAuthority, _, err := cpamm.DeriveEventAuthorityPDA()
	if err != nil {
		return cpamm.InitializePoolAccounts{}, fmt.Errorf("derive event authority: %w", err)
	}
	payerA, _, err := FindATA(p.Payer, p.TokenAMint, tokenAProgram)
	if err != nil {
		return cpamm.InitializePoolAccounts{}, err
	}
	payerB, _, err := FindATA(p.Payer, p.TokenBMint, tokenBProgram)
	if err != nil {
		return cpamm.InitializePoolAccounts{}, err
	}

	return cpamm.InitializePoolAccounts{
		Creator:            p.Payer,
		PositionNftMint:    p.PositionNftMint,
		PositionNftAccount: positionNftAccount,
		Payer:              p.Payer,
		Config:             p.Config,
		PoolAuthority:      poolAuthority,
		Pool:               pool,
		Position:           position,
		TokenAMint:         p.TokenAMint,
		TokenBMint:         p.TokenBMint,
		TokenAVault:        vaultA,
		TokenBVault:        vaultB,
		PayerTokenA:        payerA,
		PayerTokenB:        payerB,
		TokenAProgram:      tokenAProgram,
		TokenBProgram:      tokenBProgram,
		Token2022Program:   constants.Token2022ProgramID,
		SystemProgram:      constants.SystemProgramID,
		EventAuthority:     eventAuthority,
		Program:            cpamm.ProgramKey,
	}, nil
}
