// Package launch runs the one-shot token launch: create the token with its
// metadata, mint the supply, then open a DAMM v2 pool against the native mint.
package launch

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/token-launcher/pkg/program/cpamm"
	"github.com/ninja0404/token-launcher/pkg/quote"
)

// Metadata is the on-chain token metadata after the byte-length policy is applied.
type Metadata struct {
	Name   string
	Symbol string
	URI    string
}

// MintResult is what CreateMint leaves on-chain.
type MintResult struct {
	Mint      solana.PublicKey
	Signature solana.Signature
}

// TokenService creates and funds the SPL token.
type TokenService interface {
	CreateMint(ctx context.Context, decimals uint8) (MintResult, error)
	AttachMetadata(ctx context.Context, mint solana.PublicKey, md Metadata) (solana.Signature, error)
	MintSupply(ctx context.Context, mint solana.PublicKey, amount uint64) (solana.Signature, error)
	MintDecimals(ctx context.Context, mint solana.PublicKey) (uint8, error)
}

// PoolRequest carries the scaled seed amounts and derived pool parameters.
type PoolRequest struct {
	Config       cpamm.ConfigAccount
	TokenAMint   solana.PublicKey
	TokenBMint   solana.PublicKey
	TokenAAmount uint64
	TokenBAmount uint64
	Params       quote.PoolCreationParams
}

// PoolResult identifies the created pool.
type PoolResult struct {
	Signature       solana.Signature
	Pool            solana.PublicKey
	Position        solana.PublicKey
	PositionNftMint solana.PublicKey
}

// PoolService enumerates AMM configs and creates pools.
type PoolService interface {
	ListConfigs(ctx context.Context) ([]cpamm.ConfigAccount, error)
	CreatePool(ctx context.Context, req PoolRequest) (PoolResult, error)
}
