package constants

import "github.com/gagliardetto/solana-go"

// Well-known program IDs
var (
	// SPL Programs
	SystemProgramID          = solana.SystemProgramID
	TokenProgramID           = solana.TokenProgramID
	Token2022ProgramID       = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")
	AssociatedTokenProgramID = solana.SPLAssociatedTokenAccountProgramID
	SysvarRentProgramID      = solana.SysVarRentPubkey
	ComputeBudgetProgramID   = solana.MustPublicKeyFromBase58("ComputeBudget111111111111111111111111111111")
	MetadataProgramID        = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

	// Meteora DAMM v2 (constant-product AMM)
	CpAmmProgramID = solana.MustPublicKeyFromBase58("cpamdpZCGKUy5JxQXB4dcpGPiikHawvSWAd6mEn1sGG")
)

// Mainnet well-known accounts
var (
	// WSOL (Native Mint)
	WSOLMint = solana.WrappedSol
)

// PDA seeds
const (
	SeedMetadata           = "metadata"
	SeedPool               = "pool"
	SeedPoolAuthority      = "pool_authority"
	SeedTokenVault         = "token_vault"
	SeedPosition           = "position"
	SeedPositionNFTAccount = "position_nft_account"
	SeedEventAuthority     = "__event_authority"
)

// Token Metadata byte limits enforced by the metadata program.
const (
	MaxNameLength   = 32
	MaxSymbolLength = 10
	MaxURILength    = 200
)

// SPL account sizes.
const (
	MintAccountSize = 82
)

// DefaultComputeUnitLimit is the unit ceiling attached to pool creation.
const DefaultComputeUnitLimit uint32 = 400_000
