package autofill

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"

	"github.com/ninja0404/token-launcher/pkg/constants"
	"github.com/ninja0404/token-launcher/pkg/program/metadata"
	sdkrpc "github.com/ninja0404/token-launcher/pkg/rpc"
	"github.com/ninja0404/token-launcher/pkg/types"
	"github.com/ninja0404/token-launcher/pkg/vanity"
	"github.com/ninja0404/token-launcher/pkg/wallet"
)

// MintPlan describes a mint about to be created. Key must co-sign the transaction.
type MintPlan struct {
	Mint      solana.PublicKey `json:"mint"`
	Authority solana.PublicKey `json:"authority"`
	Decimals  uint8            `json:"decimals"`
	Lamports  uint64           `json:"lamports"`
	Key       wallet.Local     `json:"-"`
}

// CreateMint constructs the instructions that allocate a rent-exempt SPL mint and
// initialize it with payer as both mint and freeze authority.
//
// The mint keypair is random unless a vanity prefix or suffix is configured.
//
// Example:
//
//	plan, instrs, err := autofill.CreateMint(ctx, rpc, payer, 8, autofill.WithVanitySuffix("tory"))
func CreateMint(ctx context.Context, rpc *sdkrpc.Client, payer solana.PublicKey, decimals uint8, opts ...Option) (MintPlan, []solana.Instruction, error) {
	if rpc == nil {
		return MintPlan{}, nil, types.ErrNilRPC
	}
	if err := types.ValidatePublicKey("payer", payer); err != nil {
		return MintPlan{}, nil, err
	}
	options := newOptions(opts)

	mintKey, err := generateMintKey(ctx, options)
	if err != nil {
		return MintPlan{}, nil, err
	}

	lamports, err := rpc.GetMinimumBalanceForRentExemption(ctx, constants.MintAccountSize)
	if err != nil {
		return MintPlan{}, nil, fmt.Errorf("mint rent: %w", err)
	}

	plan := MintPlan{
		Mint:      mintKey.PublicKey(),
		Authority: payer,
		Decimals:  decimals,
		Lamports:  lamports,
		Key:       mintKey,
	}
	instrs := MintInstructions(plan, payer)
	if instrs, err = appendJitoTip(instrs, payer, options); err != nil {
		return MintPlan{}, nil, err
	}
	if options.Preview != nil {
		_ = json.NewEncoder(options.Preview).Encode(struct {
			Mint MintPlan `json:"create_mint"`
		}{plan})
	}
	return plan, instrs, nil
}

// MintInstructions returns create_account + initialize_mint for plan.
func MintInstructions(plan MintPlan, payer solana.PublicKey) []solana.Instruction {
	return []solana.Instruction{
		system.NewCreateAccountInstruction(
			plan.Lamports,
			constants.MintAccountSize,
			constants.TokenProgramID,
			payer,
			plan.Mint,
		).Build(),
		token.NewInitializeMintInstruction(
			plan.Decimals,
			plan.Authority,
			plan.Authority,
			plan.Mint,
			constants.SysvarRentProgramID,
		).Build(),
	}
}

// generateMintKey generates a mint keypair with optional vanity address.
func generateMintKey(ctx context.Context, options *Options) (wallet.Local, error) {
	if options.VanitySuffix == "" && options.VanityPrefix == "" {
		return wallet.NewRandomLocal()
	}
	timeout := options.VanityTimeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}
	result, err := vanity.Generate(ctx, vanity.Options{
		Prefix:  options.VanityPrefix,
		Suffix:  options.VanitySuffix,
		Timeout: timeout,
	})
	if err != nil {
		return wallet.Local{}, fmt.Errorf("generate vanity address: %w", err)
	}
	return wallet.NewLocalFromPrivateKey(result.PrivateKey), nil
}

// CreateMetadata constructs a CreateMetadataAccountV3 instruction for mint with
// payer as mint authority, update authority and fee payer. The record is mutable.
func CreateMetadata(payer, mint solana.PublicKey, data metadata.DataV2, opts ...Option) (metadata.CreateMetadataAccountV3Accounts, metadata.CreateMetadataAccountV3Args, []solana.Instruction, error) {
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{"payer": payer, "mint": mint}); err != nil {
		return metadata.CreateMetadataAccountV3Accounts{}, metadata.CreateMetadataAccountV3Args{}, nil, err
	}
	if err := types.ValidateMetadataURI(data.URI, constants.MaxURILength); err != nil {
		return metadata.CreateMetadataAccountV3Accounts{}, metadata.CreateMetadataAccountV3Args{}, nil, err
	}
	options := newOptions(opts)

	metadataPDA, _, err := metadata.DeriveMetadataPDA(mint)
	if err != nil {
		return metadata.CreateMetadataAccountV3Accounts{}, metadata.CreateMetadataAccountV3Args{}, nil, fmt.Errorf("derive metadata: %w", err)
	}
	accts := metadata.CreateMetadataAccountV3Accounts{
		Metadata:        metadataPDA,
		Mint:            mint,
		MintAuthority:   payer,
		Payer:           payer,
		UpdateAuthority: payer,
		SystemProgram:   constants.SystemProgramID,
		Rent:            constants.SysvarRentProgramID,
	}
	args := metadata.CreateMetadataAccountV3Args{
		Data:      data,
		IsMutable: true,
	}

	ix, err := metadata.BuildCreateMetadataAccountV3(accts, args)
	if err != nil {
		return metadata.CreateMetadataAccountV3Accounts{}, metadata.CreateMetadataAccountV3Args{}, nil, err
	}
	instrs, err := appendJitoTip([]solana.Instruction{ix}, payer, options)
	if err != nil {
		return metadata.CreateMetadataAccountV3Accounts{}, metadata.CreateMetadataAccountV3Args{}, nil, err
	}
	if options.Preview != nil {
		_ = json.NewEncoder(options.Preview).Encode(struct {
			Accounts metadata.CreateMetadataAccountV3Accounts `json:"accounts"`
			Args     metadata.CreateMetadataAccountV3Args     `json:"args"`
		}{accts, args})
	}
	return accts, args, instrs, nil
}

// EnsureATA returns owner's ATA for mint and, when it does not exist yet, an
// idempotent create instruction paid by payer.
func EnsureATA(ctx context.Context, rpc *sdkrpc.Client, payer, owner, mint, tokenProgram solana.PublicKey, opts ...Option) (solana.PublicKey, []solana.Instruction, error) {
	if rpc == nil {
		return solana.PublicKey{}, nil, types.ErrNilRPC
	}
	if tokenProgram.IsZero() {
		tokenProgram = constants.TokenProgramID
	}
	options := newOptions(opts)
	reqs := []ataRequest{{Payer: payer, Wallet: owner, Mint: mint, TokenProgram: tokenProgram}}
	instrs, err := ensureATABatch(ctx, rpc, reqs, options.KnownATAs)
	if err != nil {
		return solana.PublicKey{}, nil, err
	}
	return reqs[0].ATAAddr, instrs, nil
}

// MintTo constructs the instructions that mint amount base units of mint into
// authority's own ATA, creating the ATA first when it is missing.
func MintTo(ctx context.Context, rpc *sdkrpc.Client, authority, mint solana.PublicKey, amount uint64, opts ...Option) (solana.PublicKey, []solana.Instruction, error) {
	if amount == 0 {
		return solana.PublicKey{}, nil, types.ErrZeroAmount
	}
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{"authority": authority, "mint": mint}); err != nil {
		return solana.PublicKey{}, nil, err
	}
	options := newOptions(opts)

	ata, instrs, err := EnsureATA(ctx, rpc, authority, authority, mint, constants.TokenProgramID, opts...)
	if err != nil {
		return solana.PublicKey{}, nil, err
	}
	instrs = append(instrs, token.NewMintToInstruction(amount, mint, ata, authority, nil).Build())
	if instrs, err = appendJitoTip(instrs, authority, options); err != nil {
		return solana.PublicKey{}, nil, err
	}
	if options.Preview != nil {
		_ = json.NewEncoder(options.Preview).Encode(struct {
			Mint        solana.PublicKey `json:"mint"`
			Destination solana.PublicKey `json:"destination"`
			Amount      uint64           `json:"amount"`
		}{mint, ata, amount})
	}
	return ata, instrs, nil
}
