package cpamm

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

var InitializePoolDiscriminator = anchorDiscriminator("global", "initialize_pool")

type InitializePoolArgs struct {
	Liquidity       bin.Uint128 `bin:"liquidity"`
	SqrtPrice       bin.Uint128 `bin:"sqrt_price"`
	ActivationPoint *uint64     `bin:"activation_point optional"`
}

type InitializePoolAccounts struct {
	Creator            solana.PublicKey
	PositionNftMint    solana.PublicKey
	PositionNftAccount solana.PublicKey
	Payer              solana.PublicKey
	Config             solana.PublicKey
	PoolAuthority      solana.PublicKey
	Pool               solana.PublicKey
	Position           solana.PublicKey
	TokenAMint         solana.PublicKey
	TokenBMint         solana.PublicKey
	TokenAVault        solana.PublicKey
	TokenBVault        solana.PublicKey
	PayerTokenA        solana.PublicKey
	PayerTokenB        solana.PublicKey
	TokenAProgram      solana.PublicKey
	TokenBProgram      solana.PublicKey
	Token2022Program   solana.PublicKey
	SystemProgram      solana.PublicKey
	EventAuthority     solana.PublicKey
	Program            solana.PublicKey
}

func (a InitializePoolAccounts) ToAccountMetas() []*solana.AccountMeta {
	metas := make([]*solana.AccountMeta, 0, 20)
	metas = append(metas, solana.NewAccountMeta(a.Creator, false, false))
	metas = append(metas, solana.NewAccountMeta(a.PositionNftMint, true, true))
	metas = append(metas, solana.NewAccountMeta(a.PositionNftAccount, true, false))
	metas = append(metas, solana.NewAccountMeta(a.Payer, true, true))
	metas = append(metas, solana.NewAccountMeta(a.Config, false, false))
	metas = append(metas, solana.NewAccountMeta(a.PoolAuthority, false, false))
	metas = append(metas, solana.NewAccountMeta(a.Pool, true, false))
	metas = append(metas, solana.NewAccountMeta(a.Position, true, false))
	metas = append(metas, solana.NewAccountMeta(a.TokenAMint, false, false))
	metas = append(metas, solana.NewAccountMeta(a.TokenBMint, false, false))
	metas = append(metas, solana.NewAccountMeta(a.TokenAVault, true, false))
	metas = append(metas, solana.NewAccountMeta(a.TokenBVault, true, false))
	metas = append(metas, solana.NewAccountMeta(a.PayerTokenA, true, false))
	metas = append(metas, solana.NewAccountMeta(a.PayerTokenB, true, false))
	metas = append(metas, solana.NewAccountMeta(a.TokenAProgram, false, false))
	metas = append(metas, solana.NewAccountMeta(a.TokenBProgram, false, false))
	metas = append(metas, solana.NewAccountMeta(a.Token2022Program, false, false))
	metas = append(metas, solana.NewAccountMeta(a.SystemProgram, false, false))
	metas = append(metas, solana.NewAccountMeta(a.EventAuthority, false, false))
	metas = append(metas, solana.NewAccountMeta(a.Program, false, false))
	return metas
}

func BuildInitializePool(accounts InitializePoolAccounts, args InitializePoolArgs) (solana.Instruction, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 64))
	buf.Write(InitializePoolDiscriminator)
	if err := bin.NewBorshEncoder(buf).Encode(args); err != nil {
		return nil, fmt.Errorf("encode args: %w", err)
	}
	data := buf.Bytes()
	return solana.NewInstruction(ProgramKey, accounts.ToAccountMetas(), data), nil
}
