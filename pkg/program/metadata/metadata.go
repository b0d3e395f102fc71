// Package metadata builds Metaplex Token Metadata instructions.
package metadata

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/token-launcher/pkg/constants"
)

var ProgramKey = constants.MetadataProgramID

// CreateMetadataAccountV3Discriminator is the native (non-Anchor) instruction index.
var CreateMetadataAccountV3Discriminator = []byte{33}

type Creator struct {
	Address  solana.PublicKey `bin:"address"`
	Verified bool             `bin:"verified"`
	Share    uint8            `bin:"share"`
}

type Collection struct {
	Verified bool             `bin:"verified"`
	Key      solana.PublicKey `bin:"key"`
}

type Uses struct {
	UseMethod uint8  `bin:"use_method"`
	Remaining uint64 `bin:"remaining"`
	Total     uint64 `bin:"total"`
}

type DataV2 struct {
	Name                 string      `bin:"name"`
	Symbol               string      `bin:"symbol"`
	URI                  string      `bin:"uri"`
	SellerFeeBasisPoints uint16      `bin:"seller_fee_basis_points"`
	Creators             *[]Creator  `bin:"creators optional"`
	Collection           *Collection `bin:"collection optional"`
	Uses                 *Uses       `bin:"uses optional"`
}

// CollectionDetails is the V1 variant only; the enum tag is the leading byte.
type CollectionDetails struct {
	Variant uint8  `bin:"variant"`
	Size    uint64 `bin:"size"`
}

type CreateMetadataAccountV3Args struct {
	Data              DataV2             `bin:"data"`
	IsMutable         bool               `bin:"is_mutable"`
	CollectionDetails *CollectionDetails `bin:"collection_details optional"`
}

type CreateMetadataAccountV3Accounts struct {
	Metadata        solana.PublicKey
	Mint            solana.PublicKey
	MintAuthority   solana.PublicKey
	Payer           solana.PublicKey
	UpdateAuthority solana.PublicKey
	SystemProgram   solana.PublicKey
	Rent            solana.PublicKey
}

// ToAccountMetas marks the update authority as a signer; callers always pass the payer there.
func (a CreateMetadataAccountV3Accounts) ToAccountMetas() []*solana.AccountMeta {
	systemProgram := a.SystemProgram
	if systemProgram.IsZero() {
		systemProgram = constants.SystemProgramID
	}
	rent := a.Rent
	if rent.IsZero() {
		rent = constants.SysvarRentProgramID
	}
	metas := make([]*solana.AccountMeta, 0, 7)
	metas = append(metas, solana.NewAccountMeta(a.Metadata, true, false))
	metas = append(metas, solana.NewAccountMeta(a.Mint, false, false))
	metas = append(metas, solana.NewAccountMeta(a.MintAuthority, false, true))
	metas = append(metas, solana.NewAccountMeta(a.Payer, true, true))
	metas = append(metas, solana.NewAccountMeta(a.UpdateAuthority, false, true))
	metas = append(metas, solana.NewAccountMeta(systemProgram, false, false))
	metas = append(metas, solana.NewAccountMeta(rent, false, false))
	return metas
}

func BuildCreateMetadataAccountV3(accounts CreateMetadataAccountV3Accounts, args CreateMetadataAccountV3Args) (solana.Instruction, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 128))
	buf.Write(CreateMetadataAccountV3Discriminator)
	if err := bin.NewBorshEncoder(buf).Encode(args); err != nil {
		return nil, fmt.Errorf("encode args: %w", err)
	}
	data := buf.Bytes()
	return solana.NewInstruction(ProgramKey, accounts.ToAccountMetas(), data), nil
}

// DeriveMetadataPDA returns the metadata account for mint.
func DeriveMetadataPDA(mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte(constants.SeedMetadata),
		ProgramKey[:],
		mint[:],
	}, ProgramKey)
}
