package metadata_test

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninja0404/token-launcher/pkg/constants"
	"github.com/ninja0404/token-launcher/pkg/program/metadata"
)

func TestBuildCreateMetadataAccountV3(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()
	pda, _, err := metadata.DeriveMetadataPDA(mint)
	require.NoError(t, err)

	accts := metadata.CreateMetadataAccountV3Accounts{
		Metadata:        pda,
		Mint:            mint,
		MintAuthority:   payer,
		Payer:           payer,
		UpdateAuthority: payer,
	}
	args := metadata.CreateMetadataAccountV3Args{
		Data:      metadata.DataV2{Name: "Moxie's TORY", Symbol: "TORY", URI: "https://x.invalid/m.json"},
		IsMutable: true,
	}
	ix, err := metadata.BuildCreateMetadataAccountV3(accts, args)
	require.NoError(t, err)

	assert.Equal(t, constants.MetadataProgramID, ix.ProgramID())
	metas := ix.Accounts()
	require.Len(t, metas, 7)
	assert.Equal(t, pda, metas[0].PublicKey)
	assert.True(t, metas[0].IsWritable)
	assert.True(t, metas[2].IsSigner)
	assert.True(t, metas[3].IsSigner && metas[3].IsWritable)
	assert.Equal(t, constants.SystemProgramID, metas[5].PublicKey)
	assert.Equal(t, constants.SysvarRentProgramID, metas[6].PublicKey)

	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, byte(33), data[0])

	// borsh strings are u32 length-prefixed
	nameLen := binary.LittleEndian.Uint32(data[1:5])
	assert.Equal(t, uint32(len("Moxie's TORY")), nameLen)
	assert.Equal(t, "Moxie's TORY", string(data[5:5+nameLen]))

	// trailing fields: no creators, collection or uses, is_mutable, no collection details
	assert.Equal(t, []byte{0, 0, 0, 1, 0}, data[len(data)-5:])
}

func TestDeriveMetadataPDA(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	want, _, err := solana.FindProgramAddress([][]byte{
		[]byte("metadata"),
		constants.MetadataProgramID[:],
		mint[:],
	}, constants.MetadataProgramID)
	require.NoError(t, err)

	got, _, err := metadata.DeriveMetadataPDA(mint)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
