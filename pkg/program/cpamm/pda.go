package cpamm

import (
	"bytes"

	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/token-launcher/pkg/constants"
)

var (
	seedPool               = []byte(constants.SeedPool)
	seedPoolAuthority      = []byte(constants.SeedPoolAuthority)
	seedTokenVault         = []byte(constants.SeedTokenVault)
	seedPosition           = []byte(constants.SeedPosition)
	seedPositionNftAccount = []byte(constants.SeedPositionNFTAccount)
	seedEventAuthority     = []byte(constants.SeedEventAuthority)
)

// SortMints returns the two mints as (larger, smaller) by byte order, the order
// the pool seed uses.
func SortMints(a, b solana.PublicKey) (solana.PublicKey, solana.PublicKey) {
	if bytes.Compare(a[:], b[:]) > 0 {
		return a, b
	}
	return b, a
}

func DerivePoolPDA(config, mintA, mintB solana.PublicKey) (solana.PublicKey, uint8, error) {
	hi, lo := SortMints(mintA, mintB)
	return solana.FindProgramAddress([][]byte{seedPool, config[:], hi[:], lo[:]}, ProgramKey)
}

func DerivePoolAuthorityPDA() (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{seedPoolAuthority}, ProgramKey)
}

func DeriveTokenVaultPDA(mint, pool solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{seedTokenVault, mint[:], pool[:]}, ProgramKey)
}

func DerivePositionPDA(positionNftMint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{seedPosition, positionNftMint[:]}, ProgramKey)
}

func DerivePositionNftAccountPDA(positionNftMint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{seedPositionNftAccount, positionNftMint[:]}, ProgramKey)
}

func DeriveEventAuthorityPDA() (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{seedEventAuthority}, ProgramKey)
}
