package jito_test

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninja0404/token-launcher/pkg/jito"
)

func TestTipInstruction(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	tip := jito.MainnetTipAccounts[2]

	ix, err := jito.TipInstruction(payer, tip, 10_000)
	require.NoError(t, err)
	assert.Equal(t, solana.SystemProgramID, ix.ProgramID())

	metas := ix.Accounts()
	require.Len(t, metas, 2)
	assert.Equal(t, payer, metas[0].PublicKey)
	assert.Equal(t, tip, metas[1].PublicKey)

	data, err := ix.Data()
	require.NoError(t, err)
	// system transfer: u32 tag 2, then u64 lamports
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(data[:4]))
	assert.Equal(t, uint64(10_000), binary.LittleEndian.Uint64(data[4:12]))
}

func TestTipInstructionRandomAccount(t *testing.T) {
	ix, err := jito.TipInstruction(solana.NewWallet().PublicKey(), solana.PublicKey{}, 1)
	require.NoError(t, err)
	assert.Contains(t, jito.MainnetTipAccounts, ix.Accounts()[1].PublicKey)
}

func TestTipInstructionZero(t *testing.T) {
	_, err := jito.TipInstruction(solana.NewWallet().PublicKey(), jito.MainnetTipAccounts[0], 0)
	assert.Error(t, err)
}

func TestSendTransactionRequiresSignature(t *testing.T) {
	c := jito.NewClient([]string{"http://127.0.0.1:0"}, "")
	_, err := c.SendTransaction(context.Background(), &solana.Transaction{})
	assert.ErrorContains(t, err, "not signed")
}
