package wallet_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninja0404/token-launcher/pkg/types"
	"github.com/ninja0404/token-launcher/pkg/wallet"
)

func keyJSON(t *testing.T, key solana.PrivateKey) []byte {
	t.Helper()
	values := make([]int, len(key))
	for i, b := range key {
		values[i] = int(b)
	}
	bz, err := json.Marshal(values)
	require.NoError(t, err)
	return bz
}

func TestParsePrivateKeyJSON(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	got, err := wallet.ParsePrivateKeyJSON(keyJSON(t, key))
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), got.PublicKey())
}

func TestParsePrivateKeyJSONRejects(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	mismatched := append(solana.PrivateKey{}, key...)
	mismatched[63] ^= 0xff

	cases := map[string][]byte{
		"not json":        []byte("not-a-key"),
		"base58 string":   []byte(`"` + key.String() + `"`),
		"short":           []byte("[1,2,3]"),
		"non numeric":     []byte(`["a","b"]`),
		"out of range":    []byte(`[` + repeatNum("256", 64) + `]`),
		"public mismatch": keyJSON(t, mismatched),
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := wallet.ParsePrivateKeyJSON(raw)
			require.ErrorIs(t, err, types.ErrMalformedKey)
		})
	}
}

func repeatNum(n string, count int) string {
	out := n
	for i := 1; i < count; i++ {
		out += "," + n
	}
	return out
}

func TestLocalSignMessage(t *testing.T) {
	signer, err := wallet.NewRandomLocal()
	require.NoError(t, err)

	msg := []byte("launch")
	sig, err := signer.SignMessage(context.Background(), msg)
	require.NoError(t, err)
	assert.True(t, sig.Verify(signer.PublicKey(), msg))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = signer.SignMessage(ctx, msg)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewLocalFromJSONBytes(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	signer, err := wallet.NewLocalFromJSONBytes(keyJSON(t, key))
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), signer.PublicKey())
}
