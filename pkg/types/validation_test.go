package types_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninja0404/token-launcher/pkg/types"
)

func TestTruncateUTF8(t *testing.T) {
	cases := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"fits", "Moxie's TORY", 32, "Moxie's TORY"},
		{"exact", "abcd", 4, "abcd"},
		{"ascii cut", "abcdefgh", 5, "abcde"},
		{"multibyte boundary", "ééééé", 5, "éé"},
		{"emoji", "a😀b", 4, "a"},
		{"zero", "abc", 0, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := types.TruncateUTF8(tc.in, tc.max)
			assert.Equal(t, tc.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.LessOrEqual(t, len(got), max(tc.max, 0))
		})
	}
}

func TestTruncateUTF8LongBrandedName(t *testing.T) {
	name := "Moxie's " + strings.Repeat("ü", 20)
	got := types.TruncateUTF8(name, 32)
	assert.Len(t, got, 32)
	assert.True(t, strings.HasPrefix(name, got))
}

func TestValidateMetadataURI(t *testing.T) {
	require.NoError(t, types.ValidateMetadataURI("https://x.invalid/m.json", 200))

	err := types.ValidateMetadataURI("", 200)
	var verr types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "uri", verr.Field)

	require.Error(t, types.ValidateMetadataURI(strings.Repeat("a", 201), 200))
}

func TestValidatePublicKeys(t *testing.T) {
	require.NoError(t, types.ValidatePublicKeys(map[string]solana.PublicKey{
		"mint": solana.NewWallet().PublicKey(),
	}))
	err := types.ValidatePublicKeys(map[string]solana.PublicKey{"payer": {}})
	var verr types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "payer", verr.Field)
}

func TestStepError(t *testing.T) {
	wrapped := fmt.Errorf("launch: %w", &types.StepError{Step: types.StepCreatePool, Err: types.ErrNoAMMConfigs})

	step, ok := types.FailedStep(wrapped)
	require.True(t, ok)
	assert.Equal(t, types.StepCreatePool, step)
	assert.ErrorIs(t, wrapped, types.ErrNoAMMConfigs)
	assert.Contains(t, wrapped.Error(), "create_pool")

	_, ok = types.FailedStep(errors.New("plain"))
	assert.False(t, ok)
}

func TestConfigError(t *testing.T) {
	err := types.NewConfigError("CURVE_WALLET_PRIVATE", types.ErrMissingSigningKey)
	assert.ErrorIs(t, err, types.ErrMissingSigningKey)
	assert.Equal(t, "config CURVE_WALLET_PRIVATE: signing key material is required", err.Error())
}

func TestParseSimulationError(t *testing.T) {
	assert.NoError(t, types.ParseSimulationError(nil, nil))

	logs := []string{"Program log: AnchorError caused by account: payer_token_a. Error Code: AccountNotInitialized."}
	custom := map[string]interface{}{
		"InstructionError": []interface{}{float64(3), map[string]interface{}{"Custom": float64(3012)}},
	}
	err := types.ParseSimulationError(custom, logs)
	var perr *types.ProgramError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 3012, perr.Code)
	assert.Contains(t, perr.Message, "payer_token_a")

	err = types.ParseSimulationError("AccountNotFound", nil)
	var serr *types.SimulationError
	require.ErrorAs(t, err, &serr)
	assert.ErrorIs(t, err, types.ErrSimulationFailed)
}
