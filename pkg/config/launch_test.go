package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ninja0404/token-launcher/pkg/config"
	"github.com/ninja0404/token-launcher/pkg/constants"
	"github.com/ninja0404/token-launcher/pkg/types"
)

func testKeyJSON(t *testing.T) (solana.PrivateKey, string) {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	values := make([]int, len(key))
	for i, b := range key {
		values[i] = int(b)
	}
	bz, err := json.Marshal(values)
	require.NoError(t, err)
	return key, string(bz)
}

func envFunc(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadLaunchConfigDefaults(t *testing.T) {
	key, raw := testKeyJSON(t)

	cfg, err := config.LoadLaunchConfig(envFunc(map[string]string{
		config.EnvSigningKey: raw,
	}))
	require.NoError(t, err)

	assert.Equal(t, key.PublicKey(), cfg.Payer())
	assert.Equal(t, uint8(8), cfg.Decimals)
	assert.Equal(t, constants.WSOLMint, cfg.NativeMint)
	assert.Equal(t, "https://api.mainnet-beta.solana.com", cfg.RPCURL)
	assert.True(t, cfg.TotalSupply.Equal(decimal.NewFromInt(1_000_000_000)))
	assert.True(t, cfg.PoolCreatorTokens.Equal(decimal.NewFromInt(125_000_000)))
	assert.True(t, cfg.PoolNativeAmount.Equal(decimal.NewFromInt(69)))

	supply, err := cfg.TotalSupplyBaseUnits()
	require.NoError(t, err)
	assert.Equal(t, uint64(100_000_000_000_000_000), supply)
}

func TestLoadLaunchConfigRPCURL(t *testing.T) {
	_, raw := testKeyJSON(t)

	cfg, err := config.LoadLaunchConfig(envFunc(map[string]string{
		config.EnvSigningKey:    raw,
		config.EnvRPCURLMainnet: "https://mainnet.example.invalid",
	}))
	require.NoError(t, err)
	assert.Equal(t, "https://mainnet.example.invalid", cfg.RPCURL)

	cfg, err = config.LoadLaunchConfig(envFunc(map[string]string{
		config.EnvSigningKey:    raw,
		config.EnvRPCURL:        "https://api.devnet.solana.com",
		config.EnvRPCURLMainnet: "https://mainnet.example.invalid",
	}))
	require.NoError(t, err)
	assert.Equal(t, "https://api.devnet.solana.com", cfg.RPCURL)
	assert.Equal(t, "devnet", cfg.Cluster())
}

func TestLoadLaunchConfigDecimals(t *testing.T) {
	_, raw := testKeyJSON(t)

	cfg, err := config.LoadLaunchConfig(envFunc(map[string]string{
		config.EnvSigningKey: raw,
		config.EnvDecimals:   "6",
	}))
	require.NoError(t, err)
	assert.Equal(t, uint8(6), cfg.Decimals)

	for _, bad := range []string{"-1", "256", "six", "6.5"} {
		_, err := config.LoadLaunchConfig(envFunc(map[string]string{
			config.EnvSigningKey: raw,
			config.EnvDecimals:   bad,
		}))
		var cerr *types.ConfigError
		require.ErrorAs(t, err, &cerr, bad)
		assert.Equal(t, config.EnvDecimals, cerr.Key)
	}
}

func TestLoadLaunchConfigSigningKey(t *testing.T) {
	_, err := config.LoadLaunchConfig(envFunc(nil))
	require.ErrorIs(t, err, types.ErrMissingSigningKey)

	for _, bad := range []string{"[1,2,3]", "abc", `[` + "300" + `]`} {
		_, err := config.LoadLaunchConfig(envFunc(map[string]string{config.EnvSigningKey: bad}))
		require.ErrorIs(t, err, types.ErrMalformedKey, bad)
		var cerr *types.ConfigError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, config.EnvSigningKey, cerr.Key)
	}
}

func TestTotalSupplyBaseUnitsOverflow(t *testing.T) {
	_, raw := testKeyJSON(t)
	cfg, err := config.LoadLaunchConfig(envFunc(map[string]string{
		config.EnvSigningKey: raw,
		config.EnvDecimals:   "18",
	}))
	require.NoError(t, err)

	_, err = cfg.TotalSupplyBaseUnits()
	assert.ErrorIs(t, err, types.ErrAmountOverflow)
}

func TestExplorerURLs(t *testing.T) {
	cfg := config.LaunchConfig{RPCURL: "https://api.mainnet-beta.solana.com"}
	sig := solana.Signature{1}
	addr := solana.SystemProgramID

	assert.Equal(t, "https://explorer.solana.com/tx/"+sig.String()+"?cluster=mainnet-beta", cfg.TxExplorerURL(sig))
	assert.Equal(t, "https://explorer.solana.com/address/"+addr.String()+"?cluster=mainnet-beta", cfg.AddressExplorerURL(addr))
}

func TestApplyProfile(t *testing.T) {
	_, raw := testKeyJSON(t)
	cfg, err := config.LoadLaunchConfig(envFunc(map[string]string{config.EnvSigningKey: raw}))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: LUNA
symbol: luna
uri: https://x.invalid/luna.json
supply: "500000000"
pool:
  creator_tokens: "100000000"
  native_amount: "12.5"
`), 0o600))

	p, err := config.LoadTokenProfile(path)
	require.NoError(t, err)
	out, err := cfg.ApplyProfile(p)
	require.NoError(t, err)

	assert.Equal(t, "LUNA", out.TokenName)
	assert.Equal(t, "luna", out.TokenSymbol)
	assert.Equal(t, config.DefaultBrandPrefix, out.BrandPrefix)
	assert.Equal(t, "https://x.invalid/luna.json", out.MetadataURI)
	assert.True(t, out.TotalSupply.Equal(decimal.NewFromInt(500_000_000)))
	assert.True(t, out.PoolNativeAmount.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, config.DefaultTokenName, cfg.TokenName, "receiver is not modified")

	_, err = cfg.ApplyProfile(config.TokenProfile{Supply: "0"})
	assert.Error(t, err)
	_, err = cfg.ApplyProfile(config.TokenProfile{Supply: "lots"})
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.LoadDotEnv(filepath.Join(dir, "missing.env")))

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("LAUNCHER_TEST_DOTENV=from-file\n"), 0o600))
	t.Setenv("LAUNCHER_TEST_DOTENV", "from-env")
	require.NoError(t, config.LoadDotEnv(path))
	assert.Equal(t, "from-env", os.Getenv("LAUNCHER_TEST_DOTENV"))
}

func TestLauncherRPCConfig(t *testing.T) {
	cfg := config.LauncherRPCConfig("https://rpc.example.invalid")
	assert.Equal(t, "confirmed", cfg.Commitment)
	assert.False(t, cfg.Retry.Enabled)
	assert.Equal(t, "https://rpc.example.invalid", cfg.ResolveRPCURL())
}
