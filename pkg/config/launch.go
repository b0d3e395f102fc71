package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/ninja0404/token-launcher/pkg/constants"
	"github.com/ninja0404/token-launcher/pkg/quote"
	"github.com/ninja0404/token-launcher/pkg/types"
	"github.com/ninja0404/token-launcher/pkg/wallet"
)

// Environment keys read by LoadLaunchConfig.
const (
	EnvRPCURL        = "SOLANA_RPC_URL"
	EnvRPCURLMainnet = "SOLANA_CLUSTER_MAINNET"
	EnvSigningKey    = "CURVE_WALLET_PRIVATE"
	EnvDecimals      = "MOXIE_DECIMALS"
)

// Built-in launch constants.
const (
	DefaultDecimals    uint8 = 8
	DefaultTokenName         = "TORY"
	DefaultTokenSymbol       = "tory"
	DefaultBrandPrefix       = "Moxie's "
	DefaultMetadataURI       = "https://moxie.invalid/metadata.json"
)

var (
	DefaultTotalSupply       = decimal.NewFromInt(1_000_000_000)
	DefaultPoolCreatorTokens = decimal.NewFromInt(125_000_000)
	DefaultPoolNativeAmount  = decimal.NewFromInt(69)
)

// LaunchConfig holds the immutable parameters of one launch run.
type LaunchConfig struct {
	RPCURL     string
	NativeMint solana.PublicKey
	Decimals   uint8
	SigningKey solana.PrivateKey

	TotalSupply       decimal.Decimal
	PoolCreatorTokens decimal.Decimal
	PoolNativeAmount  decimal.Decimal

	TokenName   string
	TokenSymbol string
	BrandPrefix string
	MetadataURI string
}

// LoadDotEnv loads variables from the given .env files without overriding
// values already present in the environment. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// LoadLaunchConfig builds the run configuration from getenv (os.Getenv in production).
// It performs no network access.
func LoadLaunchConfig(getenv func(string) string) (LaunchConfig, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := LaunchConfig{
		RPCURL:            RPCURLFromEnv(getenv),
		NativeMint:        constants.WSOLMint,
		Decimals:          DefaultDecimals,
		TotalSupply:       DefaultTotalSupply,
		PoolCreatorTokens: DefaultPoolCreatorTokens,
		PoolNativeAmount:  DefaultPoolNativeAmount,
		TokenName:         DefaultTokenName,
		TokenSymbol:       DefaultTokenSymbol,
		BrandPrefix:       DefaultBrandPrefix,
		MetadataURI:       DefaultMetadataURI,
	}

	raw := strings.TrimSpace(getenv(EnvSigningKey))
	if raw == "" {
		return LaunchConfig{}, types.NewConfigError(EnvSigningKey, types.ErrMissingSigningKey)
	}
	key, err := wallet.ParsePrivateKeyJSON([]byte(raw))
	if err != nil {
		return LaunchConfig{}, types.NewConfigError(EnvSigningKey, err)
	}
	cfg.SigningKey = key

	if v := strings.TrimSpace(getenv(EnvDecimals)); v != "" {
		d, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return LaunchConfig{}, types.NewConfigError(EnvDecimals, fmt.Errorf("must be an integer in 0..255: %w", err))
		}
		cfg.Decimals = uint8(d)
	}
	return cfg, nil
}

// RPCURLFromEnv resolves the endpoint without requiring the signing key.
func RPCURLFromEnv(getenv func(string) string) string {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(EnvRPCURL)); v != "" {
		return v
	}
	if v := strings.TrimSpace(getenv(EnvRPCURLMainnet)); v != "" {
		return v
	}
	return DefaultRPCURL(NetworkMainnet)
}

// Payer returns the controlling wallet's public key.
func (c LaunchConfig) Payer() solana.PublicKey {
	return c.SigningKey.PublicKey()
}

// Signer wraps the controlling key as a wallet.Signer.
func (c LaunchConfig) Signer() wallet.Signer {
	return wallet.NewLocalFromPrivateKey(c.SigningKey)
}

// TotalSupplyBaseUnits returns supply * 10^decimals; fractional results are rejected.
func (c LaunchConfig) TotalSupplyBaseUnits() (uint64, error) {
	return quote.ToBaseUnitsExact(c.TotalSupply, c.Decimals)
}

// Cluster guesses the explorer cluster from the RPC URL.
func (c LaunchConfig) Cluster() string {
	u := strings.ToLower(c.RPCURL)
	switch {
	case strings.Contains(u, "devnet"):
		return ExplorerCluster(NetworkDevnet)
	case strings.Contains(u, "testnet"):
		return ExplorerCluster(NetworkTestnet)
	default:
		return ExplorerCluster(NetworkMainnet)
	}
}

// TxExplorerURL links a transaction signature on the explorer.
func (c LaunchConfig) TxExplorerURL(sig solana.Signature) string {
	return fmt.Sprintf("https://explorer.solana.com/tx/%s?cluster=%s", sig, c.Cluster())
}

// AddressExplorerURL links an account address on the explorer.
func (c LaunchConfig) AddressExplorerURL(addr solana.PublicKey) string {
	return fmt.Sprintf("https://explorer.solana.com/address/%s?cluster=%s", addr, c.Cluster())
}
