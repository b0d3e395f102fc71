package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// TokenProfile overrides the built-in branding and amounts. Empty fields keep defaults.
type TokenProfile struct {
	Name   string `yaml:"name"`
	Symbol string `yaml:"symbol"`
	Brand  string `yaml:"brand"`
	URI    string `yaml:"uri"`
	Supply string `yaml:"supply"` // human units, decimal string

	Pool struct {
		CreatorTokens string `yaml:"creator_tokens"` // human units of the new token
		NativeAmount  string `yaml:"native_amount"`  // human units of SOL
	} `yaml:"pool"`
}

// LoadTokenProfile reads a YAML token profile.
func LoadTokenProfile(path string) (TokenProfile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return TokenProfile{}, fmt.Errorf("read profile: %w", err)
	}
	var p TokenProfile
	if err := yaml.Unmarshal(content, &p); err != nil {
		return TokenProfile{}, fmt.Errorf("parse profile: %w", err)
	}
	return p, nil
}

// ApplyProfile returns a copy of c with the profile's non-empty fields applied.
func (c LaunchConfig) ApplyProfile(p TokenProfile) (LaunchConfig, error) {
	if p.Name != "" {
		c.TokenName = p.Name
	}
	if p.Symbol != "" {
		c.TokenSymbol = p.Symbol
	}
	if p.Brand != "" {
		c.BrandPrefix = p.Brand
	}
	if p.URI != "" {
		c.MetadataURI = p.URI
	}
	amounts := []struct {
		field string
		raw   string
		dst   *decimal.Decimal
	}{
		{"supply", p.Supply, &c.TotalSupply},
		{"pool.creator_tokens", p.Pool.CreatorTokens, &c.PoolCreatorTokens},
		{"pool.native_amount", p.Pool.NativeAmount, &c.PoolNativeAmount},
	}
	for _, a := range amounts {
		if a.raw == "" {
			continue
		}
		v, err := decimal.NewFromString(a.raw)
		if err != nil {
			return LaunchConfig{}, fmt.Errorf("profile %s: %w", a.field, err)
		}
		if !v.IsPositive() {
			return LaunchConfig{}, fmt.Errorf("profile %s: must be greater than 0", a.field)
		}
		*a.dst = v
	}
	return c, nil
}
