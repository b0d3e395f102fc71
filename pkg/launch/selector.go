package launch

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/token-launcher/pkg/program/cpamm"
	"github.com/ninja0404/token-launcher/pkg/types"
)

// ConfigSelector picks the AMM config a pool is created under. It is only called
// with a non-empty list.
type ConfigSelector func(configs []cpamm.ConfigAccount) (cpamm.ConfigAccount, error)

// FirstConfig takes the first config in enumeration order.
func FirstConfig(configs []cpamm.ConfigAccount) (cpamm.ConfigAccount, error) {
	if len(configs) == 0 {
		return cpamm.ConfigAccount{}, types.ErrNoAMMConfigs
	}
	return configs[0], nil
}

// ConfigByAddress selects the config at addr.
func ConfigByAddress(addr solana.PublicKey) ConfigSelector {
	return func(configs []cpamm.ConfigAccount) (cpamm.ConfigAccount, error) {
		for _, c := range configs {
			if c.Address.Equals(addr) {
				return c, nil
			}
		}
		return cpamm.ConfigAccount{}, fmt.Errorf("%w: %s", types.ErrConfigNotFound, addr)
	}
}

// FirstOpenTo takes the first config that creator is allowed to create pools under.
func FirstOpenTo(creator solana.PublicKey) ConfigSelector {
	return func(configs []cpamm.ConfigAccount) (cpamm.ConfigAccount, error) {
		for _, c := range configs {
			if c.Config.OpenTo(creator) {
				return c, nil
			}
		}
		return cpamm.ConfigAccount{}, fmt.Errorf("%w: none open to %s", types.ErrConfigNotFound, creator)
	}
}
