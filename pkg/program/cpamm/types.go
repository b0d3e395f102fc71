package cpamm

import (
	"fmt"
	"math/big"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

type BaseFeeConfig struct {
	CliffFeeNumerator uint64   `bin:"cliff_fee_numerator"`
	FeeSchedulerMode  uint8    `bin:"fee_scheduler_mode"`
	Padding           [5]uint8 `bin:"padding"`
	NumberOfPeriod    uint16   `bin:"number_of_period"`
	PeriodFrequency   uint64   `bin:"period_frequency"`
	ReductionFactor   uint64   `bin:"reduction_factor"`
}

type DynamicFeeConfig struct {
	Initialized              uint8       `bin:"initialized"`
	Padding                  [7]uint8    `bin:"padding"`
	MaxVolatilityAccumulator uint32      `bin:"max_volatility_accumulator"`
	VariableFeeControl       uint32      `bin:"variable_fee_control"`
	BinStep                  uint16      `bin:"bin_step"`
	FilterPeriod             uint16      `bin:"filter_period"`
	DecayPeriod              uint16      `bin:"decay_period"`
	ReductionFactor          uint16      `bin:"reduction_factor"`
	Padding1                 [8]uint8    `bin:"padding_1"`
	BinStepU128              bin.Uint128 `bin:"bin_step_u128"`
}

type PoolFeesConfig struct {
	BaseFee            BaseFeeConfig    `bin:"base_fee"`
	DynamicFee         DynamicFeeConfig `bin:"dynamic_fee"`
	ProtocolFeePercent uint8            `bin:"protocol_fee_percent"`
	PartnerFeePercent  uint8            `bin:"partner_fee_percent"`
	ReferralFeePercent uint8            `bin:"referral_fee_percent"`
	Padding0           [5]uint8         `bin:"padding_0"`
	Padding1           [5]uint64        `bin:"padding_1"`
}

// Config is a static pool configuration owned by the program.
type Config struct {
	VaultConfigKey       solana.PublicKey `bin:"vault_config_key"`
	PoolCreatorAuthority solana.PublicKey `bin:"pool_creator_authority"`
	PoolFees             PoolFeesConfig   `bin:"pool_fees"`
	ActivationType       uint8            `bin:"activation_type"`
	CollectFeeMode       uint8            `bin:"collect_fee_mode"`
	ConfigType           uint8            `bin:"config_type"`
	Padding0             [5]uint8         `bin:"padding_0"`
	Index                uint64           `bin:"index"`
	SqrtMinPrice         bin.Uint128      `bin:"sqrt_min_price"`
	SqrtMaxPrice         bin.Uint128      `bin:"sqrt_max_price"`
	Padding1             [10]uint64       `bin:"padding_1"`
}

// ConfigAccount pairs a decoded Config with its address.
type ConfigAccount struct {
	Address solana.PublicKey
	Config  Config
}

// OpenTo reports whether creator may initialize pools under this config.
// A zero pool creator authority means anyone can.
func (c Config) OpenTo(creator solana.PublicKey) bool {
	return c.PoolCreatorAuthority.IsZero() || c.PoolCreatorAuthority.Equals(creator)
}

// U128 converts a non-negative big.Int to the borsh u128 type.
func U128(v *big.Int) (bin.Uint128, error) {
	if v == nil || v.Sign() < 0 || v.BitLen() > 128 {
		return bin.Uint128{}, fmt.Errorf("value %v does not fit u128", v)
	}
	mask := new(big.Int).SetUint64(^uint64(0))
	lo := new(big.Int).And(v, mask).Uint64()
	hi := new(big.Int).Rsh(v, 64).Uint64()
	return bin.Uint128{Lo: lo, Hi: hi, Endianness: bin.LE}, nil
}

// BigInt converts a borsh u128 back to big.Int.
func BigInt(v bin.Uint128) *big.Int {
	out := new(big.Int).SetUint64(v.Hi)
	out.Lsh(out, 64)
	return out.Or(out, new(big.Int).SetUint64(v.Lo))
}
