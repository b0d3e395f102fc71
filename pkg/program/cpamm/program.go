// Package cpamm holds bindings for the Meteora DAMM v2 (cp-amm) program: the
// static Config account and the initialize_pool instruction.
package cpamm

import (
	"crypto/sha256"
	"math/big"

	"github.com/ninja0404/token-launcher/pkg/constants"
)

const ProgramName string = "cp_amm"

var ProgramKey = constants.CpAmmProgramID

// Sqrt price bounds in Q64.64.
var (
	MinSqrtPrice = big.NewInt(4295048016)
	MaxSqrtPrice = mustBigInt("79226673521066979257578248091")
)

func mustBigInt(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("cpamm: bad integer literal " + s)
	}
	return v
}

func anchorDiscriminator(namespace, name string) []byte {
	sum := sha256.Sum256([]byte(namespace + ":" + name))
	return sum[:8]
}
