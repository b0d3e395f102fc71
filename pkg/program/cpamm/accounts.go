package cpamm

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

var ConfigDiscriminator = anchorDiscriminator("account", "Config")

func (a *Config) Unmarshal(data []byte) error {
	if len(data) < 8 {
		return fmt.Errorf("account Config: data too short")
	}
	if !bytes.Equal(data[:8], ConfigDiscriminator) {
		return fmt.Errorf("account Config: discriminator mismatch")
	}
	dec := bin.NewBorshDecoder(data[8:])
	return dec.Decode(a)
}

func (a *Config) Address(pubkey solana.PublicKey) solana.PublicKey {
	return pubkey
}
