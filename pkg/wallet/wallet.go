package wallet

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/json"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/ninja0404/token-launcher/pkg/types"
)

// Signer performs detached signatures for transaction messages.
type Signer interface {
	PublicKey() solana.PublicKey
	SignMessage(ctx context.Context, message []byte) (solana.Signature, error)
}

// Local wraps a local private key.
type Local struct {
	key solana.PrivateKey
}

// ParsePrivateKeyJSON decodes a secret key stored as a JSON array of 64 byte values,
// the format written by solana-keygen. The embedded public half must match the seed.
func ParsePrivateKeyJSON(raw []byte) (solana.PrivateKey, error) {
	var values []int
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedKey, err)
	}
	if len(values) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: got %d entries", types.ErrMalformedKey, len(values))
	}
	key := make([]byte, ed25519.PrivateKeySize)
	for i, v := range values {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%w: entry %d out of byte range: %d", types.ErrMalformedKey, i, v)
		}
		key[i] = byte(v)
	}
	derived := ed25519.NewKeyFromSeed(key[:ed25519.SeedSize])
	if !bytes.Equal(derived[ed25519.SeedSize:], key[ed25519.SeedSize:]) {
		return nil, fmt.Errorf("%w: public key does not match secret", types.ErrMalformedKey)
	}
	return solana.PrivateKey(key), nil
}

// NewLocalFromJSONBytes constructs a local signer from a JSON byte-array secret key.
func NewLocalFromJSONBytes(raw []byte) (Local, error) {
	key, err := ParsePrivateKeyJSON(raw)
	if err != nil {
		return Local{}, err
	}
	return Local{key: key}, nil
}

// NewLocalFromPrivateKey constructs a local signer from existing private key.
func NewLocalFromPrivateKey(key solana.PrivateKey) Local {
	return Local{key: key}
}

// NewRandomLocal generates a fresh single-use keypair.
func NewRandomLocal() (Local, error) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return Local{}, fmt.Errorf("generate keypair: %w", err)
	}
	return Local{key: key}, nil
}

// PublicKey returns the associated public key.
func (l Local) PublicKey() solana.PublicKey {
	return l.key.PublicKey()
}

// SignMessage signs the provided message bytes.
func (l Local) SignMessage(ctx context.Context, message []byte) (solana.Signature, error) {
	select {
	case <-ctx.Done():
		return solana.Signature{}, ctx.Err()
	default:
		sig, err := l.key.Sign(message)
		if err != nil {
			return solana.Signature{}, fmt.Errorf("sign message: %w", err)
		}
		return sig, nil
	}
}
