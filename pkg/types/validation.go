package types

import (
	"unicode/utf8"

	"github.com/gagliardetto/solana-go"
)

// ValidatePublicKey validates a public key is not zero.
func ValidatePublicKey(name string, key solana.PublicKey) error {
	if key.IsZero() {
		return NewValidationError(name, "cannot be zero")
	}
	return nil
}

// ValidatePublicKeys validates multiple public keys.
func ValidatePublicKeys(keys map[string]solana.PublicKey) error {
	for name, key := range keys {
		if err := ValidatePublicKey(name, key); err != nil {
			return err
		}
	}
	return nil
}

// TruncateUTF8 drops trailing characters until s fits in maxBytes.
// The cut always lands on a rune boundary; strings that already fit are returned unchanged.
func TruncateUTF8(s string, maxBytes int) string {
	if maxBytes <= 0 {
		return ""
	}
	for len(s) > maxBytes {
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
	}
	return s
}

// ValidateMetadataURI checks the metadata program's uri constraints.
func ValidateMetadataURI(uri string, maxBytes int) error {
	if uri == "" {
		return NewValidationError("uri", "cannot be empty")
	}
	if len(uri) > maxBytes {
		return NewValidationError("uri", "exceeds byte limit")
	}
	return nil
}
