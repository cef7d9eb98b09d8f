package wallet

import (
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// PublicKeyLength is the length of an uncompressed public key: a 0x04
// prefix followed by the 32 byte X and Y coordinates.
const PublicKeyLength = 65

// uncompressedPrefix marks a public key in uncompressed point form.
const uncompressedPrefix = 0x04

// scalarLength is the byte length of a secp256k1 private scalar.
const scalarLength = 32

// ErrInvalidKey is returned when a private scalar is zero or not less than
// the order of the curve.
var ErrInvalidKey = errors.New("invalid private key")

// =============================================================================

// GeneratePrivateKey produces a random secp256k1 private key using the
// crypto/rand reader. The scalar is always within [1, N-1].
func GeneratePrivateKey() (*ecdsa.PrivateKey, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}

	return privateKey, nil
}

// PrivateKeyFromBytes converts a 32 byte big endian scalar into a private
// key. Scalars outside [1, N-1] are rejected.
func PrivateKeyFromBytes(scalar []byte) (*ecdsa.PrivateKey, error) {
	privateKey, err := crypto.ToECDSA(scalar)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}

	return privateKey, nil
}

// PrivateKeyFromHex converts a hex encoded scalar into a private key. The
// string may carry a 0x prefix.
func PrivateKeyFromHex(hexKey string) (*ecdsa.PrivateKey, error) {
	scalar, err := hex.DecodeString(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}

	return PrivateKeyFromBytes(scalar)
}

// DerivePublicKey multiplies the curve base point by the private scalar and
// returns the point in uncompressed form.
func DerivePublicKey(privateKey *ecdsa.PrivateKey) ([]byte, error) {
	if privateKey == nil || privateKey.D == nil || privateKey.D.Sign() <= 0 || privateKey.D.BitLen() > 8*scalarLength {
		return nil, ErrInvalidKey
	}

	// Rederive from the scalar so a key built by hand can't carry a
	// public point that doesn't belong to it.
	checked, err := PrivateKeyFromBytes(privateKey.D.FillBytes(make([]byte, scalarLength)))
	if err != nil {
		return nil, err
	}

	return crypto.FromECDSAPub(&checked.PublicKey), nil
}
