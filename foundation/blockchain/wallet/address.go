package wallet

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/ardanlabs/blocker/foundation/blockchain/signature"
	"github.com/btcsuite/btcd/btcutil/base58"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // RIPEMD-160 is part of the address format.
)

// MainNetVersion is the network version byte placed in front of the public
// key hash.
const MainNetVersion byte = 0x00

// Lengths of the parts of an encoded address.
const (
	hashLength     = ripemd160.Size
	checksumLength = 4
	payloadLength  = 1 + hashLength
	addressLength  = payloadLength + checksumLength
)

// Set of error variables for address encoding.
var (
	ErrInvalidPublicKey = errors.New("invalid public key")
	ErrInvalidAddress   = errors.New("invalid address")
)

// =============================================================================

// EncodeAddress converts an uncompressed public key into a main network
// base58check address.
func EncodeAddress(publicKey []byte) (string, error) {
	return EncodeAddressVersion(MainNetVersion, publicKey)
}

// EncodeAddressVersion converts an uncompressed public key into a base58check
// address for the specified network version.
func EncodeAddressVersion(version byte, publicKey []byte) (string, error) {
	if len(publicKey) != PublicKeyLength {
		return "", fmt.Errorf("%w: length %d, exp %d", ErrInvalidPublicKey, len(publicKey), PublicKeyLength)
	}

	if publicKey[0] != uncompressedPrefix {
		return "", fmt.Errorf("%w: prefix %#x, exp %#x", ErrInvalidPublicKey, publicKey[0], uncompressedPrefix)
	}

	// Version byte followed by RIPEMD-160(SHA-256(publicKey)).
	payload := make([]byte, 0, addressLength)
	payload = append(payload, version)
	payload = append(payload, hash160(publicKey)...)

	return base58.Encode(append(payload, checksum(payload)...)), nil
}

// DecodeAddress reverses EncodeAddress, verifying the checksum, and returns
// the network version and the 20 byte public key hash.
func DecodeAddress(address string) (version byte, pubKeyHash []byte, err error) {
	decoded := base58.Decode(address)
	if len(decoded) != addressLength {
		return 0, nil, fmt.Errorf("%w: decoded length %d, exp %d", ErrInvalidAddress, len(decoded), addressLength)
	}

	payload := decoded[:payloadLength]
	if !bytes.Equal(checksum(payload), decoded[payloadLength:]) {
		return 0, nil, fmt.Errorf("%w: checksum mismatch", ErrInvalidAddress)
	}

	return payload[0], payload[1:], nil
}

// =============================================================================

// hash160 computes RIPEMD-160(SHA-256(data)).
func hash160(data []byte) []byte {
	sha := sha256.Sum256(data)

	h := ripemd160.New()
	h.Write(sha[:])

	return h.Sum(nil)
}

// checksum returns the first four bytes of SHA-256(SHA-256(payload)).
func checksum(payload []byte) []byte {
	sum := signature.DoubleSum256(payload)
	return sum[:checksumLength]
}
