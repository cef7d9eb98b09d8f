// Package wallet derives secp256k1 key pairs and the base58check addresses
// that identify them.
package wallet

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// Info is the exported view of a wallet.
type Info struct {
	PrivateKey string `json:"private_key"`
	PublicKey  string `json:"public_key"`
	Address    string `json:"address"`
}

// Wallet owns a key pair. It can't be changed once constructed.
type Wallet struct {
	privateKey *ecdsa.PrivateKey
	publicKey  []byte
}

// New constructs a wallet with a freshly generated key pair.
func New() (Wallet, error) {
	privateKey, err := GeneratePrivateKey()
	if err != nil {
		return Wallet{}, err
	}

	return FromPrivateKey(privateKey)
}

// FromPrivateKey constructs a wallet around an existing private key.
func FromPrivateKey(privateKey *ecdsa.PrivateKey) (Wallet, error) {
	publicKey, err := DerivePublicKey(privateKey)
	if err != nil {
		return Wallet{}, err
	}

	w := Wallet{
		privateKey: privateKey,
		publicKey:  publicKey,
	}

	return w, nil
}

// Load reads a hex encoded private key file and constructs its wallet.
func Load(path string) (Wallet, error) {
	privateKey, err := crypto.LoadECDSA(path)
	if err != nil {
		return Wallet{}, fmt.Errorf("loading key %q: %w", path, err)
	}

	return FromPrivateKey(privateKey)
}

// Save writes the private key to the file in hex with restrictive
// permissions.
func (w Wallet) Save(path string) error {
	if err := crypto.SaveECDSA(path, w.privateKey); err != nil {
		return fmt.Errorf("saving key %q: %w", path, err)
	}

	return nil
}

// PrivateKeyHex returns the 32 byte private scalar as hex.
func (w Wallet) PrivateKeyHex() string {
	return hex.EncodeToString(crypto.FromECDSA(w.privateKey))
}

// PublicKey returns a copy of the uncompressed public key.
func (w Wallet) PublicKey() []byte {
	pk := make([]byte, len(w.publicKey))
	copy(pk, w.publicKey)
	return pk
}

// PublicKeyHex returns the uncompressed public key as hex.
func (w Wallet) PublicKeyHex() string {
	return hex.EncodeToString(w.publicKey)
}

// Address computes the main network address for the wallet.
func (w Wallet) Address() string {

	// The public key was derived by this package so it always has the
	// expected length and prefix.
	address, err := EncodeAddress(w.publicKey)
	if err != nil {
		return ""
	}

	return address
}

// Info returns the hex encoded keys and the address of the wallet.
func (w Wallet) Info() Info {
	return Info{
		PrivateKey: w.PrivateKeyHex(),
		PublicKey:  w.PublicKeyHex(),
		Address:    w.Address(),
	}
}
