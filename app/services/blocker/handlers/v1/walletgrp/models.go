package walletgrp

type publicKey struct {
	PublicKey string `json:"public_key" validate:"required,hexadecimal"`
}

type address struct {
	Address string `json:"address"`
}

type decodedAddress struct {
	Address    string `json:"address"`
	Version    byte   `json:"version"`
	PubKeyHash string `json:"pubkey_hash"`
	Name       string `json:"name,omitempty"`
}
