package chaingrp

import (
	"github.com/ardanlabs/blocker/foundation/blockchain/database"
	"github.com/ardanlabs/blocker/foundation/blockchain/genesis"
)

type minedBlock struct {
	Message string `json:"message"`
	database.Block
}

type status struct {
	Status     string          `json:"status"`
	Difficulty uint            `json:"difficulty"`
	Length     int             `json:"length"`
	Genesis    genesis.Genesis `json:"genesis"`
}

type chain struct {
	Chain  []database.Block `json:"chain"`
	Length int              `json:"length"`
}

type validation struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}

// Zero is a legal proof, the pointers tell an absent field from a zero one.
type proofCheck struct {
	PreviousProof *uint64 `json:"previous_proof" validate:"required"`
	Proof         *uint64 `json:"proof" validate:"required"`
}

type proofResult struct {
	Valid  bool   `json:"valid"`
	Digest string `json:"digest"`
}
