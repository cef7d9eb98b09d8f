// Package genesis maintains access to the genesis parameters of the chain.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
)

// Default values used when no genesis file is provided.
const (
	DefaultProof      uint64 = 1
	DefaultPrevHash          = "1"
	DefaultDifficulty uint   = 4
)

// Genesis represents the genesis file.
type Genesis struct {
	Proof       uint64 `json:"proof"`        // The fixed proof of the first block.
	PrevHash    string `json:"prev_hash"`    // The placeholder previous hash of the first block.
	Difficulty  uint   `json:"difficulty"`   // How difficult it needs to be to solve the work problem.
	MaxAttempts uint64 `json:"max_attempts"` // Cap on candidates tried per search, zero is unbounded.
}

// Default returns the genesis parameters used by the reference chain.
func Default() Genesis {
	return Genesis{
		Proof:      DefaultProof,
		PrevHash:   DefaultPrevHash,
		Difficulty: DefaultDifficulty,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. Values missing from the file
// keep their defaults.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis %q: %w", path, err)
	}

	if genesis.PrevHash == "" {
		return Genesis{}, fmt.Errorf("genesis %q: prev_hash must not be empty", path)
	}

	return genesis, nil
}
