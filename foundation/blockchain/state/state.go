// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"context"
	"fmt"

	"github.com/ardanlabs/blocker/foundation/blockchain/database"
	"github.com/ardanlabs/blocker/foundation/blockchain/genesis"
	"github.com/ardanlabs/blocker/foundation/blockchain/pow"
)

// EventHandler defines a function that is called when events
// occur in the processing of blocks.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	Genesis   genesis.Genesis
	EvHandler EventHandler
}

// State manages the blockchain ledger. All changes to the ledger are made
// by one goroutine at a time while readers work from snapshots.
type State struct {
	sem       chan struct{}
	evHandler EventHandler

	genesis genesis.Genesis
	puzzle  *pow.Puzzle
	ledger  *database.Ledger
}

// New constructs a new blockchain for data management.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	puzzle, err := pow.New(cfg.Genesis.Difficulty, cfg.Genesis.MaxAttempts)
	if err != nil {
		return nil, fmt.Errorf("constructing puzzle: %w", err)
	}
	puzzle.WithEvHandler(pow.EventHandler(ev))

	state := State{
		sem:       make(chan struct{}, 1),
		evHandler: ev,
		genesis:   cfg.Genesis,
		puzzle:    puzzle,
		ledger:    database.New(cfg.Genesis),
	}

	genesisBlock, err := state.ledger.LastBlock()
	if err != nil {
		return nil, err
	}
	state.blockEvent(genesisBlock)

	return &state, nil
}

// =============================================================================

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveDifficulty returns the number of leading zeros a proof requires.
func (s *State) RetrieveDifficulty() uint {
	return s.puzzle.Difficulty()
}

// RetrieveLatestBlock returns a copy of the current latest block.
func (s *State) RetrieveLatestBlock() (database.Block, error) {
	return s.ledger.LastBlock()
}

// RetrieveChain returns a copy of every block in the chain.
func (s *State) RetrieveChain() []database.Block {
	return s.ledger.Copy()
}

// QueryBlocksByNumber returns the set of blocks based on block numbers.
func (s *State) QueryBlocksByNumber(from uint64, to uint64) []database.Block {
	return s.ledger.QueryBlocksByNumber(from, to)
}

// HashBlock returns the hash the next block must carry as its previous hash.
func (s *State) HashBlock(block database.Block) string {
	return block.Hash()
}

// ComputeProof searches for the proof that solves the puzzle against the
// previous proof.
func (s *State) ComputeProof(ctx context.Context, previousProof uint64) (uint64, error) {
	return s.puzzle.Compute(ctx, previousProof)
}

// VerifyProof checks the proof solves the puzzle against the previous proof.
func (s *State) VerifyProof(previousProof uint64, proof uint64) bool {
	return s.puzzle.Verify(previousProof, proof)
}

// ValidateChain validates a snapshot of the chain.
func (s *State) ValidateChain() error {
	return s.ledger.Validate(s.puzzle, database.EventHandler(s.evHandler))
}

// IsChainValid reports whether a snapshot of the chain passes validation.
func (s *State) IsChainValid() bool {
	if err := s.ValidateChain(); err != nil {
		s.evHandler("state: IsChainValid: INVALID: %s", err)
		return false
	}

	return true
}
