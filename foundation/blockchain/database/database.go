// Package database handles the in memory ledger of blocks. The ledger only
// ever grows by appending to the end of the chain.
package database

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/ardanlabs/blocker/foundation/blockchain/genesis"
)

// ErrEmptyLedger is returned when the last block is requested from a ledger
// that holds no blocks. A ledger constructed with New always holds genesis.
var ErrEmptyLedger = errors.New("ledger has no blocks")

// QueryLatest represents to query the latest block in the chain.
const QueryLatest = math.MaxUint64

// EventHandler defines a function that is called when events
// occur in the processing of the ledger.
type EventHandler func(v string, args ...any)

// =============================================================================

// Ledger manages the ordered sequence of blocks. The zero value is an empty
// ledger.
type Ledger struct {
	mu     sync.RWMutex
	blocks []Block
	now    func() time.Time
}

// New constructs a ledger holding only the genesis block.
func New(gen genesis.Genesis) *Ledger {
	l := Ledger{
		now: time.Now,
	}
	l.genesis(gen)

	return &l
}

// genesis appends the first block using the fixed genesis proof and
// previous hash.
func (l *Ledger) genesis(gen genesis.Genesis) {
	l.blocks = append(l.blocks, Block{
		Index:     1,
		TimeStamp: uint64(l.now().UTC().UnixMilli()),
		Proof:     gen.Proof,
		PrevHash:  gen.PrevHash,
	})
}

// LastBlock returns the most recently appended block.
func (l *Ledger) LastBlock() (Block, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.blocks) == 0 {
		return Block{}, ErrEmptyLedger
	}

	return l.blocks[len(l.blocks)-1], nil
}

// CreateBlock constructs the next block from the proof and previous hash
// and appends it to the chain. The values are trusted, validation happens
// when the chain is validated.
func (l *Ledger) CreateBlock(proof uint64, prevHash string) (Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.blocks) == 0 {
		return Block{}, ErrEmptyLedger
	}
	last := l.blocks[len(l.blocks)-1]

	// Keep timestamps non-decreasing even if the wall clock steps back.
	ts := uint64(l.now().UTC().UnixMilli())
	if ts < last.TimeStamp {
		ts = last.TimeStamp
	}

	block := Block{
		Index:     last.Index + 1,
		TimeStamp: ts,
		Proof:     proof,
		PrevHash:  prevHash,
	}
	l.blocks = append(l.blocks, block)

	return block, nil
}

// Length returns the number of blocks in the chain.
func (l *Ledger) Length() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.blocks)
}

// Copy returns a copy of the chain. Changes to the copy don't affect the
// ledger.
func (l *Ledger) Copy() []Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	blocks := make([]Block, len(l.blocks))
	copy(blocks, l.blocks)

	return blocks
}

// QueryBlocksByNumber returns the set of blocks whose index is within the
// specified range. A to value of QueryLatest means the end of the chain.
func (l *Ledger) QueryBlocksByNumber(from uint64, to uint64) []Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.blocks) == 0 {
		return nil
	}

	latest := l.blocks[len(l.blocks)-1].Index
	if from == QueryLatest {
		from = latest
	}
	if to == QueryLatest || to > latest {
		to = latest
	}
	if from < 1 {
		from = 1
	}

	var out []Block
	for from <= to {
		out = append(out, l.blocks[from-1])
		from++
	}

	return out
}

// Validate validates a consistent snapshot of the chain.
func (l *Ledger) Validate(verifier Verifier, evHandler EventHandler) error {
	return ValidateChain(l.Copy(), verifier, evHandler)
}
