package database

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/blocker/foundation/blockchain/signature"
)

// ErrInvalidChain is returned when a chain fails validation.
var ErrInvalidChain = errors.New("invalid chain")

// Verifier represents the behavior required to check the proof of work
// relationship between two blocks.
type Verifier interface {
	Verify(previousProof uint64, proof uint64) bool
}

// =============================================================================

// Block represents one entry in the ledger, linked to its parent by hash.
// Field order is part of the hash, don't reorder these fields.
type Block struct {
	Index     uint64 `json:"index"`         // Position in the chain, genesis is 1.
	TimeStamp uint64 `json:"timestamp"`     // Unix time in milliseconds the block was created.
	Proof     uint64 `json:"proof"`         // Solution to the proof of work puzzle against the parent proof.
	PrevHash  string `json:"previous_hash"` // Hash of the parent block.
}

// Hash returns the unique hash for the Block.
func (b Block) Hash() string {
	return signature.Hash(b)
}

// ValidateBlock takes a block and validates it against its parent.
func (b Block) ValidateBlock(previousBlock Block, verifier Verifier, evHandler EventHandler) error {
	evHandler("database: ValidateBlock: validate: blk[%d]: check: block number is the next number", b.Index)

	nextNumber := previousBlock.Index + 1
	if b.Index != nextNumber {
		return fmt.Errorf("%w: this block is not the next number, got %d, exp %d", ErrInvalidChain, b.Index, nextNumber)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: block's timestamp is not before parent block's timestamp", b.Index)

	if b.TimeStamp < previousBlock.TimeStamp {
		return fmt.Errorf("%w: block %d timestamp is before parent block, parent %d, block %d", ErrInvalidChain, b.Index, previousBlock.TimeStamp, b.TimeStamp)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: parent hash does match parent block", b.Index)

	if hash := previousBlock.Hash(); b.PrevHash != hash {
		return fmt.Errorf("%w: block %d parent hash doesn't match our known parent, got %s, exp %s", ErrInvalidChain, b.Index, b.PrevHash, hash)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: proof solves the puzzle for the parent proof", b.Index)

	if !verifier.Verify(previousBlock.Proof, b.Proof) {
		return fmt.Errorf("%w: block %d proof %d doesn't solve the puzzle for parent proof %d", ErrInvalidChain, b.Index, b.Proof, previousBlock.Proof)
	}

	return nil
}

// =============================================================================

// ValidateChain walks the blocks from the second block onward and validates
// every block against its parent. It stops at the first failure.
func ValidateChain(blocks []Block, verifier Verifier, evHandler EventHandler) error {
	if evHandler == nil {
		evHandler = func(v string, args ...any) {}
	}

	for i := 1; i < len(blocks); i++ {
		if err := blocks[i].ValidateBlock(blocks[i-1], verifier, evHandler); err != nil {
			return err
		}
	}

	return nil
}

// ChainValid reports whether every adjacent pair of blocks is linked by
// hash and by proof.
func ChainValid(blocks []Block, verifier Verifier) bool {
	return ValidateChain(blocks, verifier, nil) == nil
}
