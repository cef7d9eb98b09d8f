package state

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ardanlabs/blocker/foundation/blockchain/database"
	"github.com/ardanlabs/blocker/foundation/blockchain/pow"
)

// MineNewBlock computes the proof for the next block, hashes the latest
// block, and appends the new block. The whole sequence holds the state lock
// so two concurrent calls can't claim the same index. The context cancels
// both the wait for the lock and the search.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	if err := s.lock(ctx); err != nil {
		return database.Block{}, err
	}
	defer s.unlock()

	s.evHandler("state: MineNewBlock: MINING: started")
	defer s.evHandler("state: MineNewBlock: MINING: completed")

	prevBlock, err := s.ledger.LastBlock()
	if err != nil {
		return database.Block{}, err
	}

	s.evHandler("state: MineNewBlock: MINING: perform POW: prevBlk[%d]: prevProof[%d]", prevBlock.Index, prevBlock.Proof)

	proof, err := s.puzzle.Compute(ctx, prevBlock.Proof)
	if err != nil {
		return database.Block{}, err
	}

	return s.appendBlock(proof, prevBlock.Hash())
}

// AppendBlock appends a block built from a proof and previous hash the
// caller computed. The values are not validated here, a bad pair is caught
// by chain validation.
func (s *State) AppendBlock(proof uint64, prevHash string) (database.Block, error) {
	s.sem <- struct{}{}
	defer s.unlock()

	return s.appendBlock(proof, prevHash)
}

// =============================================================================

// lock waits for the state lock or for the context to be done.
func (s *State) lock(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		s.evHandler("state: MineNewBlock: MINING: CANCELLED: waiting for lock")
		return fmt.Errorf("%w: waiting to mine: %w", pow.ErrSearchAborted, ctx.Err())
	}
}

// unlock releases the state lock.
func (s *State) unlock() {
	<-s.sem
}

// appendBlock writes the block to the ledger. The state lock must be held.
func (s *State) appendBlock(proof uint64, prevHash string) (database.Block, error) {
	block, err := s.ledger.CreateBlock(proof, prevHash)
	if err != nil {
		return database.Block{}, err
	}

	s.evHandler("state: appendBlock: blk[%d]: proof[%d]: prevHash[%s]", block.Index, block.Proof, block.PrevHash)

	// Send an event about this new block.
	s.blockEvent(block)

	return block, nil
}

// blockEvent provides a specific event about a new block in the chain for
// application specific support.
func (s *State) blockEvent(block database.Block) {
	blockJSON, err := json.Marshal(block)
	if err != nil {
		blockJSON = []byte(fmt.Sprintf("%q", err.Error()))
	}

	s.evHandler(`viewer: block: {"hash":%q,"block":%s}`, block.Hash(), string(blockJSON))
}
