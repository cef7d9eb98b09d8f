// Package pow implements the proof of work puzzle used to seal new blocks.
//
// A candidate proof solves the puzzle for a previous proof when the hex
// encoded SHA-256 digest of the decimal string of
//
//	candidate² - previous²
//
// starts with difficulty number of '0' characters. The squares are computed
// with arbitrary precision so large proofs never overflow.
package pow

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
)

// MaxDifficulty is the largest difficulty a SHA-256 hex digest can satisfy.
const MaxDifficulty = sha256.Size * 2

// Set of error variables for the proof search.
var (
	ErrSearchAborted     = errors.New("proof search aborted")
	ErrProofExhausted    = errors.New("proof search exhausted the candidate space")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
)

// EventHandler defines a function that is called to report progress
// of a proof search.
type EventHandler func(v string, args ...any)

// =============================================================================

// Puzzle knows how to compute and verify proofs for a fixed difficulty.
type Puzzle struct {
	difficulty  uint
	maxAttempts uint64
	prefix      string
	evHandler   EventHandler
}

// New constructs a puzzle for the specified difficulty. A maxAttempts of
// zero places no bound on the number of candidates a search may try.
func New(difficulty uint, maxAttempts uint64) (*Puzzle, error) {
	if difficulty > MaxDifficulty {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrInvalidDifficulty, difficulty, MaxDifficulty)
	}

	p := Puzzle{
		difficulty:  difficulty,
		maxAttempts: maxAttempts,
		prefix:      strings.Repeat("0", int(difficulty)),
		evHandler:   func(v string, args ...any) {},
	}

	return &p, nil
}

// WithEvHandler sets the handler used to report search progress.
func (p *Puzzle) WithEvHandler(ev EventHandler) *Puzzle {
	if ev != nil {
		p.evHandler = ev
	}
	return p
}

// Difficulty returns the number of leading zeros a solution requires.
func (p *Puzzle) Difficulty() uint {
	return p.difficulty
}

// Compute searches for the first proof, starting at 1, that solves the
// puzzle for the previous proof. The search checks the context on every
// candidate so a caller can cancel or time out a runaway search.
func (p *Puzzle) Compute(ctx context.Context, previousProof uint64) (uint64, error) {
	p.evHandler("pow: Compute: started: prevProof[%d]: difficulty[%d]", previousProof, p.difficulty)

	prev := new(big.Int).SetUint64(previousProof)
	prevSquare := new(big.Int).Mul(prev, prev)

	var attempts uint64
	for candidate := uint64(1); ; candidate++ {
		if err := ctx.Err(); err != nil {
			p.evHandler("pow: Compute: CANCELLED: attempts[%d]", attempts)
			return 0, fmt.Errorf("%w: %w", ErrSearchAborted, err)
		}

		if p.maxAttempts > 0 && attempts == p.maxAttempts {
			p.evHandler("pow: Compute: LIMIT: attempts[%d]", attempts)
			return 0, fmt.Errorf("%w: reached %d attempts", ErrSearchAborted, attempts)
		}

		attempts++
		if attempts%1_000_000 == 0 {
			p.evHandler("pow: Compute: attempts[%d]", attempts)
		}

		if p.isSolved(digest(candidate, prevSquare)) {
			p.evHandler("pow: Compute: SOLVED: proof[%d]: attempts[%d]", candidate, attempts)
			return candidate, nil
		}

		if candidate == math.MaxUint64 {
			return 0, ErrProofExhausted
		}
	}
}

// Verify recomputes the digest for the candidate and reports whether it
// solves the puzzle for the previous proof.
func (p *Puzzle) Verify(previousProof uint64, candidate uint64) bool {
	prev := new(big.Int).SetUint64(previousProof)
	return p.isSolved(digest(candidate, new(big.Int).Mul(prev, prev)))
}

// Digest returns the hex encoded digest the puzzle checks for the pair.
func Digest(previousProof uint64, candidate uint64) string {
	prev := new(big.Int).SetUint64(previousProof)
	return digest(candidate, new(big.Int).Mul(prev, prev))
}

// =============================================================================

// digest combines the candidate with the already squared previous proof.
func digest(candidate uint64, prevSquare *big.Int) string {
	c := new(big.Int).SetUint64(candidate)
	c.Mul(c, c)
	c.Sub(c, prevSquare)

	hash := sha256.Sum256([]byte(c.String()))
	return hex.EncodeToString(hash[:])
}

// isSolved checks the digest carries the required run of leading zeros.
func (p *Puzzle) isSolved(hash string) bool {
	return strings.HasPrefix(hash, p.prefix)
}
