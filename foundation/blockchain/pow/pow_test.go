package pow_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/blocker/foundation/blockchain/pow"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_ComputeVerify(t *testing.T) {
	type table struct {
		name       string
		difficulty uint
		prevProof  uint64
	}

	tt := []table{
		{name: "zero", difficulty: 0, prevProof: 1},
		{name: "one", difficulty: 1, prevProof: 1},
		{name: "two", difficulty: 2, prevProof: 533},
		{name: "genesis", difficulty: 4, prevProof: 1},
		{name: "large", difficulty: 3, prevProof: 1 << 62},
	}

	t.Log("Given the need to compute and verify proofs.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling difficulty %d.", testID, tst.difficulty)
			{
				f := func(t *testing.T) {
					puzzle, err := pow.New(tst.difficulty, 0)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to construct a puzzle: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to construct a puzzle.", success, testID)

					proof, err := puzzle.Compute(context.Background(), tst.prevProof)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to compute a proof: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to compute a proof.", success, testID)

					if !puzzle.Verify(tst.prevProof, proof) {
						t.Fatalf("\t%s\tTest %d:\tShould verify the computed proof %d.", failed, testID, proof)
					}
					t.Logf("\t%s\tTest %d:\tShould verify the computed proof.", success, testID)

					digest := pow.Digest(tst.prevProof, proof)
					if !strings.HasPrefix(digest, strings.Repeat("0", int(tst.difficulty))) {
						t.Fatalf("\t%s\tTest %d:\tShould have %d leading zeros, got %s.", failed, testID, tst.difficulty, digest)
					}
					t.Logf("\t%s\tTest %d:\tShould have the required leading zeros.", success, testID)

					for candidate := uint64(1); candidate < proof; candidate++ {
						if puzzle.Verify(tst.prevProof, candidate) {
							t.Fatalf("\t%s\tTest %d:\tShould find the first solution, %d also solves.", failed, testID, candidate)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould find the first solution.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_DifficultyZero(t *testing.T) {
	puzzle, err := pow.New(0, 0)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct a puzzle: %v", failed, err)
	}

	proof, err := puzzle.Compute(context.Background(), 42)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to compute a proof: %v", failed, err)
	}

	if proof != 1 {
		t.Fatalf("\t%s\tShould accept the first candidate, got %d.", failed, proof)
	}
	t.Logf("\t%s\tShould accept the first candidate.", success)
}

func Test_VerifyRejects(t *testing.T) {
	puzzle, err := pow.New(4, 0)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct a puzzle: %v", failed, err)
	}

	proof, err := puzzle.Compute(context.Background(), 1)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to compute a proof: %v", failed, err)
	}

	if pow.Digest(2, proof) == pow.Digest(1, proof) {
		t.Fatalf("\t%s\tShould bind the digest to the previous proof.", failed)
	}
	t.Logf("\t%s\tShould bind the digest to the previous proof.", success)

	var rejected int
	for prev := uint64(2); prev < 10; prev++ {
		ok := puzzle.Verify(prev, proof)
		if ok != strings.HasPrefix(pow.Digest(prev, proof), "0000") {
			t.Fatalf("\t%s\tShould judge the pair %d/%d by its own digest.", failed, prev, proof)
		}
		if !ok {
			rejected++
		}
	}
	if rejected == 0 {
		t.Fatalf("\t%s\tShould reject the proof against other previous proofs.", failed)
	}
	t.Logf("\t%s\tShould reject the proof against other previous proofs.", success)

	for candidate := uint64(1); candidate < proof; candidate++ {
		if puzzle.Verify(1, candidate) {
			t.Fatalf("\t%s\tShould reject candidate %d below the first solution %d.", failed, candidate, proof)
		}
	}
	t.Logf("\t%s\tShould reject candidates below the first solution.", success)

	strict, err := pow.New(pow.MaxDifficulty, 0)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct a strict puzzle: %v", failed, err)
	}

	if strict.Verify(1, proof) {
		t.Fatalf("\t%s\tShould not trust a proof solved for a lower difficulty.", failed)
	}
	t.Logf("\t%s\tShould not trust a proof solved for a lower difficulty.", success)
}

func Test_Abort(t *testing.T) {
	t.Log("Given the need to abort a runaway proof search.")
	{
		puzzle, err := pow.New(pow.MaxDifficulty, 0)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct a puzzle: %v", failed, err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err = puzzle.Compute(ctx, 1)
		if !errors.Is(err, pow.ErrSearchAborted) {
			t.Fatalf("\t%s\tShould abort when the context times out, got %v.", failed, err)
		}
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("\t%s\tShould carry the context error, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould abort when the context times out.", success)

		capped, err := pow.New(pow.MaxDifficulty, 1_000)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct a capped puzzle: %v", failed, err)
		}

		var events int
		capped.WithEvHandler(func(v string, args ...any) { events++ })

		if _, err := capped.Compute(context.Background(), 1); !errors.Is(err, pow.ErrSearchAborted) {
			t.Fatalf("\t%s\tShould abort when the attempt cap is reached, got %v.", failed, err)
		}
		t.Logf("\t%s\tShould abort when the attempt cap is reached.", success)

		if events == 0 {
			t.Fatalf("\t%s\tShould report search events.", failed)
		}
		t.Logf("\t%s\tShould report search events.", success)
	}
}

func Test_InvalidDifficulty(t *testing.T) {
	if _, err := pow.New(pow.MaxDifficulty+1, 0); !errors.Is(err, pow.ErrInvalidDifficulty) {
		t.Fatalf("\t%s\tShould reject a difficulty a digest can't satisfy, got %v.", failed, err)
	}
	t.Logf("\t%s\tShould reject a difficulty a digest can't satisfy.", success)
}
