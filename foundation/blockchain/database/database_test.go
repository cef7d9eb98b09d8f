package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ardanlabs/blocker/foundation/blockchain/database"
	"github.com/ardanlabs/blocker/foundation/blockchain/genesis"
	"github.com/ardanlabs/blocker/foundation/blockchain/pow"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func mine(t *testing.T, ledger *database.Ledger, puzzle *pow.Puzzle) database.Block {
	t.Helper()

	last, err := ledger.LastBlock()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to get the last block: %v", failed, err)
	}

	proof, err := puzzle.Compute(context.Background(), last.Proof)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to compute a proof: %v", failed, err)
	}

	block, err := ledger.CreateBlock(proof, last.Hash())
	if err != nil {
		t.Fatalf("\t%s\tShould be able to create a block: %v", failed, err)
	}

	return block
}

func Test_Genesis(t *testing.T) {
	t.Log("Given the need to construct a new ledger.")
	{
		ledger := database.New(genesis.Default())

		if l := ledger.Length(); l != 1 {
			t.Fatalf("\t%s\tShould have exactly one block, got %d.", failed, l)
		}
		t.Logf("\t%s\tShould have exactly one block.", success)

		block, err := ledger.LastBlock()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to get the last block: %v", failed, err)
		}

		if block.Index != 1 || block.Proof != 1 || block.PrevHash != "1" {
			t.Fatalf("\t%s\tShould have the fixed genesis values, got %+v.", failed, block)
		}
		t.Logf("\t%s\tShould have the fixed genesis values.", success)

		if block.TimeStamp == 0 {
			t.Fatalf("\t%s\tShould stamp the genesis block with the creation time.", failed)
		}
		t.Logf("\t%s\tShould stamp the genesis block with the creation time.", success)
	}
}

func Test_EmptyLedger(t *testing.T) {
	var ledger database.Ledger

	if _, err := ledger.LastBlock(); !errors.Is(err, database.ErrEmptyLedger) {
		t.Fatalf("\t%s\tShould get an empty ledger error for the last block, got %v.", failed, err)
	}
	t.Logf("\t%s\tShould get an empty ledger error for the last block.", success)

	if _, err := ledger.CreateBlock(1, "1"); !errors.Is(err, database.ErrEmptyLedger) {
		t.Fatalf("\t%s\tShould get an empty ledger error creating a block, got %v.", failed, err)
	}
	t.Logf("\t%s\tShould get an empty ledger error creating a block.", success)
}

func Test_CreateBlocks(t *testing.T) {
	const n = 5

	t.Log("Given the need to grow the ledger.")
	{
		puzzle, err := pow.New(2, 0)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct a puzzle: %v", failed, err)
		}

		ledger := database.New(genesis.Default())
		for i := 0; i < n; i++ {
			mine(t, ledger, puzzle)
		}

		blocks := ledger.Copy()
		if len(blocks) != n+1 {
			t.Fatalf("\t%s\tShould have %d blocks, got %d.", failed, n+1, len(blocks))
		}
		t.Logf("\t%s\tShould have %d blocks.", success, n+1)

		for i, block := range blocks {
			if block.Index != uint64(i+1) {
				t.Fatalf("\t%s\tShould have index %d at position %d, got %d.", failed, i+1, i, block.Index)
			}
			if i > 0 && block.TimeStamp < blocks[i-1].TimeStamp {
				t.Fatalf("\t%s\tShould have non-decreasing timestamps at position %d.", failed, i)
			}
		}
		t.Logf("\t%s\tShould have strictly increasing indices.", success)

		if !database.ChainValid(blocks, puzzle) {
			t.Fatalf("\t%s\tShould have a valid chain: %v", failed, database.ValidateChain(blocks, puzzle, nil))
		}
		t.Logf("\t%s\tShould have a valid chain.", success)

		if err := ledger.Validate(puzzle, nil); err != nil {
			t.Fatalf("\t%s\tShould validate the ledger snapshot: %v", failed, err)
		}
		t.Logf("\t%s\tShould validate the ledger snapshot.", success)
	}
}

func Test_Corruption(t *testing.T) {
	type table struct {
		name   string
		mutate func(blocks []database.Block)
	}

	tt := []table{
		{name: "proof", mutate: func(b []database.Block) { b[1].Proof++ }},
		{name: "timestamp", mutate: func(b []database.Block) { b[1].TimeStamp++ }},
		{name: "index", mutate: func(b []database.Block) { b[1].Index = 7 }},
		{name: "prevhash", mutate: func(b []database.Block) { b[2].PrevHash = "deadbeef" }},
		{name: "genesis", mutate: func(b []database.Block) { b[0].PrevHash = "2" }},
		{name: "lastindex", mutate: func(b []database.Block) { b[len(b)-1].Index++ }},
	}

	puzzle, err := pow.New(2, 0)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct a puzzle: %v", failed, err)
	}

	ledger := database.New(genesis.Default())
	for i := 0; i < 3; i++ {
		mine(t, ledger, puzzle)
	}

	t.Log("Given the need to detect a corrupted chain.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen corrupting the %s.", testID, tst.name)
			{
				f := func(t *testing.T) {
					blocks := ledger.Copy()
					tst.mutate(blocks)

					err := database.ValidateChain(blocks, puzzle, nil)
					if !errors.Is(err, database.ErrInvalidChain) {
						t.Fatalf("\t%s\tTest %d:\tShould detect the corruption, got %v.", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould detect the corruption: %v", success, testID, err)

					if err := ledger.Validate(puzzle, nil); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould not corrupt the ledger through a copy: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould not corrupt the ledger through a copy.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_Scenario(t *testing.T) {
	t.Log("Given a ledger with difficulty 4 and the default genesis.")
	{
		puzzle, err := pow.New(4, 0)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct a puzzle: %v", failed, err)
		}

		ledger := database.New(genesis.Default())
		gen, err := ledger.LastBlock()
		if err != nil {
			t.Fatalf("\t%s\tShould be able to get the genesis block: %v", failed, err)
		}

		p1, err := puzzle.Compute(context.Background(), 1)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to compute a proof: %v", failed, err)
		}

		block2, err := ledger.CreateBlock(p1, gen.Hash())
		if err != nil {
			t.Fatalf("\t%s\tShould be able to create a block: %v", failed, err)
		}

		if block2.Index != 2 || block2.Proof != p1 {
			t.Fatalf("\t%s\tShould create block 2 with proof %d, got %+v.", failed, p1, block2)
		}
		t.Logf("\t%s\tShould create block 2 with proof %d.", success, p1)

		if !database.ChainValid([]database.Block{gen, block2}, puzzle) {
			t.Fatalf("\t%s\tShould have a valid chain.", failed)
		}
		t.Logf("\t%s\tShould have a valid chain.", success)

		forged := database.Block{Index: 2, TimeStamp: block2.TimeStamp, Proof: p1, PrevHash: "deadbeef"}
		if database.ChainValid([]database.Block{gen, forged}, puzzle) {
			t.Fatalf("\t%s\tShould reject a block with the wrong previous hash.", failed)
		}
		t.Logf("\t%s\tShould reject a block with the wrong previous hash.", success)
	}
}

func Test_QueryBlocksByNumber(t *testing.T) {
	puzzle, err := pow.New(1, 0)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct a puzzle: %v", failed, err)
	}

	ledger := database.New(genesis.Default())
	for i := 0; i < 4; i++ {
		mine(t, ledger, puzzle)
	}

	type table struct {
		name     string
		from     uint64
		to       uint64
		expFirst uint64
		expLen   int
	}

	tt := []table{
		{name: "all", from: 1, to: database.QueryLatest, expFirst: 1, expLen: 5},
		{name: "middle", from: 2, to: 3, expFirst: 2, expLen: 2},
		{name: "latest", from: database.QueryLatest, to: database.QueryLatest, expFirst: 5, expLen: 1},
		{name: "past", from: 9, to: 12, expLen: 0},
		{name: "zero", from: 0, to: 1, expFirst: 1, expLen: 1},
	}

	for testID, tst := range tt {
		blocks := ledger.QueryBlocksByNumber(tst.from, tst.to)
		if len(blocks) != tst.expLen {
			t.Fatalf("\t%s\tTest %d:\tShould get %d blocks, got %d.", failed, testID, tst.expLen, len(blocks))
		}
		if tst.expLen > 0 && blocks[0].Index != tst.expFirst {
			t.Fatalf("\t%s\tTest %d:\tShould start at block %d, got %d.", failed, testID, tst.expFirst, blocks[0].Index)
		}
		t.Logf("\t%s\tTest %d:\tShould query the %s range.", success, testID, tst.name)
	}
}
