// Package chaingrp maintains the group of handlers for the ledger.
package chaingrp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ardanlabs/blocker/business/sys/metrics"
	"github.com/ardanlabs/blocker/business/sys/validate"
	"github.com/ardanlabs/blocker/business/web/errs"
	"github.com/ardanlabs/blocker/foundation/blockchain/database"
	"github.com/ardanlabs/blocker/foundation/blockchain/pow"
	"github.com/ardanlabs/blocker/foundation/blockchain/state"
	"github.com/ardanlabs/blocker/foundation/events"
	"github.com/ardanlabs/blocker/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log         *zap.SugaredLogger
	State       *state.State
	Evts        *events.Events
	WS          websocket.Upgrader
	MineTimeout time.Duration
}

// Status reports the service is up along with the chain parameters.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := status{
		Status:     "ok",
		Difficulty: h.State.RetrieveDifficulty(),
		Length:     len(h.State.RetrieveChain()),
		Genesis:    h.State.RetrieveGenesis(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mine computes the proof for the next block and appends it to the chain.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// The search is also cancelled if the client goes away.
	mineCtx := ctx
	if h.MineTimeout > 0 {
		var cancel context.CancelFunc
		mineCtx, cancel = context.WithTimeout(ctx, h.MineTimeout)
		defer cancel()
	}

	block, err := h.State.MineNewBlock(mineCtx)
	if err != nil {
		return errs.Translate(fmt.Errorf("mining block: %w", err),
			errs.Mapping{Err: pow.ErrSearchAborted, Status: http.StatusServiceUnavailable},
			errs.Mapping{Err: pow.ErrProofExhausted, Status: http.StatusServiceUnavailable},
		)
	}
	metrics.AddBlocks(ctx)

	h.Log.Infow("mine", "traceid", v.TraceID, "index", block.Index, "proof", block.Proof, "previous_hash", block.PrevHash)

	resp := minedBlock{
		Message: "A block is MINED",
		Block:   block,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Chain returns every block in the chain and the length of the chain.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks := h.State.RetrieveChain()

	resp := chain{
		Chain:  blocks,
		Length: len(blocks),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// LatestBlock returns the last block in the chain.
func (h Handlers) LatestBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	block, err := h.State.RetrieveLatestBlock()
	if err != nil {
		return fmt.Errorf("retrieving latest block: %w", err)
	}

	return web.Respond(ctx, w, block, http.StatusOK)
}

// BlocksByNumber returns all the blocks based on the specified to/from values.
func (h Handlers) BlocksByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	from, err := blockNumber(web.Param(r, "from"))
	if err != nil {
		return errs.BadRequest(err)
	}

	to, err := blockNumber(web.Param(r, "to"))
	if err != nil {
		return errs.BadRequest(err)
	}

	if from > to {
		return errs.BadRequest(errors.New("from greater than to"))
	}

	blocks := h.State.QueryBlocksByNumber(from, to)
	if len(blocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// Validate walks the chain checking every block against its parent.
func (h Handlers) Validate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := validation{
		Valid:   true,
		Message: "The Blockchain is valid.",
	}

	if err := h.State.ValidateChain(); err != nil {
		resp = validation{
			Message: "The Blockchain is not valid.",
			Reason:  err.Error(),
		}
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// VerifyProof checks a proof against a previous proof.
func (h Handlers) VerifyProof(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var pc proofCheck
	if err := web.Decode(r, &pc); err != nil {
		return errs.BadRequest(err)
	}

	if err := validate.Check(pc); err != nil {
		return err
	}

	prev, proof := *pc.PreviousProof, *pc.Proof

	resp := proofResult{
		Valid:  h.State.VerifyProof(prev, proof),
		Digest: pow.Digest(prev, proof),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Need this to handle CORS on the websocket.
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	// This upgrades the HTTP connection to a websocket connection.
	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// This provides a channel for receiving events from the blockchain.
	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	// Starting a ticker to send a ping message over the websocket.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	// Block waiting for events from the blockchain or ticker.
	for {
		select {
		case msg, wd := <-ch:

			// If the channel is closed, release the websocket.
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// =============================================================================

// blockNumber converts a path value into a block number. An empty value or
// the word latest represents the latest block.
func blockNumber(s string) (uint64, error) {
	if s == "" || s == "latest" {
		return database.QueryLatest, nil
	}

	num, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid block number %q", s)
	}

	return num, nil
}
