// Package walletgrp maintains the group of handlers for key and address
// derivation.
package walletgrp

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/ardanlabs/blocker/business/sys/validate"
	"github.com/ardanlabs/blocker/business/web/errs"
	"github.com/ardanlabs/blocker/foundation/blockchain/wallet"
	"github.com/ardanlabs/blocker/foundation/nameservice"
	"github.com/ardanlabs/blocker/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of wallet endpoints.
type Handlers struct {
	Log *zap.SugaredLogger
	NS  *nameservice.NameService
}

// Create generates a new key pair and returns it with its address.
func (h Handlers) Create(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	wal, err := wallet.New()
	if err != nil {
		return fmt.Errorf("generating wallet: %w", err)
	}

	info := wal.Info()
	h.Log.Infow("wallet create", "traceid", web.GetTraceID(ctx), "address", info.Address)

	return web.Respond(ctx, w, info, http.StatusCreated)
}

// Address derives the address for a hex encoded uncompressed public key.
func (h Handlers) Address(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var pk publicKey
	if err := web.Decode(r, &pk); err != nil {
		return errs.BadRequest(err)
	}

	pk.PublicKey = strings.TrimPrefix(pk.PublicKey, "0x")

	if err := validate.Check(pk); err != nil {
		return err
	}

	key, err := hex.DecodeString(pk.PublicKey)
	if err != nil {
		return errs.BadRequest(fmt.Errorf("decoding public key: %w", err))
	}

	addr, err := wallet.EncodeAddress(key)
	if err != nil {
		return errs.Translate(err, errs.Mapping{Err: wallet.ErrInvalidPublicKey, Status: http.StatusBadRequest})
	}

	return web.Respond(ctx, w, address{Address: addr}, http.StatusOK)
}

// DecodeAddress verifies the checksum of an address and returns its parts.
func (h Handlers) DecodeAddress(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	addr := web.Param(r, "address")

	version, hash, err := wallet.DecodeAddress(addr)
	if err != nil {
		return errs.Translate(err, errs.Mapping{Err: wallet.ErrInvalidAddress, Status: http.StatusBadRequest})
	}

	resp := decodedAddress{
		Address:    addr,
		Version:    version,
		PubKeyHash: hex.EncodeToString(hash),
	}

	if h.NS != nil {
		if name := h.NS.Lookup(addr); name != addr {
			resp.Name = name
		}
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
