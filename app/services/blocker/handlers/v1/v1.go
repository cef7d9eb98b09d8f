// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"
	"time"

	"github.com/ardanlabs/blocker/app/services/blocker/handlers/v1/chaingrp"
	"github.com/ardanlabs/blocker/app/services/blocker/handlers/v1/walletgrp"
	"github.com/ardanlabs/blocker/foundation/blockchain/state"
	"github.com/ardanlabs/blocker/foundation/events"
	"github.com/ardanlabs/blocker/foundation/nameservice"
	"github.com/ardanlabs/blocker/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log         *zap.SugaredLogger
	State       *state.State
	Evts        *events.Events
	NS          *nameservice.NameService
	MineTimeout time.Duration
}

// Routes binds all the version 1 routes.
func Routes(app *web.App, cfg Config) {
	cgh := chaingrp.Handlers{
		Log:         cfg.Log,
		State:       cfg.State,
		Evts:        cfg.Evts,
		WS:          websocket.Upgrader{},
		MineTimeout: cfg.MineTimeout,
	}

	app.Handle(http.MethodGet, version, "/status", cgh.Status)
	app.Handle(http.MethodPost, version, "/mine", cgh.Mine)
	app.Handle(http.MethodGet, version, "/chain", cgh.Chain)
	app.Handle(http.MethodGet, version, "/blocks/latest", cgh.LatestBlock)
	app.Handle(http.MethodGet, version, "/blocks/list/:from/:to", cgh.BlocksByNumber)
	app.Handle(http.MethodGet, version, "/validate", cgh.Validate)
	app.Handle(http.MethodPost, version, "/proof/verify", cgh.VerifyProof)
	app.Handle(http.MethodGet, version, "/events", cgh.Events)

	wgh := walletgrp.Handlers{
		Log: cfg.Log,
		NS:  cfg.NS,
	}

	app.Handle(http.MethodPost, version, "/wallet", wgh.Create)
	app.Handle(http.MethodPost, version, "/wallet/address", wgh.Address)
	app.Handle(http.MethodGet, version, "/wallet/address/:address", wgh.DecodeAddress)
}
