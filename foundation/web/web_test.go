package web_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ardanlabs/blocker/foundation/web"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Handle(t *testing.T) {
	t.Log("Given the need to route requests through the app.")
	{
		var order []string
		mw := func(name string) web.Middleware {
			return func(handler web.Handler) web.Handler {
				return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
					order = append(order, name)
					return handler(ctx, w, r)
				}
			}
		}

		app := web.NewApp(make(chan os.Signal, 1), mw("app"))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if web.GetTraceID(ctx) == "" {
				return errors.New("missing trace id")
			}

			var body struct {
				Name string `json:"name"`
			}
			if err := web.Decode(r, &body); err != nil {
				return web.Respond(ctx, w, err.Error(), http.StatusBadRequest)
			}

			resp := struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			}{
				ID:   web.Param(r, "id"),
				Name: body.Name,
			}
			return web.Respond(ctx, w, resp, http.StatusOK)
		}
		app.Handle(http.MethodPost, "v1", "/users/:id", h, mw("route"))

		r := httptest.NewRequest(http.MethodPost, "/v1/users/42", strings.NewReader(`{"name":"bill"}`))
		w := httptest.NewRecorder()
		app.ServeHTTP(w, r)

		if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != `{"id":"42","name":"bill"}` {
			t.Fatalf("\t%s\tShould get back the path and body values, got %d %s.", failed, w.Code, w.Body.String())
		}
		t.Logf("\t%s\tShould get back the path and body values.", success)

		if len(order) != 2 || order[0] != "app" || order[1] != "route" {
			t.Fatalf("\t%s\tShould run app middleware before route middleware, got %v.", failed, order)
		}
		t.Logf("\t%s\tShould run app middleware before route middleware.", success)

		r = httptest.NewRequest(http.MethodPost, "/v1/users/42", strings.NewReader(`{"name":"bill","age":1}`))
		w = httptest.NewRecorder()
		app.ServeHTTP(w, r)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("\t%s\tShould reject unknown fields, got %d.", failed, w.Code)
		}
		t.Logf("\t%s\tShould reject unknown fields.", success)
	}
}

func Test_Shutdown(t *testing.T) {
	t.Log("Given the need to request a shutdown from a handler.")
	{
		shutdown := make(chan os.Signal, 1)
		app := web.NewApp(shutdown)

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			return web.NewShutdownError("integrity issue")
		}
		app.Handle(http.MethodGet, "", "/fail", h)

		app.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

		select {
		case <-shutdown:
			t.Logf("\t%s\tShould signal a shutdown.", success)
		default:
			t.Fatalf("\t%s\tShould signal a shutdown.", failed)
		}

		if !web.IsShutdown(errors.Join(errors.New("wrapped"), web.NewShutdownError("x"))) {
			t.Fatalf("\t%s\tShould find a wrapped shutdown error.", failed)
		}
		t.Logf("\t%s\tShould find a wrapped shutdown error.", success)
	}
}
