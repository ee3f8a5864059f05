// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go.astrophena.name/tgcrm/internal/collection"
	"go.astrophena.name/tgcrm/internal/telegram"
	"go.astrophena.name/tgcrm/internal/tgauth"
	"go.astrophena.name/tgcrm/internal/tgmarkup"
	"go.astrophena.name/tgcrm/internal/web"

	"github.com/arl/statsviz"
)

// collections maps API paths to the store keys they are backed by.
var collections = map[string]string{
	"/api/crm/clients": "clients",
	"/api/tasks":       "tasks",
}

func (e *engine) initRoutes() {
	e.mux = http.NewServeMux()

	// Patterns are path-only and methods are dispatched by hand: ServeMux
	// method patterns synthesize their own 405 for a known path with the
	// wrong method, while this API answers everything outside its surface,
	// wrong methods included, with the plain-text 404 fallback.
	e.mux.Handle("/health", e.methods(map[string]http.Handler{
		http.MethodGet: web.CORS(web.NewHealthHandler()),
	}))
	e.mux.Handle("/bot", e.methods(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(e.handleWebhook),
	}))
	e.mux.Handle("/api/auth/telegram", e.methods(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(e.handleAuth),
	}))

	for path, key := range collections {
		e.mux.Handle(path, e.methods(map[string]http.Handler{
			http.MethodGet:  e.listHandler(key),
			http.MethodPost: e.appendHandler(key),
		}))
	}

	e.mux.Handle("/", e.methods(nil))

	// Runtime metrics, development only.
	if e.debug {
		if err := statsviz.Register(e.mux); err != nil {
			e.logf("Failed to register statsviz: %v", err)
		}
	}
}

// methods dispatches on the request method: OPTIONS gets a bare CORS
// preflight response on any path, other methods without a handler fall
// through to the plain-text 404.
func (e *engine) methods(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			web.SetCORS(w, r)
			return
		}
		if h, ok := handlers[r.Method]; ok {
			h.ServeHTTP(w, r)
			return
		}
		e.handleNotFound(w, r)
	})
}

func (e *engine) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	io.WriteString(w, "Not found")
}

const (
	welcomeText = "**Welcome!** Tap the button below to open the CRM."
	promptText  = "Open the CRM to manage your clients and tasks."
)

func (e *engine) handleWebhook(w http.ResponseWriter, r *http.Request) {
	web.SetCORS(w, r)

	if e.cfg.TgSecret != "" && r.Header.Get("X-Telegram-Bot-Api-Secret-Token") != e.cfg.TgSecret {
		web.RespondJSONError(w, r, web.ErrNotFound)
		return
	}

	// A malformed update is treated as an empty one: the webhook reports
	// success to Telegram either way so it doesn't retry-storm.
	var upd telegram.Update
	if b, err := io.ReadAll(r.Body); err == nil {
		json.Unmarshal(b, &upd)
	}

	if msg := upd.Msg(); msg != nil && msg.Chat.ID != 0 {
		e.reply(r.Context(), msg)
	}

	web.RespondJSON(w, map[string]bool{"ok": true})
}

func (e *engine) reply(ctx context.Context, msg *telegram.Message) {
	text := promptText
	if msg.Text == "/start" {
		text = welcomeText
	}

	err := e.tg.SendMessage(ctx, telegram.SendMessageParams{
		ChatID:  msg.Chat.ID,
		Message: tgmarkup.FromMarkdown(text),
		ReplyMarkup: &telegram.InlineKeyboardMarkup{
			InlineKeyboard: [][]telegram.InlineKeyboardButton{{{
				Text:   "Open CRM",
				WebApp: &telegram.WebAppInfo{URL: e.cfg.WebAppURL},
			}}},
		},
	})
	// Send failures are swallowed on purpose; see the comment above.
	if err != nil {
		e.logf("webhook: sending reply to chat %d failed: %v", msg.Chat.ID, err)
	}
}

func (e *engine) handleAuth(w http.ResponseWriter, r *http.Request) {
	web.SetCORS(w, r)

	// A malformed body is treated as empty, which fails verification.
	var req struct {
		InitData string `json:"initData"`
	}
	if b, err := io.ReadAll(r.Body); err == nil {
		json.Unmarshal(b, &req)
	}

	if !tgauth.Verify(req.InitData, e.cfg.TgToken) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		web.RespondJSON(w, map[string]string{"error": "auth_failed"})
		return
	}

	// The token is a static placeholder, not a credential. JWT_SECRET is
	// reserved for when real tokens are issued.
	web.RespondJSON(w, map[string]any{"ok": true, "token": "demo-token"})
}

func (e *engine) listHandler(key string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		web.SetCORS(w, r)
		recs, err := e.coll.Read(r.Context(), key)
		if err != nil {
			web.RespondJSONError(w, r, err)
			return
		}
		web.RespondJSON(w, recs)
	})
}

func (e *engine) appendHandler(key string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		web.SetCORS(w, r)

		// Malformed JSON means an empty record; there is no field validation.
		fields := make(collection.Record)
		if b, err := io.ReadAll(r.Body); err == nil {
			json.Unmarshal(b, &fields)
		}

		rec, err := e.coll.Append(r.Context(), key, fields)
		if err != nil {
			web.RespondJSONError(w, r, err)
			return
		}
		web.RespondJSON(w, map[string]any{"id": rec["id"]})
	})
}
