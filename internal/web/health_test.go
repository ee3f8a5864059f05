// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.astrophena.name/tgcrm/internal/testutil"
)

func TestHealthNoChecks(t *testing.T) {
	h := NewHealthHandler()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	testutil.AssertEqual(t, w.Code, http.StatusOK)
	testutil.AssertEqual(t, w.Body.String(), `{"ok":true}`)
}

func TestHealthFailingCheck(t *testing.T) {
	h := NewHealthHandler()
	h.RegisterFunc("store", func() (status string, ok bool) {
		return "connection refused", false
	})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	testutil.AssertEqual(t, w.Code, http.StatusInternalServerError)
	resp := testutil.UnmarshalJSON[HealthResponse](t, w.Body.Bytes())
	testutil.AssertEqual(t, resp.OK, false)
	testutil.AssertEqual(t, resp.Checks["store"].Status, "connection refused")
}

func TestHealthDuplicateCheckPanics(t *testing.T) {
	h := NewHealthHandler()
	h.RegisterFunc("store", func() (string, bool) { return "ok", true })

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate check registration")
		}
	}()
	h.RegisterFunc("store", func() (string, bool) { return "ok", true })
}
