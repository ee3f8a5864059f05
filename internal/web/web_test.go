// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package web

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.astrophena.name/tgcrm/internal/cli"
	"go.astrophena.name/tgcrm/internal/testutil"
)

func TestRespondJSON(t *testing.T) {
	w := httptest.NewRecorder()
	RespondJSON(w, map[string]bool{"ok": true})

	testutil.AssertEqual(t, w.Header().Get("Content-Type"), "application/json")
	testutil.AssertEqual(t, w.Body.String(), `{"ok":true}`)
}

func TestRespondJSONMarshalError(t *testing.T) {
	w := httptest.NewRecorder()
	RespondJSON(w, make(chan int))

	testutil.AssertEqual(t, w.Code, http.StatusInternalServerError)
	if !strings.Contains(w.Body.String(), "JSON marshal error") {
		t.Errorf("want marshal error in body, got %q", w.Body.String())
	}
}

func TestRespondJSONError(t *testing.T) {
	cases := map[string]struct {
		err        error
		wantStatus int
		wantBody   string
		wantToLog  bool
	}{
		"401": {
			err:        ErrUnauthorized,
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"unauthorized"}`,
		},
		"404": {
			err:        ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"not found"}`,
		},
		"404 (wrapped)": {
			err:        fmt.Errorf("resource %w", ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"resource not found"}`,
		},
		"500": {
			err:        ErrInternalServerError,
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"internal server error"}`,
			wantToLog:  true,
		},
		"500 (not a StatusErr)": {
			err:        fmt.Errorf("database exploded"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"internal server error"}`,
			wantToLog:  true,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()

			var stderr bytes.Buffer
			ctx := cli.WithEnv(context.Background(), &cli.Env{Stderr: &stderr})
			r := httptest.NewRequestWithContext(ctx, http.MethodGet, "/", nil)

			RespondJSONError(w, r, tc.err)

			if tc.wantToLog && stderr.Len() == 0 {
				t.Fatalf("wanted to log a line, but didn't")
			}
			testutil.AssertEqual(t, w.Code, tc.wantStatus)
			testutil.AssertEqual(t, w.Body.String(), tc.wantBody)
		})
	}
}
