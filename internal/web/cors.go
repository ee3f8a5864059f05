// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package web

import "net/http"

// CORSHeaders computes response headers permitting browser-based cross-origin
// calls from the given origin. An empty origin falls back to the wildcard.
//
// The same header set is applied uniformly; there is no per-route variation.
func CORSHeaders(origin string) http.Header {
	if origin == "" {
		origin = "*"
	}
	h := make(http.Header)
	h.Set("Access-Control-Allow-Origin", origin)
	h.Set("Access-Control-Allow-Credentials", "true")
	h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	h.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
	return h
}

// SetCORS applies [CORSHeaders] for the requester's Origin header to the
// response.
func SetCORS(w http.ResponseWriter, r *http.Request) {
	for k, v := range CORSHeaders(r.Header.Get("Origin")) {
		w.Header()[k] = v
	}
}

// CORS is a middleware that applies [CORSHeaders] to every response produced
// by next.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetCORS(w, r)
		next.ServeHTTP(w, r)
	})
}
