// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package tgauth verifies Telegram Mini App init data.
//
// See https://core.telegram.org/bots/webapps#validating-data-received-via-the-mini-app
// for details.
package tgauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// Verify reports whether initData, the URL-encoded launch payload of a
// Telegram Mini App, was signed by the bot identified by token.
//
// The payload is parsed best-effort; the "hash" field is removed and the
// remaining fields, sorted by key, are joined into key=value lines. Telegram
// sends every field at most once, so if a key is repeated only its first
// value enters the canonical string. The expected signature is HMAC-SHA256 of
// that string, keyed with HMAC-SHA256("WebAppData", token), and compared with
// the "hash" value in constant time.
//
// Empty initData or a payload without a "hash" field fails closed.
func Verify(initData, token string) bool {
	if initData == "" {
		return false
	}

	// Malformed encoding shouldn't abort verification: use whatever parsed
	// and let the signature comparison fail.
	data, _ := url.ParseQuery(initData)

	hash := data.Get("hash")
	if hash == "" {
		return false
	}
	data.Del("hash")

	var keys []string
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		sb.WriteString(k + "=" + data.Get(k))
		// Don't append newline on last key.
		if i+1 != len(keys) {
			sb.WriteString("\n")
		}
	}
	checkString := sb.String()

	// The secret key is the bot token signed with the constant "WebAppData".
	sk := hmac.New(sha256.New, []byte("WebAppData"))
	sk.Write([]byte(token))
	secretKey := sk.Sum(nil)

	sig := hmac.New(sha256.New, secretKey)
	sig.Write([]byte(checkString))
	gotHash := hex.EncodeToString(sig.Sum(nil))

	return hmac.Equal([]byte(gotHash), []byte(hash))
}
