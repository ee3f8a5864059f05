// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

/*
Tgcrm is a backend for a CRM that lives inside Telegram as a Mini App.

It receives Telegram webhook updates, replying with a button that opens the
CRM front-end, authenticates Mini App init data and serves the two
collections the front-end works with ("clients" and "tasks") from a
key-value store.

# Usage

	$ tgcrm [flags...]

# Configuration

Tgcrm is configured with environment variables:

	ADDR        network address to listen on (default "localhost:3000")
	TG_TOKEN    Telegram Bot API token
	TG_SECRET   optional secret for webhook requests; when set, Telegram
	            sends it back in the X-Telegram-Bot-Api-Secret-Token header
	            and updates without it are rejected
	WEBAPP_URL  URL of the front-end, opened by the keyboard button
	JWT_SECRET  reserved; auth currently issues a static placeholder token
	HOST        host used to register the webhook in production mode
	STORE       key-value store backend: "mem" (default), "file:<path>",
	            "sqlite:<path>" or a "postgres://" URL

# HTTP API

	GET  /health            → {"ok":true}
	POST /bot               → Telegram webhook receiver; always {"ok":true}
	POST /api/auth/telegram → verifies {"initData": "..."}; 401 on failure
	GET  /api/crm/clients   → the "clients" collection, newest first
	POST /api/crm/clients   → appends a record, returns {"id": <number>}
	GET  /api/tasks         → the "tasks" collection, newest first
	POST /api/tasks         → appends a record, returns {"id": <number>}

Any other request, a known path with the wrong method included, gets a
plain-text 404 "Not found". OPTIONS on any path answers 200 with CORS
headers only.

Every response except the plain-text 404 carries CORS headers echoing the
requester's Origin, so the front-end can be served from anywhere.

Appends are read-modify-write over a whole collection blob without locking;
two concurrent appends to the same collection may lose one record. See the
collection package documentation.
*/
package main
