// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.astrophena.name/tgcrm/internal/cli"
	"go.astrophena.name/tgcrm/internal/collection"
	"go.astrophena.name/tgcrm/internal/logger"
	"go.astrophena.name/tgcrm/internal/store"
	"go.astrophena.name/tgcrm/internal/telegram"
	"go.astrophena.name/tgcrm/internal/web"

	envparse "github.com/caarlos0/env/v11"
)

func main() { cli.Main(new(engine)) }

// config is the environment-provided configuration. See doc.go for the
// meaning of each variable.
type config struct {
	Addr     string `env:"ADDR" envDefault:"localhost:3000"`
	TgToken  string `env:"TG_TOKEN"`
	TgSecret string `env:"TG_SECRET"`
	// WebAppURL is the front-end URL opened by the inline keyboard button.
	WebAppURL string `env:"WEBAPP_URL"`
	// JWTSecret is reserved. Authentication currently hands out a static
	// placeholder token, not a real credential; issuing signed tokens is a
	// product decision that hasn't been made yet.
	JWTSecret string `env:"JWT_SECRET"`
	Host      string `env:"HOST"`
	Store     string `env:"STORE" envDefault:"mem"`
}

type engine struct {
	initOnce sync.Once
	initErr  error

	// initialized by doInit
	coll     *collection.Accessor
	logf     logger.Logf
	mux      *http.ServeMux
	scrubber *strings.Replacer
	tg       *telegram.Client

	// configuration, read-only after initialization
	cfg   config
	debug bool
	httpc *http.Client
	kv    store.Store
	prod  bool

	// for tests
	noServerStart bool
	ready         func() // see web.ListenAndServeConfig.Ready
}

func (e *engine) Flags(fs *flag.FlagSet) {
	fs.BoolVar(&e.prod, "prod", false, "Run in production mode (registers the webhook in Telegram Bot API).")
	fs.BoolVar(&e.debug, "debug", false, "Expose runtime metrics at /debug/statsviz/.")
}

var errNoHost = errors.New("HOST isn't set; it is required in production mode to register the webhook")

func (e *engine) Run(ctx context.Context) error {
	env := cli.GetEnv(ctx)

	// Load configuration from environment variables.
	if err := envparse.ParseWithOptions(&e.cfg, envparse.Options{
		Environment: envparse.ToMap(env.Environ),
	}); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}

	e.logf = env.Logf

	// Initialize internal state.
	e.initOnce.Do(func() {
		e.initErr = e.doInit(ctx)
	})
	if e.initErr != nil {
		return e.initErr
	}

	// Used in tests.
	if e.noServerStart {
		return nil
	}

	// If running in production mode, set the webhook in Telegram Bot API.
	if e.prod {
		if err := e.setWebhook(ctx); err != nil {
			return err
		}
		e.logf("Running in production mode.")
	} else {
		e.logf("Running in development mode.")
	}

	defer e.kv.Close()

	return web.ListenAndServe(ctx, &web.ListenAndServeConfig{
		Addr:  e.cfg.Addr,
		Mux:   e.mux,
		Logf:  e.logf,
		Ready: e.ready,
	})
}

func (e *engine) doInit(ctx context.Context) error {
	if e.httpc == nil {
		e.httpc = &http.Client{Timeout: 10 * time.Second}
	}

	var scrubPairs []string
	for _, val := range []string{
		e.cfg.TgToken,
		e.cfg.TgSecret,
		e.cfg.JWTSecret,
	} {
		if val != "" {
			scrubPairs = append(scrubPairs, val, "[EXPUNGED]")
		}
	}
	if len(scrubPairs) > 0 {
		e.scrubber = strings.NewReplacer(scrubPairs...)
	}

	if e.kv == nil {
		kv, err := openStore(ctx, e.cfg.Store)
		if err != nil {
			return err
		}
		e.kv = kv
	}
	e.coll = collection.New(e.kv)

	e.tg = &telegram.Client{
		Token:      e.cfg.TgToken,
		HTTPClient: e.httpc,
		Scrubber:   e.scrubber,
	}

	e.initRoutes()

	return nil
}

// openStore picks a store backend based on the STORE environment variable.
func openStore(ctx context.Context, spec string) (store.Store, error) {
	switch {
	case spec == "" || spec == "mem":
		return store.NewMemStore(), nil
	case strings.HasPrefix(spec, "file:"):
		return store.NewJSONFile(strings.TrimPrefix(spec, "file:"))
	case strings.HasPrefix(spec, "sqlite:"):
		return store.NewSQLiteStore(ctx, strings.TrimPrefix(spec, "sqlite:"))
	case strings.HasPrefix(spec, "postgres://"):
		return store.NewPostgresStore(ctx, spec)
	}
	return nil, fmt.Errorf("unknown store backend %q", spec)
}

func (e *engine) setWebhook(ctx context.Context) error {
	if e.cfg.Host == "" {
		return errNoHost
	}
	u := &url.URL{
		Scheme: "https",
		Host:   e.cfg.Host,
		Path:   "/bot",
	}
	return e.tg.SetWebhook(ctx, u.String(), e.cfg.TgSecret)
}
