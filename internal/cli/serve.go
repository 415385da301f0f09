package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crystal/internal/server"
	"github.com/matzehuels/crystal/pkg/session"
)

// serveOpts holds the flags of the serve command. Zero values fall back
// to the [server] and [sessions] config tables.
type serveOpts struct {
	addr     string
	ttl      time.Duration
	sessions string
	noCache  bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the solver over HTTP.

POST /v1/solve solves a scene once. /v1/sessions keeps a scene with its
window and scroll state so clients can scroll and resize without resending
it. Frames and artifacts share the configured cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default "+server.DefaultAddr+")")
	cmd.Flags().DurationVar(&opts.ttl, "session-ttl", 0, "idle session lifetime (default 30m)")
	cmd.Flags().StringVar(&opts.sessions, "sessions", "", "session store: memory, file, redis")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg := c.Config
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.ttl != 0 {
		cfg.Server.SessionTTL.Duration = opts.ttl
	}
	if opts.sessions != "" {
		cfg.Sessions.Backend = opts.sessions
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	store, err := openSessionStore(ctx, cfg.Sessions)
	if err != nil {
		runner.Close()
		return err
	}

	srv := server.New(runner, store,
		server.WithLogger(c.Logger),
		server.WithSessionTTL(cfg.Server.SessionTTL.Duration),
		server.WithMaxBodyBytes(cfg.Server.MaxBody),
	)
	defer srv.Close()

	printSuccess("Serving %s", StyleHighlight.Render("http://"+cfg.Server.Addr))
	printKeyValue("cache", backendName(cfg.Cache.Backend, opts.noCache))
	printKeyValue("sessions", cfg.Sessions.Backend)
	printKeyValue("session ttl", cfg.Server.SessionTTL.String())
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

// openSessionStore builds the session store named by cfg.Backend.
func openSessionStore(ctx context.Context, cfg SessionsConfig) (session.Store, error) {
	switch cfg.Backend {
	case "", sessionsMemory:
		return session.NewMemoryStore(), nil
	case sessionsFile:
		store, err := session.NewFileStore(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return store, nil
	case sessionsRedis:
		store, err := session.NewRedisStore(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}

func backendName(backend string, noCache bool) string {
	switch {
	case noCache:
		return "none"
	case backend == "":
		return "file"
	default:
		return backend
	}
}
