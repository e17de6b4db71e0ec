package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	cfg := loadConfig()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Error("db open", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(max(cfg.DBMaxOpenConns/2, 1))
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Error("db ping", "err", err)
		os.Exit(1)
	}

	store := NewStore(db)
	if err := store.Migrate(ctx); err != nil {
		log.Error("migrate", "err", err)
		os.Exit(1)
	}
	if cfg.AdminUsername != "" && cfg.AdminToken != "" {
		created, err := store.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminToken)
		if err != nil {
			log.Error("bootstrap admin", "err", err)
			os.Exit(1)
		}
		if created {
			log.Info("bootstrap admin created", "username", cfg.AdminUsername)
		}
	}

	mux := http.NewServeMux()
	if st, err := os.Stat(cfg.WebDir); err == nil && st.IsDir() {
		mux.Handle("GET /", http.FileServer(http.Dir(cfg.WebDir)))
	} else {
		log.Info("static files disabled", "web_dir", cfg.WebDir)
	}

	api := newAPI(store, cfg, log)
	api.routes(mux)

	srv := &http.Server{Addr: cfg.Addr, Handler: withLogging(log, withCORS(cfg.CORSOrigins, mux)),
		ReadTimeout: 15 * time.Second, ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout: 120 * time.Second}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go api.housekeeping(runCtx, time.Hour)

	go func() {
		log.Info("listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) && err != nil {
			log.Error("listen", "err", err)
			stop()
		}
	}()

	<-runCtx.Done()
	log.Info("shutting down")
	ctxSh, cancelSh := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelSh()
	if err := srv.Shutdown(ctxSh); err != nil {
		log.Error("shutdown", "err", err)
	}
}

// housekeeping purges expired sessions and rate limit buckets every interval.
func (a *api) housekeeping(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			a.sweepRateLimits(now)
			n, err := a.store.DeleteExpiredSessions(ctx)
			if err != nil {
				a.log.Warn("purge sessions", "err", err)
				continue
			}
			if n > 0 {
				a.log.Debug("purged sessions", "count", n)
			}
		}
	}
}
