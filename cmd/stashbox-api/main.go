// @title         Stashbox API
// @version       0.1.0
// @description   Owner scoped filter rules, url matching, groups and tags

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"stashbox/internal/modkit/httpkit"
	"stashbox/internal/modkit/repokit"
	"stashbox/internal/platform/config"
	"stashbox/internal/platform/logger"
	phttp "stashbox/internal/platform/net/http"
	"stashbox/internal/platform/store"
	"stashbox/internal/platform/store/schema"

	"stashbox/internal/services/api"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := config.New()
	apiCfg := root.Prefix("STASHBOX_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	l := logger.Get()

	chOn := chCfg.MayBool("ENABLED", false)
	chURL := ""
	if chOn {
		chURL = chCfg.MustString("DBURL")
	}

	st, err := store.Open(
		ctx,
		store.Config{
			AppName: "stashbox-api",
			PG: store.PGConfig{
				Enabled:  true,
				URL:      pgCfg.MustString("DBURL"),
				MaxConns: int32(pgCfg.MayInt("MAX_CONNS", 8)),
				Slow:     time.Duration(pgCfg.MayInt("SLOW_MS", 500)) * time.Millisecond,
				LogSQL:   pgCfg.MayBool("LOG_SQL", false),
			},
			CH: store.CHConfig{Enabled: chOn, URL: chURL},
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st)

	if err := schema.ApplyPG(ctx, st.PG); err != nil {
		l.Panic().Err(err).Msg("postgres schema")
	}
	if st.CH != nil {
		if err := schema.ApplyCH(ctx, st.CH); err != nil {
			l.Panic().Err(err).Msg("clickhouse schema")
		}
	}

	// dev auth also provisions unknown owners; otherwise an upstream gateway must
	// forward the external id as the bearer token
	auth, devAuth := httpkit.PortFromConfig(apiCfg)

	srv := phttp.NewServer(root.Prefix("STASHBOX_"))
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
			Auth:           auth,
			AutoProvision:  devAuth,
		},
	)

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			l.Error().Err(err).Msg("http shutdown")
		}
	}()

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
	l.Info().Msg("bye")
}
