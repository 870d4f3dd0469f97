package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"stocksearch/internal/cache"
	"stocksearch/internal/config"
	"stocksearch/internal/fetcher"
	"stocksearch/internal/recorder"
	"stocksearch/internal/resolver"
	"stocksearch/internal/server"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] stocksearch starting...")

	// Optional .env for local development; missing file is fine.
	_ = godotenv.Load()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init cache: Redis when configured and reachable, in-memory otherwise.
	var store cache.Cache
	var mem *cache.Memory
	if cfg.Cache.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rc, err := cache.Connect(ctx, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		cancel()
		if err != nil {
			log.Printf("[WARN] redis connection failed, using in-memory cache: %v", err)
		} else {
			store = rc
			defer rc.Close()
		}
	}
	if store == nil {
		mem = cache.NewMemory()
		store = mem
	}
	log.Printf("[INFO] cache backend: %s", store.Name())

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init pipeline stages
	searcher := resolver.NewYahooSearcher(cfg.DataSource.SearchBaseURL, cfg.Proxy)
	res := resolver.NewResolver(searcher, store, cfg.ResolveTTL())

	yf := fetcher.NewYahooFetcher(cfg.DataSource.ChartBaseURL, cfg.DataSource.SummaryBaseURL, cfg.Proxy)
	quoter := fetcher.NewCachedQuoter(yf, store, cfg.QuoteTTL())
	log.Printf("[INFO] data source: %s", yf.Name())

	// Housekeeping cron: history retention, plus memory-cache sweeps.
	c := cron.New(cron.WithSeconds())
	retention := time.Duration(cfg.Database.RetentionDays) * 24 * time.Hour
	if _, err := c.AddFunc(cfg.Database.PruneCron, func() {
		n, err := rec.PruneBefore(time.Now().Add(-retention))
		if err != nil {
			log.Printf("[WARN] prune search history: %v", err)
			return
		}
		log.Printf("[INFO] pruned %d search history rows", n)
	}); err != nil {
		log.Fatalf("[FATAL] register prune task: %v", err)
	}
	if mem != nil {
		if _, err := c.AddFunc("0 */10 * * * *", func() {
			if n := mem.Sweep(); n > 0 {
				log.Printf("[INFO] swept %d expired cache entries", n)
			}
		}); err != nil {
			log.Fatalf("[FATAL] register cache sweep: %v", err)
		}
	}
	c.Start()
	defer c.Stop()

	// HTTP server
	srv := server.New(res, quoter, rec)
	httpSrv := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: srv.Handler(),
	}

	go func() {
		log.Printf("[INFO] listening on %s", cfg.Server.ListenAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Printf("[WARN] http shutdown: %v", err)
	}
	log.Println("[INFO] stocksearch stopped")
}
