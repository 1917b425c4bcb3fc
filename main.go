package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"Framecheck/internal/auth"
	"Framecheck/internal/calc/autodesign"
	"Framecheck/internal/calc/batch"
	"Framecheck/internal/calc/cfss"
	"Framecheck/internal/calc/cfss/catalog"
	"Framecheck/internal/calc/importer"
	"Framecheck/internal/calc/report"
	"Framecheck/internal/config"
	"Framecheck/internal/history"
	"Framecheck/internal/logging"
	"Framecheck/internal/repo"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var wg sync.WaitGroup

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type app struct {
	cfg     config.Config
	logger  *zap.Logger
	catalog *catalog.Catalog
	store   *repo.PostgresRepository
}

func HandleList(router *mux.Router, a app) {
	authSvc := auth.NewService(a.cfg.TokenKey, a.store, a.logger)
	limiter := auth.NewIPRateLimiter(rate.Limit(a.cfg.RateLimitRPS), a.cfg.RateLimitBurst)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(limiter.Middleware)

	api.HandleFunc("/login", authSvc.Login).Methods("POST")
	api.HandleFunc("/register", authSvc.Register).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authSvc.Middleware)

	cfssH := &cfss.Handler{Catalog: a.catalog, Store: a.store, Logger: a.logger}
	autoH := &autodesign.Handler{Catalog: a.catalog, Logger: a.logger}
	batchH := &batch.Handler{Tables: a.catalog, Workers: a.cfg.BatchWorkers, Logger: a.logger}
	importH := &importer.Handler{Tables: a.catalog, Workers: a.cfg.BatchWorkers, Logger: a.logger}
	reportH := &report.Handler{Tables: a.catalog, Logger: a.logger}
	historyH := &history.Handler{Store: a.store, Logger: a.logger}

	secureApi.HandleFunc("/tools/cfss/calc", cfssH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/cfss/studs", cfssH.Studs).Methods("GET")
	secureApi.HandleFunc("/tools/cfss/autodesign", autoH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/cfss/batch", batchH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/cfss/import", importH.Import).Methods("POST")
	secureApi.HandleFunc("/tools/cfss/report/pdf", reportH.Generate).Methods("POST")

	secureApi.HandleFunc("/calculations", historyH.List).Methods("GET")
	secureApi.HandleFunc("/calculations/{id}", historyH.Get).Methods("GET")

	authFileServer := http.FileServer(http.Dir("./static/auth"))
	router.PathPrefix("/auth/").
		Handler(authSvc.RedirectIfLoggedIn(http.StripPrefix("/auth", authFileServer)))
	toolsFileServer := http.FileServer(http.Dir("./static/tools"))
	router.PathPrefix("/tools/").
		Handler(authSvc.Middleware(http.StripPrefix("/tools", toolsFileServer)))
	mainFileServer := http.FileServer(http.Dir("./static/main"))
	router.PathPrefix("/").
		Handler(mainFileServer)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := cfg.RequireToken(); err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		logger.Fatal("load catalog", zap.String("path", cfg.CatalogPath), zap.Error(err))
	}
	logger.Info("catalog loaded",
		zap.String("version", cat.Version()),
		zap.Int("studs", len(cat.Designations())))

	db, err := auth.OpenDB(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer db.Close()
	store := repo.NewPostgres(db)
	if err := store.Migrate(ctx); err != nil {
		logger.Fatal("database", zap.Error(err))
	}

	router := mux.NewRouter()
	HandleList(router, app{cfg: cfg, logger: logger, catalog: cat, store: store})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           CORS(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", zap.String("addr", cfg.Addr), zap.Bool("tls", cfg.TLSCert != ""))
		var err error
		if cfg.TLSCert != "" {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	wg.Wait()
	logger.Info("server stopped")
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}
