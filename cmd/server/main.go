package main

import (
	"context"
	"flag"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/vendor-auth/auth/auth"
	"github.com/vendor-auth/auth/auth/directory"
	"github.com/vendor-auth/auth/auth/token/seal"
	"github.com/vendor-auth/auth/config"
)

func main() {
	var (
		configFile string
		addr       string
		debug      bool
	)

	flag.StringVar(&configFile, "config", "config.yaml", "Configuration file")
	flag.StringVar(&addr, "addr", "localhost:8080", "Address to listen on")
	flag.BoolVar(&debug, "debug", false, "Debug mode")

	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}

	if debug {
		logger, err = zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
	}

	rawConfig, err := os.ReadFile(configFile)
	if err != nil {
		logger.Sugar().Fatalf("Error reading config file %s: %v", configFile, err)
	}

	var cfg config.Config

	if err := yaml.Unmarshal(rawConfig, &cfg); err != nil {
		logger.Sugar().Fatalf("Error parsing config file %s: %v", configFile, err)
	}

	if err := cfg.Validate(); err != nil {
		logger.Sugar().Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()

	store, err := cfg.IdentityStore.Config.CreateIdentityStore(ctx)
	if err != nil {
		logger.Sugar().Fatalf("Error creating identity store: %v", err)
	}

	tokenIssuer, err := cfg.TokenIssuer.Config.CreateTokenIssuer()
	if err != nil {
		logger.Sugar().Fatalf("Error creating token issuer: %v", err)
	}

	cache := directory.NewLRUCache(cfg.Directory.CacheSize, cfg.Directory.CacheTTL)
	userDirectory := directory.NewCachedDirectory(store, cache, logger)

	service := auth.VendorServiceImpl{
		Directory: userDirectory,
		TokenIssuer: auth.SealedTokenIssuer{
			SignedTokenIssuer: tokenIssuer,
			Sealer:            seal.Sealer{},
		},
		Audit:  auth.ZapAuditLogger{Logger: logger.Named("audit")},
		Logger: logger,
	}

	server := auth.VendorServer{
		Service: service,
	}

	router := mux.NewRouter()
	router.Path("/token").Methods("POST").HandlerFunc(server.TokenHandler)
	router.Path("/details").Methods("GET").HandlerFunc(server.DetailsHandler)
	router.Path("/details").Methods("POST").HandlerFunc(server.SaveProfileHandler)

	logger.Sugar().Infof("Listening on %s", addr)

	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Sugar().Infof("Error serving: %v", err)
	}
}
