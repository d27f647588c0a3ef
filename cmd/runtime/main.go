package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hxuan190/vault-engine/internal/adapters/persistence"
	"github.com/hxuan190/vault-engine/internal/common"
	"github.com/hxuan190/vault-engine/internal/config"
	"github.com/hxuan190/vault-engine/internal/http"
	"github.com/hxuan190/vault-engine/internal/services/ledger"
	"github.com/hxuan190/vault-engine/internal/services/pricing"
)

// @title Vault Engine API
// @version 1.0-beta
// @description Pricing, fee, and yield accounting engine for oracle-priced token vaults.
// @description
// @description ## - Features
// @description - **Oracle Pricing**: Conversions at Pyth feed prices with confidence handling
// @description - **Dynamic Fees**: Imbalance, utilization, and confidence components on every swap
// @description - **Staker Yield**: LP fees accrue pro-rata via a cumulative per-share accumulator
// @description - **Exit Fees**: Health-based withdrawal fees redistributed to remaining stakers
// @description - **Slippage Protection**: minimumOut threshold on swap execution
// @description
// @description ## - Usage Tips
// @description - Use smallest token units (base units) on all amount fields
// @description - A 9-decimal token: 1 whole token = 1,000,000,000 base units
// @description - Price updates are base64 borsh payloads from the vault's configured feed
// @description
// @description ## - API Status
// @description - **Version**: 1.0-beta
// @description - **Rate Limit**: 10 requests/second (burst: 20)
// @BasePath /
// @schemes https http
// @tag.name quote
// @tag.description Compute swap quotes with effective fee breakdown
// @tag.name swap
// @tag.description Execute oracle-priced swaps between vaults
// @tag.name vaults
// @tag.description Inspect and administer vaults

func main() {
	common.InitRuntime()

	// load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("no .env file loaded")
	}

	generalConf := &config.GeneralConfig{}
	engineConf := &config.EngineConfig{}
	storageConf := &config.StorageConfig{}
	for _, c := range []interface{ Load() error }{generalConf, engineConf, storageConf} {
		if err := c.Load(); err != nil {
			log.Error().Err(err).Msg("failed to load config")
			return
		}
	}

	setupLogging(generalConf)

	store, err := persistence.NewStorage(storageConf.DBPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to open storage")
		return
	}
	defer store.Close()

	ledgerSvc := ledger.NewService(store, pricing.Strategy(engineConf.PricingStrategy))
	httpSvc := http.NewHTTPService(generalConf, ledgerSvc)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSvc.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server failed")
		}
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Shutting down services...")
		if err := httpSvc.Stop(); err != nil {
			log.Error().Err(err).Msg("error during shutdown")
		}
	}
	log.Info().Msg("Shutdown complete")
}

func setupLogging(conf *config.GeneralConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(conf.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if conf.Env == config.DevEnv {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
