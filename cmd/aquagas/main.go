package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/ougirez/aquagas/internal/api"
	"github.com/ougirez/aquagas/internal/pkg/constants"
	"github.com/ougirez/aquagas/internal/pkg/imagesource"
	"github.com/ougirez/aquagas/internal/pkg/logger"
	"github.com/ougirez/aquagas/internal/pkg/recognition"
	"github.com/ougirez/aquagas/internal/pkg/store"
	"github.com/ougirez/aquagas/internal/pkg/store/xpgx"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

const serviceName = "aquagas"

func main() {
	// Missing .env is fine in containers, config comes from the
	// environment there.
	_ = godotenv.Load()

	viper.SetDefault(constants.ViperKeyHTTPAddr, constants.DefaultHTTPAddr)
	viper.SetDefault(constants.ViperKeyGeminiBaseURL, constants.DefaultGeminiBaseURL)
	viper.SetDefault(constants.ViperKeyGeminiModel, constants.DefaultGeminiModel)
	viper.SetDefault(constants.ViperKeyRecognitionTimeout, time.Minute)
	viper.SetDefault(constants.ViperKeyImageFetchTimeout, 30*time.Second)
	viper.AutomaticEnv()

	if err := logger.Init(serviceName); err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	databaseURL := viper.GetString(constants.ViperKeyDatabaseURL)
	if databaseURL == "" {
		logger.Fatal(ctx, "DATABASE_URL is required")
	}

	apiKey := viper.GetString(constants.ViperKeyGeminiAPIKey)
	if apiKey == "" {
		logger.Fatal(ctx, "GEMINI_API_KEY is required")
	}

	pool, err := xpgx.New(ctx, databaseURL)
	if err != nil {
		logger.Fatal(ctx, "connect to database: ", err)
	}
	defer pool.Close()
	logger.Infof(ctx, "connected to %s", xpgx.MaskPassword(databaseURL))

	st := store.NewStore(pool)
	if err = st.Bootstrap(ctx); err != nil {
		logger.Fatal(ctx, "bootstrap schema: ", err)
	}

	recognizer := recognition.NewClient(recognition.Config{
		APIKey:  apiKey,
		BaseURL: viper.GetString(constants.ViperKeyGeminiBaseURL),
		Model:   viper.GetString(constants.ViperKeyGeminiModel),
		Timeout: viper.GetDuration(constants.ViperKeyRecognitionTimeout),
	})
	fetcher := imagesource.NewFetcher(viper.GetDuration(constants.ViperKeyImageFetchTimeout))

	apiService, err := api.NewAPIService(st, recognizer, fetcher)
	if err != nil {
		logger.Fatal(ctx, "init api: ", err)
	}

	addr := viper.GetString(constants.ViperKeyHTTPAddr)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Infof(egCtx, "listening on %s", addr)
		apiService.Serve(addr)
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		return apiService.Shutdown(shutdownCtx)
	})

	if err = eg.Wait(); err != nil {
		logger.Error(ctx, "shutdown: ", err)
	}
	logger.Info(ctx, "stopped")
}
