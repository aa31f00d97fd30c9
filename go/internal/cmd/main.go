package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/saleroom/saleroom/go/clients/marketapi"
	"github.com/saleroom/saleroom/go/internal/channel"
	"github.com/saleroom/saleroom/go/internal/session"
)

// saleroom-watch opens a headless viewing session for one lot and keeps
// it reconciled until interrupted. Useful for watching a room from a
// terminal and for exercising the full sync stack against a live backend.
func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	token := os.Getenv("SALEROOM_TOKEN")
	if token == "" {
		log.Info().Msg("no SALEROOM_TOKEN set, opening a read-only view")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	api := marketapi.NewClient(cfg.API.BaseURL, token)
	api.SetTimeout(cfg.APITimeout())
	channels := channel.NewManager(channel.NewManagerConfig(
		cfg.Stream.AuctionURL,
		cfg.Stream.ChatURL,
		token,
	))

	sessCfg := session.DefaultConfig()
	sessCfg.HeartbeatInterval = cfg.Heartbeat()

	sess := session.New(sessCfg, api, channels, channel.Credential{
		Token:       token,
		UserID:      getEnvAsInt64("SALEROOM_USER_ID", 0),
		DisplayName: cfg.Viewer.DisplayName,
	})

	scope := channel.Scope{AuctionID: cfg.Viewer.AuctionID, LotID: cfg.Viewer.LotID}
	if err := sess.Open(ctx, scope); err != nil {
		log.Fatal().Err(err).Msg("failed to open viewing session")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("shutting down")
	if err := sess.Close(); err != nil {
		log.Error().Err(err).Msg("session teardown failed")
	}
}
