package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-rounds/internal/auth"
	"github.com/robalobadob/wordle-rounds/internal/config"
	"github.com/robalobadob/wordle-rounds/internal/daily"
	"github.com/robalobadob/wordle-rounds/internal/database"
	"github.com/robalobadob/wordle-rounds/internal/game"
	"github.com/robalobadob/wordle-rounds/internal/httpserver"
	"github.com/robalobadob/wordle-rounds/internal/metrics"
	"github.com/robalobadob/wordle-rounds/internal/store"
	"github.com/robalobadob/wordle-rounds/internal/users"
	"github.com/robalobadob/wordle-rounds/internal/words"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	corpus, err := words.FromPath(cfg.WordsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}
	log.Info().Int("words", corpus.Len()).Str("file", cfg.WordsFile).Msg("word list loaded")

	ctx := context.Background()
	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	var games store.GameStore = store.NewSQLStore(db)
	if cfg.Store == "memory" {
		log.Warn().Msg("STORE=memory: games are lost on restart and do not update player stats")
		games = store.NewMemoryStore()
	}

	opts := []game.Option{
		game.WithPolicy(cfg.Scoring),
		game.WithStrict(cfg.Strict),
		game.WithLogger(log.With().Str("component", "engine").Logger()),
	}
	if cfg.AnswerMode == "daily" {
		picker := daily.NewPicker(corpus, cfg.DailySalt, time.Now)
		opts = append(opts, game.WithAnswers(picker), game.WithSchedule(picker))
	}
	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New("wordle")
		opts = append(opts, game.WithObserver(m))
	}
	engine := game.NewEngine(corpus, games, opts...)

	srv := httpserver.New(httpserver.Deps{
		Engine:  engine,
		Games:   games,
		Users:   users.NewRepo(db),
		Corpus:  corpus,
		Metrics: m,
		Log:     log.Logger,
		Tokens: &auth.Tokens{
			Secret:     []byte(cfg.JWTSecret),
			TTL:        cfg.JWTTTL,
			CookieName: cfg.CookieName,
			Secure:     cfg.CookieSecure,
		},
		ClientOrigin:   cfg.ClientOrigin,
		RateLimit:      cfg.RateLimit,
		RequestTimeout: cfg.RequestTimeout,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()
	log.Info().
		Str("port", cfg.Port).
		Str("db", db.Dialect.Name()).
		Str("store", cfg.Store).
		Str("scoring", string(cfg.Scoring)).
		Str("answers", cfg.AnswerMode).
		Msg("starting wordle-rounds")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
		return
	}
	log.Info().Msg("server stopped")
}
