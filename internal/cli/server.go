package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codemcq-service/internal/app"
	"codemcq-service/internal/auth"
	"codemcq-service/internal/config"
	"codemcq-service/internal/infra/memory"
	infraredis "codemcq-service/internal/infra/redis"
	"codemcq-service/internal/randomize"
	"codemcq-service/internal/scheduler"
	transport "codemcq-service/internal/transport/http"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	res := &resources{}
	defer res.Close()

	st, err := openStores(ctx, cfg, res)
	if err != nil {
		return err
	}
	redisClient, err := openRedis(ctx, cfg, res)
	if err != nil {
		return err
	}
	quizzes, err := openQuizBank(ctx, cfg, redisClient, res)
	if err != nil {
		return err
	}

	var sets app.QuestionSetCache
	var sweeper scheduler.Sweeper
	if redisClient != nil {
		sets = infraredis.NewQuestionSetCache(redisClient)
	} else {
		memSets := memory.NewQuestionSetCache()
		sets, sweeper = memSets, memSets
	}

	randomizer := randomize.NewRandomizer(quizzes.bank, randomize.NewShuffler())
	attempts := app.NewAttemptService(st.attempts, sets, quizzes.bank, randomizer,
		config.TTLDuration(cfg.Quiz.SetTTL, app.DefaultQuestionSetTTL))
	challengeLoader, reloadChallenges, err := challengeSource(ctx, cfg)
	if err != nil {
		return err
	}

	router := transport.NewRouter(transport.Services{
		Attempts:   attempts,
		Dashboard:  app.NewDashboardService(st.attempts, quizzes.bank),
		Challenges: app.NewChallengeService(challengeLoader, st.submissions),
		Quizzes:    quizzes.bank,
	}, auth.NewVerifier(cfg.Auth.Secret), transport.RouterConfig{CORSOrigins: cfg.Server.CORSOrigins})

	var onRefresh []func()
	if reloadChallenges != nil {
		onRefresh = append(onRefresh, reloadChallenges)
	}
	if quizzes.redisTier != nil {
		tier := quizzes.redisTier
		onRefresh = append(onRefresh, func() {
			if err := tier.Invalidate(context.Background()); err != nil {
				log.WithError(err).Warn("invalidate redis quiz cache")
			}
		})
	}
	jobs := scheduler.New(sweeper, quizzes.bank, onRefresh...)
	if err := jobs.Start(time.Minute, config.TTLDuration(cfg.Quiz.CatalogRefresh, 5*time.Minute)); err != nil {
		return err
	}
	defer jobs.Stop()

	if catalog, err := quizzes.bank.ListCatalog(ctx); err != nil {
		log.WithError(err).Warn("catalog warm-up failed")
	} else {
		log.WithField("quizzes", len(catalog)).Info("catalog loaded")
	}

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	go func() {
		log.WithFields(log.Fields{
			"port":    finalPort,
			"storage": cfg.Storage.Driver,
			"source":  cfg.Quiz.Source,
			"redis":   redisClient != nil,
		}).Info("starting codemcq service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server...")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
