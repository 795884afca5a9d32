package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codemcq-service/internal/app"
	"codemcq-service/internal/bank"
	"codemcq-service/internal/config"
	"codemcq-service/internal/domain"
	"codemcq-service/internal/infra/fs"
	"codemcq-service/internal/infra/memory"
	pgloader "codemcq-service/internal/infra/postgres"
	infraredis "codemcq-service/internal/infra/redis"
	"codemcq-service/internal/infra/sqldb"
	"codemcq-service/internal/infra/sqldb/migrations"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// resources owns every connection opened for a command.
type resources struct {
	closers []func()
}

func (r *resources) add(fn func()) { r.closers = append(r.closers, fn) }

func (r *resources) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

type stores struct {
	attempts    app.AttemptStore
	submissions app.SubmissionStore
}

// openStores picks the attempt/submission persistence for storage.driver.
func openStores(ctx context.Context, cfg config.Config, res *resources) (stores, error) {
	switch cfg.Storage.Driver {
	case "", config.StorageMemory:
		log.Warn("using in-memory storage; attempts are lost on restart")
		return stores{attempts: memory.NewAttemptStore(), submissions: memory.NewSubmissionStore()}, nil
	case config.StorageSQLite, config.StoragePostgres:
		dsn := cfg.Postgres.URL
		if cfg.Storage.Driver == config.StorageSQLite {
			dsn = sqliteDSN(cfg.Storage.SQLitePath)
		}
		db, err := sqldb.Open(ctx, cfg.Storage.Driver, dsn)
		if err != nil {
			return stores{}, err
		}
		res.add(func() { _ = db.Close() })
		group, err := migrations.Run(ctx, db)
		if err != nil {
			return stores{}, err
		}
		if !group.IsZero() {
			log.WithField("group", group.String()).Info("migrations applied")
		}
		return stores{attempts: sqldb.NewAttemptStore(db), submissions: sqldb.NewSubmissionStore(db)}, nil
	default:
		return stores{}, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

func sqliteDSN(path string) string {
	if path == "" {
		return ""
	}
	return fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout(5000)", path)
}

// openRedis returns nil when no address is configured.
func openRedis(ctx context.Context, cfg config.Config, res *resources) (*redis.Client, error) {
	if cfg.Redis.Addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	res.add(func() { _ = client.Close() })
	return client, nil
}

// openQuizSource builds the raw quiz loader for quiz.source.
func openQuizSource(ctx context.Context, cfg config.Config, res *resources) (bank.QuizLoader, error) {
	switch cfg.Quiz.Source {
	case "", config.SourceFS:
		return fs.NewQuizLoader(cfg.Quiz.DataDir), nil
	case config.SourceMemory:
		return snapshotQuizzes(ctx, fs.NewQuizLoader(cfg.Quiz.DataDir)), nil
	case config.SourcePostgres:
		if cfg.Postgres.URL == "" {
			return nil, fmt.Errorf("postgres url not configured")
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		res.add(pool.Close)
		return pgloader.NewQuizLoader(pool), nil
	default:
		return nil, fmt.Errorf("unsupported quiz source %q", cfg.Quiz.Source)
	}
}

// snapshotQuizzes reads every known pair once. Unreadable documents are
// logged and left out.
func snapshotQuizzes(ctx context.Context, source bank.QuizLoader) *memory.StaticQuizLoader {
	var quizzes []domain.QuizDefinition
	for _, language := range domain.Languages {
		for _, level := range domain.Levels {
			quiz, err := source.LoadQuiz(ctx, language, level)
			if errors.Is(err, domain.ErrQuizNotFound) {
				continue
			}
			if err != nil {
				log.WithFields(log.Fields{"language": language, "level": level}).WithError(err).Warn("skipping quiz in snapshot")
				continue
			}
			quiz.Language, quiz.Level = language, level
			quizzes = append(quizzes, quiz)
		}
	}
	log.WithField("quizzes", len(quizzes)).Info("quiz snapshot loaded")
	return memory.NewStaticQuizLoader(quizzes...)
}

// challengeSource is the challenge loader for quiz.source plus its reload hook,
// nil when the list never changes.
func challengeSource(ctx context.Context, cfg config.Config) (app.ChallengeLoader, func(), error) {
	loader := fs.NewChallengeLoader(cfg.Quiz.DataDir)
	if cfg.Quiz.Source != config.SourceMemory {
		return loader, loader.Reload, nil
	}
	challenges, err := loader.LoadChallenges(ctx)
	if err != nil {
		return nil, nil, err
	}
	return memory.NewStaticChallengeLoader(challenges...), nil, nil
}

// quizStack is the question bank plus the shared Redis layer, if any.
type quizStack struct {
	bank      *bank.Bank
	redisTier *infraredis.QuizCache
}

func openQuizBank(ctx context.Context, cfg config.Config, client *redis.Client, res *resources) (quizStack, error) {
	source, err := openQuizSource(ctx, cfg, res)
	if err != nil {
		return quizStack{}, err
	}
	ttl := config.TTLDuration(cfg.Quiz.CacheTTL, 10*time.Minute)

	var loader bank.QuizLoader = source
	var tier *infraredis.QuizCache
	if client != nil {
		tier = infraredis.NewQuizCache(client, source, ttl)
		loader = tier
	}
	return quizStack{bank: bank.New(loader, ttl), redisTier: tier}, nil
}
