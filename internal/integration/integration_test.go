package integration

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"codemcq-service/internal/app"
	"codemcq-service/internal/bank"
	"codemcq-service/internal/domain"
	pgloader "codemcq-service/internal/infra/postgres"
	infraredis "codemcq-service/internal/infra/redis"
	"codemcq-service/internal/infra/sqldb"
	"codemcq-service/internal/infra/sqldb/migrations"
	"codemcq-service/internal/randomize"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestAttemptLifecycleEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	db, err := sqldb.Open(ctx, sqldb.DriverPostgres, pgURL)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	if _, err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgloader.NewQuizLoader(pool)
	if err := loader.SaveQuiz(ctx, sampleQuiz()); err != nil {
		t.Fatalf("seed quiz: %v", err)
	}

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer redisClient.Close()

	quizzes := bank.New(infraredis.NewQuizCache(redisClient, loader, 5*time.Minute), 5*time.Minute)
	service := app.NewAttemptService(
		sqldb.NewAttemptStore(db),
		infraredis.NewQuestionSetCache(redisClient),
		quizzes,
		randomize.NewRandomizer(quizzes, nil),
		time.Hour,
	)

	attempt, err := service.Start(ctx, "u1", "python", "easy")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	canonical, err := quizzes.GetQuizByID(ctx, attempt.QuizID)
	if err != nil {
		t.Fatalf("canonical quiz: %v", err)
	}

	for pos := 0; pos < 4; pos++ {
		step, err := service.GetQuestion(ctx, attempt.ID, "u1", pos)
		if err != nil {
			t.Fatalf("question %d: %v", pos, err)
		}
		q, _ := canonical.Question(step.View.Question.ID)
		correct := q.CorrectOptionID()
		if _, err := service.SubmitAnswer(ctx, attempt.ID, "u1", q.ID, &correct); err != nil {
			t.Fatalf("submit %d: %v", pos, err)
		}
	}

	done, err := service.Finalize(ctx, attempt.ID, "u1")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if done.Score != 4 || done.TotalCorrect != 4 || done.TotalWrong != 0 || done.TotalUnanswered != 1 {
		t.Fatalf("unexpected tally: %+v", done)
	}

	_, hit, err := infraredis.NewQuestionSetCache(redisClient).Get(ctx, "u1", app.CacheKey(attempt.QuizID))
	if err != nil || hit {
		t.Fatalf("expected question set released, hit=%v err=%v", hit, err)
	}

	result, err := service.BuildResult(ctx, attempt.ID, "u1")
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if len(result.Items) != 5 {
		t.Fatalf("expected 5 review items, got %d", len(result.Items))
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "codemcq", "POSTGRES_PASSWORD": "codemcq", "POSTGRES_DB": "codemcq"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://codemcq:codemcq@%s:%s/codemcq?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func sampleQuiz() domain.QuizDefinition {
	quiz := domain.QuizDefinition{
		ID:              "python_easy",
		Language:        "python",
		Level:           "easy",
		Title:           "Python Basics",
		DurationMinutes: 10,
	}
	for i := 1; i <= 5; i++ {
		quiz.Questions = append(quiz.Questions, domain.Question{
			ID:     domain.QuestionID(fmt.Sprint(i)),
			Prompt: fmt.Sprintf("Question %d", i),
			Options: []domain.Option{
				{ID: "a", Text: "wrong"},
				{ID: "b", Text: "right", IsCorrect: true},
				{ID: "c", Text: "also wrong"},
			},
		})
	}
	return quiz
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
