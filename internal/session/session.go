package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shenikar/fire_calls_analysis/internal/config"
	"github.com/shenikar/fire_calls_analysis/internal/publish"
	"github.com/shenikar/fire_calls_analysis/internal/query"
	"github.com/shenikar/fire_calls_analysis/internal/repository"
	"github.com/shenikar/fire_calls_analysis/internal/service"
	"github.com/shenikar/fire_calls_analysis/pkg/postgres"
	redisclient "github.com/shenikar/fire_calls_analysis/pkg/redis"
	"github.com/sirupsen/logrus"
)

// Session - контекст одного запуска анализа. Создается в начале процесса,
// освобождается через defer Close().
type Session struct {
	cfg    *config.Config
	log    *logrus.Logger
	runID  uuid.UUID
	source service.TableSource

	dbpool      *pgxpool.Pool
	redisClient *goredis.Client

	svc service.AnalysisService
}

// Open подключает источник таблицы и, если задан REDIS_ADDR, издателя результатов.
// Таблица при этом не загружается, см. Service().Prepare.
func Open(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Session, error) {
	s := &Session{
		cfg:   cfg,
		log:   log,
		runID: uuid.New(),
	}
	entry := log.WithFields(logrus.Fields{
		"service": "session",
		"method":  "Open",
		"run_id":  s.runID,
	})

	switch cfg.DataSource {
	case config.SourcePostgres:
		dbpool, err := postgres.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
		s.dbpool = dbpool
		s.source = repository.NewPostgresSource(dbpool, cfg.DatabaseTable)
		entry.WithField("table", cfg.DatabaseTable).Info("Successfully connected to PostgreSQL")
	default:
		s.source = repository.NewCSVSource(cfg.DataPath, cfg.CSVDelimiter)
		entry.WithField("path", cfg.DataPath).Debug("Using CSV source")
	}

	var publisher publish.ResultPublisher = publish.NopPublisher{}
	if cfg.RedisAddr != "" {
		rdb, err := redisclient.NewRedisClient(ctx, redisclient.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("session: %w", err)
		}
		s.redisClient = rdb
		publisher = publish.NewRedisResultPublisher(rdb, cfg.ResultsChannel)
		entry.WithField("channel", cfg.ResultsChannel).Info("Successfully connected to Redis")
	}

	s.svc = service.NewAnalysisService(s.source, publisher, log, s.runID)
	return s, nil
}

func (s *Session) Service() service.AnalysisService { return s.svc }

func (s *Session) RunID() uuid.UUID { return s.runID }

// Params собирает параметры запросов из конфигурации
func (s *Session) Params() query.Params {
	zips := make([]int, len(s.cfg.ZipCodes))
	copy(zips, s.cfg.ZipCodes)
	return query.Params{
		Year:           s.cfg.FilterYear,
		DelayThreshold: s.cfg.DelayThreshold,
		ZipCodes:       zips,
	}
}

// Close освобождает соединения. Повторный вызов безопасен.
func (s *Session) Close() {
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.log.WithError(err).Warn("Failed to close Redis client")
		}
		s.redisClient = nil
	}
	if s.dbpool != nil {
		s.dbpool.Close()
		s.dbpool = nil
	}
	s.log.WithField("run_id", s.runID).Debug("Session closed")
}
