package service

//go:generate mockgen -source=analysis.go -destination=mocks/mock_analysis.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/fire_calls_analysis/internal/metrics"
	"github.com/shenikar/fire_calls_analysis/internal/models"
	"github.com/shenikar/fire_calls_analysis/internal/publish"
	"github.com/shenikar/fire_calls_analysis/internal/query"
	"github.com/shenikar/fire_calls_analysis/internal/table"
	"github.com/sirupsen/logrus"
)

var (
	// ErrUnknownQuery возвращается для имени запроса, которого нет в наборе
	ErrUnknownQuery = errors.New("unknown query")
	// ErrNotPrepared возвращается, если запрос запущен до загрузки таблицы
	ErrNotPrepared = errors.New("table is not loaded")
	// ErrInvalidParams возвращается, если параметры запроса не проходят валидацию
	ErrInvalidParams = errors.New("invalid query parameters")
)

// TableSource определяет контракт для источника таблицы вызовов
type TableSource interface {
	Load(ctx context.Context) (*table.Table, error)
}

// AnalysisService определяет контракт для запуска запросов над таблицей вызовов
type AnalysisService interface {
	Prepare(ctx context.Context) error
	Queries() []models.QueryInfo
	Run(ctx context.Context, name string, params query.Params) (*models.Result, error)
	RunAll(ctx context.Context, names []string, params query.Params) ([]*models.Result, error)
}

type analysisService struct {
	source    TableSource
	publisher publish.ResultPublisher
	logger    *logrus.Logger
	validate  *validator.Validate
	runID     uuid.UUID

	mu    sync.RWMutex
	table *table.Table
}

func NewAnalysisService(source TableSource, publisher publish.ResultPublisher, logger *logrus.Logger, runID uuid.UUID) AnalysisService {
	if publisher == nil {
		publisher = publish.NopPublisher{}
	}
	return &analysisService{
		source:    source,
		publisher: publisher,
		logger:    logger,
		validate:  validator.New(),
		runID:     runID,
	}
}

// Prepare загружает таблицу и применяет переименование колонок. Повторный вызов
// перечитывает источник.
func (s *analysisService) Prepare(ctx context.Context) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "analysis",
		"method":  "Prepare",
		"run_id":  s.runID,
	})
	log.Info("Loading incident table")

	start := time.Now()
	raw, err := s.source.Load(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to load incident table")
		return fmt.Errorf("service: could not load table: %w", err)
	}
	renamed, err := query.Normalize(raw)
	if err != nil {
		log.WithError(err).Error("Failed to normalize incident table")
		return fmt.Errorf("service: could not normalize table: %w", err)
	}
	metrics.TableRows.Set(float64(renamed.Nrow()))

	s.mu.Lock()
	s.table = renamed
	s.mu.Unlock()

	log.WithFields(logrus.Fields{
		"rows":     renamed.Nrow(),
		"columns":  len(renamed.Names()),
		"duration": time.Since(start).String(),
	}).Info("Incident table loaded")
	return nil
}

// Queries возвращает список запросов в порядке вывода
func (s *analysisService) Queries() []models.QueryInfo {
	all := query.All()
	out := make([]models.QueryInfo, len(all))
	for i, q := range all {
		out[i] = models.QueryInfo{Name: q.Name, Title: q.Title}
	}
	return out
}

// Run выполняет один запрос и публикует результат
func (s *analysisService) Run(ctx context.Context, name string, params query.Params) (*models.Result, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "analysis",
		"method":  "Run",
		"run_id":  s.runID,
		"query":   name,
	})

	q, ok := query.Lookup(name)
	if !ok {
		log.Warn("Attempted to run an unknown query")
		return nil, fmt.Errorf("service: %w: %s", ErrUnknownQuery, name)
	}
	if err := s.validate.Struct(params); err != nil {
		log.WithError(err).Warn("Validation failed")
		return nil, fmt.Errorf("service: %w: %v", ErrInvalidParams, err)
	}

	s.mu.RLock()
	tbl := s.table
	s.mu.RUnlock()
	if tbl == nil {
		return nil, fmt.Errorf("service: %w", ErrNotPrepared)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Debug("Running query")
	start := time.Now()
	out, err := q.Run(tbl, params)
	metrics.QueryDuration.WithLabelValues(q.Name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.QueryTotal.WithLabelValues(q.Name, "error").Inc()
		log.WithError(err).Error("Query failed")
		return nil, fmt.Errorf("service: query %s failed: %w", q.Name, err)
	}
	metrics.QueryTotal.WithLabelValues(q.Name, "ok").Inc()

	result, err := s.toResult(q, out)
	if err != nil {
		log.WithError(err).Error("Failed to convert query result")
		return nil, fmt.Errorf("service: could not convert result of %s: %w", q.Name, err)
	}

	if err := s.publisher.Publish(ctx, result); err != nil {
		// рассылка вторична, вывод результата важнее
		log.WithError(err).Warn("Failed to publish query result")
	}

	log.WithField("rows", result.TotalRows).Info("Query completed")
	return result, nil
}

// RunAll выполняет запросы по порядку. Пустой names означает весь набор.
// Первая ошибка прерывает выполнение.
func (s *analysisService) RunAll(ctx context.Context, names []string, params query.Params) ([]*models.Result, error) {
	if len(names) == 0 {
		for _, q := range query.All() {
			names = append(names, q.Name)
		}
	}
	results := make([]*models.Result, 0, len(names))
	for _, name := range names {
		r, err := s.Run(ctx, name, params)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}

func (s *analysisService) toResult(q query.Query, out *table.Table) (*models.Result, error) {
	rows, err := out.Rows()
	if err != nil {
		return nil, err
	}
	return &models.Result{
		RunID:       s.runID,
		Query:       q.Name,
		Title:       q.Title,
		Columns:     out.Names(),
		Rows:        rows,
		TotalRows:   len(rows),
		GeneratedAt: time.Now().UTC(),
	}, nil
}
