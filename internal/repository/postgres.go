package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/fire_calls_analysis/internal/models"
	"github.com/shenikar/fire_calls_analysis/internal/service"
	"github.com/shenikar/fire_calls_analysis/internal/table"
)

// PostgresSource читает таблицу вызовов из PostgreSQL. Только чтение.
type PostgresSource struct {
	db        *pgxpool.Pool
	tableName string
}

func NewPostgresSource(db *pgxpool.Pool, tableName string) service.TableSource {
	return &PostgresSource{
		db:        db,
		tableName: tableName,
	}
}

// Load выбирает все строки таблицы. Значения переводятся в текст и проходят тот же
// вывод типов, что и CSV, поэтому запросы не зависят от источника.
func (s *PostgresSource) Load(ctx context.Context) (*table.Table, error) {
	query := fmt.Sprintf("SELECT * FROM %s", pgx.Identifier{s.tableName}.Sanitize())

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.tableName, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.Name
	}

	records := [][]string{header}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row %d of %s: %w", len(records), s.tableName, err)
		}
		record := make([]string, len(values))
		for i, v := range values {
			record[i] = recordValue(v)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error %s iteration: %w", s.tableName, err)
	}

	t, err := table.FromRecords(records, table.LoadOptions{NumericColumns: models.NumericColumns})
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", s.tableName, err)
	}
	return t, nil
}

func (s *PostgresSource) String() string {
	return "postgres:" + s.tableName
}

// recordValue переводит значение pgx в текст; NULL становится пустой строкой
func recordValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case bool:
		return strconv.FormatBool(x)
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return ""
		}
		return strconv.FormatFloat(f.Float64, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
