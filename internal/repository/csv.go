package repository

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/shenikar/fire_calls_analysis/internal/models"
	"github.com/shenikar/fire_calls_analysis/internal/service"
	"github.com/shenikar/fire_calls_analysis/internal/table"
)

// CSVSource читает таблицу вызовов из файла с разделителями
type CSVSource struct {
	path      string
	delimiter rune
}

func NewCSVSource(path string, delimiter rune) service.TableSource {
	return &CSVSource{
		path:      path,
		delimiter: delimiter,
	}
}

// Load читает файл целиком. Ошибки содержат путь к файлу.
func (s *CSVSource) Load(ctx context.Context) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer file.Close()

	t, err := table.ReadCSV(bufio.NewReader(file), table.LoadOptions{
		Delimiter:      s.delimiter,
		NumericColumns: models.NumericColumns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", s.path, err)
	}
	return t, nil
}

func (s *CSVSource) String() string {
	return "csv:" + s.path
}
