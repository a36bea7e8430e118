package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shenikar/fire_calls_analysis/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Как в show(): длинные строки обрезаются до maxCellWidth символов
const maxCellWidth = 20

const nullCell = "null"

var (
	colorPrimary = lipgloss.Color("39")
	colorMuted   = lipgloss.Color("240")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

// Renderer выводит результаты запросов в выбранном формате
type Renderer struct {
	format string
	limit  int
}

// New создает Renderer. limit <= 0 означает вывод всех строк.
func New(format string, limit int) (*Renderer, error) {
	switch format {
	case FormatTable, FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("render: unsupported format %q", format)
	}
	return &Renderer{format: format, limit: limit}, nil
}

// Streaming сообщает, можно ли выводить результаты по одному по мере готовности.
// JSON и YAML выводят весь набор одним документом, см. RenderAll.
func (r *Renderer) Streaming() bool {
	return r.format == FormatTable
}

// Render пишет один результат в w
func (r *Renderer) Render(w io.Writer, result *models.Result) error {
	limited := r.truncate(result)
	switch r.format {
	case FormatJSON, FormatYAML:
		return r.encode(w, limited)
	default:
		_, err := io.WriteString(w, r.table(limited))
		return err
	}
}

// RenderAll выводит результаты одним документом: JSON-массив, YAML-последовательность
// или таблицы подряд
func (r *Renderer) RenderAll(w io.Writer, results []*models.Result) error {
	if r.Streaming() {
		for _, res := range results {
			if err := r.Render(w, res); err != nil {
				return fmt.Errorf("render %s: %w", res.Query, err)
			}
		}
		return nil
	}
	limited := make([]*models.Result, len(results))
	for i, res := range results {
		limited[i] = r.truncate(res)
	}
	return r.encode(w, limited)
}

func (r *Renderer) encode(w io.Writer, v any) error {
	if r.format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return enc.Close()
}

func (r *Renderer) truncate(result *models.Result) *models.Result {
	if r.limit <= 0 || len(result.Rows) <= r.limit {
		return result
	}
	out := *result
	out.Rows = result.Rows[:r.limit]
	return &out
}

func (r *Renderer) table(result *models.Result) string {
	rows := make([][]string, len(result.Rows))
	for i, row := range result.Rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = clip(FormatCell(v))
		}
		rows[i] = cells
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers(result.Columns...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	out := titleStyle.Render(result.Title) + "\n" + t.String() + "\n"
	if len(result.Rows) < result.TotalRows {
		out += footerStyle.Render(fmt.Sprintf("only showing top %d rows", len(result.Rows))) + "\n"
	}
	return out + "\n"
}

// FormatCell приводит значение ячейки к строке для вывода
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return nullCell
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(x)
	}
}

func clip(s string) string {
	r := []rune(s)
	if len(r) <= maxCellWidth {
		return s
	}
	return string(r[:maxCellWidth-3]) + "..."
}
