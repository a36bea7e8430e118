package v1

import (
	"time"

	"github.com/google/uuid"
)

// RunQueryRequest DTO параметров запуска запроса (query string)
// @Description DTO параметров запуска запроса
type RunQueryRequest struct {
	Year      *int     `form:"year" validate:"omitempty,gte=1900,lte=2100"`
	Threshold *float64 `form:"threshold" validate:"omitempty,gte=0"`
	Zip       []int    `form:"zip" validate:"omitempty,dive,gt=0"`
	Limit     int      `form:"limit" validate:"gte=0"`
}

// QueryResponse DTO описания запроса
// @Description DTO описания запроса
type QueryResponse struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// ResultResponse DTO для ответа с таблицей результата
// @Description DTO для ответа с таблицей результата
type ResultResponse struct {
	RunID       uuid.UUID `json:"run_id"`
	Query       string    `json:"query"`
	Title       string    `json:"title"`
	Columns     []string  `json:"columns"`
	Rows        [][]any   `json:"rows"`
	TotalRows   int       `json:"total_rows"`
	Truncated   bool      `json:"truncated"`
	GeneratedAt time.Time `json:"generated_at"`
}
