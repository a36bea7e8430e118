package models

import (
	"time"

	"github.com/google/uuid"
)

// Result - таблица результата одного запроса
type Result struct {
	RunID       uuid.UUID `json:"run_id" yaml:"run_id"`
	Query       string    `json:"query" yaml:"query"`
	Title       string    `json:"title" yaml:"title"`
	Columns     []string  `json:"columns" yaml:"columns"`
	Rows        [][]any   `json:"rows" yaml:"rows"`
	TotalRows   int       `json:"total_rows" yaml:"total_rows"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
}

// QueryInfo описывает зарегистрированный запрос
type QueryInfo struct {
	Name  string `json:"name" yaml:"name"`
	Title string `json:"title" yaml:"title"`
}
