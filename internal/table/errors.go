package table

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn возвращается, когда запрос ссылается на колонку, которой нет в таблице
	ErrMissingColumn = errors.New("missing column")
	// ErrColumnType возвращается, когда тип колонки не подходит для операции
	ErrColumnType = errors.New("column type mismatch")
	// ErrAmbiguousType возвращается, когда тип колонки нельзя вывести однозначно
	ErrAmbiguousType = errors.New("ambiguous column type")
)

// ColumnError описывает ошибку, привязанную к колонке и (опционально) к строке данных.
// Row считается с 1 и не включает строку заголовка; 0 означает, что строка неизвестна.
type ColumnError struct {
	Column string
	Row    int
	Value  string
	Err    error
}

func (e *ColumnError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%v: column %q, row %d, value %q", e.Err, e.Column, e.Row, e.Value)
	}
	return fmt.Sprintf("%v: %q", e.Err, e.Column)
}

func (e *ColumnError) Unwrap() error {
	return e.Err
}

func missingColumn(name string) error {
	return &ColumnError{Column: name, Err: ErrMissingColumn}
}
