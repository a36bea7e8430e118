package table

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Kind - выведенный тип колонки
type Kind string

const (
	KindString Kind = "string"
	KindInt    Kind = "integer"
	KindFloat  Kind = "float"
	KindBool   Kind = "bool"
	KindDate   Kind = "date"
)

// Table - неизменяемая колоночная таблица поверх gota DataFrame.
// Все операции возвращают новую таблицу и не трогают исходную.
type Table struct {
	df    dataframe.DataFrame
	kinds map[string]Kind
}

// Column описывает колонку для сборки таблицы результата
type Column struct {
	Name   string
	Kind   Kind
	Values []any
}

func fromDataFrame(df dataframe.DataFrame, kinds map[string]Kind) *Table {
	return &Table{df: df, kinds: kinds}
}

// New собирает таблицу из колонок одинаковой длины. nil в Values означает null.
func New(cols ...Column) (*Table, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("table: no columns")
	}
	kinds := make(map[string]Kind, len(cols))
	ss := make([]series.Series, 0, len(cols))
	for _, c := range cols {
		if len(c.Values) != len(cols[0].Values) {
			return nil, fmt.Errorf("table: column %q has %d values, want %d", c.Name, len(c.Values), len(cols[0].Values))
		}
		s, err := toSeries(c)
		if err != nil {
			return nil, err
		}
		ss = append(ss, s)
		kinds[c.Name] = c.Kind
	}
	df := dataframe.New(ss...)
	if df.Err != nil {
		return nil, fmt.Errorf("table: %w", df.Err)
	}
	return fromDataFrame(df, kinds), nil
}

func (t *Table) Nrow() int {
	return t.df.Nrow()
}

func (t *Table) Names() []string {
	return t.df.Names()
}

// Has сообщает, есть ли колонка в таблице
func (t *Table) Has(name string) bool {
	_, ok := t.kinds[name]
	return ok
}

// Kind возвращает тип колонки или ErrMissingColumn
func (t *Table) Kind(name string) (Kind, error) {
	k, ok := t.kinds[name]
	if !ok {
		return "", missingColumn(name)
	}
	return k, nil
}

// Require проверяет, что все колонки присутствуют
func (t *Table) Require(names ...string) error {
	for _, n := range names {
		if !t.Has(n) {
			return missingColumn(n)
		}
	}
	return nil
}

// Rename применяет переименование from -> to. Отсутствующие исходные колонки пропускаются.
func (t *Table) Rename(pairs [][2]string) (*Table, error) {
	df := t.df
	kinds := make(map[string]Kind, len(t.kinds))
	for k, v := range t.kinds {
		kinds[k] = v
	}
	for _, p := range pairs {
		from, to := p[0], p[1]
		kind, ok := kinds[from]
		if !ok || from == to {
			continue
		}
		if _, exists := kinds[to]; exists {
			return nil, fmt.Errorf("table: rename %q to %q: target column already exists", from, to)
		}
		df = df.Rename(to, from)
		if df.Err != nil {
			return nil, fmt.Errorf("table: rename %q: %w", from, df.Err)
		}
		delete(kinds, from)
		kinds[to] = kind
	}
	return fromDataFrame(df, kinds), nil
}

// Select проецирует таблицу на указанные колонки в заданном порядке
func (t *Table) Select(names ...string) (*Table, error) {
	if err := t.Require(names...); err != nil {
		return nil, err
	}
	df := t.df.Select(names)
	if df.Err != nil {
		return nil, fmt.Errorf("table: select: %w", df.Err)
	}
	kinds := make(map[string]Kind, len(names))
	for _, n := range names {
		kinds[n] = t.kinds[n]
	}
	return fromDataFrame(df, kinds), nil
}

// Where оставляет строки, для которых pred возвращает true. pred получает значение
// ячейки в виде Value (nil для null).
func (t *Table) Where(name string, pred func(v any) bool) (*Table, error) {
	kind, err := t.Kind(name)
	if err != nil {
		return nil, err
	}
	if t.Nrow() == 0 {
		return t, nil
	}
	df := t.df.Filter(dataframe.F{
		Colname:    name,
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool {
			return pred(cellValue(el, kind))
		},
	})
	if df.Err != nil {
		return nil, fmt.Errorf("table: filter %q: %w", name, df.Err)
	}
	return fromDataFrame(df, t.kinds), nil
}

// NotNull оставляет строки с непустым значением в колонке
func (t *Table) NotNull(name string) (*Table, error) {
	return t.Where(name, func(v any) bool { return v != nil })
}

// Value возвращает значение ячейки (nil для null)
func (t *Table) Value(row int, name string) (any, error) {
	kind, err := t.Kind(name)
	if err != nil {
		return nil, err
	}
	if row < 0 || row >= t.Nrow() {
		return nil, fmt.Errorf("table: row %d out of range [0, %d)", row, t.Nrow())
	}
	return cellValue(t.df.Col(name).Elem(row), kind), nil
}

// Values возвращает все значения колонки
func (t *Table) Values(name string) ([]any, error) {
	kind, err := t.Kind(name)
	if err != nil {
		return nil, err
	}
	s := t.df.Col(name)
	out := make([]any, s.Len())
	for i := range out {
		out[i] = cellValue(s.Elem(i), kind)
	}
	return out, nil
}

// Rows возвращает все строки в порядке Names()
func (t *Table) Rows() ([][]any, error) {
	names := t.Names()
	cols := make([][]any, len(names))
	for i, n := range names {
		vals, err := t.Values(n)
		if err != nil {
			return nil, err
		}
		cols[i] = vals
	}
	rows := make([][]any, t.Nrow())
	for r := range rows {
		row := make([]any, len(names))
		for c := range names {
			row[c] = cols[c][r]
		}
		rows[r] = row
	}
	return rows, nil
}

// Floats возвращает числовую колонку; null становится NaN.
// Колонка без строк подходит под любой тип.
func (t *Table) Floats(name string) ([]float64, error) {
	kind, err := t.Kind(name)
	if err != nil {
		return nil, err
	}
	if t.Nrow() == 0 {
		return []float64{}, nil
	}
	if kind != KindInt && kind != KindFloat {
		return nil, &ColumnError{Column: name, Err: ErrColumnType}
	}
	return t.df.Col(name).Float(), nil
}

// Dates возвращает колонку дат; null становится нулевым time.Time
func (t *Table) Dates(name string) ([]time.Time, error) {
	kind, err := t.Kind(name)
	if err != nil {
		return nil, err
	}
	if t.Nrow() == 0 {
		return []time.Time{}, nil
	}
	if kind != KindDate {
		return nil, &ColumnError{Column: name, Err: ErrColumnType}
	}
	s := t.df.Col(name)
	out := make([]time.Time, s.Len())
	for i := range out {
		if v, ok := cellValue(s.Elem(i), kind).(time.Time); ok {
			out[i] = v
		}
	}
	return out, nil
}

func cellValue(el series.Element, kind Kind) any {
	if el.IsNA() {
		return nil
	}
	switch kind {
	case KindInt:
		v, err := el.Int()
		if err != nil {
			return nil
		}
		return v
	case KindFloat:
		v := el.Float()
		if math.IsNaN(v) {
			return nil
		}
		return v
	case KindBool:
		v, err := el.Bool()
		if err != nil {
			return nil
		}
		return v
	case KindDate:
		v, ok := ParseDate(el.String())
		if !ok {
			return nil
		}
		return v
	default:
		s := el.String()
		if s == "" {
			return nil
		}
		return s
	}
}

func toSeries(c Column) (series.Series, error) {
	switch c.Kind {
	case KindFloat:
		vals := make([]float64, len(c.Values))
		for i, v := range c.Values {
			f, ok := toFloat(v)
			if !ok {
				return series.Series{}, fmt.Errorf("table: column %q row %d: %T is not a float", c.Name, i, v)
			}
			vals[i] = f
		}
		return series.New(vals, series.Float, c.Name), nil
	case KindInt, KindBool, KindString, KindDate:
		vals := make([]string, len(c.Values))
		for i, v := range c.Values {
			s, ok := toRecord(v, c.Kind)
			if !ok {
				return series.Series{}, fmt.Errorf("table: column %q row %d: %T does not fit %s", c.Name, i, v, c.Kind)
			}
			vals[i] = s
		}
		return series.New(vals, seriesType(c.Kind), c.Name), nil
	default:
		return series.Series{}, fmt.Errorf("table: column %q: unknown kind %q", c.Name, c.Kind)
	}
}

func seriesType(k Kind) series.Type {
	switch k {
	case KindInt:
		return series.Int
	case KindFloat:
		return series.Float
	case KindBool:
		return series.Bool
	default:
		return series.String
	}
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return math.NaN(), true
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

func toRecord(v any, kind Kind) (string, bool) {
	if v == nil {
		return "NaN", true
	}
	switch kind {
	case KindInt:
		switch x := v.(type) {
		case int:
			return strconv.Itoa(x), true
		case int64:
			return strconv.FormatInt(x, 10), true
		case int32:
			return strconv.FormatInt(int64(x), 10), true
		}
	case KindBool:
		if b, ok := v.(bool); ok {
			return strconv.FormatBool(b), true
		}
	case KindDate:
		if tm, ok := v.(time.Time); ok {
			return tm.Format(time.RFC3339), true
		}
	case KindString:
		if s, ok := v.(string); ok {
			return s, true
		}
	}
	return "", false
}
