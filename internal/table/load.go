package table

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
)

// DefaultNullValues - значения, которые при загрузке считаются null
var DefaultNullValues = []string{"", "NA", "NaN", "null", "NULL", "<nil>"}

// LoadOptions настраивает загрузку таблицы
type LoadOptions struct {
	// Delimiter - разделитель полей, по умолчанию ','
	Delimiter rune
	// NullValues - значения, которые считаются null. Пустой список означает DefaultNullValues.
	NullValues []string
	// NumericColumns - колонки, которые обязаны быть числовыми
	NumericColumns []string
}

func (o LoadOptions) gotaOptions() []dataframe.LoadOption {
	nulls := o.NullValues
	if len(nulls) == 0 {
		nulls = DefaultNullValues
	}
	opts := []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(nulls),
	}
	return opts
}

// ReadCSV читает таблицу с заголовком и выводит типы колонок.
// Битая строка, неоднозначный тип или нечисловое значение в числовой колонке
// приводят к ошибке, значения молча не приводятся.
func ReadCSV(r io.Reader, opts LoadOptions) (*Table, error) {
	// Записи читаются так же, как в dataframe.ReadCSV, чтобы отличить файл
	// только с заголовком от пустого
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	t, err := FromRecords(records, opts)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return t, nil
}

// FromRecords строит таблицу из записей, первая запись - заголовок.
// Пустая строка в записи трактуется по NullValues так же, как в CSV.
func FromRecords(records [][]string, opts LoadOptions) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("load records: no header")
	}
	if len(records) == 1 {
		return emptyTable(records[0], opts)
	}
	df := dataframe.LoadRecords(records, opts.gotaOptions()...)
	if df.Err != nil {
		return nil, fmt.Errorf("load records: %w", df.Err)
	}
	return build(df, opts)
}

func build(df dataframe.DataFrame, opts LoadOptions) (*Table, error) {
	kinds, err := inferKinds(df, opts.NumericColumns)
	if err != nil {
		return nil, err
	}
	return fromDataFrame(df, kinds), nil
}

// emptyTable строит таблицу без строк: числовые колонки float, остальные string
func emptyTable(header []string, opts LoadOptions) (*Table, error) {
	numeric := make(map[string]bool, len(opts.NumericColumns))
	for _, n := range opts.NumericColumns {
		numeric[n] = true
	}
	cols := make([]Column, len(header))
	for i, name := range header {
		kind := KindString
		if numeric[name] {
			kind = KindFloat
		}
		cols[i] = Column{Name: name, Kind: kind, Values: []any{}}
	}
	t, err := New(cols...)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	return t, nil
}
