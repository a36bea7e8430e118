package query

import (
	"fmt"

	"github.com/shenikar/fire_calls_analysis/internal/models"
	"github.com/shenikar/fire_calls_analysis/internal/table"
)

// Params - параметры запросов, общие для всего набора
type Params struct {
	Year           int     `validate:"gte=1900,lte=2100"`
	DelayThreshold float64 `validate:"gte=0"`
	ZipCodes       []int   `validate:"min=1,dive,gt=0"`
}

// DefaultParams возвращает параметры исходного анализа: 2018 год, задержка > 5 минут,
// индексы 94102 и 94103
func DefaultParams() Params {
	return Params{
		Year:           2018,
		DelayThreshold: 5,
		ZipCodes:       []int{94102, 94103},
	}
}

// Func - чистая функция от переименованной таблицы к таблице результата
type Func func(t *table.Table, p Params) (*table.Table, error)

// Query - именованный запрос набора
type Query struct {
	Name  string
	Title string
	Run   Func
}

var registry = []Query{
	{Name: "preview", Title: "Renamed incident table", Run: Preview},
	{Name: "call-types", Title: "Distinct call types", Run: CallTypes},
	{Name: "response-delays", Title: "Calls with response delay over threshold", Run: ResponseDelays},
	{Name: "common-call-types", Title: "Most common call types", Run: CommonCallTypes},
	{Name: "common-zip-codes", Title: "Zip codes with the most calls", Run: CommonZipCodes},
	{Name: "zip-neighborhoods", Title: "Neighborhoods in selected zip codes", Run: ZipNeighborhoods},
	{Name: "delay-stats", Title: "Sum, average, min and max of delay", Run: DelayStats},
	{Name: "call-years", Title: "Distinct years of calls", Run: CallYears},
	{Name: "weekly-calls", Title: "Calls per week of year", Run: WeeklyCalls},
	{Name: "neighborhood-delays", Title: "Average response delay per neighborhood", Run: NeighborhoodDelays},
}

// All возвращает запросы в порядке вывода
func All() []Query {
	out := make([]Query, len(registry))
	copy(out, registry)
	return out
}

// Lookup ищет запрос по имени
func Lookup(name string) (Query, bool) {
	for _, q := range registry {
		if q.Name == name {
			return q, true
		}
	}
	return Query{}, false
}

// Normalize применяет фиксированное переименование колонок записи о вызове
func Normalize(t *table.Table) (*table.Table, error) {
	renamed, err := t.Rename(models.IncidentColumnMapping)
	if err != nil {
		return nil, fmt.Errorf("normalize columns: %w", err)
	}
	return renamed, nil
}
