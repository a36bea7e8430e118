package query

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shenikar/fire_calls_analysis/internal/models"
	"github.com/shenikar/fire_calls_analysis/internal/table"
)

const (
	colCount       = "count"
	colYear        = "Year"
	colWeek        = "Week"
	colTotalDelay  = "Total_Delay"
	colAvgDelay    = "Average_Delay"
	colMinDelay    = "Min_Delay"
	colMaxDelay    = "Max_Delay"
	colAvgResponse = "Avg_ResponseTime"
)

// Preview возвращает саму переименованную таблицу
func Preview(t *table.Table, _ Params) (*table.Table, error) {
	return t, nil
}

// CallTypes - уникальные непустые типы вызовов
func CallTypes(t *table.Table, _ Params) (*table.Table, error) {
	filtered, err := t.NotNull(models.ColCallType)
	if err != nil {
		return nil, err
	}
	keys, err := filtered.Distinct(models.ColCallType)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(keys, func(i, j int) bool { return less(keys[i][0], keys[j][0]) })
	return table.New(keyColumn(filtered, models.ColCallType, keys, 0))
}

// ResponseDelays - вызовы с задержкой больше порога: номер вызова и задержка
func ResponseDelays(t *table.Table, p Params) (*table.Table, error) {
	if err := t.Require(models.ColCallNumber); err != nil {
		return nil, err
	}
	// проверка типа до фильтрации
	if _, err := t.Floats(models.ColDelay); err != nil {
		return nil, err
	}
	filtered, err := t.Where(models.ColDelay, func(v any) bool {
		f, ok := number(v)
		return ok && f > p.DelayThreshold
	})
	if err != nil {
		return nil, err
	}
	return filtered.Select(models.ColCallNumber, models.ColDelay)
}

// CommonCallTypes - количество вызовов по типу, по убыванию
func CommonCallTypes(t *table.Table, _ Params) (*table.Table, error) {
	filtered, err := t.NotNull(models.ColCallType)
	if err != nil {
		return nil, err
	}
	return countBy(filtered, models.ColCallType)
}

// CommonZipCodes - количество вызовов по индексу, по убыванию
func CommonZipCodes(t *table.Table, _ Params) (*table.Table, error) {
	filtered, err := t.NotNull(models.ColZipcode)
	if err != nil {
		return nil, err
	}
	return countBy(filtered, models.ColZipcode)
}

// ZipNeighborhoods - уникальные пары (район, индекс) для выбранных индексов
func ZipNeighborhoods(t *table.Table, p Params) (*table.Table, error) {
	if err := t.Require(models.ColNeighborhood); err != nil {
		return nil, err
	}
	wanted := make(map[int]struct{}, len(p.ZipCodes))
	for _, z := range p.ZipCodes {
		wanted[z] = struct{}{}
	}
	filtered, err := t.Where(models.ColZipcode, func(v any) bool {
		z, ok := integer(v)
		if !ok {
			return false
		}
		_, hit := wanted[z]
		return hit
	})
	if err != nil {
		return nil, err
	}
	pairs, err := filtered.Distinct(models.ColNeighborhood, models.ColZipcode)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		if c := compare(pairs[i][1], pairs[j][1]); c != 0 {
			return c < 0
		}
		return less(pairs[i][0], pairs[j][0])
	})
	return table.New(
		keyColumn(filtered, models.ColNeighborhood, pairs, 0),
		keyColumn(filtered, models.ColZipcode, pairs, 1),
	)
}

// DelayStats - сумма, среднее, минимум и максимум задержки по всем строкам
func DelayStats(t *table.Table, _ Params) (*table.Table, error) {
	delays, err := t.Floats(models.ColDelay)
	if err != nil {
		return nil, err
	}
	agg := aggregate(delays)
	var total, avg, lo, hi any
	if agg.count > 0 {
		total, avg, lo, hi = agg.sum, agg.mean(), agg.min, agg.max
	}
	return table.New(
		table.Column{Name: colTotalDelay, Kind: table.KindFloat, Values: []any{total}},
		table.Column{Name: colAvgDelay, Kind: table.KindFloat, Values: []any{avg}},
		table.Column{Name: colMinDelay, Kind: table.KindFloat, Values: []any{lo}},
		table.Column{Name: colMaxDelay, Kind: table.KindFloat, Values: []any{hi}},
	)
}

// CallYears - уникальные годы даты вызова, по возрастанию
func CallYears(t *table.Table, _ Params) (*table.Table, error) {
	dates, err := t.Dates(models.ColCallDate)
	if err != nil {
		return nil, err
	}
	seen := make(map[int]struct{})
	years := make([]int, 0)
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		if _, ok := seen[d.Year()]; ok {
			continue
		}
		seen[d.Year()] = struct{}{}
		years = append(years, d.Year())
	}
	sort.Ints(years)
	values := make([]any, len(years))
	for i, y := range years {
		values[i] = y
	}
	return table.New(table.Column{Name: colYear, Kind: table.KindInt, Values: values})
}

// WeeklyCalls - количество вызовов по неделе ISO 8601 за год Params.Year, по убыванию
func WeeklyCalls(t *table.Table, p Params) (*table.Table, error) {
	inYear, err := filterYear(t, p.Year)
	if err != nil {
		return nil, err
	}
	dates, err := inYear.Dates(models.ColCallDate)
	if err != nil {
		return nil, err
	}
	weeks := make([]any, len(dates))
	for i, d := range dates {
		_, w := d.ISOWeek()
		weeks[i] = w
	}
	byWeek, err := table.New(table.Column{Name: colWeek, Kind: table.KindInt, Values: weeks})
	if err != nil {
		return nil, err
	}
	return countBy(byWeek, colWeek)
}

// NeighborhoodDelays - средняя задержка по району за год Params.Year, по убыванию
func NeighborhoodDelays(t *table.Table, p Params) (*table.Table, error) {
	if err := t.Require(models.ColNeighborhood); err != nil {
		return nil, err
	}
	if _, err := t.Floats(models.ColDelay); err != nil {
		return nil, err
	}
	inYear, err := filterYear(t, p.Year)
	if err != nil {
		return nil, err
	}
	delays, err := inYear.Floats(models.ColDelay)
	if err != nil {
		return nil, err
	}
	groups, err := inYear.GroupBy(models.ColNeighborhood)
	if err != nil {
		return nil, err
	}

	avgs := make([]any, len(groups))
	for i, g := range groups {
		vals := make([]float64, len(g.Rows))
		for j, r := range g.Rows {
			vals[j] = delays[r]
		}
		if agg := aggregate(vals); agg.count > 0 {
			avgs[i] = agg.mean()
		}
	}

	order := make([]int, len(groups))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if c := compare(avgs[ia], avgs[ib]); c != 0 {
			// null в конце, остальные по убыванию
			if avgs[ia] == nil || avgs[ib] == nil {
				return c < 0
			}
			return c > 0
		}
		return less(groups[ia].Key[0], groups[ib].Key[0])
	})

	names := make([]any, len(groups))
	sortedAvgs := make([]any, len(groups))
	for i, idx := range order {
		names[i] = groups[idx].Key[0]
		sortedAvgs[i] = avgs[idx]
	}
	return table.New(
		table.Column{Name: models.ColNeighborhood, Kind: kindOf(inYear, models.ColNeighborhood), Values: names},
		table.Column{Name: colAvgResponse, Kind: table.KindFloat, Values: sortedAvgs},
	)
}

func filterYear(t *table.Table, year int) (*table.Table, error) {
	if _, err := t.Dates(models.ColCallDate); err != nil {
		return nil, err
	}
	return t.Where(models.ColCallDate, func(v any) bool {
		d, ok := v.(time.Time)
		return ok && d.Year() == year
	})
}

// countBy считает строки по значению колонки. Порядок: количество по убыванию,
// затем ключ по возрастанию.
func countBy(t *table.Table, col string) (*table.Table, error) {
	groups, err := t.GroupBy(col)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(groups, func(i, j int) bool {
		ci, cj := len(groups[i].Rows), len(groups[j].Rows)
		if ci != cj {
			return ci > cj
		}
		return less(groups[i].Key[0], groups[j].Key[0])
	})
	keys := make([]any, len(groups))
	counts := make([]any, len(groups))
	for i, g := range groups {
		keys[i] = g.Key[0]
		counts[i] = len(g.Rows)
	}
	return table.New(
		table.Column{Name: col, Kind: kindOf(t, col), Values: keys},
		table.Column{Name: colCount, Kind: table.KindInt, Values: counts},
	)
}

func keyColumn(t *table.Table, col string, keys [][]any, idx int) table.Column {
	values := make([]any, len(keys))
	for i, k := range keys {
		values[i] = k[idx]
	}
	return table.Column{Name: col, Kind: kindOf(t, col), Values: values}
}

func kindOf(t *table.Table, col string) table.Kind {
	k, err := t.Kind(col)
	if err != nil {
		return table.KindString
	}
	return k
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, !math.IsNaN(x)
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}

func integer(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case float64:
		if x == math.Trunc(x) {
			return int(x), true
		}
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		return n, err == nil
	}
	return 0, false
}
