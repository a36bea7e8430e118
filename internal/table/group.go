package table

import (
	"fmt"
	"strings"
)

// Group - строки таблицы с одинаковым ключом
type Group struct {
	Key  []any
	Rows []int
}

// GroupBy разбивает строки по значениям колонок. Группы возвращаются в порядке
// первого появления ключа, null участвует в ключе как отдельное значение.
//
// Группировка gota (DataFrame.GroupBy) не подходит: она отклоняет null в ключе
// и заново выводит типы внутри каждой группы.
func (t *Table) GroupBy(names ...string) ([]Group, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("table: group by: no columns")
	}
	cols := make([][]any, len(names))
	for i, n := range names {
		vals, err := t.Values(n)
		if err != nil {
			return nil, err
		}
		cols[i] = vals
	}

	index := make(map[string]int)
	var groups []Group
	var sb strings.Builder
	for r := 0; r < t.Nrow(); r++ {
		sb.Reset()
		key := make([]any, len(names))
		for c := range names {
			key[c] = cols[c][r]
			// %#v различает 1 и "1", а также nil
			fmt.Fprintf(&sb, "%#v\x00", cols[c][r])
		}
		k := sb.String()
		gi, ok := index[k]
		if !ok {
			gi = len(groups)
			index[k] = gi
			groups = append(groups, Group{Key: key})
		}
		groups[gi].Rows = append(groups[gi].Rows, r)
	}
	return groups, nil
}

// Distinct возвращает уникальные сочетания значений колонок в порядке первого появления
func (t *Table) Distinct(names ...string) ([][]any, error) {
	groups, err := t.GroupBy(names...)
	if err != nil {
		return nil, err
	}
	out := make([][]any, len(groups))
	for i, g := range groups {
		out[i] = g.Key
	}
	return out, nil
}
