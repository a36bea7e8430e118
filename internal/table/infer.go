package table

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// dateLayouts - поддерживаемые форматы дат, в порядке проверки
var dateLayouts = []string{
	"01/02/2006",
	"01/02/2006 03:04:05 PM",
	"01/02/2006 15:04:05",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseDate разбирает дату в одном из поддерживаемых форматов
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// inferKinds сопоставляет колонкам типы. Строковые колонки, в которых все непустые
// значения разбираются как даты, получают KindDate.
func inferKinds(df dataframe.DataFrame, numeric []string) (map[string]Kind, error) {
	kinds := make(map[string]Kind, df.Ncol())
	for i, name := range df.Names() {
		t := df.Types()[i]
		switch t {
		case series.Int:
			kinds[name] = KindInt
		case series.Float:
			kinds[name] = KindFloat
		case series.Bool:
			kinds[name] = KindBool
		default:
			kind, err := inferStringKind(df.Col(name))
			if err != nil {
				return nil, err
			}
			kinds[name] = kind
		}
	}

	for _, name := range numeric {
		kind, ok := kinds[name]
		if !ok || kind == KindInt || kind == KindFloat {
			continue
		}
		if err := firstNonNumeric(df.Col(name)); err != nil {
			return nil, err
		}
		// колонка целиком из null
		kinds[name] = KindFloat
	}
	return kinds, nil
}

func inferStringKind(s series.Series) (Kind, error) {
	decided := false
	for i := 0; i < s.Len(); i++ {
		el := s.Elem(i)
		if el.IsNA() || el.String() == "" {
			continue
		}
		_, ok := ParseDate(el.String())
		if !decided {
			if !ok {
				return KindString, nil
			}
			decided = true
			continue
		}
		if !ok {
			return "", &ColumnError{Column: s.Name, Row: i + 1, Value: el.String(), Err: ErrAmbiguousType}
		}
	}
	if decided {
		return KindDate, nil
	}
	return KindString, nil
}

func firstNonNumeric(s series.Series) error {
	for i := 0; i < s.Len(); i++ {
		el := s.Elem(i)
		if el.IsNA() || el.String() == "" {
			continue
		}
		if _, err := strconv.ParseFloat(el.String(), 64); err != nil {
			return &ColumnError{Column: s.Name, Row: i + 1, Value: el.String(), Err: ErrColumnType}
		}
	}
	return nil
}
