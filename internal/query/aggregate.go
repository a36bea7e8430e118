package query

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type delayAgg struct {
	count int
	sum   float64
	min   float64
	max   float64
}

func (a delayAgg) mean() float64 {
	if a.count == 0 {
		return 0
	}
	return a.sum / float64(a.count)
}

// aggregate считает сумму, минимум и максимум за один проход, пропуская NaN (null)
func aggregate(x []float64) delayAgg {
	var a delayAgg
	for _, v := range x {
		if math.IsNaN(v) {
			continue
		}
		if a.count == 0 {
			a.min, a.max = v, v
		} else if v < a.min {
			a.min = v
		} else if v > a.max {
			a.max = v
		}
		a.sum += v
		a.count++
	}
	return a
}

// compare упорядочивает значения ячеек; nil всегда в конце
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	switch x := a.(type) {
	case int:
		if y, ok := b.(int); ok {
			return cmpOrdered(x, y)
		}
	case float64:
		if y, ok := b.(float64); ok {
			return cmpOrdered(x, y)
		}
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			default:
				return 1
			}
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func less(a, b any) bool {
	return compare(a, b) < 0
}

func cmpOrdered[T int | float64](x, y T) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}
