package repository

import (
	"math/big"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
)

func TestRecordValue(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"null", nil, ""},
		{"text", "Medical Incident", "Medical Incident"},
		{"date", time.Date(2018, 1, 11, 0, 0, 0, 0, time.UTC), "2018-01-11"},
		{"timestamp", time.Date(2018, 1, 11, 1, 47, 0, 0, time.UTC), "2018-01-11T01:47:00Z"},
		{"float", 3.25, "3.25"},
		{"int", int64(94102), "94102"},
		{"int4", int32(7), "7"},
		{"bool", true, "true"},
		{"numeric", pgtype.Numeric{Int: big.NewInt(275), Exp: -2, Valid: true}, "2.75"},
		{"numeric null", pgtype.Numeric{}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, recordValue(tc.in))
		})
	}
}
