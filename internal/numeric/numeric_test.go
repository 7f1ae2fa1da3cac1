package numeric

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

type wrappedValue struct{ inner driver.Value }

func (w wrappedValue) Value() (driver.Value, error) { return w.inner, nil }

type brokenValuer struct{}

func (brokenValuer) Value() (driver.Value, error) { return nil, errors.New("boom") }

type panickyValuer struct{}

func (panickyValuer) Value() (driver.Value, error) { panic("bad wrapper") }

func TestToFloat(t *testing.T) {
	tests := []struct {
		name     string
		in       interface{}
		fallback float64
		want     float64
	}{
		{"float64 passthrough", 42.5, -1, 42.5},
		{"int", int(7), -1, 7},
		{"int64", int64(9), -1, 9},
		{"uint32", uint32(3), -1, 3},
		{"numeric string", "12.25", -1, 12.25},
		{"padded numeric string", "  8 ", -1, 8},
		{"non-numeric string", "n/a", -1, -1},
		{"nil", nil, -1, -1},
		{"NaN", math.NaN(), -1, -1},
		{"Inf", math.Inf(1), -1, -1},
		{"bytes", []byte("1.5"), -1, 1.5},
		{"json.Number", json.Number("99.9"), -1, 99.9},
		{"valid NullFloat64", sql.NullFloat64{Float64: 4.5, Valid: true}, -1, 4.5},
		{"invalid NullFloat64", sql.NullFloat64{}, -1, -1},
		{"invalid NullInt64", sql.NullInt64{}, -1, -1},
		{"big.Int", big.NewInt(123456789), -1, 123456789},
		{"big.Float", big.NewFloat(2.75), -1, 2.75},
		{"nil big.Int pointer", (*big.Int)(nil), -1, -1},
		{"valuer wrapping float", wrappedValue{inner: 6.5}, -1, 6.5},
		{"valuer wrapping string", wrappedValue{inner: "3.25"}, -1, 3.25},
		{"valuer returning error", brokenValuer{}, -1, -1},
		{"valuer that panics", panickyValuer{}, -1, -1},
		{"nil float pointer", (*float64)(nil), -1, -1},
		{"arbitrary struct", struct{ X int }{X: 1}, -1, -1},
		{"bool", true, -1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToFloat(tt.in, tt.fallback))
		})
	}
}

func TestToFloatPointer(t *testing.T) {
	v := 5.5
	assert.Equal(t, 5.5, ToFloat(&v, 0))
}

func TestToFixed(t *testing.T) {
	assert.Equal(t, "42.00", ToFixed(42, 2, "0.00"))
	assert.Equal(t, "42.50", ToFixed("42.5", 2, "0.00"))
	assert.Equal(t, "0.00", ToFixed(nil, 2, "0.00"))
	assert.Equal(t, "0.00", ToFixed("garbage", 2, "0.00"))
	assert.Equal(t, "3.142", ToFixed(3.14159, 3, "0.000"))
	assert.Equal(t, "0.00", ToFixed(math.NaN(), 2, "0.00"))
	// toFixed rounds, not truncates
	assert.Equal(t, "2.68", ToFixed(2.675000001, 2, "0.00"))
}
