// Package money provides exact decimal arithmetic for monetary cost figures.
// Costs enter the system as float64; accumulating them with apd avoids the
// drift a plain float sum picks up over many small per-message amounts.
package money

import (
	"github.com/cockroachdb/apd/v3"
)

var decCtx = apd.BaseContext.WithPrecision(34)

// Accumulator sums float64 amounts exactly.
type Accumulator struct {
	total apd.Decimal
}

func (a *Accumulator) Add(v float64) {
	var d apd.Decimal
	if _, err := d.SetFloat64(v); err != nil {
		return
	}
	decCtx.Add(&a.total, &a.total, &d)
}

func (a *Accumulator) Float64() float64 {
	f, err := a.total.Float64()
	if err != nil {
		return 0
	}
	return f
}

// Mul returns a*b computed in decimal space.
func Mul(a, b float64) float64 {
	var da, db, res apd.Decimal
	if _, err := da.SetFloat64(a); err != nil {
		return 0
	}
	if _, err := db.SetFloat64(b); err != nil {
		return 0
	}
	decCtx.Mul(&res, &da, &db)
	f, err := res.Float64()
	if err != nil {
		return 0
	}
	return f
}

// Format renders v with exactly four decimal places, the precision used for
// cost columns in exports.
func Format(v float64) string {
	var d, q apd.Decimal
	if _, err := d.SetFloat64(v); err != nil {
		return "0.0000"
	}
	decCtx.Quantize(&q, &d, -4)
	return q.Text('f')
}
