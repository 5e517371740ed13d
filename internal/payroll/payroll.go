// Package payroll 计算工资条中的税、公积金（PF）与实发工资。
package payroll

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNegativeGross 表示应发工资为负数。
var ErrNegativeGross = errors.New("gross salary must not be negative")

var hundred = decimal.NewFromInt(100)

// Rates 以百分比表示的扣款比例，例如 TaxPercent=5 表示 5%。
type Rates struct {
	TaxPercent decimal.Decimal
	PFPercent  decimal.Decimal
}

// DefaultRates 返回默认的 5% 税率与 3% 公积金比例。
func DefaultRates() Rates {
	return Rates{
		TaxPercent: decimal.NewFromInt(5),
		PFPercent:  decimal.NewFromInt(3),
	}
}

// NewRates 由浮点百分比构造 Rates。
func NewRates(taxPercent, pfPercent float64) Rates {
	return Rates{
		TaxPercent: decimal.NewFromFloat(taxPercent),
		PFPercent:  decimal.NewFromFloat(pfPercent),
	}
}

// Breakdown 是一次工资计算的结果，金额均保留两位小数。
type Breakdown struct {
	Gross decimal.Decimal
	Tax   decimal.Decimal
	PF    decimal.Decimal
	Net   decimal.Decimal
}

// Compute 按比例计算扣款：每一项单独四舍五入（half-up）到两位小数，
// 实发 = 应发 - 税 - 公积金，再次取两位小数。
func Compute(gross decimal.Decimal, rates Rates) (Breakdown, error) {
	if gross.IsNegative() {
		return Breakdown{}, fmt.Errorf("%w: %s", ErrNegativeGross, gross.String())
	}
	tax := gross.Mul(rates.TaxPercent).Div(hundred).Round(2)
	pf := gross.Mul(rates.PFPercent).Div(hundred).Round(2)
	net := gross.Sub(tax).Sub(pf).Round(2)
	return Breakdown{
		Gross: gross,
		Tax:   tax,
		PF:    pf,
		Net:   net,
	}, nil
}

// PercentLabel 返回用于工资条展示的比例文本，例如 "5%"。
func PercentLabel(p decimal.Decimal) string {
	return p.String() + "%"
}
