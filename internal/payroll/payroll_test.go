package payroll

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCompute_DefaultRates(t *testing.T) {
	got, err := Compute(decimal.RequireFromString("1000.00"), DefaultRates())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if got.Tax.StringFixed(2) != "50.00" || got.PF.StringFixed(2) != "30.00" || got.Net.StringFixed(2) != "920.00" {
		t.Fatalf("unexpected breakdown: tax=%s pf=%s net=%s", got.Tax, got.PF, got.Net)
	}
}

func TestCompute_HalfUpRounding(t *testing.T) {
	// 0.05 * 10.10 = 0.505 -> 0.51; 0.03 * 10.10 = 0.303 -> 0.30
	got, err := Compute(decimal.RequireFromString("10.10"), DefaultRates())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if got.Tax.StringFixed(2) != "0.51" {
		t.Fatalf("tax = %s", got.Tax.StringFixed(2))
	}
	if got.PF.StringFixed(2) != "0.30" {
		t.Fatalf("pf = %s", got.PF.StringFixed(2))
	}
	if got.Net.StringFixed(2) != "9.29" {
		t.Fatalf("net = %s", got.Net.StringFixed(2))
	}
}

func TestCompute_AlternateRates(t *testing.T) {
	got, err := Compute(decimal.NewFromInt(2500), NewRates(10, 5))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if got.Tax.StringFixed(2) != "250.00" || got.PF.StringFixed(2) != "125.00" || got.Net.StringFixed(2) != "2125.00" {
		t.Fatalf("unexpected breakdown: %+v", got)
	}
}

func TestCompute_RejectsNegative(t *testing.T) {
	_, err := Compute(decimal.NewFromInt(-1), DefaultRates())
	if !errors.Is(err, ErrNegativeGross) {
		t.Fatalf("expected ErrNegativeGross, got %v", err)
	}
}

func TestPercentLabel(t *testing.T) {
	if got := PercentLabel(decimal.NewFromInt(5)); got != "5%" {
		t.Fatalf("got %q", got)
	}
}
