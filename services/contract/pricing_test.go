package contract

import (
	"testing"

	"suarec/models"
)

func TestPriceWithTax(t *testing.T) {
	cases := []struct {
		category models.PublicationCategory
		price    float64
		want     float64
	}{
		{models.CategoryService, 100000, 119000},
		{models.CategoryProduct, 100000, 119000},
		{models.CategoryEmployment, 100000, 100000},
		{models.CategoryService, 33333, 39666}, // 39666.27 rounds down
		{models.CategoryService, 1, 1},         // 1.19 rounds to whole pesos
		{"unknown", 100000, 100000},
	}
	for _, tc := range cases {
		if got := PriceWithTax(tc.category, tc.price); got != tc.want {
			t.Errorf("PriceWithTax(%s, %v) = %v, want %v", tc.category, tc.price, got, tc.want)
		}
	}
}

func TestPlatformFee(t *testing.T) {
	if got := PlatformFee(150000); got != 12000 {
		t.Errorf("PlatformFee(150000) = %v, want 12000", got)
	}
	if got := PlatformFee(99); got != 8 {
		t.Errorf("PlatformFee(99) = %v, want 8 (7.92 rounds up)", got)
	}
}

func TestAmountInCents(t *testing.T) {
	cases := []struct {
		amount float64
		want   int64
	}{
		{119000, 11900000},
		{0.4, 0},
		{0.5, 100},
		{178500, 17850000},
	}
	for _, tc := range cases {
		if got := AmountInCents(tc.amount); got != tc.want {
			t.Errorf("AmountInCents(%v) = %d, want %d", tc.amount, got, tc.want)
		}
	}
}

func TestValidPrice(t *testing.T) {
	valid := []float64{1, 0.01, 1e12}
	for _, p := range valid {
		if !validPrice(p) {
			t.Errorf("validPrice(%v) = false", p)
		}
	}
	invalid := []float64{0, -1}
	for _, p := range invalid {
		if validPrice(p) {
			t.Errorf("validPrice(%v) = true", p)
		}
	}
}
