package payment

import (
	"context"
	"errors"
	"testing"

	"suarec/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestCanInitiate(t *testing.T) {
	cases := []struct {
		name string
		c    models.Contract
		want bool
	}{
		{
			name: "accepted online with total",
			c: models.Contract{
				Status: models.ContractAccepted, PaymentMethod: "card", TotalPrice: floatPtr(119000),
			},
			want: true,
		},
		{
			name: "cash settlement",
			c: models.Contract{
				Status: models.ContractAccepted, PaymentMethod: "efectivo", TotalPrice: floatPtr(119000),
			},
			want: false,
		},
		{
			name: "no payment method",
			c: models.Contract{
				Status: models.ContractAccepted, TotalPrice: floatPtr(119000),
			},
			want: false,
		},
		{
			name: "not accepted",
			c: models.Contract{
				Status: models.ContractNegotiating, PaymentMethod: "card", TotalPrice: floatPtr(119000),
			},
			want: false,
		},
		{
			name: "missing total",
			c: models.Contract{
				Status: models.ContractAccepted, PaymentMethod: "card",
			},
			want: false,
		},
		{
			name: "zero total",
			c: models.Contract{
				Status: models.ContractAccepted, PaymentMethod: "card", TotalPrice: floatPtr(0),
			},
			want: false,
		},
	}
	for _, tc := range cases {
		if got := CanInitiate(&tc.c); got != tc.want {
			t.Errorf("%s: CanInitiate = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestConsentGiven(t *testing.T) {
	cases := []struct {
		req  models.PaymentRequest
		want bool
	}{
		{models.PaymentRequest{AcceptanceToken: "a", AcceptPersonalAuth: "b"}, true},
		{models.PaymentRequest{AcceptanceToken: "a"}, false},
		{models.PaymentRequest{AcceptPersonalAuth: "b"}, false},
		{models.PaymentRequest{}, false},
	}
	for _, tc := range cases {
		if got := ConsentGiven(tc.req); got != tc.want {
			t.Errorf("ConsentGiven(%+v) = %v, want %v", tc.req, got, tc.want)
		}
	}
}

func TestInitiateRequiresConsentBeforeAnythingElse(t *testing.T) {
	// Nil dependencies: the consent gate must fire before the contract is
	// even looked up.
	svc := &DefaultPaymentService{}

	_, err := svc.Initiate(context.Background(), "client", models.PaymentRequest{
		ContractID:      "c1",
		AcceptanceToken: "only-one-token",
	})
	if !errors.Is(err, ErrConsentRequired) {
		t.Fatalf("err = %v, want ErrConsentRequired", err)
	}
}
