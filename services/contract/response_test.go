package contract

import (
	"errors"
	"testing"

	"suarec/models"
)

func pendingContract() *models.Contract {
	return &models.Contract{
		ID: "c1", PublicationID: "p1", ClientID: "client", ProviderID: "provider",
		Status:        models.ContractPending,
		CurrentPrice:  100000,
		RequestedDate: "2026-09-01",
		RequestedTime: "10:00",
		Bids:          []models.Bid{},
	}
}

func TestProviderResponseAccept(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	repo.contracts["c1"] = pendingContract()

	c, err := svc.ProviderResponse(ProviderResponseInput{
		ContractID: "c1", ProviderID: "provider", Action: ActionAccept,
	})
	if err != nil {
		t.Fatalf("ProviderResponse: %v", err)
	}
	if c.Status != models.ContractAccepted {
		t.Errorf("status = %s, want ACCEPTED", c.Status)
	}
	if c.TotalPrice == nil || *c.TotalPrice != 119000 {
		t.Errorf("totalPrice = %v, want 119000 (100000 + 19%% IVA)", c.TotalPrice)
	}
	if c.AgreedDate != "2026-09-01" {
		t.Errorf("agreedDate = %s, want requested date", c.AgreedDate)
	}
}

func TestProviderResponseReject(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	repo.contracts["c1"] = pendingContract()

	c, err := svc.ProviderResponse(ProviderResponseInput{
		ContractID: "c1", ProviderID: "provider", Action: ActionReject,
	})
	if err != nil {
		t.Fatalf("ProviderResponse: %v", err)
	}
	if c.Status != models.ContractRejected {
		t.Errorf("status = %s, want REJECTED", c.Status)
	}

	// A rejected contract accepts no further bids.
	if _, err := svc.SubmitBid(SubmitBidInput{ContractID: "c1", BidderID: "client", Amount: 90000}); !errors.Is(err, ErrNotNegotiable) {
		t.Errorf("bid after reject err = %v, want ErrNotNegotiable", err)
	}
}

func TestProviderResponseNegotiateWithCounterOffer(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	repo.contracts["c1"] = pendingContract()
	counter := 130000.0

	c, err := svc.ProviderResponse(ProviderResponseInput{
		ContractID:   "c1",
		ProviderID:   "provider",
		Action:       ActionNegotiate,
		CounterOffer: &counter,
		ProposedDate: "2026-09-03",
	})
	if err != nil {
		t.Fatalf("ProviderResponse: %v", err)
	}
	if c.Status != models.ContractNegotiating {
		t.Errorf("status = %s, want NEGOTIATING", c.Status)
	}
	if len(c.Bids) != 1 || c.Bids[0].BidderID != "provider" || c.Bids[0].Amount != 130000 {
		t.Errorf("counter-offer must be recorded as a provider bid, got %+v", c.Bids)
	}
	if c.CurrentPrice != 100000 {
		t.Errorf("currentPrice = %v; a counter-offer must not change it", c.CurrentPrice)
	}
	if c.AgreedDate != "2026-09-03" {
		t.Errorf("agreedDate = %s, want proposed date", c.AgreedDate)
	}
}

func TestProviderResponseValidation(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	repo.contracts["c1"] = pendingContract()
	bad := -10.0

	if _, err := svc.ProviderResponse(ProviderResponseInput{
		ContractID: "c1", ProviderID: "provider", Action: "maybe",
	}); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("unknown action err = %v, want ErrInvalidAction", err)
	}

	if _, err := svc.ProviderResponse(ProviderResponseInput{
		ContractID: "c1", ProviderID: "provider", Action: ActionNegotiate, CounterOffer: &bad,
	}); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("negative counter-offer err = %v, want ErrInvalidPrice", err)
	}

	if _, err := svc.ProviderResponse(ProviderResponseInput{
		ContractID: "c1", ProviderID: "client", Action: ActionAccept,
	}); !errors.Is(err, ErrNotParty) {
		t.Errorf("client issuing provider response err = %v, want ErrNotParty", err)
	}
}

func TestProviderResponseIsOneShot(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	repo.contracts["c1"] = pendingContract()

	if _, err := svc.ProviderResponse(ProviderResponseInput{
		ContractID: "c1", ProviderID: "provider", Action: ActionNegotiate,
	}); err != nil {
		t.Fatalf("first response: %v", err)
	}

	if _, err := svc.ProviderResponse(ProviderResponseInput{
		ContractID: "c1", ProviderID: "provider", Action: ActionAccept,
	}); !errors.Is(err, ErrNotPending) {
		t.Fatalf("second response err = %v, want ErrNotPending", err)
	}
}
