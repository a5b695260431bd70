package contract

import (
	"errors"
	"testing"
	"time"

	"suarec/models"
)

// raceyBidRepo sneaks a bid onto the stored contract right after AcceptBid's
// read, simulating a SubmitBid landing between read and write.
type raceyBidRepo struct {
	*fakeContractRepo
	lateBid models.Bid
	raced   bool
}

func (r *raceyBidRepo) GetByBidID(bidID string) (*models.Contract, error) {
	c, err := r.fakeContractRepo.GetByBidID(bidID)
	if err != nil {
		return nil, err
	}
	if !r.raced {
		r.raced = true
		stored := r.contracts[c.ID]
		stored.Bids = append(stored.Bids, r.lateBid)
		stored.UpdatedAt = time.Now()
	}
	return c, nil
}

func TestSubmitBidMovesPendingToNegotiating(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	repo.contracts["c1"] = &models.Contract{
		ID: "c1", ClientID: "client", ProviderID: "provider",
		Status:       models.ContractPending,
		CurrentPrice: 100000,
	}

	c, err := svc.SubmitBid(SubmitBidInput{ContractID: "c1", BidderID: "provider", Amount: 120000})
	if err != nil {
		t.Fatalf("SubmitBid: %v", err)
	}
	if c.Status != models.ContractNegotiating {
		t.Errorf("status = %s, want NEGOTIATING", c.Status)
	}
	if len(c.Bids) != 1 || c.Bids[0].Amount != 120000 {
		t.Errorf("bids = %+v, want one bid of 120000", c.Bids)
	}
	if c.CurrentPrice != 100000 {
		t.Errorf("currentPrice = %v; a pending bid must not touch it", c.CurrentPrice)
	}
}

func TestSubmitBidValidation(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	repo.contracts["c1"] = &models.Contract{
		ID: "c1", ClientID: "client", ProviderID: "provider",
		Status: models.ContractPending,
	}

	if _, err := svc.SubmitBid(SubmitBidInput{ContractID: "c1", BidderID: "provider", Amount: -1}); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("negative amount err = %v, want ErrInvalidPrice", err)
	}
	if _, err := svc.SubmitBid(SubmitBidInput{ContractID: "c1", BidderID: "stranger", Amount: 100}); !errors.Is(err, ErrNotParty) {
		t.Errorf("outsider err = %v, want ErrNotParty", err)
	}

	repo.contracts["c1"].Status = models.ContractRejected
	if _, err := svc.SubmitBid(SubmitBidInput{ContractID: "c1", BidderID: "provider", Amount: 100}); !errors.Is(err, ErrNotNegotiable) {
		t.Errorf("rejected contract err = %v, want ErrNotNegotiable", err)
	}
}

func TestAcceptBid(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	repo.contracts["c1"] = &models.Contract{
		ID: "c1", PublicationID: "p1", ClientID: "client", ProviderID: "provider",
		Status:        models.ContractNegotiating,
		CurrentPrice:  100000,
		RequestedDate: "2026-09-01",
		RequestedTime: "10:00",
		Bids: []models.Bid{
			{ID: "b1", ContractID: "c1", BidderID: "provider", Amount: 120000},
		},
	}

	c, err := svc.AcceptBid("b1", "client")
	if err != nil {
		t.Fatalf("AcceptBid: %v", err)
	}
	if c.Status != models.ContractAccepted {
		t.Errorf("status = %s, want ACCEPTED", c.Status)
	}
	if c.CurrentPrice != 120000 {
		t.Errorf("currentPrice = %v, want the accepted bid amount", c.CurrentPrice)
	}
	// Service category carries 19% IVA.
	if c.TotalPrice == nil || *c.TotalPrice != 142800 {
		t.Errorf("totalPrice = %v, want 142800", c.TotalPrice)
	}
	if c.AgreedDate != "2026-09-01" || c.AgreedTime != "10:00" {
		t.Errorf("agreed slot = %s %s, want requested slot", c.AgreedDate, c.AgreedTime)
	}
}

func TestAcceptOwnBid(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	repo.contracts["c1"] = &models.Contract{
		ID: "c1", PublicationID: "p1", ClientID: "client", ProviderID: "provider",
		Status: models.ContractNegotiating,
		Bids: []models.Bid{
			{ID: "b1", ContractID: "c1", BidderID: "provider", Amount: 120000},
		},
	}

	if _, err := svc.AcceptBid("b1", "provider"); !errors.Is(err, ErrOwnBid) {
		t.Fatalf("err = %v, want ErrOwnBid", err)
	}
}

func TestAcceptBidDoesNotClobberConcurrentBid(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	repo.contracts["c1"] = &models.Contract{
		ID: "c1", PublicationID: "p1", ClientID: "client", ProviderID: "provider",
		Status:       models.ContractNegotiating,
		CurrentPrice: 100000,
		Bids: []models.Bid{
			{ID: "b1", ContractID: "c1", BidderID: "provider", Amount: 120000},
		},
	}
	svc.Repo = &raceyBidRepo{
		fakeContractRepo: repo,
		lateBid:          models.Bid{ID: "b2", ContractID: "c1", BidderID: "client", Amount: 110000},
	}

	// The accept read a snapshot that predates b2; the versioned write must
	// lose rather than replace the document and drop the new bid.
	if _, err := svc.AcceptBid("b1", "client"); !errors.Is(err, ErrNotNegotiable) {
		t.Fatalf("err = %v, want ErrNotNegotiable", err)
	}

	stored := repo.contracts["c1"]
	if len(stored.Bids) != 2 {
		t.Fatalf("bids = %d, want 2; the concurrent bid must survive", len(stored.Bids))
	}
	if stored.Status != models.ContractNegotiating {
		t.Errorf("status = %s, want NEGOTIATING", stored.Status)
	}
}

func TestAcceptBidRacingTransitionLoses(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	repo.contracts["c1"] = &models.Contract{
		ID: "c1", PublicationID: "p1", ClientID: "client", ProviderID: "provider",
		Status: models.ContractCancelled,
		Bids: []models.Bid{
			{ID: "b1", ContractID: "c1", BidderID: "provider", Amount: 120000},
		},
	}

	if _, err := svc.AcceptBid("b1", "client"); !errors.Is(err, ErrNotNegotiable) {
		t.Fatalf("err = %v, want ErrNotNegotiable", err)
	}
}
