package models

import "testing"

func TestContractStatusTerminal(t *testing.T) {
	cases := map[ContractStatus]bool{
		ContractPending:     false,
		ContractNegotiating: false,
		ContractAccepted:    false,
		ContractRejected:    true,
		ContractCancelled:   true,
		ContractCompleted:   true,
	}
	for status, want := range cases {
		if got := status.Terminal(); got != want {
			t.Errorf("Terminal(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestContractStatusTransitions(t *testing.T) {
	all := []ContractStatus{
		ContractPending, ContractNegotiating, ContractAccepted,
		ContractRejected, ContractCancelled, ContractCompleted,
	}

	allowed := map[ContractStatus][]ContractStatus{
		ContractPending:     {ContractNegotiating, ContractAccepted, ContractRejected, ContractCancelled},
		ContractNegotiating: {ContractAccepted, ContractCancelled},
		ContractAccepted:    {ContractCompleted, ContractCancelled},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTerminalStatesAbsorb(t *testing.T) {
	all := []ContractStatus{
		ContractPending, ContractNegotiating, ContractAccepted,
		ContractRejected, ContractCancelled, ContractCompleted,
	}
	for _, from := range []ContractStatus{ContractRejected, ContractCancelled, ContractCompleted} {
		for _, to := range all {
			if from.CanTransitionTo(to) {
				t.Errorf("terminal state %s must not transition to %s", from, to)
			}
		}
	}
}

func TestValidPriceUnit(t *testing.T) {
	for _, u := range []PriceUnit{UnitHour, UnitProject, UnitMonthly, UnitDaily, UnitWeekly, UnitPiece, UnitService} {
		if !ValidPriceUnit(u) {
			t.Errorf("ValidPriceUnit(%s) = false", u)
		}
	}
	if ValidPriceUnit("fortnight") {
		t.Error("ValidPriceUnit(fortnight) = true")
	}
	if ValidPriceUnit("") {
		t.Error("ValidPriceUnit(empty) = true")
	}
}

func TestApplyAcceptedBid(t *testing.T) {
	c := &Contract{
		ID:           "c1",
		Status:       ContractNegotiating,
		CurrentPrice: 100,
		Bids: []Bid{
			{ID: "b1", Amount: 90},
			{ID: "b2", Amount: 80},
		},
	}

	bid, err := c.ApplyAcceptedBid("b2", 95.2)
	if err != nil {
		t.Fatalf("ApplyAcceptedBid: %v", err)
	}
	if bid.ID != "b2" {
		t.Fatalf("accepted bid = %s, want b2", bid.ID)
	}
	if c.Status != ContractAccepted {
		t.Errorf("status = %s, want ACCEPTED", c.Status)
	}
	if c.CurrentPrice != 80 {
		t.Errorf("currentPrice = %v, want 80", c.CurrentPrice)
	}
	if c.TotalPrice == nil || *c.TotalPrice != 95.2 {
		t.Errorf("totalPrice = %v, want 95.2", c.TotalPrice)
	}
	if acc := c.AcceptedBid(); acc == nil || acc.ID != "b2" {
		t.Errorf("AcceptedBid = %v, want b2", acc)
	}
}

func TestApplyAcceptedBidFlipsPreviousWinner(t *testing.T) {
	c := &Contract{
		ID:     "c1",
		Status: ContractNegotiating,
		Bids: []Bid{
			{ID: "b1", Amount: 90, IsAccepted: true},
			{ID: "b2", Amount: 80},
		},
	}

	if _, err := c.ApplyAcceptedBid("b2", 80); err != nil {
		t.Fatalf("ApplyAcceptedBid: %v", err)
	}

	accepted := 0
	for _, b := range c.Bids {
		if b.IsAccepted {
			accepted++
			if b.ID != "b2" {
				t.Errorf("accepted bid = %s, want b2", b.ID)
			}
		}
	}
	if accepted != 1 {
		t.Errorf("accepted bids = %d, want exactly 1", accepted)
	}
}

func TestApplyAcceptedBidRejectsTerminal(t *testing.T) {
	c := &Contract{
		ID:     "c1",
		Status: ContractCompleted,
		Bids:   []Bid{{ID: "b1", Amount: 90}},
	}
	if _, err := c.ApplyAcceptedBid("b1", 90); err == nil {
		t.Fatal("expected error accepting a bid on a completed contract")
	}
}

func TestApplyAcceptedBidUnknownBid(t *testing.T) {
	c := &Contract{ID: "c1", Status: ContractPending, Bids: []Bid{}}
	if _, err := c.ApplyAcceptedBid("missing", 10); err == nil {
		t.Fatal("expected error for unknown bid id")
	}
}

func TestIsParty(t *testing.T) {
	c := &Contract{ClientID: "u1", ProviderID: "u2"}
	if !c.IsParty("u1") || !c.IsParty("u2") {
		t.Error("client and provider must both be parties")
	}
	if c.IsParty("u3") {
		t.Error("outsider must not be a party")
	}
}
