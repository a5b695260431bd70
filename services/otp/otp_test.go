package otp

import (
	"context"
	"errors"
	"testing"
	"time"

	"suarec/models"
)

// fakeCodeStore keeps codes in a map; TTL is ignored.
type fakeCodeStore struct {
	codes map[string]string
}

func newFakeCodeStore() *fakeCodeStore {
	return &fakeCodeStore{codes: map[string]string{}}
}

func (f *fakeCodeStore) SetCode(ctx context.Context, contractID, code string, ttl time.Duration) error {
	f.codes[contractID] = code
	return nil
}

func (f *fakeCodeStore) GetCode(ctx context.Context, contractID string) (string, error) {
	code, ok := f.codes[contractID]
	if !ok {
		return "", ErrCodeNotFound
	}
	return code, nil
}

func (f *fakeCodeStore) DeleteCode(ctx context.Context, contractID string) error {
	delete(f.codes, contractID)
	return nil
}

// fakeCompleter serves a single contract and records completions.
type fakeCompleter struct {
	contract  *models.Contract
	completed []string
}

func (f *fakeCompleter) GetContract(contractID, actorID string) (*models.Contract, error) {
	if f.contract == nil || f.contract.ID != contractID {
		return nil, errors.New("contract not found")
	}
	if !f.contract.IsParty(actorID) {
		return nil, errors.New("not a party to this contract")
	}
	return f.contract, nil
}

func (f *fakeCompleter) CompleteByVerification(ctx context.Context, contractID string) (*models.Contract, error) {
	f.completed = append(f.completed, contractID)
	f.contract.Status = models.ContractCompleted
	return f.contract, nil
}

type fakeUsers struct{}

func (fakeUsers) Create(u *models.User) error { return nil }

func (fakeUsers) GetByID(id string) (*models.User, error) {
	return &models.User{ID: id, Email: id + "@example.com"}, nil
}

func (fakeUsers) GetByEmail(email string) (*models.User, error) {
	return nil, errors.New("user not found")
}

// fakeDispatcher records delivered codes.
type fakeDispatcher struct {
	codes []string
}

func (f *fakeDispatcher) ScheduleContractExpiry(contractID string, fireAt time.Time) error {
	return nil
}

func (f *fakeDispatcher) EnqueueOTPDelivery(contractID, email, code string) error {
	f.codes = append(f.codes, code)
	return nil
}

func deliveredContract() *models.Contract {
	return &models.Contract{
		ID: "c1", ClientID: "client", ProviderID: "provider",
		Status:    models.ContractAccepted,
		Delivered: true,
	}
}

func newTestOTPService(c *models.Contract) (*DefaultOTPService, *fakeCodeStore, *fakeCompleter, *fakeDispatcher) {
	store := newFakeCodeStore()
	completer := &fakeCompleter{contract: c}
	dispatcher := &fakeDispatcher{}
	svc := &DefaultOTPService{
		Codes:     store,
		Contracts: completer,
		Users:     fakeUsers{},
		Tasks:     dispatcher,
		TTL:       24 * time.Hour,
	}
	return svc, store, completer, dispatcher
}

func TestSanitizeCode(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"123456", "123456"},
		{" 123 456 ", "123456"},
		{"12-34-56", "123456"},
		{"12ab34", "1234"},
		{"abcdef", ""},
		{"1234567890", "123456"}, // truncated to code length
		{"", ""},
	}
	for _, tc := range cases {
		if got := SanitizeCode(tc.raw); got != tc.want {
			t.Errorf("SanitizeCode(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestVerifyRejectsMalformedCodeLocally(t *testing.T) {
	// No store, no contract service: a code that does not sanitize to six
	// digits must be rejected before any dependency is touched.
	svc := &DefaultOTPService{}

	for _, raw := range []string{"12ab34", "123", "", "abcdef"} {
		res, err := svc.Verify(context.Background(), "c1", "client", raw)
		if err != nil {
			t.Fatalf("Verify(%q): %v", raw, err)
		}
		if res.IsValid {
			t.Errorf("Verify(%q) accepted a malformed code", raw)
		}
		if res.Message == "" {
			t.Errorf("Verify(%q) returned no message", raw)
		}
	}
}

func TestGenerateIssuesAndDeliversCode(t *testing.T) {
	svc, store, _, dispatcher := newTestOTPService(deliveredContract())

	if err := svc.Generate(context.Background(), "c1", "client"); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	code, ok := store.codes["c1"]
	if !ok {
		t.Fatal("no code stored")
	}
	if len(code) != CodeLength {
		t.Errorf("stored code %q has length %d, want %d", code, len(code), CodeLength)
	}
	if len(dispatcher.codes) != 1 || dispatcher.codes[0] != code {
		t.Errorf("dispatched codes = %v, want the stored code", dispatcher.codes)
	}
}

func TestGenerateClientOnly(t *testing.T) {
	svc, store, _, _ := newTestOTPService(deliveredContract())

	if err := svc.Generate(context.Background(), "c1", "provider"); err == nil {
		t.Fatal("provider must not be able to request a completion code")
	}
	if len(store.codes) != 0 {
		t.Error("no code may be stored on a rejected request")
	}
}

func TestGenerateRequiresDelivery(t *testing.T) {
	c := deliveredContract()
	c.Delivered = false
	svc, store, _, _ := newTestOTPService(c)

	if err := svc.Generate(context.Background(), "c1", "client"); err == nil {
		t.Fatal("expected error before the provider marks delivery")
	}
	if len(store.codes) != 0 {
		t.Error("no code may be stored before delivery")
	}
}

func TestVerifyWrongCodeLeavesStateUntouched(t *testing.T) {
	svc, store, completer, _ := newTestOTPService(deliveredContract())
	store.codes["c1"] = "654321"

	res, err := svc.Verify(context.Background(), "c1", "client", "123456")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if res.IsValid {
		t.Fatal("wrong code accepted")
	}
	if len(completer.completed) != 0 {
		t.Error("wrong code must not complete the contract")
	}
	if store.codes["c1"] != "654321" {
		t.Error("wrong code must leave the active code in place for a retry")
	}

	// The client retries with the right code and succeeds.
	res, err = svc.Verify(context.Background(), "c1", "client", "654321")
	if err != nil {
		t.Fatalf("retry Verify: %v", err)
	}
	if !res.IsValid {
		t.Fatal("correct code rejected on retry")
	}
}

func TestVerifyCorrectCodeCompletesAndConsumes(t *testing.T) {
	svc, store, completer, _ := newTestOTPService(deliveredContract())
	store.codes["c1"] = "654321"

	res, err := svc.Verify(context.Background(), "c1", "client", "654321")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !res.IsValid {
		t.Fatal("correct code rejected")
	}
	if len(completer.completed) != 1 || completer.completed[0] != "c1" {
		t.Errorf("completions = %v, want [c1]", completer.completed)
	}
	if _, ok := store.codes["c1"]; ok {
		t.Error("code must be consumed after a successful verification")
	}

	// The consumed code cannot be replayed.
	res, err = svc.Verify(context.Background(), "c1", "client", "654321")
	if err != nil {
		t.Fatalf("replay Verify: %v", err)
	}
	if res.IsValid {
		t.Error("consumed code accepted again")
	}
}

func TestVerifyExpiredCode(t *testing.T) {
	svc, _, completer, _ := newTestOTPService(deliveredContract())

	res, err := svc.Verify(context.Background(), "c1", "client", "654321")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if res.IsValid {
		t.Fatal("code accepted with nothing issued")
	}
	if len(completer.completed) != 0 {
		t.Error("nothing may complete without an active code")
	}
}

func TestVerifyClientOnly(t *testing.T) {
	svc, store, completer, _ := newTestOTPService(deliveredContract())
	store.codes["c1"] = "654321"

	// Even holding the correct code, the provider cannot self-confirm.
	if _, err := svc.Verify(context.Background(), "c1", "provider", "654321"); err == nil {
		t.Fatal("provider must not be able to verify the completion code")
	}
	if len(completer.completed) != 0 {
		t.Error("provider verification attempt must not complete the contract")
	}
	if store.codes["c1"] != "654321" {
		t.Error("provider verification attempt must not consume the code")
	}
}

func TestGenerateNumericCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := generateNumericCode(CodeLength)
		if err != nil {
			t.Fatalf("generateNumericCode: %v", err)
		}
		if len(code) != CodeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), CodeLength)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("code %q contains non-digit %q", code, r)
			}
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Error("codes never vary")
	}
}
