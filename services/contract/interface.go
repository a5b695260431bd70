package contract

import (
	"context"
	"time"

	contractRepo "suarec/database/repository/contract"
	publicationRepo "suarec/database/repository/publication"
	"suarec/models"
	"suarec/services/tasks"
)

// PriceMode selects how the initial price of a contract is determined.
const (
	PriceModeAccept = "accept" // copy the publication's listed tariff verbatim
	PriceModeCustom = "custom" // client proposes their own price
)

// CreateContractInput carries everything needed to open a negotiation.
type CreateContractInput struct {
	PublicationID string
	ClientID      string
	PriceMode     string
	Price         float64
	PriceUnit     models.PriceUnit
	PaymentMethod string
	Message       string
	RequestedDate string
	RequestedTime string
}

// SubmitBidInput carries a counter-offer against an open contract.
type SubmitBidInput struct {
	ContractID string
	BidderID   string
	Amount     float64
	Message    string
}

// ProviderResponseInput carries the provider's one-shot decision on a PENDING contract.
type ProviderResponseInput struct {
	ContractID   string
	ProviderID   string
	Action       string // "accept", "reject" or "negotiate"
	CounterOffer *float64
	ProposedDate string
	ProposedTime string
	Message      string
}

// BalanceChecker gates new contract creation on the client's ledger state and
// drops stale balance snapshots after ledger writes.
type BalanceChecker interface {
	CanRequestNewService(ctx context.Context, userID string) (bool, error)
	Invalidate(ctx context.Context, userID string)
}

// ContractService drives the negotiation state machine. All authoritative
// transitions happen here; clients re-fetch state after every mutation.
type ContractService interface {
	CreateContract(in CreateContractInput) (*models.Contract, error)
	SubmitBid(in SubmitBidInput) (*models.Contract, error)
	AcceptBid(bidID, actorID string) (*models.Contract, error)
	ProviderResponse(in ProviderResponseInput) (*models.Contract, error)
	CancelContract(contractID, actorID string) (*models.Contract, error)
	MarkDelivered(contractID, providerID string) (*models.Contract, error)
	CompleteByVerification(ctx context.Context, contractID string) (*models.Contract, error)
	MyContracts(userID string) (asClient []models.Contract, asProvider []models.Contract, err error)
	GetContract(contractID, actorID string) (*models.Contract, error)
}

// DefaultContractService is the production implementation.
type DefaultContractService struct {
	Repo         contractRepo.ContractRepository
	Publications publicationRepo.PublicationRepository
	Balance      BalanceChecker
	Tasks        tasks.Scheduler
	ExpiryWindow time.Duration
}
