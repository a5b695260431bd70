package payment

import (
	"context"
	"fmt"
	"strings"

	contractRepo "suarec/database/repository/contract"
	ledgerRepo "suarec/database/repository/ledger"
	publicationRepo "suarec/database/repository/publication"
	"suarec/models"
	"suarec/services/contract"
	"suarec/utils"

	"go.uber.org/zap"
)

// PaymentError is a typed checkout error surfaced to callers with a stable code.
type PaymentError struct {
	Code    string
	Message string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	// ErrConsentRequired rejects checkout before the gateway is touched when
	// either acceptance token is missing. An un-consented payment initiation
	// is a compliance violation, not a UX detail.
	ErrConsentRequired = &PaymentError{Code: "consentRequired", Message: "debe aceptar los términos y el tratamiento de datos personales"}
	ErrNotPayable      = &PaymentError{Code: "notPayable", Message: "el contrato no está listo para pago en línea"}
	ErrNotClient       = &PaymentError{Code: "notClient", Message: "solo el cliente puede iniciar el pago"}
	ErrBadSignature    = &PaymentError{Code: "badSignature", Message: "firma del evento inválida"}
)

// referencePrefix namespaces gateway references back to contract ids.
const referencePrefix = "suarec-"

// PaymentService handles the checkout handoff and the gateway's webhook.
type PaymentService interface {
	MerchantInfo(ctx context.Context) (*models.MerchantInfo, error)
	Initiate(ctx context.Context, clientID string, req models.PaymentRequest) (*models.CheckoutSession, error)
	HandleGatewayEvent(ctx context.Context, ev models.GatewayEvent) error
}

// BalanceInvalidator drops a user's cached balance snapshot after a ledger write.
type BalanceInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

// DefaultPaymentService is the production implementation.
type DefaultPaymentService struct {
	Gateway      Gateway
	Contracts    contractRepo.ContractRepository
	Publications publicationRepo.PublicationRepository
	Ledger       ledgerRepo.LedgerRepository
	Balances     BalanceInvalidator
	EventsSecret string
	RedirectURL  string
}

// ConsentGiven reports whether both consent tokens were acknowledged.
func ConsentGiven(req models.PaymentRequest) bool {
	return req.AcceptanceToken != "" && req.AcceptPersonalAuth != ""
}

// CanInitiate reports whether a contract is eligible for online payment:
// accepted, carrying a total, and settled by a method other than cash.
func CanInitiate(c *models.Contract) bool {
	if c.Status != models.ContractAccepted {
		return false
	}
	if c.PaymentMethod == "" || c.PaymentMethod == "efectivo" {
		return false
	}
	return c.TotalPrice != nil && *c.TotalPrice > 0
}

// MerchantInfo proxies the gateway's consent tokens to the client.
func (s *DefaultPaymentService) MerchantInfo(ctx context.Context) (*models.MerchantInfo, error) {
	return s.Gateway.MerchantInfo(ctx)
}

// Initiate composes and submits the checkout for an accepted contract. No
// local state is mutated: the contract only changes when the webhook lands.
func (s *DefaultPaymentService) Initiate(ctx context.Context, clientID string, req models.PaymentRequest) (*models.CheckoutSession, error) {
	if !ConsentGiven(req) {
		return nil, ErrConsentRequired
	}

	c, err := s.Contracts.GetByID(req.ContractID)
	if err != nil {
		return nil, err
	}
	if c.ClientID != clientID {
		return nil, ErrNotClient
	}
	if !CanInitiate(c) {
		return nil, ErrNotPayable
	}

	pub, err := s.Publications.GetByID(c.PublicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve publication: %w", err)
	}

	checkout := models.CheckoutRequest{
		AmountInCents:      contract.AmountInCents(*c.TotalPrice),
		Currency:           "COP",
		PaymentMethod:      c.PaymentMethod,
		Reference:          referencePrefix + c.ID,
		ContractID:         c.ID,
		PayeeID:            c.ProviderID,
		Description:        pub.Title,
		RedirectURL:        s.RedirectURL,
		AcceptanceToken:    req.AcceptanceToken,
		AcceptPersonalAuth: req.AcceptPersonalAuth,
	}

	session, err := s.Gateway.CreateCheckout(ctx, checkout)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout: %w", err)
	}
	return session, nil
}

// HandleGatewayEvent processes a webhook delivery. Only approved transaction
// updates matter; everything else is acknowledged and ignored. The ledger
// write is deduplicated so gateway redeliveries stay idempotent.
func (s *DefaultPaymentService) HandleGatewayEvent(ctx context.Context, ev models.GatewayEvent) error {
	if !VerifyEventChecksum(ev, s.EventsSecret) {
		return ErrBadSignature
	}
	if ev.Event != "transaction.updated" || ev.Data.Transaction.Status != "APPROVED" {
		return nil
	}

	ref := ev.Data.Transaction.Reference
	if !strings.HasPrefix(ref, referencePrefix) {
		return fmt.Errorf("event reference %q does not belong to this service", ref)
	}
	contractID := strings.TrimPrefix(ref, referencePrefix)

	c, err := s.Contracts.GetByID(contractID)
	if err != nil {
		return err
	}

	exists, err := s.Ledger.HasTransaction(ctx, c.ID, models.TxPaymentCompletedCredit)
	if err != nil {
		return err
	}
	if exists {
		utils.GetLogger().Info("duplicate gateway event ignored", zap.String("contractID", c.ID))
		return nil
	}

	amount := float64(ev.Data.Transaction.AmountInCents) / 100
	if _, err := s.Ledger.Apply(ctx, c.ProviderID, c.ID, models.TxPaymentCompletedCredit, amount); err != nil {
		return err
	}
	if s.Balances != nil {
		s.Balances.Invalidate(ctx, c.ProviderID)
	}

	utils.GetLogger().Info("payment credited",
		zap.String("contractID", c.ID),
		zap.String("providerID", c.ProviderID),
		zap.Float64("amount", amount))
	return nil
}
