package payment

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"suarec/models"
)

// Gateway abstracts the payment provider so the workflow can be tested
// without network access.
type Gateway interface {
	MerchantInfo(ctx context.Context) (*models.MerchantInfo, error)
	CreateCheckout(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error)
}

// WompiClient talks to the Wompi REST API.
type WompiClient struct {
	BaseURL    string
	PublicKey  string
	PrivateKey string
	HTTPClient *http.Client
}

// NewWompiClient builds a gateway client with a bounded request timeout.
func NewWompiClient(baseURL, publicKey, privateKey string) *WompiClient {
	return &WompiClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		PublicKey:  publicKey,
		PrivateKey: privateKey,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// merchantResponse mirrors the merchant endpoint payload: the presigned
// consent tokens the paying user must acknowledge before checkout.
type merchantResponse struct {
	Data struct {
		PresignedAcceptance struct {
			AcceptanceToken string `json:"acceptance_token"`
			Permalink       string `json:"permalink"`
		} `json:"presigned_acceptance"`
		PresignedPersonalDataAuth struct {
			AcceptanceToken string `json:"acceptance_token"`
			Permalink       string `json:"permalink"`
		} `json:"presigned_personal_data_auth"`
	} `json:"data"`
}

// MerchantInfo fetches the consent tokens from the gateway's merchant endpoint.
func (w *WompiClient) MerchantInfo(ctx context.Context) (*models.MerchantInfo, error) {
	url := fmt.Sprintf("%s/merchants/%s", w.BaseURL, w.PublicKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build merchant request: %w", err)
	}

	resp, err := w.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("merchant request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("merchant endpoint returned status %d", resp.StatusCode)
	}

	var mr merchantResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("failed to decode merchant response: %w", err)
	}

	return &models.MerchantInfo{
		AcceptanceToken:    mr.Data.PresignedAcceptance.AcceptanceToken,
		PersonalAuthToken:  mr.Data.PresignedPersonalDataAuth.AcceptanceToken,
		TermsPermalink:     mr.Data.PresignedAcceptance.Permalink,
		PersonalDataPolicy: mr.Data.PresignedPersonalDataAuth.Permalink,
	}, nil
}

// checkoutResponse mirrors the payment-link creation payload.
type checkoutResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// CreateCheckout creates a hosted payment link for the composed request.
func (w *WompiClient) CreateCheckout(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal checkout request: %w", err)
	}

	url := w.BaseURL + "/payment_links"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build checkout request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+w.PrivateKey)

	resp, err := w.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("checkout request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("checkout endpoint returned status %d", resp.StatusCode)
	}

	var cr checkoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("failed to decode checkout response: %w", err)
	}

	return &models.CheckoutSession{
		PaymentLink: "https://checkout.wompi.co/l/" + cr.Data.ID,
		Reference:   req.Reference,
	}, nil
}

// VerifyEventChecksum validates a webhook event signature: SHA-256 over the
// concatenation of the named transaction properties, the event timestamp and
// the events secret.
func VerifyEventChecksum(ev models.GatewayEvent, secret string) bool {
	if ev.Signature.Checksum == "" {
		return false
	}

	var b strings.Builder
	for _, prop := range ev.Signature.Properties {
		switch prop {
		case "transaction.id":
			b.WriteString(ev.Data.Transaction.ID)
		case "transaction.status":
			b.WriteString(ev.Data.Transaction.Status)
		case "transaction.amount_in_cents":
			b.WriteString(strconv.FormatInt(ev.Data.Transaction.AmountInCents, 10))
		case "transaction.reference":
			b.WriteString(ev.Data.Transaction.Reference)
		}
	}
	b.WriteString(strconv.FormatInt(ev.Timestamp, 10))
	b.WriteString(secret)

	sum := sha256.Sum256([]byte(b.String()))
	return strings.EqualFold(hex.EncodeToString(sum[:]), ev.Signature.Checksum)
}
