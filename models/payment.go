package models

// PaymentRequest is what a client submits to initiate a gateway checkout for
// an accepted contract. Both acceptance tokens must be present: an
// un-consented payment initiation is rejected before the gateway is touched.
type PaymentRequest struct {
	ContractID         string `json:"contract_id" binding:"required"`
	AcceptanceToken    string `json:"acceptance_token"`
	AcceptPersonalAuth string `json:"accept_personal_auth"`
}

// CheckoutRequest is the composed request sent to the payment gateway.
type CheckoutRequest struct {
	AmountInCents      int64  `json:"amount_in_cents"`
	Currency           string `json:"currency"`
	PaymentMethod      string `json:"payment_method"`
	Reference          string `json:"reference"`
	ContractID         string `json:"contract_id"`
	PayeeID            string `json:"payee_id"`
	Description        string `json:"description"`
	RedirectURL        string `json:"redirect_url"`
	AcceptanceToken    string `json:"acceptance_token"`
	AcceptPersonalAuth string `json:"accept_personal_auth"`
}

// CheckoutSession is the gateway's answer: a hosted payment page the browser
// is redirected to. No local state changes until the gateway webhook lands.
type CheckoutSession struct {
	PaymentLink string `json:"wompi_payment_link"`
	Reference   string `json:"reference"`
}

// MerchantInfo carries the presigned consent tokens fetched from the gateway's
// merchant endpoint. The paying user must acknowledge both before checkout.
type MerchantInfo struct {
	AcceptanceToken    string `json:"acceptance_token"`
	PersonalAuthToken  string `json:"accept_personal_auth"`
	TermsPermalink     string `json:"terms_permalink,omitempty"`
	PersonalDataPolicy string `json:"personal_data_permalink,omitempty"`
}

// GatewayEvent is the webhook envelope delivered by the payment gateway.
type GatewayEvent struct {
	Event string `json:"event"`
	Data  struct {
		Transaction GatewayTransaction `json:"transaction"`
	} `json:"data"`
	Signature struct {
		Properties []string `json:"properties"`
		Checksum   string   `json:"checksum"`
	} `json:"signature"`
	Timestamp int64 `json:"timestamp"`
}

// GatewayTransaction is the transaction payload inside a gateway event.
type GatewayTransaction struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	AmountInCents int64  `json:"amount_in_cents"`
	Reference     string `json:"reference"`
	PaymentMethod string `json:"payment_method_type"`
}
