package handlers

// HandlerBundle groups all endpoint handlers into one struct so routing can be
// wired from a single value.
type HandlerBundle struct {
	Auth         *AuthHandler
	Publications *PublicationHandler
	Contracts    *ContractHandler
	OTP          *OTPHandler
	Payments     *PaymentHandler
	Balance      *BalanceHandler
}
