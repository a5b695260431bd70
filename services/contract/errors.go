package contract

import "fmt"

// ContractError is a typed workflow error surfaced to callers with a stable code.
type ContractError struct {
	Code    string
	Message string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Workflow error values. Validation errors fire before any persistence call.
var (
	ErrInvalidPrice       = &ContractError{Code: "invalidPrice", Message: "precio inválido"}
	ErrInvalidPriceUnit   = &ContractError{Code: "invalidPriceUnit", Message: "unidad de precio inválida"}
	ErrPublicationNoPrice = &ContractError{Code: "publicationWithoutPrice", Message: "la publicación no tiene tarifa para aceptar"}
	ErrInvalidAction      = &ContractError{Code: "invalidAction", Message: "acción inválida"}
	ErrNotParty           = &ContractError{Code: "notParty", Message: "no hace parte de este contrato"}
	ErrOwnBid             = &ContractError{Code: "ownBid", Message: "no puede aceptar su propia oferta"}
	ErrOwnPublication     = &ContractError{Code: "ownPublication", Message: "no puede contratar su propia publicación"}
	ErrNotNegotiable      = &ContractError{Code: "notNegotiable", Message: "el contrato ya no es negociable"}
	ErrNotPending         = &ContractError{Code: "notPending", Message: "el contrato ya recibió una respuesta"}
	ErrNotAccepted        = &ContractError{Code: "notAccepted", Message: "el contrato no está aceptado"}
	ErrNotDelivered       = &ContractError{Code: "notDelivered", Message: "el servicio aún no se marca como entregado"}
	ErrTerminalState      = &ContractError{Code: "terminalState", Message: "el contrato está en un estado final"}
	ErrBalanceBlocked     = &ContractError{Code: "balanceBlocked", Message: "saldo pendiente supera el límite, no puede solicitar nuevos servicios"}
)
