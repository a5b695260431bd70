package models

import "time"

// TransactionType tags the workflow event that produced a ledger entry.
type TransactionType string

const (
	TxOTPVerificationDebit   TransactionType = "otp_verification_debit"
	TxOTPVerificationCredit  TransactionType = "otp_verification_credit"
	TxPaymentCompletedCredit TransactionType = "payment_completed_credit"
)

// ValidTransactionType reports whether t is one of the enumerated types.
func ValidTransactionType(t TransactionType) bool {
	switch t {
	case TxOTPVerificationDebit, TxOTPVerificationCredit, TxPaymentCompletedCredit:
		return true
	default:
		return false
	}
}

// TransactionStatus is the settlement status of a ledger entry.
type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxCancelled TransactionStatus = "cancelled"
)

// Balance is the per-user account document. DebitBalance is what the user owes
// the platform; CreditBalance is what the platform owes the user.
type Balance struct {
	UserID        string    `bson:"user_id" json:"userId"`
	DebitBalance  float64   `bson:"debit_balance" json:"debitBalance"`
	CreditBalance float64   `bson:"credit_balance" json:"creditBalance"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updatedAt"`
}

// BalanceSnapshot is the read model served to clients gating new contracts.
type BalanceSnapshot struct {
	DebitBalance         float64 `json:"debitBalance"`
	CreditBalance        float64 `json:"creditBalance"`
	CanRequestNewService bool    `json:"canRequestNewService"`
}

// BalanceTransaction is an append-only ledger entry. Before/after pairs are
// recorded on both sides so every entry is auditable on its own.
type BalanceTransaction struct {
	ID         string            `bson:"id" json:"id"`
	UserID     string            `bson:"user_id" json:"userId"`
	ContractID string            `bson:"contract_id,omitempty" json:"contractId,omitempty"`
	Type       TransactionType   `bson:"type" json:"type"`
	Status     TransactionStatus `bson:"status" json:"status"`
	Amount     float64           `bson:"amount" json:"amount"`

	DebitBalanceBefore  float64 `bson:"debit_balance_before" json:"debitBalanceBefore"`
	DebitBalanceAfter   float64 `bson:"debit_balance_after" json:"debitBalanceAfter"`
	CreditBalanceBefore float64 `bson:"credit_balance_before" json:"creditBalanceBefore"`
	CreditBalanceAfter  float64 `bson:"credit_balance_after" json:"creditBalanceAfter"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// Apply derives the ledger entry for applying amount of the given type to the
// current balance, together with the updated balance. Debit types move the
// debit side, credit types the credit side; the untouched side carries equal
// before/after values.
func (b Balance) Apply(txType TransactionType, amount float64, contractID, entryID string) (BalanceTransaction, Balance) {
	tx := BalanceTransaction{
		ID:                  entryID,
		UserID:              b.UserID,
		ContractID:          contractID,
		Type:                txType,
		Status:              TxCompleted,
		Amount:              amount,
		DebitBalanceBefore:  b.DebitBalance,
		DebitBalanceAfter:   b.DebitBalance,
		CreditBalanceBefore: b.CreditBalance,
		CreditBalanceAfter:  b.CreditBalance,
		CreatedAt:           time.Now(),
	}

	switch txType {
	case TxOTPVerificationDebit:
		tx.DebitBalanceAfter = b.DebitBalance + amount
	case TxOTPVerificationCredit, TxPaymentCompletedCredit:
		tx.CreditBalanceAfter = b.CreditBalance + amount
	}

	updated := b
	updated.DebitBalance = tx.DebitBalanceAfter
	updated.CreditBalance = tx.CreditBalanceAfter
	updated.UpdatedAt = tx.CreatedAt
	return tx, updated
}

// Consistent reports whether the entry's before/after pairs agree with its
// amount: exactly one side moves, by the signed amount.
func (t BalanceTransaction) Consistent() bool {
	debitDelta := t.DebitBalanceAfter - t.DebitBalanceBefore
	creditDelta := t.CreditBalanceAfter - t.CreditBalanceBefore

	switch t.Type {
	case TxOTPVerificationDebit:
		return debitDelta == t.Amount && creditDelta == 0
	case TxOTPVerificationCredit, TxPaymentCompletedCredit:
		return creditDelta == t.Amount && debitDelta == 0
	default:
		return false
	}
}
