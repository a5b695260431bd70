package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TypeContractExpire cancels contracts that never left PENDING.
	TypeContractExpire = "contract:expire"
	// TypeOTPDeliver sends a completion code to the contract's client.
	TypeOTPDeliver = "otp:deliver"
)

// ContractExpirePayload is the payload for a contract expiry task.
type ContractExpirePayload struct {
	ContractID string `json:"contractId"`
}

// OTPDeliverPayload is the payload for a completion-code delivery task.
type OTPDeliverPayload struct {
	ContractID string `json:"contractId"`
	Email      string `json:"email"`
	Code       string `json:"code"`
}

// Scheduler enqueues background work. Kept as an interface so services can be
// tested without a running Redis queue.
type Scheduler interface {
	ScheduleContractExpiry(contractID string, fireAt time.Time) error
	EnqueueOTPDelivery(contractID, email, code string) error
}

// AsynqScheduler is the production Scheduler backed by an asynq client.
type AsynqScheduler struct {
	Client *asynq.Client
}

// NewAsynqScheduler wraps an asynq client.
func NewAsynqScheduler(client *asynq.Client) *AsynqScheduler {
	return &AsynqScheduler{Client: client}
}

// ScheduleContractExpiry enqueues a task that fires once the PENDING window closes.
func (s *AsynqScheduler) ScheduleContractExpiry(contractID string, fireAt time.Time) error {
	b, err := json.Marshal(ContractExpirePayload{ContractID: contractID})
	if err != nil {
		return fmt.Errorf("failed to marshal expiry payload: %w", err)
	}
	task := asynq.NewTask(TypeContractExpire, b)
	if _, err := s.Client.Enqueue(task, asynq.ProcessAt(fireAt)); err != nil {
		return fmt.Errorf("failed to enqueue contract expiry: %w", err)
	}
	return nil
}

// EnqueueOTPDelivery enqueues an out-of-band completion-code email.
func (s *AsynqScheduler) EnqueueOTPDelivery(contractID, email, code string) error {
	b, err := json.Marshal(OTPDeliverPayload{ContractID: contractID, Email: email, Code: code})
	if err != nil {
		return fmt.Errorf("failed to marshal otp payload: %w", err)
	}
	task := asynq.NewTask(TypeOTPDeliver, b)
	if _, err := s.Client.Enqueue(task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("failed to enqueue otp delivery: %w", err)
	}
	return nil
}
