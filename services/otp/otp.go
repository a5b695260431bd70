package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	userRepo "suarec/database/repository/user"
	"suarec/models"
	"suarec/services/tasks"
	"suarec/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CodeLength is the fixed length of a completion code.
const CodeLength = 6

// ErrCodeNotFound reports that no active code exists for a contract, either
// because none was issued or because it expired.
var ErrCodeNotFound = errors.New("completion code not found")

// CodeStore persists the active completion code per contract.
type CodeStore interface {
	SetCode(ctx context.Context, contractID, code string, ttl time.Duration) error
	GetCode(ctx context.Context, contractID string) (string, error)
	DeleteCode(ctx context.Context, contractID string) error
}

// RedisCodeStore keeps codes in Redis; expiry is the key's TTL.
type RedisCodeStore struct {
	Client *redis.Client
}

func codeKey(contractID string) string {
	return fmt.Sprintf("contract-otp:%s", contractID)
}

// SetCode stores the code, overwriting any previously active one.
func (s *RedisCodeStore) SetCode(ctx context.Context, contractID, code string, ttl time.Duration) error {
	return s.Client.Set(ctx, codeKey(contractID), code, ttl).Err()
}

// GetCode returns the active code, or ErrCodeNotFound when none is live.
func (s *RedisCodeStore) GetCode(ctx context.Context, contractID string) (string, error) {
	code, err := s.Client.Get(ctx, codeKey(contractID)).Result()
	if err == redis.Nil {
		return "", ErrCodeNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read completion code: %w", err)
	}
	return code, nil
}

// DeleteCode consumes the active code.
func (s *RedisCodeStore) DeleteCode(ctx context.Context, contractID string) error {
	return s.Client.Del(ctx, codeKey(contractID)).Err()
}

// ContractCompleter is the slice of the contract service the code flow needs.
type ContractCompleter interface {
	GetContract(contractID, actorID string) (*models.Contract, error)
	CompleteByVerification(ctx context.Context, contractID string) (*models.Contract, error)
}

// VerifyResult is what the client sees after submitting a code.
type VerifyResult struct {
	IsValid bool   `json:"isValid"`
	Message string `json:"message,omitempty"`
}

// OTPService drives completion verification: after the provider marks the
// service delivered, the client confirms with a 6-digit code sent out-of-band.
type OTPService interface {
	Generate(ctx context.Context, contractID, clientID string) error
	Verify(ctx context.Context, contractID, clientID, code string) (*VerifyResult, error)
	Resend(ctx context.Context, contractID, clientID string) error
}

// DefaultOTPService is the production implementation; the TTL is the expiry
// window of an issued code.
type DefaultOTPService struct {
	Codes     CodeStore
	Contracts ContractCompleter
	Users     userRepo.UserRepository
	Tasks     tasks.Scheduler
	TTL       time.Duration
}

// SanitizeCode strips non-digit characters and truncates to the code length.
// Sanitization is silent; validation of the resulting length is the caller's
// decision point.
func SanitizeCode(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == CodeLength {
				break
			}
		}
	}
	return b.String()
}

// generateNumericCode returns a cryptographically random numeric code.
func generateNumericCode(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	digits := make([]byte, length)
	for i, b := range buf {
		digits[i] = '0' + b%10
	}
	return string(digits), nil
}

// Generate issues a fresh completion code for a delivered contract and queues
// its out-of-band delivery. Issuing overwrites any previously active code, so
// at most one code per contract is ever live.
func (s *DefaultOTPService) Generate(ctx context.Context, contractID, clientID string) error {
	c, err := s.Contracts.GetContract(contractID, clientID)
	if err != nil {
		return err
	}
	if c.ClientID != clientID {
		return fmt.Errorf("only the client can request a completion code")
	}
	if c.Status != models.ContractAccepted {
		return fmt.Errorf("contract %s is not awaiting completion", contractID)
	}
	if !c.Delivered {
		return fmt.Errorf("provider has not marked contract %s as delivered", contractID)
	}

	code, err := generateNumericCode(CodeLength)
	if err != nil {
		return fmt.Errorf("failed to generate completion code: %w", err)
	}

	if err := s.Codes.SetCode(ctx, contractID, code, s.TTL); err != nil {
		utils.GetLogger().Error("failed to store completion code",
			zap.String("contractID", contractID), zap.Error(err))
		return fmt.Errorf("failed to issue completion code")
	}

	client, err := s.Users.GetByID(clientID)
	if err != nil {
		return fmt.Errorf("failed to resolve client: %w", err)
	}
	if err := s.Tasks.EnqueueOTPDelivery(contractID, client.Email, code); err != nil {
		return fmt.Errorf("failed to dispatch completion code: %w", err)
	}

	utils.GetLogger().Sugar().Infof("Issued completion code for contract %s (expires in %v)", contractID, s.TTL)
	return nil
}

// Verify checks a submitted code against the active one. Input is sanitized
// to digits before anything else; a malformed code never reaches the store.
// Only the client may verify: the provider confirming their own delivery would
// defeat the point of the confirmation. A wrong code leaves all state untouched
// so the client may retry until the code expires; a correct code completes the
// contract and is consumed.
func (s *DefaultOTPService) Verify(ctx context.Context, contractID, clientID, code string) (*VerifyResult, error) {
	sanitized := SanitizeCode(code)
	if len(sanitized) != CodeLength {
		return &VerifyResult{IsValid: false, Message: "el código debe tener 6 dígitos"}, nil
	}

	c, err := s.Contracts.GetContract(contractID, clientID)
	if err != nil {
		return nil, err
	}
	if c.ClientID != clientID {
		return nil, fmt.Errorf("only the client can verify the completion code")
	}

	stored, err := s.Codes.GetCode(ctx, contractID)
	if errors.Is(err, ErrCodeNotFound) {
		return &VerifyResult{IsValid: false, Message: "código no encontrado o expirado"}, nil
	}
	if err != nil {
		return nil, err
	}

	if stored != sanitized {
		return &VerifyResult{IsValid: false, Message: "código de verificación inválido"}, nil
	}

	if _, err := s.Contracts.CompleteByVerification(ctx, contractID); err != nil {
		return nil, err
	}

	if err := s.Codes.DeleteCode(ctx, contractID); err != nil {
		utils.GetLogger().Error("failed to delete completion code after verification",
			zap.String("contractID", contractID), zap.Error(err))
	}

	return &VerifyResult{IsValid: true, Message: "servicio verificado, contrato completado"}, nil
}

// Resend reissues and redispatches the code under the same invariants.
func (s *DefaultOTPService) Resend(ctx context.Context, contractID, clientID string) error {
	return s.Generate(ctx, contractID, clientID)
}
