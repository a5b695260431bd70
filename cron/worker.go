package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"suarec/config"
	"suarec/services/tasks"
	"suarec/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// ContractExpirer is the slice of the contract service the worker needs.
type ContractExpirer interface {
	ExpirePending(contractID string) error
}

// InitTaskWorker runs the async worker in background. It handles contract
// expiry ticks and out-of-band completion-code deliveries.
func InitTaskWorker(expirer ContractExpirer) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeContractExpire, handleContractExpire(expirer))
	mux.HandleFunc(tasks.TypeOTPDeliver, handleOTPDeliver)

	go func() {
		logger := utils.GetLogger()
		logger.Info("starting task worker")

		const maxAttempts = 5
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			err := srv.Run(mux)
			if err == nil {
				return
			}
			logger.Error("task worker failed to start",
				zap.Int("attempt", attempt), zap.Error(err))
			if attempt == maxAttempts {
				logger.Fatal("task worker exhausted start attempts")
			}
			time.Sleep(time.Duration(attempt*2) * time.Second)
		}
	}()
}

func handleContractExpire(expirer ContractExpirer) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.ContractExpirePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			return fmt.Errorf("invalid expiry payload: %w", err)
		}
		if err := expirer.ExpirePending(p.ContractID); err != nil {
			utils.GetLogger().Error("contract expiry failed",
				zap.String("contractID", p.ContractID), zap.Error(err))
			return err
		}
		return nil
	}
}

func handleOTPDeliver(ctx context.Context, task *asynq.Task) error {
	var p tasks.OTPDeliverPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("invalid otp payload: %w", err)
	}

	subject := "Tu código de verificación Suarec"
	body := fmt.Sprintf(
		"Tu código para confirmar la finalización del servicio es: %s\n\nEl código expira en 24 horas.",
		p.Code,
	)
	if err := utils.SendEmail(p.Email, subject, body); err != nil {
		utils.GetLogger().Error("completion code delivery failed",
			zap.String("contractID", p.ContractID), zap.Error(err))
		return err
	}
	return nil
}
