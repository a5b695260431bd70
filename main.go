package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"suarec/config"
	"suarec/cron"
	"suarec/database"
	contractRepoPkg "suarec/database/repository/contract"
	ledgerRepoPkg "suarec/database/repository/ledger"
	publicationRepoPkg "suarec/database/repository/publication"
	userRepoPkg "suarec/database/repository/user"
	"suarec/handlers"
	"suarec/routes"
	"suarec/services/balance"
	"suarec/services/contract"
	"suarec/services/otp"
	"suarec/services/payment"
	"suarec/services/tasks"
	"suarec/services/user"
	"suarec/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

// otpTTL is the lifetime of a completion code.
const otpTTL = 24 * time.Hour

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	})
	defer asynqClient.Close()
	scheduler := tasks.NewAsynqScheduler(asynqClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	contractRepo := contractRepoPkg.NewMongoContractRepo()
	publicationRepo := publicationRepoPkg.NewMongoPublicationRepo()
	ledgerRepo := ledgerRepoPkg.NewMongoLedgerRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()

	// services.
	userService := &user.DefaultUserService{
		Repo: userRepo,
	}

	balanceService := &balance.DefaultBalanceService{
		Ledger:    ledgerRepo,
		Cache:     utils.GetCacheClient(),
		DebtLimit: config.AppConfig.DebtLimit,
	}

	contractService := &contract.DefaultContractService{
		Repo:         contractRepo,
		Publications: publicationRepo,
		Balance:      balanceService,
		Tasks:        scheduler,
		ExpiryWindow: time.Duration(config.AppConfig.ContractExpiryDays) * 24 * time.Hour,
	}

	otpService := &otp.DefaultOTPService{
		Codes:     &otp.RedisCodeStore{Client: utils.GetOTPCacheClient()},
		Contracts: contractService,
		Users:     userRepo,
		Tasks:     scheduler,
		TTL:       otpTTL,
	}

	gateway := payment.NewWompiClient(
		config.AppConfig.WompiBaseURL,
		config.AppConfig.WompiPublicKey,
		config.AppConfig.WompiPrivateKey,
	)
	paymentService := &payment.DefaultPaymentService{
		Gateway:      gateway,
		Contracts:    contractRepo,
		Publications: publicationRepo,
		Ledger:       ledgerRepo,
		Balances:     balanceService,
		EventsSecret: config.AppConfig.WompiEventsSecret,
		RedirectURL:  config.AppConfig.PaymentRedirect,
	}

	// Start the background worker for contract expiry and code delivery.
	cron.InitTaskWorker(contractService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Auth:         &handlers.AuthHandler{UserService: userService},
		Publications: &handlers.PublicationHandler{Publications: publicationRepo},
		Contracts:    &handlers.ContractHandler{ContractService: contractService},
		OTP:          &handlers.OTPHandler{OTPService: otpService},
		Payments:     &handlers.PaymentHandler{PaymentService: paymentService},
		Balance:      &handlers.BalanceHandler{BalanceService: balanceService},
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
