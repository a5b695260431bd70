package routes

import (
	"net/http"
	"time"

	"suarec/handlers"
	"suarec/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers account endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/suarec/auth")
	{
		api.POST("/register", hb.Auth.RegisterHandler)
		api.POST("/login", hb.Auth.LoginHandler)
	}

	users := r.Group("/suarec/users")
	{
		users.Use(middleware.JWTAuthMiddleware())
		users.GET("/:id", hb.Auth.GetUserHandler)
	}
}

// RegisterPublicationRoutes registers the publication catalog endpoints.
func RegisterPublicationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/suarec/publications")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.Publications.CreatePublicationHandler)
		api.GET("/mine", hb.Publications.MyPublicationsHandler)
		api.GET("/:id", hb.Publications.GetPublicationHandler)
	}
}

// RegisterContractRoutes registers the negotiation workflow endpoints,
// including the completion-code flow.
func RegisterContractRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/suarec/contracts")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.Contracts.CreateContractHandler)
		api.POST("/bid", hb.Contracts.SubmitBidHandler)
		api.POST("/accept-bid", hb.Contracts.AcceptBidHandler)
		api.POST("/provider-response", hb.Contracts.ProviderResponseHandler)
		api.GET("/my-contracts", hb.Contracts.MyContractsHandler)
		api.GET("/:id", hb.Contracts.GetContractHandler)
		api.DELETE("/:id/cancel", hb.Contracts.CancelContractHandler)
		api.POST("/:id/mark-delivered", hb.Contracts.MarkDeliveredHandler)

		api.POST("/:id/otp/generate", hb.OTP.GenerateOTPHandler)
		api.POST("/:id/otp/verify", hb.OTP.VerifyOTPHandler)
		api.POST("/:id/otp/resend", hb.OTP.ResendOTPHandler)
	}
}

// RegisterPaymentRoutes registers the checkout endpoints. The webhook stays
// outside the authenticated group: the gateway signs events instead of
// carrying a user token.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/suarec/payments")
	{
		api.POST("/webhook", hb.Payments.GatewayWebhookHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.GET("/merchant-info", hb.Payments.MerchantInfoHandler)
		protected.POST("", hb.Payments.InitiatePaymentHandler)
	}
}

// RegisterBalanceRoutes registers the ledger read endpoints.
func RegisterBalanceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/suarec/balance")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/current", hb.Balance.CurrentBalanceHandler)
		api.GET("/transactions", hb.Balance.BalanceTransactionsHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterHealthRoute(r)
	RegisterAuthRoutes(r, hb)
	RegisterPublicationRoutes(r, hb)
	RegisterContractRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterBalanceRoutes(r, hb)
}
