package api

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"mclub-backend/internal/middleware"
	"mclub-backend/internal/services"
)

// RouterConfig carries what the router needs from the application config
type RouterConfig struct {
	JWTSecret       string
	JWTExpiration   int
	AllowedOrigins  []string
	AllowAllOrigins bool
	Security        *middleware.SecurityConfig
}

// NewRouter wires services, middleware and routes onto a gin engine
func NewRouter(db *sql.DB, cfg RouterConfig) *gin.Engine {
	ledgerService := services.NewLedgerService(db)
	memberService := services.NewMemberService(db)
	loanService := services.NewLoanService(db)
	transactionService := services.NewTransactionService(db)
	statsService := services.NewStatsService(db)
	communicationService := services.NewCommunicationService(db)
	authService := services.NewAuthService(db, cfg.JWTSecret, cfg.JWTExpiration)

	memberHandlers := NewMemberHandlers(memberService, loanService, transactionService)
	loanHandlers := NewLoanHandlers(ledgerService, loanService)
	transactionHandlers := NewTransactionHandlers(ledgerService, transactionService)
	statsHandlers := NewStatsHandlers(statsService)
	communicationHandlers := NewCommunicationHandlers(communicationService)
	authHandlers := NewAuthHandlers(authService)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(cfg))
	router.Use(middleware.SecurityMiddleware(cfg.Security))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	v1 := router.Group("/api/v1")
	v1.POST("/auth/login", authHandlers.Login)

	protected := v1.Group("")
	protected.Use(authMiddleware.AuthRequired())
	{
		protected.GET("/members", memberHandlers.ListMembers)
		protected.POST("/members", memberHandlers.CreateMember)
		protected.GET("/members/search", memberHandlers.SearchMembers)
		protected.GET("/members/:id", memberHandlers.GetMember)
		protected.PUT("/members/:id", memberHandlers.UpdateMember)
		protected.DELETE("/members/:id", memberHandlers.DeleteMember)
		protected.GET("/members/:id/loans", memberHandlers.GetMemberLoans)
		protected.GET("/members/:id/transactions", memberHandlers.GetMemberTransactions)
		protected.GET("/members/:id/contributions/yearly", memberHandlers.GetYearlyContributions)

		protected.GET("/loans", loanHandlers.ListLoans)
		protected.POST("/loans", loanHandlers.CreateLoan)
		protected.GET("/loans/:id", loanHandlers.GetLoan)
		protected.POST("/loans/:id/payment", loanHandlers.MakePayment)
		protected.POST("/loans/:id/default", loanHandlers.MarkDefaulted)

		protected.GET("/transactions", transactionHandlers.ListTransactions)
		protected.POST("/transactions", transactionHandlers.CreateTransaction)
		protected.GET("/transactions/:id", transactionHandlers.GetTransaction)
		protected.POST("/contributions", transactionHandlers.MakeContribution)

		protected.GET("/communications", communicationHandlers.ListLogs)
		protected.POST("/communications", communicationHandlers.CreateLog)

		protected.GET("/stats/dashboard", statsHandlers.GetDashboard)
	}

	return router
}

// corsMiddleware allows the configured front-end origins
func corsMiddleware(cfg RouterConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := cfg.AllowAllOrigins
		if !allowed {
			for _, candidate := range cfg.AllowedOrigins {
				if strings.EqualFold(strings.TrimSpace(candidate), origin) {
					allowed = true
					break
				}
			}
		}

		if allowed && origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept, Origin")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Writer.Header().Set("Access-Control-Max-Age", "86400")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
