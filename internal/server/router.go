package server

import "github.com/gin-gonic/gin"

// NewRouter wires the API routes onto a gin engine.
func NewRouter(h *Handler, development bool) *gin.Engine {
	if !development {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(RecoveryMiddleware())
	r.Use(LoggerMiddleware())
	r.Use(CORSMiddleware())

	api := r.Group("/api")
	{
		api.POST("/connect", h.Connect)
		api.POST("/disconnect", h.Disconnect)
		api.GET("/leaderboard", h.Leaderboard)

		account := api.Group("/account/:wallet")
		{
			account.GET("", h.GetAccount)
			account.POST("/name", h.SetName)
			account.POST("/daily", h.ClaimDaily)
			account.POST("/transfer", h.Transfer)

			account.POST("/slots/:id/charge", h.ChargeSlot)
			account.POST("/slots/:id/claim", h.ClaimSlot)

			account.POST("/buildings/:kind/start", h.StartBuilding)
			account.POST("/buildings/:kind/claim", h.ClaimBuilding)

			account.POST("/market/buy-cell", h.BuyEmptyCell)
			account.POST("/market/sell-cell", h.SellFullCell)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
