package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shariqazeem/umanity-social-sub000/internal/config"
	"github.com/shariqazeem/umanity-social-sub000/internal/handler"
	"github.com/shariqazeem/umanity-social-sub000/internal/logger"
	"go.uber.org/zap"
)

const requestIdHeader = "X-Request-Id"

// Handlers 路由依赖的全部处理器
type Handlers struct {
	Campaign   *handler.CampaignHandler
	User       *handler.UserHandler
	Donation   *handler.DonationHandler
	Governance *handler.GovernanceHandler
}

func Setup(cfg config.ServerConfig, h Handlers) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(requestId())
	r.Use(requestLogger())
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))

	// 健康检查
	r.GET("/health", health)

	// API版本组
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", health)

		campaigns := v1.Group("/campaigns")
		{
			campaigns.POST("", h.Campaign.CreateCampaign)
			campaigns.GET("", h.Campaign.GetCampaigns)
			campaigns.GET("/:id", h.Campaign.GetCampaign)
			campaigns.GET("/:id/milestones", h.Campaign.GetMilestones)
			campaigns.GET("/:id/donations", h.Campaign.GetDonations)
			campaigns.POST("/:id/milestones/:index/release", h.Campaign.ReleaseMilestone)
		}

		users := v1.Group("/users")
		{
			users.POST("", h.User.RegisterUser)
			users.GET("/:address", h.User.GetUser)
		}

		v1.POST("/donations/confirmed", h.Donation.ConfirmDonation)

		proposals := v1.Group("/governance/proposals")
		{
			proposals.POST("", h.Governance.CreateProposal)
			proposals.GET("", h.Governance.GetProposals)
			proposals.GET("/:id", h.Governance.GetProposal)
			proposals.GET("/:id/results", h.Governance.GetResults)
			proposals.GET("/:id/votes", h.Governance.GetVotes)
			proposals.POST("/:id/votes", h.Governance.CastVote)
			proposals.POST("/:id/execute", h.Governance.ExecuteProposal)
		}
	}

	return r
}

func health(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "ok",
		"service": "governance-service",
	})
}

func corsConfig(cfg config.ServerConfig) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", requestIdHeader},
		ExposeHeaders: []string{"Content-Length", requestIdHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowOrigins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.AllowOrigins
	}
	return c
}

// requestId 为每个请求分配ID，沿用上游传入的ID
func requestId() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIdHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIdHeader, id)
		c.Next()
	}
}

// requestLogger 访问日志
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.GetDefaultZapLogger().Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString("request_id")),
		)
	}
}
