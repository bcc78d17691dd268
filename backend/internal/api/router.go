package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialgraph/backend/internal/facade"
	"socialgraph/backend/internal/metrics"
	"socialgraph/backend/internal/model"
)

// Server exposes the facade over HTTP
type Server struct {
	facade  *facade.Facade
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewRouter builds the gin engine with every route registered
func NewRouter(f *facade.Facade, m *metrics.Metrics, log *zap.Logger, production bool) *gin.Engine {
	if production {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{facade: f, metrics: m, logger: log}

	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(instrument(m))
	router.Use(gin.Recovery())
	router.Use(cors())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	api := router.Group("/api")
	{
		api.GET("/operations", s.listOperations)
		api.POST("/operations/:name", s.executeOperation)

		accounts := api.Group("/accounts")
		{
			accounts.GET("", s.list(facade.OpListAccounts, &model.Account{}))
			accounts.POST("", s.create(facade.OpCreateAccount))
			accounts.GET("/:id", s.byID(facade.OpGetAccount))
			accounts.PATCH("/:id", s.patch(facade.OpUpdateAccount))
			accounts.DELETE("/:id", s.byID(facade.OpDeleteAccount))
			accounts.POST("/:id/subscribeTo", s.edge(facade.OpSubscribeTo))
			accounts.POST("/:id/unsubscribeFrom", s.edge(facade.OpUnsubscribeFrom))
		}

		profiles := api.Group("/profiles")
		{
			profiles.GET("", s.list(facade.OpListProfiles, &model.Profile{}))
			profiles.POST("", s.create(facade.OpCreateProfile))
			profiles.GET("/:id", s.byID(facade.OpGetProfile))
			profiles.PATCH("/:id", s.patch(facade.OpUpdateProfile))
			profiles.DELETE("/:id", s.byID(facade.OpDeleteProfile))
		}

		posts := api.Group("/posts")
		{
			posts.GET("", s.list(facade.OpListPosts, &model.Post{}))
			posts.POST("", s.create(facade.OpCreatePost))
			posts.GET("/:id", s.byID(facade.OpGetPost))
			posts.PATCH("/:id", s.patch(facade.OpUpdatePost))
			posts.DELETE("/:id", s.byID(facade.OpDeletePost))
		}

		tiers := api.Group("/membership-tiers")
		{
			tiers.GET("", s.list(facade.OpListMembershipTiers, &model.MembershipTier{}))
			tiers.POST("", s.create(facade.OpCreateMembershipTier))
			tiers.GET("/:id", s.byID(facade.OpGetMembershipTier))
			tiers.PATCH("/:id", s.patch(facade.OpUpdateMembershipTier))
		}

		views := api.Group("/views")
		{
			views.GET("/full-accounts", s.noArgs(facade.OpListFullAccounts))
			views.GET("/full-accounts/:id", s.byID(facade.OpFullAccount))
			views.GET("/accounts-with-followers", s.noArgs(facade.OpAccountsWithFollowers))
			views.GET("/accounts-with-subscriptions", s.noArgs(facade.OpAccountsWithSubscriptions))
			views.GET("/account-with-subscriptions/:id", s.byID(facade.OpAccountWithItsSubscriptions))
		}
	}

	return router
}
