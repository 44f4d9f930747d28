package api

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/school_go_server/config"
	"github.com/qs3c/school_go_server/internal/api/handler"
	"github.com/qs3c/school_go_server/internal/api/middleware"
)

type Router struct {
	authHandler     *handler.AuthHandler
	familyHandler   *handler.FamilyHandler
	discountHandler *handler.DiscountHandler
	paymentHandler  *handler.PaymentHandler
	eventHandler    *handler.EventHandler
	cfg             *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	familyHandler *handler.FamilyHandler,
	discountHandler *handler.DiscountHandler,
	paymentHandler *handler.PaymentHandler,
	eventHandler *handler.EventHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:     authHandler,
		familyHandler:   familyHandler,
		discountHandler: discountHandler,
		paymentHandler:  paymentHandler,
		eventHandler:    eventHandler,
		cfg:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
		}

		// 公开接口 - 活动列表（可选认证）
		events := api.Group("/events")
		events.Use(middleware.OptionalAuth(r.cfg.JWT.Secret))
		{
			events.GET("", r.eventHandler.List)
		}

		// 支付网关回调（网关侧鉴权由部署层的来源 IP 白名单保证）
		api.POST("/payments/gateway/callback", r.paymentHandler.GatewayCallback)

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			authenticated.GET("/user/profile", r.authHandler.GetProfile)

			// 家庭支付总览
			authenticated.GET("/family/payment-summary", r.familyHandler.GetPaymentSummary)

			// 优惠码
			discounts := authenticated.Group("/discounts")
			{
				discounts.GET("/available", r.discountHandler.ListAvailable)
				discounts.POST("/validate", r.discountHandler.Validate)
			}

			// 支付
			payments := authenticated.Group("/payments")
			{
				payments.POST("", r.paymentHandler.Start)
				payments.GET("/:id", r.paymentHandler.Get)
			}

			// 活动报名与管理
			authenticated.POST("/events", r.eventHandler.Create)
			authenticated.POST("/events/:id/register", r.eventHandler.Register)
			authenticated.POST("/events/:id/poster", r.eventHandler.UploadPoster)
		}
	}

	return engine
}
