package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"dbfleet/internal/api/handler"
	"dbfleet/internal/api/middleware"
	"dbfleet/internal/core/ingest"
	"dbfleet/internal/pkg/config"
	"dbfleet/internal/service"
)

// Setup 设置路由
func Setup(cfg *config.Config, coordinator *ingest.Coordinator) *gin.Engine {
	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// 全局中间件
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger API 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 获取数据库连接
	db := cfg.DB.(*gorm.DB)

	// 初始化Service
	authService := service.NewAuthService(&cfg.Auth, db)
	hostService := service.NewHostService(db)
	alertService := service.NewAlertService(db)
	clusterService := service.NewClusterService(db)
	licenseService := service.NewLicenseService(db)
	reportService := service.NewReportService(db)

	// 初始化Handler
	agentHandler := handler.NewAgentHandler(coordinator, hostService)
	authHandler := handler.NewAuthHandler(authService)
	hostHandler := handler.NewHostHandler(hostService)
	alertHandler := handler.NewAlertHandler(alertService)
	clusterHandler := handler.NewClusterHandler(clusterService)
	licenseHandler := handler.NewLicenseHandler(licenseService)
	reportHandler := handler.NewReportHandler(reportService)

	// Agent接口(Basic认证, 由采集Agent调用)
	agent := r.Group("")
	agent.Use(middleware.AgentAuthMiddleware(&cfg.Agent))
	{
		agent.POST(cfg.Agent.APIPath, agentHandler.Update)
		agent.POST("/alerts/missing-host/:hostname", agentHandler.AbsenceReport)
		agent.GET("/historical", agentHandler.Historical)
	}

	// API v1
	v1 := r.Group("/api/v1")
	{
		// 认证相关(无需token)
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		// 需要认证的路由
		authed := v1.Group("")
		authed.Use(middleware.AuthMiddleware())
		{
			// 认证信息
			authed.GET("/auth/me", authHandler.GetMe)

			// 总览
			authed.GET("/dashboard", hostHandler.Dashboard)

			// 主机管理
			hostGroup := authed.Group("/hosts")
			{
				hostGroup.GET("", hostHandler.List)                       // 列表查询
				hostGroup.GET("/:hostname", hostHandler.Get)              // 获取详情
				hostGroup.POST("/:hostname/archive", hostHandler.Archive) // 手动归档
			}

			// 告警管理
			alertGroup := authed.Group("/alerts")
			{
				alertGroup.GET("", alertHandler.List)         // 列表查询
				alertGroup.POST("/:id/ack", alertHandler.Ack) // 确认告警
			}

			// 集群管理
			clusterGroup := authed.Group("/clusters")
			{
				clusterGroup.GET("", clusterHandler.List)      // 列表查询
				clusterGroup.GET("/:name", clusterHandler.Get) // 获取详情
			}

			// 许可证管理
			licenseGroup := authed.Group("/licenses")
			{
				licenseGroup.GET("", licenseHandler.List)                   // 配额列表
				licenseGroup.GET("/usage", licenseHandler.Usage)            // 用量汇总
				licenseGroup.PUT("/modifiers", licenseHandler.SaveModifier) // 保存用量修正项
				licenseGroup.PUT("/:name", licenseHandler.Update)           // 更新配额
			}

			// 数据库标签
			tagGroup := authed.Group("/tags")
			{
				tagGroup.POST("", licenseHandler.CreateTag)
				tagGroup.DELETE("/:id", licenseHandler.DeleteTag)
			}

			// 报表导出
			reportGroup := authed.Group("/reports")
			{
				reportGroup.GET("/patch-advisor.xlsx", reportHandler.PatchAdvisor)
				reportGroup.GET("/addm.xlsx", reportHandler.ADDM)
			}
		}
	}

	return r
}
