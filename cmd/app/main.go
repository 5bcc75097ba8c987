package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"linkgate-go/internal/handler"
	"linkgate-go/internal/i18n"
	"linkgate-go/internal/middleware"
	"linkgate-go/internal/repository"
	"linkgate-go/internal/service"
	"linkgate-go/pkg/logging"
)

func initConfig() {
	wd, _ := os.Getwd()
	log.Printf("Loading config from: %s/config.yaml", wd)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}
}

func startServer(r *gin.Engine) {
	addr := viper.GetString("server.addr")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	// 启动服务器
	go func() {
		logging.Logger.Info("Server is running on " + addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := repository.RedisPool.Close(); err != nil {
		logging.Logger.Warn("Redis pool close failed", zap.Error(err))
	}

	logging.Logger.Info("Server exiting")
}

func main() {

	initConfig()
	// 初始化日志系统
	logging.InitLoggerFromConfig()

	logging.Logger.Info("Application started")

	repository.InitDB(logging.Logger, logging.AtomicLevel)
	repository.InitRedis()

	// 初始化 i18n（加载 TOML 文件）
	bundle, err := i18n.InitI18n([]string{
		"./i18n/en.toml",
		"./i18n/zh.toml",
	}, "en")
	if err != nil {
		panic(err)
	}

	defaultDomain := viper.GetString("domain.default")
	if defaultDomain == "" {
		defaultDomain = "localhost"
	}

	// 组装服务
	linkRepo := repository.NewLinkRepo(repository.DB)
	analyticsRepo := repository.NewAnalyticsRepo(repository.DB)
	domainRepo := repository.NewDomainRepo(repository.DB)
	allocator := service.NewSlugAllocator(viper.GetInt("slug.length"))

	linkService := service.NewLinkService(linkRepo, analyticsRepo, domainRepo, allocator, repository.RedisPool, defaultDomain)
	statsService := service.NewStatsService(repository.DB, linkRepo, repository.RedisPool)
	domainService := service.NewLinkDomainService(domainRepo)

	shortLinkHandler := handler.NewShortLinkHandler(linkService, statsService)
	domainHandler := handler.NewLinkDomainHandler(domainService)
	redirectHandler := handler.NewRedirectHandler(linkService, defaultDomain)

	r := gin.New()
	r.Use(gin.Recovery()) // 显式添加 Recovery 中间件

	// 注册全局错误中间件
	r.Use(middleware.GlobalErrorMiddleware())
	r.Use(middleware.ZapGinLogger(logging.Logger))
	r.Use(middleware.CorsMiddleware())
	// 使用 i18n 中间件
	r.Use(middleware.I18nMiddleware(bundle))

	api := r.Group("/api")
	{
		api.POST("/links", shortLinkHandler.Create)
		api.GET("/links", shortLinkHandler.List)
		api.POST("/links/bulk", shortLinkHandler.BulkImport)
		api.GET("/links/export", shortLinkHandler.Export)
		api.GET("/links/:id/stats", shortLinkHandler.Stats)

		api.POST("/domains", domainHandler.Create)
		api.GET("/domains", domainHandler.List)
		api.DELETE("/domains/:id", domainHandler.Delete)
	}

	// 使用中间件承接所有非 /api 的 GET 请求做短链跳转
	r.Use(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next() // 只处理 GET 请求
			return
		}
		redirectHandler.Redirect(c)
	})

	c := cron.New()

	// 添加定时任务：每十分钟把 Redis 里的 PV/UV 汇总进数据库
	_, addErr := c.AddFunc("*/10 * * * *", func() {
		if err := statsService.Rollup(); err != nil {
			logging.Logger.Error("Stats rollup cron job failed", zap.Error(err))
		}
	})

	if addErr != nil {
		logging.Logger.Fatal("Failed to schedule cron job", zap.Error(addErr))
	}

	c.Start()

	startServer(r)
}
