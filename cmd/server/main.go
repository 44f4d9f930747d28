package main

import (
	"fmt"
	"log"
	"time"

	"github.com/qs3c/school_go_server/config"
	"github.com/qs3c/school_go_server/internal/api"
	"github.com/qs3c/school_go_server/internal/api/handler"
	"github.com/qs3c/school_go_server/internal/database"
	"github.com/qs3c/school_go_server/internal/pkg/cache"
	"github.com/qs3c/school_go_server/internal/pkg/oss"
	"github.com/qs3c/school_go_server/internal/repository"
	"github.com/qs3c/school_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 活动列表缓存（收费与资格路径不经过缓存）
	eventListCache := cache.New(rdb, time.Duration(cfg.Cache.EventListTTLSeconds)*time.Second)

	// OSS 未配置时海报上传不可用，服务照常启动
	var ossClient *oss.Client
	if cfg.OSS.Endpoint != "" {
		ossClient, err = oss.NewClient(&cfg.OSS)
		if err != nil {
			log.Fatalf("Failed to init OSS client: %v", err)
		}
		log.Println("OSS client ready")
	}

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	discountRepo := repository.NewDiscountRepository(db)
	eventRepo := repository.NewEventRepository(db)

	// 初始化 Service
	authService := service.NewAuthService(userRepo, cfg)
	eligibilityService := service.NewEligibilityService(paymentRepo, cfg)
	tierService := service.NewTierService(enrollmentRepo, paymentRepo, cfg)
	discountService := service.NewDiscountService(discountRepo, cfg)
	familyService := service.NewFamilyService(familyRepo, discountRepo, eligibilityService, tierService, cfg)
	paymentService := service.NewPaymentService(db, paymentRepo, familyRepo, studentRepo, discountRepo, discountService, cfg)
	eventService := service.NewEventService(eventRepo, studentRepo, paymentService, eventListCache, ossClient, cfg)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	familyHandler := handler.NewFamilyHandler(familyService, userRepo)
	discountHandler := handler.NewDiscountHandler(discountService, userRepo, cfg.Policy.Currency)
	paymentHandler := handler.NewPaymentHandler(paymentService, userRepo)
	eventHandler := handler.NewEventHandler(eventService, userRepo)

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		familyHandler,
		discountHandler,
		paymentHandler,
		eventHandler,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
