package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"caddie/internal/pkg/bootstrap"
	"caddie/internal/pkg/httpclient"
	"caddie/internal/pkg/logger"
	"caddie/internal/pkg/mq"
	"caddie/internal/pkg/redis"
	checkoutApp "caddie/internal/service/checkout/application"
	checkoutInfra "caddie/internal/service/checkout/infrastructure"
	"caddie/internal/service/checkout/infrastructure/adapter"
	checkoutHTTP "caddie/internal/service/checkout/interfaces"
	"caddie/internal/service/checkout/port"
	customizerApp "caddie/internal/service/customizer/application"
	customizerDomain "caddie/internal/service/customizer/domain"
	customizerInfra "caddie/internal/service/customizer/infrastructure"
	customizerHTTP "caddie/internal/service/customizer/interfaces"
	promotionApp "caddie/internal/service/promotion/application"
	promotionInfra "caddie/internal/service/promotion/infrastructure"
	"caddie/internal/service/promotion/infrastructure/rule"
	promotionHTTP "caddie/internal/service/promotion/interfaces"
)

const serviceName = "storefront-service"

// main 函数是应用的"组装根" (Composition Root)
// 它的核心职责是：创建并组装所有依赖项，然后启动应用。
// storefront 把定制、促销、结算三个域部署在同一个二进制里。
func main() {
	bootstrap.Init()
	cfg := bootstrap.GetCurrentConfig()
	tracer := otel.Tracer(serviceName)

	// 1. 基础设施：MySQL / Redis / Kafka / 下游 HTTP 客户端
	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Infra.Mysql.User, cfg.Infra.Mysql.Password, cfg.Infra.Mysql.Addr, cfg.Infra.Mysql.Database)
	// TranslateError 让重复键冲突映射为 gorm.ErrDuplicatedKey，webhook 去重依赖它
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to connect to mysql")
	}
	if err := checkoutInfra.AutoMigrate(db); err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to migrate checkout tables")
	}
	if err := promotionInfra.AutoMigrate(db); err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to migrate promotion tables")
	}

	redisClient, err := redis.NewClient(cfg.Infra.Redis.Addrs)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to initialize redis client")
	}

	brokers := strings.Split(cfg.Infra.Kafka.Brokers, ",")
	confirmationWriter := mq.NewKafkaWriter(brokers, cfg.Infra.Kafka.ConfirmationTopic)
	statusWriter := mq.NewKafkaWriter(brokers, cfg.Infra.Kafka.StatusTopic)

	httpClient := httpclient.NewClient(tracer)

	// 2. 定制域
	catalog := customizerDomain.DefaultCatalog()
	sessionRepo := customizerInfra.NewRedisSessionRepository(redisClient)
	customizerService := customizerApp.NewCustomizerService(catalog, sessionRepo, tracer)

	// 3. 促销域（功能开关关闭时结算走无券流程）
	var couponService port.CouponService
	var promotionHandler *promotionHTTP.PromotionHandler
	if cfg.App.FeatureFlags.EnableCoupons {
		ruleEngine, err := rule.NewCELRuleEngine()
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("failed to initialize rule engine")
		}
		couponRepo := promotionInfra.NewGormCouponRepository(db)
		promotionService := promotionApp.NewPromotionService(couponRepo, ruleEngine, tracer)
		couponService = adapter.NewCouponLocalAdapter(promotionService)
		promotionHandler = promotionHTTP.NewPromotionHandler(promotionService)
	}

	// 4. 结算域
	orderRepo := checkoutInfra.NewGormOrderRepository(db)
	webhookRepo := checkoutInfra.NewGormWebhookEventRepository(db)
	archive := adapter.NewSheetDBAdapter(httpClient, cfg.Infra.SheetDB.BaseURL, cfg.Infra.SheetDB.APIKey)
	paymentGateway := adapter.NewPaymentHTTPAdapter(httpClient, cfg.Infra.Payment.BaseURL, cfg.Infra.Payment.APIKey)
	producer := adapter.NewOrderEventsKafkaAdapter(confirmationWriter, statusWriter)

	checkoutService := checkoutApp.NewCheckoutService(
		catalog,
		sessionRepo,
		orderRepo,
		webhookRepo,
		archive,
		paymentGateway,
		couponService,
		producer,
		tracer,
		cfg.App.BaseURL+cfg.App.SuccessPath,
		cfg.App.BaseURL+cfg.App.CancelPath,
	)
	verifier := checkoutHTTP.NewSignatureVerifier(cfg.Infra.Payment.WebhookSecret)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8080,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			appCtx.Mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
			appCtx.Mux.Handle("/metrics", promhttp.Handler())

			customizerHTTP.NewCustomizerHandler(customizerService).RegisterRoutes(appCtx.Mux)
			checkoutHTTP.NewCheckoutHandler(checkoutService, verifier).RegisterRoutes(appCtx.Mux)
			if promotionHandler != nil {
				promotionHandler.RegisterRoutes(appCtx.Mux)
			}
		},
		OnShutdown: func(ctx context.Context) {
			if err := producer.Close(); err != nil {
				logger.Logger.Error().Err(err).Msg("error closing kafka writers")
			}
			if err := redisClient.Close(); err != nil {
				logger.Logger.Error().Err(err).Msg("error closing redis client")
			}
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		},
	})
}
