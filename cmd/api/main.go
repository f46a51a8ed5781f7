package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/parvejme24/bistro-boss-server/internal/config"
	"github.com/parvejme24/bistro-boss-server/internal/handler"
	"github.com/parvejme24/bistro-boss-server/internal/infra/db"
	"github.com/parvejme24/bistro-boss-server/internal/infra/gateway"
	infraRepo "github.com/parvejme24/bistro-boss-server/internal/infra/repository"
	"github.com/parvejme24/bistro-boss-server/internal/server"
	"github.com/parvejme24/bistro-boss-server/internal/usecase"
)

func main() {
	// .envは開発用。無くても動く（本番は環境変数直指定）
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Repository（GORM実装）生成
	menuRepo := infraRepo.NewMenuGormRepository(gormDB)
	zoneRepo := infraRepo.NewShippingZoneGormRepository(gormDB)
	methodRepo := infraRepo.NewShippingMethodGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	adminCfgRepo := infraRepo.NewAdminConfigGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	// ゲートウェイ（資格情報は管理設定ストアから）
	gwProvider := gateway.NewAdminConfigProvider(adminCfgRepo)
	gwClient := gateway.NewSSLCommerzClient(gwProvider)

	// Usecase生成
	menuUC := usecase.NewMenuUsecase(menuRepo)
	cartUC := usecase.NewCartUsecase(txManager)
	shippingUC := usecase.NewShippingUsecase(zoneRepo, methodRepo)
	orderUC := usecase.NewOrderUsecase(txManager, orderRepo, orderItemRepo, adminCfgRepo, gwClient, cfg.BackendURL)
	paymentUC := usecase.NewPaymentUsecase(txManager, orderRepo, gwClient)
	adminCfgUC := usecase.NewAdminConfigUsecase(adminCfgRepo, gwProvider)

	// Handler生成
	handlers := server.Handlers{
		Menu:        handler.NewMenuHandler(menuUC),
		Cart:        handler.NewCartHandler(cartUC),
		Shipping:    handler.NewShippingHandler(shippingUC),
		Order:       handler.NewOrderHandler(orderUC),
		AdminOrder:  handler.NewAdminOrderHandler(orderUC),
		Payment:     handler.NewPaymentHandler(paymentUC, cfg.FrontendURL),
		AdminConfig: handler.NewAdminConfigHandler(adminCfgUC),
	}

	// Server起動
	if err := server.Start(cfg, handlers); err != nil {
		log.Fatalf("server: %v", err)
	}
}
