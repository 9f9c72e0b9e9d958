package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dynamicsamic/testDbDesign/internal/config"
	"github.com/dynamicsamic/testDbDesign/internal/handler"
	"github.com/dynamicsamic/testDbDesign/internal/infra/db"
	infraRepo "github.com/dynamicsamic/testDbDesign/internal/infra/repository"
	"github.com/dynamicsamic/testDbDesign/internal/logger"
	"github.com/dynamicsamic/testDbDesign/internal/server"
	"github.com/dynamicsamic/testDbDesign/internal/usecase"
	"github.com/dynamicsamic/testDbDesign/internal/validator"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(); err != nil {
		panic(err)
	}
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.Init(cfg.GoEnv)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("db migrate failed", zap.Error(err))
	}

	//Repository（GORM実装）生成
	identityRepo := infraRepo.NewIdentityGormRepository(gormDB)
	customerRepo := infraRepo.NewCustomerGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	hasher := usecase.NewBcryptHasher()
	authValidator := validator.NewAuthValidator(identityRepo)

	//Usecase生成
	customerUC := usecase.NewCustomerUsecase(txm, customerRepo, hasher, authValidator)
	authUC := usecase.NewAuthUsecase(cfg, identityRepo, customerRepo, hasher, authValidator)
	catalogUC := usecase.NewCatalogUsecase(txm, productRepo, cfg.StockMaxAdd)
	stockUC := usecase.NewStockUsecase(txm, cfg.StockMaxAdd)
	cartUC := usecase.NewCartUsecase(txm)
	orderUC := usecase.NewOrderUsecase(txm)
	sellerOrderUC := usecase.NewSellerOrderUsecase(txm)
	auditUC := usecase.NewAuditUsecase(txm)
	sellerCatalogUC := usecase.NewSellerCatalogUsecase(txm)

	//Handler生成
	e := server.New(cfg, customerRepo, server.Handlers{
		Auth:          handler.NewAuthHandler(customerUC, authUC),
		Product:       handler.NewProductHandler(catalogUC),
		Customer:      handler.NewCustomerHandler(customerUC),
		Cart:          handler.NewCartHandler(cartUC),
		Order:         handler.NewOrderHandler(orderUC),
		SellerOrder:   handler.NewSellerOrderHandler(sellerOrderUC, customerUC),
		SellerProduct: handler.NewSellerProductHandler(catalogUC, stockUC),
		SellerAudit:   handler.NewSellerAuditHandler(auditUC),
		SellerCatalog: handler.NewSellerCatalogHandler(sellerCatalogUC),
	})

	//Server起動
	addr := cfg.Port
	if addr != "" && addr[0] != ':' {
		addr = ":" + addr
	}
	if err := server.Start(ctx, e, addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
