package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storebot/internal/bot"
	"storebot/internal/config"
	"storebot/internal/handler"
	"storebot/internal/infra/db"
	"storebot/internal/infra/dedupe"
	"storebot/internal/infra/image"
	"storebot/internal/infra/journal"
	"storebot/internal/infra/logger"
	"storebot/internal/infra/payment"
	infraRepo "storebot/internal/infra/repository"
	"storebot/internal/infra/session"
	"storebot/internal/server"
	"storebot/internal/transport/telegram"
	"storebot/internal/usecase"
	auth "storebot/internal/usecase/auth_usecase"
	"storebot/internal/validator"

	"go.uber.org/zap"
)

// セッション掃除の間隔
const janitorEvery = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("bot stopped with error", zap.Error(err))
	}
}

func run(cfg config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect(cfg.DB, zl)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.DB.AutoMigrate {
		if err := db.Migrate(gormDB); err != nil {
			return err
		}
		zl.Info("db migrated")
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	reservationRepo := infraRepo.NewReservationGormRepository(gormDB)
	bookmarkRepo := infraRepo.NewBookmarkGormRepository(gormDB)

	//update_idの重複排除（Redisが無ければメモリ）
	var deduper dedupe.Deduper
	if cfg.Redis.Addr != "" {
		client, err := dedupe.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		rd := dedupe.NewRedisDeduper(client, cfg.Redis.DedupeTTL)
		defer rd.Close()
		deduper = rd
	} else {
		deduper = dedupe.NewMemoryDeduper(cfg.Redis.DedupeTTL)
	}

	//決済ジャーナル（Mongoが無ければ捨てる）
	var checkoutJournal usecase.CheckoutJournal = journal.Nop{}
	var history handler.CheckoutHistory = journal.Nop{}
	if cfg.Mongo.URI != "" {
		mj, err := journal.NewMongoJournal(cfg.Mongo)
		if err != nil {
			return err
		}
		defer func() {
			c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mj.Close(c)
		}()
		checkoutJournal = mj
		history = mj
	}

	//usecaseに渡す部品
	clock := usecase.SystemClock{}
	sessions := session.NewMemoryStore(nil)
	credentials := auth.NewCredentialStore(userRepo, auth.NewBcryptPasswordHasher(cfg.BcryptCost))

	//Usecase生成
	cartUC := usecase.NewCartUsecase(productRepo, reservationRepo, clock, zl.Named("cart"))
	checkoutUC := usecase.NewCheckoutUsecase(
		cartUC,
		payment.NewClient(cfg.Payment, zl.Named("payment")),
		checkoutJournal,
		clock,
		zl.Named("checkout"),
	)
	conversationUC := usecase.NewConversationUsecase(credentials, validator.NewRegistrationValidator(), cartUC)

	dispatcher := bot.NewDispatcher(bot.Deps{
		Sessions:     sessions,
		Conversation: conversationUC,
		Cart:         cartUC,
		Checkout:     checkoutUC,
		Catalog:      usecase.NewCatalogUsecase(categoryRepo, productRepo),
		Orders:       usecase.NewOrderUsecase(orderRepo),
		Bookmarks:    usecase.NewBookmarkUsecase(bookmarkRepo, productRepo),
		Images:       image.NewResolver(cfg.ImageDir),
		Logger:       zl.Named("bot"),
	})

	//Telegram
	api, err := telegram.NewBotAPI(cfg.Telegram.Token, cfg.Telegram.Debug, zl)
	if err != nil {
		return err
	}
	runner := telegram.NewRunner(api, dispatcher, deduper, zl.Named("telegram"))
	defer runner.Wait()

	//放置セッションの掃除
	go sessions.RunJanitor(ctx, janitorEvery, cfg.SessionIdleTTL, func(n int) {
		zl.Info("idle sessions evicted", zap.Int("count", n))
	})

	//Handler生成
	handlers := server.Handlers{
		Health: handler.NewHealthHandler(map[string]handler.Pinger{"db": sqlDB}),
		Ops:    handler.NewOpsHandler(usecase.NewReservationUsecase(reservationRepo), history),
	}

	switch cfg.Telegram.Mode {
	case config.ModeWebhook:
		handlers.Telegram = handler.NewTelegramHandler(runner, cfg.Telegram.WebhookSecret, zl.Named("webhook"))
		if err := telegram.RegisterWebhook(api, cfg.Telegram.WebhookURL, cfg.Telegram.WebhookSecret); err != nil {
			return err
		}
		zl.Info("telegram webhook registered", zap.String("url", cfg.Telegram.WebhookURL+telegram.WebhookPath))
	default:
		//pollingの前に残っているwebhookを外す
		if err := telegram.DeleteWebhook(api); err != nil {
			zl.Warn("delete webhook failed", zap.Error(err))
		}
		go runner.RunPolling(ctx, api)
	}

	//Server起動（ctxが終わるまで戻らない）
	e := server.New(handlers, cfg.JWTSecret, zl.Named("http"))
	return server.Run(ctx, e, server.Addr(cfg.Port), zl)
}
