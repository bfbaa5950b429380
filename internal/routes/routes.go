package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"guild-settlement-backend/internal/config"
	handler "guild-settlement-backend/internal/handlers"
	"guild-settlement-backend/internal/metrics"
	"guild-settlement-backend/internal/notify"
	"guild-settlement-backend/internal/ocr"
	"guild-settlement-backend/internal/repository"
	"guild-settlement-backend/internal/services/parsing"
	service "guild-settlement-backend/internal/services/settlement"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, log *zap.Logger) {
	memberRepo := repository.NewMemberRepository(db)
	settlementRepo := repository.NewSettlementRepository(db)
	poolRepo := repository.NewPoolRepository(db)

	vocab := parsing.DefaultVocabulary()
	vocab.AddWeapons(cfg.ExtraWeapons...)
	vocab.AddKillVerbs(cfg.ExtraKillVerbs...)
	vocab.AddModes(cfg.ExtraModes...)

	policy, err := service.PolicyByName(cfg.RewardPolicy, service.Rates{
		PerKill:       cfg.PerKillRate,
		PerDeath:      cfg.PerDeathRate,
		DeathBonusCap: cfg.DeathBonusCap,
		ModeBonus:     cfg.ModeBonusAmount,
		BonusMode:     cfg.BonusMode,
	})
	if err != nil {
		log.Fatal("invalid reward policy", zap.String("policy", cfg.RewardPolicy), zap.Error(err))
	}

	detector := ocr.NewClient(cfg.OCREndpoint, cfg.OCRAPIKey, log)
	notifier := notify.NewWebhook(cfg.WebhookURL)

	settleService := service.NewService(detector, memberRepo, settlementRepo, notifier, service.Options{
		Vocabulary:       vocab,
		Policy:           policy,
		PoolRate:         cfg.PoolRate,
		StrictClassifier: cfg.StrictClassifier,
		Location:         cfg.Location(),
		OCRTimeout:       cfg.OCRTimeout,
		NotifyTimeout:    cfg.NotifyTimeout,
		Logger:           log,
	})

	handler.RegisterValidations()

	settlementHandler := handler.NewSettlementHandler(settleService, settlementRepo, log)
	poolHandler := handler.NewPoolHandler(poolRepo, cfg.Location())
	memberHandler := handler.NewMemberHandler(memberRepo)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Settlement routes
	settlements := api.Group("/settlements")
	settlements.POST("/analyze", settlementHandler.Analyze)
	settlements.GET("", settlementHandler.ListRecords)

	// Monthly pool routes
	pool := api.Group("/pool")
	pool.GET("/status", poolHandler.Status)
	pool.POST("/draw", poolHandler.Draw)
	pool.GET("/history", poolHandler.History)
	pool.GET("/winner", poolHandler.Winner)

	// Roster routes
	members := api.Group("/members")
	{
		members.GET("", memberHandler.List)
		members.POST("", memberHandler.Create)
	}

	r.GET("/metrics", metrics.Handler())
}
