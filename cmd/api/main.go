package main

import (
	"log"
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/ClementStand/market-analyser/db"
	"github.com/ClementStand/market-analyser/internal/config"
	"github.com/ClementStand/market-analyser/internal/debrief"
	"github.com/ClementStand/market-analyser/internal/digest"
	"github.com/ClementStand/market-analyser/internal/handler"
	"github.com/ClementStand/market-analyser/internal/repository"
	"github.com/ClementStand/market-analyser/internal/scorer"
	"github.com/ClementStand/market-analyser/pkg/llm"
	"github.com/ClementStand/market-analyser/pkg/mailer"
)

func main() {

	godotenv.Load()

	cfg := config.Load()

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	err = db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	orgRepo := repository.NewOrganizationRepository(db.DB)
	competitorRepo := repository.NewCompetitorRepository(db.DB)
	newsRepo := repository.NewNewsRepository(db.DB)
	jobRepo := repository.NewJobRepository(db.DB)
	debriefRepo := repository.NewDebriefRepository(db.DB)

	sender := mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom)
	scoreSvc := scorer.New(orgRepo, newsRepo)
	debriefSvc := debrief.New(orgRepo, newsRepo, debriefRepo, newDebriefWriter(cfg))
	digestSvc := digest.New(orgRepo, newsRepo, sender, cfg.AppURL)

	pushJob := func(payload string) error {
		return db.PushToQueue(db.FetchQueueKey, payload)
	}

	competitorHandler := handler.NewCompetitorHandler(competitorRepo)
	feedHandler := handler.NewFeedHandler(newsRepo)
	settingsHandler := handler.NewSettingsHandler(orgRepo, competitorRepo, newsRepo, scoreSvc)
	jobHandler := handler.NewJobHandler(jobRepo, competitorRepo, orgRepo, scoreSvc, sender, cfg.AppURL, pushJob)
	debriefHandler := handler.NewDebriefHandler(debriefRepo, debriefSvc)
	digestHandler := handler.NewDigestHandler(digestSvc)
	ingestHandler := handler.NewIngestHandler(newsRepo)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if cfg.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.FrontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}))

	api := r.Group("/api", handler.Auth(cfg.JWTSecret))

	api.GET("/competitors", competitorHandler.List)
	api.POST("/competitors", competitorHandler.Create)
	api.GET("/competitors/:id", competitorHandler.Get)
	api.POST("/competitors/:id/archive", competitorHandler.Archive)

	api.GET("/news", feedHandler.GetFeed)
	api.GET("/dashboard", feedHandler.GetDashboard)
	api.PATCH("/news/:id", feedHandler.UpdateNews)
	api.GET("/stats", feedHandler.GetStats)

	api.GET("/settings", settingsHandler.Get)
	api.PUT("/settings", settingsHandler.Update)
	api.POST("/settings/autodetect", settingsHandler.AutoDetect)

	api.POST("/jobs", jobHandler.Create)
	api.GET("/jobs/latest", jobHandler.GetLatest)
	api.GET("/jobs/:id", jobHandler.Get)

	api.GET("/debriefs", debriefHandler.List)
	api.GET("/debriefs/latest", debriefHandler.GetLatest)
	api.POST("/debriefs/generate", debriefHandler.Generate)

	internal := r.Group("/internal", handler.InternalAuth(cfg.InternalSecret))
	internal.PUT("/jobs/:id", jobHandler.UpdateProgress)
	internal.POST("/news", ingestHandler.Create)
	internal.POST("/digest/run", digestHandler.Run)

	r.GET("/health", feedHandler.GetHealth)

	err = r.Run(":" + cfg.Port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

// newDebriefWriter prefers Anthropic and falls back to OpenAI when only that
// key is configured.
func newDebriefWriter(cfg *config.Config) llm.DebriefWriter {
	if cfg.AnthropicAPIKey != "" {
		return llm.NewAnthropicClient(cfg.AnthropicAPIKey)
	}
	if cfg.OpenAIAPIKey != "" {
		return llm.NewOpenAIClient(cfg.OpenAIAPIKey)
	}
	slog.Warn("no LLM API key configured, debrief generation will fail")
	return llm.NewAnthropicClient("")
}
