package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/ClementStand/market-analyser/db"
	"github.com/ClementStand/market-analyser/internal/config"
	"github.com/ClementStand/market-analyser/internal/debrief"
	"github.com/ClementStand/market-analyser/internal/repository"
	"github.com/ClementStand/market-analyser/pkg/llm"
)

// Generates the weekly debrief for every organization with users. Meant to
// run from a weekly scheduler; organizations with an empty news window are
// skipped.
func main() {
	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	orgRepository := repository.NewOrganizationRepository(db.DB)
	newsRepository := repository.NewNewsRepository(db.DB)
	debriefRepository := repository.NewDebriefRepository(db.DB)

	var writer llm.DebriefWriter
	switch {
	case cfg.AnthropicAPIKey != "":
		writer = llm.NewAnthropicClient(cfg.AnthropicAPIKey)
	case cfg.OpenAIAPIKey != "":
		writer = llm.NewOpenAIClient(cfg.OpenAIAPIKey)
	default:
		log.Fatal("no LLM API key configured")
	}

	svc := debrief.New(orgRepository, newsRepository, debriefRepository, writer)

	orgs, err := orgRepository.ListWithUsers()
	if err != nil {
		log.Fatalf("error listing organizations: %v", err)
	}

	generated := 0
	for _, org := range orgs {
		d, err := svc.Generate(org.ID)
		if err != nil {
			slog.Error("error generating debrief", "error", err, "org_id", org.ID)
			continue
		}

		if d == nil {
			slog.Info("no recent news, skipping debrief", "org_id", org.ID)
			continue
		}

		generated++
		slog.Info("debrief saved", "debrief_id", d.ID, "org_id", org.ID, "item_count", d.ItemCount)
	}

	slog.Info("debrief run complete", "organizations", len(orgs), "generated", generated)
}
