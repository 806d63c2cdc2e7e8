package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/ClementStand/market-analyser/db"
	"github.com/ClementStand/market-analyser/internal/config"
	"github.com/ClementStand/market-analyser/internal/digest"
	"github.com/ClementStand/market-analyser/internal/repository"
	"github.com/ClementStand/market-analyser/pkg/mailer"
)

// Long-running digest scheduler. Sends the weekly top-articles email on the
// configured cron expression.
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
	sender := mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom)

	svc := digest.New(orgRepository, newsRepository, sender, cfg.AppURL)

	c := cron.New()
	_, err = c.AddFunc(cfg.DigestSchedule, func() {
		sent, err := svc.Run()
		if err != nil {
			slog.Error("error running digest batch", "error", err)
			return
		}
		slog.Info("digest batch complete", "sent", sent)
	})
	if err != nil {
		log.Fatalf("invalid digest schedule %q: %v", cfg.DigestSchedule, err)
	}

	slog.Info("digest scheduler started", "schedule", cfg.DigestSchedule)
	c.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx := c.Stop()
	<-ctx.Done()
	slog.Info("digest scheduler stopped")
}
