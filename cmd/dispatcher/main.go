package main

import (
	"encoding/json"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/ClementStand/market-analyser/db"
	"github.com/ClementStand/market-analyser/internal/config"
	"github.com/ClementStand/market-analyser/internal/handler"
	"github.com/ClementStand/market-analyser/internal/model"
	"github.com/ClementStand/market-analyser/internal/repository"
	"github.com/ClementStand/market-analyser/pkg/worker"
)

const (
	maxRetries  = 3
	popTimeout  = 5 * time.Second
	retryPause  = 5 * time.Second
	idleLogWait = 50 // idle pops between queue length logs
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()

	err := db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	err = db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	jobRepository := repository.NewJobRepository(db.DB)
	workerClient := worker.NewClient(cfg.WorkerURL)

	if err := workerClient.Health(); err != nil {
		slog.Warn("enrichment worker not reachable at startup", "error", err, "worker_url", cfg.WorkerURL)
	}

	idle := 0
	for {
		raw, err := db.PopFromQueue(db.FetchQueueKey, popTimeout)
		if err != nil {
			idle++
			if idle >= idleLogWait {
				length, lerr := db.GetqueueLength(db.FetchQueueKey)
				if lerr == nil {
					slog.Info("dispatcher idle", "queue_length", length)
				}
				idle = 0
			}
			continue
		}
		idle = 0

		var payload handler.QueuePayload
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			slog.Error("invalid queue payload", "error", err, "payload", raw)
			db.PushToQueue(db.DeadLetterKey, raw)
			continue
		}

		req := worker.Request{
			CompetitorIDs: payload.CompetitorIDs,
			OrgID:         payload.OrgID,
			JobID:         payload.JobID,
		}

		dispatched := false
		for attempt := 1; attempt <= maxRetries; attempt++ {
			if err := workerClient.Dispatch(req); err != nil {
				slog.Error("error dispatching job", "error", err, "job_id", payload.JobID, "attempt", attempt)
				time.Sleep(retryPause)
				continue
			}
			dispatched = true
			break
		}

		if !dispatched {
			slog.Error("job exceeded max dispatch attempts", "job_id", payload.JobID)
			if _, err := jobRepository.UpdateProgress(payload.JobID, model.JobError, "",
				0, 0, "Worker unreachable"); err != nil {
				slog.Error("error marking job failed", "error", err, "job_id", payload.JobID)
			}
			db.PushToQueue(db.DeadLetterKey, raw)
			continue
		}

		slog.Info("job dispatched", "job_id", payload.JobID, "competitors", len(payload.CompetitorIDs))
	}
}
