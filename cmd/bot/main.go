package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"BhavSentinel/internal/bhav"
	"BhavSentinel/internal/config"
	"BhavSentinel/internal/ledger"
	"BhavSentinel/internal/notifier"
	"BhavSentinel/internal/recorder"
	"BhavSentinel/internal/scheduler"

	"github.com/joho/godotenv"
)

func main() {
	once := flag.Bool("once", false, "run the daily pipeline once and exit")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] BhavSentinel starting...")

	// .env is optional; real deployments use environment variables.
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded .env")
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	var fetcher bhav.Fetcher
	if os.Getenv("MOCK_DATA") == "true" {
		fetcher = &bhav.MockFetcher{Symbols: []string{"RELIANCE", "TCS", "INFY"}, Price: 1000}
	} else {
		fetcher = bhav.NewNSEFetcher(cfg.Data.BaseURL, cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init store
	store, err := bhav.NewStore(cfg.Data.Dir)
	if err != nil {
		log.Fatalf("[FATAL] init store: %v", err)
	}

	// Init paper trade book
	book, err := ledger.Open(cfg.Ledger.BookFile)
	if err != nil {
		log.Fatalf("[FATAL] open trade book: %v", err)
	}

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatIDs, cfg.Proxy)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, cfg, fetcher, store, book, tn, rec)

	if *once {
		log.Println("[INFO] one-shot mode: running daily pipeline")
		sched.RunDailyNow()
		log.Println("[INFO] one-shot run complete")
		return
	}

	if err := sched.RegisterAll(cfg.Schedule.DailyCron, cfg.Schedule.WeeklyCron, cfg.Schedule.MonthlyCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing daily task now")
		go sched.RunDailyNow()
	}

	log.Println("[INFO] BhavSentinel is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] BhavSentinel stopped")
}
