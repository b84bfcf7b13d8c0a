package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chapterhub/internal/auth"
	"chapterhub/internal/catalog"
	"chapterhub/internal/config"
	"chapterhub/internal/db"
	httpx "chapterhub/internal/http"
	"chapterhub/internal/reminder"
	"chapterhub/internal/schedule"

	"github.com/robfig/cron/v3"
)

func main() {
	cfg, _ := config.Load()

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		log.Fatal(err)
	}

	jwtSvc := auth.NewJWT(cfg.JWTSecret)

	store := &schedule.Store{DB: gdb}
	coord := &reminder.Coordinator{
		Associations: store,
		Events:       &catalog.Service{DB: gdb},
		Notifier:     reminder.LogNotifier{},
	}
	worker := &reminder.Worker{Pending: store, Coordinator: coord}

	r := httpx.NewRouter(cfg, gdb, jwtSvc, coord)

	ctx, cancel := context.WithCancel(context.Background())

	c := cron.New()
	if _, err := c.AddFunc(cfg.ReminderCron, func() { worker.RunAll(ctx) }); err != nil {
		log.Fatalf("invalid REMINDER_CRON %q: %v", cfg.ReminderCron, err)
	}
	c.Start()

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on %s\n", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	cancel()
	<-c.Stop().Done()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
