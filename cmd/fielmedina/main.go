package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"

	"github.com/fielmedina/backend/app/controllers"
	"github.com/fielmedina/backend/internal/pkg/bootstrap"
	"github.com/fielmedina/backend/internal/pkg/env"
	"github.com/fielmedina/backend/internal/pkg/router"
)

func main() {
	rt, err := bootstrap.Setup(context.Background())
	if err != nil {
		log.Fatalf("setup failed: %v", err)
	}

	app := NewApplication(rt)
	scheduler := startSweeper(rt)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down...")
		if scheduler != nil {
			<-scheduler.Stop().Done()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(ctx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	err = app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	if err != nil {
		log.Fatal(err)
	}
}

func NewApplication(rt *bootstrap.Runtime) *fiber.App {
	// init fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: 104857600, // 100 MiB, enough for a full gallery form
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	deps := router.Deps{
		Content: controllers.NewContentController(rt.Content),
		Files:   rt.Files,
		DB:      rt.DB,
	}
	if rt.Storage.IsLocal() {
		deps.MediaRoot = rt.Storage.MediaRoot
	}

	// ROUTER
	router.InstallRouter(app, deps)

	return app
}

// startSweeper schedules the orphan sweep. An empty schedule disables it.
func startSweeper(rt *bootstrap.Runtime) *cron.Cron {
	schedule := env.GetEnv("ASSET_SWEEP_SCHEDULE", "@every 1h")
	if schedule == "" || schedule == "off" {
		log.Println("Orphan sweep disabled")
		return nil
	}

	sweeper := rt.Sweeper()
	c := cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, err := sweeper.Sweep(ctx); err != nil {
			log.Printf("orphan sweep: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("invalid ASSET_SWEEP_SCHEDULE %q: %v", schedule, err)
	}
	c.Start()
	log.Printf("Orphan sweep scheduled: %s", schedule)
	return c
}
