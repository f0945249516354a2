package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"poolroom/internal/config"
	"poolroom/internal/directory"
	"poolroom/internal/ledger"
	"poolroom/internal/poll"
	"poolroom/internal/server"
	"poolroom/internal/store"
	"poolroom/internal/store/memory"
	"poolroom/internal/store/mysql"
	"poolroom/internal/ws"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()
	ctx := context.Background()

	var st store.Store
	if cfg.DSN != "" {
		ms, err := mysql.Connect(cfg.DSN, log)
		if err != nil {
			log.WithError(err).Fatal("db connect failed")
		}
		if err := ms.RunMigrations(ctx, "migrations"); err != nil {
			log.WithError(err).Fatal("migrations failed")
		}
		st = ms
	} else {
		log.Warn("DB_DSN not set, using in-memory store")
		st = memory.New()
	}
	defer st.Close()

	registry, engine, chat := ledger.New(st, log)

	if err := registry.Ensure(ctx, cfg.SeedRooms); err != nil {
		log.WithError(err).Fatal("seeding rooms failed")
	}

	hub := ws.NewHub(log)

	scheduler := poll.NewScheduler(st, hub, time.Duration(cfg.RefreshSeconds)*time.Second, log)
	go scheduler.Run(ctx)

	var resolver directory.Resolver
	if cfg.DirectoryURL != "" {
		resolver = directory.NewClient(cfg.DirectoryURL)
	}

	srv := &server.Server{
		Addr:      ":" + cfg.Port,
		Store:     st,
		Registry:  registry,
		Engine:    engine,
		Chat:      chat,
		Scheduler: scheduler,
		Hub:       hub,
		Directory: resolver,
		Log:       log,
	}
	if err := srv.Run(); err != nil {
		log.WithError(err).Fatal("server error")
	}
}
