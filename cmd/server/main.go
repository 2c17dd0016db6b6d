package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"ecosim-server/internal/config"
	"ecosim-server/internal/engine"
	"ecosim-server/internal/infrastructure/storage"
	"ecosim-server/internal/render"
	"ecosim-server/internal/server"
	"ecosim-server/internal/telemetry"
	"ecosim-server/internal/version"
	"ecosim-server/pkg/api"
	"ecosim-server/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг флагов
	var (
		configPath string
		seed       int64
		turns      int
		port       string
		serve      bool
		headless   bool
		loadPath   string
		savePath   string
		statsPath  string
	)
	flag.StringVar(&configPath, "config", "", "Path to YAML config (defaults used when empty)")
	flag.Int64Var(&seed, "seed", 0, "Simulation seed (0 for random)")
	flag.IntVar(&turns, "turns", 0, "Max turns override (0 keeps config value)")
	flag.StringVar(&port, "port", "", "HTTP port (overrides ECOSIM_PORT)")
	flag.BoolVar(&serve, "serve", false, "Run as HTTP/WebSocket server")
	flag.BoolVar(&headless, "headless", false, "Local run without board rendering")
	flag.StringVar(&loadPath, "load", "", "Load simulation from a save file")
	flag.StringVar(&savePath, "save", "", "Save simulation to this file on exit")
	flag.StringVar(&statsPath, "stats", "", "Write per-turn stats CSV to this file")
	flag.Parse()

	logger.Log.Info("Starting ecosim...")
	logger.Log.Info(version.String())

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Log.Fatal("Config error: ", err)
	}

	// РЕЖИМ СЕРВЕРА
	if serve {
		if port == "" {
			port = os.Getenv("ECOSIM_PORT")
		}
		if port == "" {
			port = "8080"
		}

		registry := engine.NewRegistry(cfg)
		srv := server.New(registry, port)

		// Graceful Shutdown
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		go func() {
			if err := srv.Run(); err != nil {
				logger.Log.Fatal("Server start error: ", err)
			}
		}()

		<-stop
		logger.Log.Info("Shutting down...")
		return
	}

	// ЛОКАЛЬНЫЙ РЕЖИМ: одна партия, прогон до лимита ходов.
	var loop *engine.GameLoop
	if loadPath != "" {
		snap, err := storage.Load(loadPath)
		if err != nil {
			logger.Log.Fatal("Load error: ", err)
		}
		loop, err = storage.Restore(snap, cfg)
		if err != nil {
			logger.Log.Fatal("Restore error: ", err)
		}
	} else {
		registry := engine.NewRegistry(cfg)
		in, err := registry.Create(api.CreateGameRequest{Seed: seed, MaxTurns: turns})
		if err != nil {
			logger.Log.Fatal("Create error: ", err)
		}
		loop = in.Loop
	}
	if turns > 0 {
		loop.MaxTurns = turns
	}

	recorder := telemetry.NewRecorder(statsPath)
	var r *render.Renderer
	if !headless {
		r = render.New(os.Stdout, true)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	for loop.Turn < loop.MaxTurns && ctx.Err() == nil {
		loop.ProcessTurn()
		recorder.Record(loop.CollectStats())
		if r != nil {
			r.Render(loop)
		}
	}

	if err := recorder.Flush(); err != nil {
		logger.Log.WithError(err).Error("Failed to write stats")
	}
	if savePath != "" {
		if err := storage.Save(savePath, storage.Capture(loop)); err != nil {
			logger.Log.WithError(err).Error("Failed to save game")
		}
	}
	logger.Log.WithField("turns", loop.Turn).Info("Done.")
}
