package main

import (
	"flag"
	"os"
	"runtime/pprof"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ivasilev/tamerlane/internal/config"
	"github.com/ivasilev/tamerlane/internal/engine"
	"github.com/ivasilev/tamerlane/internal/storage"
	"github.com/ivasilev/tamerlane/internal/uci"
)

var (
	consoleMode = flag.Bool("console", false, "run the interactive console instead of UCI")
	configPath  = flag.String("config", "", "path to tamerlane.yaml")
	cpuprofile  = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
	}

	searcher := engine.NewSearcher()
	searcher.Limits.SetTimeControl(cfg.ControlMoves, cfg.BaseTime, cfg.IncTime)
	searcher.Limits.SetDepthLimit(cfg.MaxDepth)
	searcher.Limits.SetNodesLimit(cfg.MaxNodes)

	if *consoleMode {
		store, err := storage.Open(cfg.DataDir)
		if err != nil {
			log.Warn().Err(err).Msg("running without persistent storage")
		} else {
			defer store.Close()

			if opts, err := store.LoadOptions(); err == nil {
				if opts.ControlMoves != 0 || opts.BaseTime != 0 || opts.IncTime != 0 {
					searcher.Limits.SetTimeControl(opts.ControlMoves, opts.BaseTime, opts.IncTime)
				}
				searcher.Limits.SetDepthLimit(opts.MaxDepth)
				searcher.Limits.SetNodesLimit(opts.MaxNodes)
			}
		}

		console := uci.NewConsole(searcher, store, cfg.Post)
		if err := console.Run(); err != nil {
			log.Fatal().Err(err).Msg("console terminated")
		}
		return
	}

	handler := uci.New(searcher, cfg.Post)
	if err := handler.Run(); err != nil {
		log.Fatal().Err(err).Msg("uci loop terminated")
	}
}
