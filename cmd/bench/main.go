package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/erain9/limitbook/pkg/bench"
	"github.com/erain9/limitbook/pkg/logging"
)

func main() {
	cfg, err := bench.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load benchmark config")
	}

	logging.Setup(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})

	runner := bench.NewRunner(cfg, log.Logger)

	results, err := runner.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("Benchmark run failed")
	}

	if err := bench.WriteReport(os.Stdout, runner.RunID(), results); err != nil {
		log.Fatal().Err(err).Msg("Failed to write report")
	}
}
