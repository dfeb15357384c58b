package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"

	"github.com/erain9/limitbook/pkg/logging"
	"github.com/erain9/limitbook/pkg/script"
)

var (
	logLevel = flag.String("log_level", "warn", "Log level: debug, info, warn, error")
)

func main() {
	flag.Parse()

	logging.Setup(logging.Config{Level: *logLevel, Pretty: true})

	files := flag.Args()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: replay [flags] <scenario.yaml> [scenario.yaml ...]")
		os.Exit(2)
	}

	green := color.New(color.FgGreen).SprintfFunc()
	red := color.New(color.FgRed).SprintfFunc()

	failed := 0
	for _, path := range files {
		s, err := script.Load(path)
		if err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("Failed to load scenario")
		}

		report := script.Run(s)
		if report.Passed() {
			fmt.Printf("%s %s (%d steps)\n", green("PASS"), report.Name, len(report.Steps))
			continue
		}

		failed++
		fmt.Printf("%s %s\n", red("FAIL"), report.Name)
		for _, step := range report.Steps {
			if step.Passed() {
				continue
			}
			fmt.Printf("  step %d (%s):\n", step.Index, step.Desc)
			for _, failure := range step.Failures {
				fmt.Printf("    - %s\n", failure)
			}
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}
