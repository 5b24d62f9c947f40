// Command winequality runs the wine-quality classification pipeline:
// it ingests the red and white wine datasets, cleans them, fits a
// conditional inference tree and a random forest, and reports
// held-out evaluation metrics.
//
// Flags:
//
//	--config : path to a YAML config file (optional)
//	--red    : override path to the red wine CSV
//	--white  : override path to the white wine CSV
//	--report : override path of the JSON report (empty disables it)
package main

import (
	"flag"
	"os"

	"github.com/deyachatterjee/data-science-toolkit/pkg/config"
	"github.com/deyachatterjee/data-science-toolkit/pkg/logging"
	"github.com/deyachatterjee/data-science-toolkit/pkg/pipeline"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	redPath := flag.String("red", "", "override path to red wine CSV")
	whitePath := flag.String("white", "", "override path to white wine CSV")
	reportPath := flag.String("report", "", "override path of the JSON report")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Error().Err(err).Msg("configuration error")
		os.Exit(1)
	}
	if *redPath != "" {
		cfg.Data.RedPath = *redPath
	}
	if *whitePath != "" {
		cfg.Data.WhitePath = *whitePath
	}
	if *reportPath != "" {
		cfg.Report.Path = *reportPath
	}

	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	report, err := pipeline.New(cfg).Run()
	if err != nil {
		logging.Error().Err(err).Msg("pipeline failed")
		os.Exit(1)
	}

	if cfg.Report.Path != "" {
		if err := report.Write(cfg.Report.Path); err != nil {
			logging.Error().Err(err).Msg("could not write report")
			os.Exit(1)
		}
		logging.Info().Str("path", cfg.Report.Path).Msg("report written")
	}
}
