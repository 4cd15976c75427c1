// Command trendline fits a trendline to a time,value file and reports spikes
// and change points in the detrended series.
//
// Usage:
//
//	trendline -data anomaly.csv -chart trend.png
//	trendline -config trendline.yaml -log-level debug
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/YuminosukeSato/trendline/config"
	"github.com/YuminosukeSato/trendline/pkg/log"
	"github.com/YuminosukeSato/trendline/pipeline"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("trendline failed", log.ErrAttr(err))
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("trendline", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML configuration file")
	dataPath := fs.String("data", "", "time,value file to fit (overrides data.path)")
	logLevel := fs.String("log-level", "", "debug, info, warn or error (overrides log_level)")
	chartPath := fs.String("chart", "", "write a chart to this path (.png, .svg, .pdf)")
	archivePath := fs.String("archive", "", "write observed and fitted series to this mebo blob")
	round := fs.Bool("round", false, "round values to the nearest integer before fitting")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath, *dataPath)
	if err != nil {
		return err
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *chartPath != "" {
		cfg.Output.ChartPath = *chartPath
	}
	if *archivePath != "" {
		cfg.Output.ArchivePath = *archivePath
	}
	if *round {
		cfg.Data.Round = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := log.SetupLogger(cfg.LogLevel); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.GetLoggerWithName("cmd")
	report, err := pipeline.Run(ctx, cfg, log.GetLoggerWithName("pipeline"))
	if err != nil {
		return err
	}
	logger.Info("Trendline report", "report", report)

	r := report.Trend
	fmt.Printf("slope=%g intercept=%g start=%g end=%g direction=%s\n",
		r.Slope, r.Intercept, r.Start, r.End, report.Direction)
	if report.HasR2 {
		fmt.Printf("r2=%g\n", report.R2)
	}
	fmt.Printf("spikes=%d change_points=%d\n", report.SpikeAlerts(), report.ChangePointAlerts())
	return nil
}

// loadConfig は設定ファイルがあれば読み込み、-data で上書きする。検証は呼び出し側で行う
func loadConfig(path, data string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Read(path); err != nil {
			return nil, err
		}
	}
	if data != "" {
		cfg.Data.Path = data
	}
	return cfg, nil
}
