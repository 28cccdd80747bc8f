// Command winebench runs the wine-quality model comparison: it loads the
// combined wine CSV, splits it by color, evaluates every registered model
// under repeated stratified cross-validation, and prints one results table
// per color.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/oenolab/winebench/config"
	"github.com/oenolab/winebench/crossval"
	"github.com/oenolab/winebench/dataset"
	"github.com/oenolab/winebench/models"
	"github.com/oenolab/winebench/pkg/log"
	"github.com/oenolab/winebench/report"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults apply when empty)")
	chartDir := flag.String("charts", "", "directory for per-color metric charts (overrides report.chart_dir)")
	flag.Parse()

	if err := run(*configPath, *chartDir); err != nil {
		log.GetLogger().Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, chartDir string) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	log.Setup(cfg.LogLevel, os.Stderr)
	logger := log.GetLogger()

	if chartDir == "" {
		chartDir = cfg.Report.ChartDir
	}

	datasets, err := dataset.Load(cfg.Data.Path)
	if err != nil {
		return err
	}

	opts := crossval.Options{
		Seeds:             cfg.Evaluation.Seeds,
		K:                 cfg.Evaluation.Folds,
		SkipDegenerateAUC: cfg.Evaluation.SkipDegenerateAUC,
		Logger:            logger,
	}

	for _, color := range cfg.Data.Colors {
		ds, ok := datasets[color]
		if !ok {
			logger.Warn("color not present in input", log.DatasetKey, color)
			continue
		}
		logger.Info("evaluating dataset",
			log.DatasetKey, color,
			log.SamplesKey, ds.NumRows(),
			log.FeaturesKey, ds.NumFeatures())

		registry, err := models.Filter(models.Build(ds, cfg.Models), cfg.Models.Enabled)
		if err != nil {
			return err
		}

		var results []*crossval.Result
		for _, m := range registry {
			start := time.Now()
			res, err := crossval.Evaluate(ds, m, opts)
			if err != nil {
				return err
			}
			logger.Info("model evaluated",
				log.ModelNameKey, m.Name,
				log.DatasetKey, color,
				log.AccuracyKey, res.MeanAccuracy,
				log.AUCKey, res.MeanAUC,
				log.MAEKey, res.MeanMAE,
				log.DurationMsKey, time.Since(start).Milliseconds())
			results = append(results, res)
		}

		if bestSubsetEnabled(cfg.Models.Enabled) {
			start := time.Now()
			subset, err := models.EvaluateBestSubset(ds, opts)
			if err != nil {
				return err
			}
			logger.Info("model evaluated",
				log.ModelNameKey, models.BestSubsetName,
				log.DatasetKey, color,
				log.SubsetSizeKey, subset.Size,
				"features", strings.Join(subset.Names, ","),
				log.AccuracyKey, subset.Result.MeanAccuracy,
				log.AUCKey, subset.Result.MeanAUC,
				log.MAEKey, subset.Result.MeanMAE,
				log.DurationMsKey, time.Since(start).Milliseconds())
			results = append(results, subset.Result)
		}

		if err := report.WriteTable(os.Stdout, color, results); err != nil {
			return err
		}
		if chartDir != "" {
			path := fmt.Sprintf("%s/%s.png", chartDir, color)
			if err := report.SaveChart(path, "wine quality: "+color, results); err != nil {
				return err
			}
			logger.Info("chart written", log.DatasetKey, color, "path", path)
		}
	}
	return nil
}

// bestSubsetEnabled reports whether the best-subset entry should run: it
// is on by default and opt-in when an explicit model list is given.
func bestSubsetEnabled(enabled []string) bool {
	if len(enabled) == 0 {
		return true
	}
	for _, name := range enabled {
		if name == models.BestSubsetName {
			return true
		}
	}
	return false
}
