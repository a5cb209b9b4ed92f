// Command outbreaks runs the foodborne-outbreak analysis pipeline over a
// surveillance CSV and prints the descriptive and model reports.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	outbreaks "github.com/epiforge/outbreaks"
	"github.com/epiforge/outbreaks/internal/config"
	"github.com/epiforge/outbreaks/internal/metrics"
)

func main() {
	var (
		configPath = flag.String("config", "", "optional YAML configuration file")
		dataPath   = flag.String("data", "", "outbreak report CSV (overrides config)")
		outputDir  = flag.String("out", "", "output directory for plots (overrides config)")
		modelPath  = flag.String("model", "", "path for the saved model bundle (overrides config)")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("loading configuration", "error", err)
		os.Exit(1)
	}
	if *dataPath != "" {
		cfg.DataPath = *dataPath
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}
	if *modelPath != "" {
		cfg.ModelPath = *modelPath
	}

	results, err := outbreaks.Run(cfg)
	if err != nil {
		slog.Error("pipeline failed", "error", err)
		os.Exit(1)
	}

	report(results, cfg)
}

func loadConfig(path string) (config.Config, error) {
	cfg := config.NewConfig()
	if path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	cfg.LoadWithEnvironment()
	return cfg, cfg.Validate()
}

func report(r *outbreaks.Results, cfg config.Config) {
	fmt.Printf("Loaded %d outbreak reports from %s\n\n", r.Rows, cfg.DataPath)

	fmt.Println("Missing values per column:")
	for _, mc := range r.Missing {
		if mc.Missing > 0 {
			fmt.Printf("  %-24s %d\n", mc.Column, mc.Missing)
		}
	}

	fmt.Println("\nCleaned data preview:")
	fmt.Println(r.Preview)

	fmt.Println("Yearly totals:")
	for _, pt := range r.Trend {
		fmt.Printf("  %d  illnesses=%-8d hospitalizations=%d\n",
			pt.Year, pt.Illnesses, pt.Hospitalizations)
	}

	fmt.Printf("\nTop foods among hospitalization outbreaks:\n")
	for _, e := range r.TopFoods {
		fmt.Printf("  %-32s %d\n", e.Label, e.Count)
	}
	fmt.Printf("\nTop locations among hospitalization outbreaks:\n")
	for _, e := range r.TopLocations {
		fmt.Printf("  %-32s %d\n", e.Label, e.Count)
	}
	fmt.Printf("\nTop states by illness count:\n")
	for _, e := range r.TopStates {
		fmt.Printf("  %-24s %d\n", e.State, e.Illnesses)
	}

	fmt.Printf("\nRandom Forest accuracy: %.4f\n", r.ForestAccuracy)
	fmt.Println(metrics.FormatReport(r.ForestReport))

	fmt.Println("Feature importances:")
	for i, name := range r.FeatureNames {
		fmt.Printf("  %-12s %.4f\n", name, r.Importances[i])
	}

	fmt.Printf("\nNeural network accuracy: %.4f\n", r.NetworkAccuracy)
	fmt.Println(metrics.FormatReport(r.NetworkReport))
	fmt.Println("Confusion matrix (network):")
	fmt.Println(metrics.FormatConfusion(r.NetworkConfusion))

	fmt.Printf("\nBest tuned configuration: %s\n", r.TunedConfig.String())
	fmt.Printf("Cross-validation accuracy: %.4f\n", r.TunedCVScore)
	fmt.Printf("Tuned held-out accuracy:   %.4f\n", r.TunedAccuracy)
	fmt.Println(metrics.FormatReport(r.TunedReport))

	fmt.Printf("Misclassified %d of %d held-out records\n",
		r.Misclassified.Len(), r.Inspection.Len())
	fmt.Printf("Model bundle saved to %s; plots written under %s\n",
		cfg.ModelPath, cfg.OutputDir)
}
