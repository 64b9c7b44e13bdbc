package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"pixelfx/pkg/config"
	"pixelfx/pkg/filter"
	"pixelfx/pkg/logging"
	"pixelfx/pkg/pipeline"
)

func main() {
	configPath := flag.String("config", "pixelfx.yaml", "Path to YAML configuration file")
	initConfig := flag.Bool("init-config", false, "Write the default configuration to -config and exit")
	inputs := flag.String("input", "", "Comma-separated image files, raw buffers or directories")
	filterName := flag.String("filter", "", "Filter to apply: "+strings.Join(filter.Names(), ", "))
	area := flag.Int("area", 0, "Mosaic block size in pixels")
	outputDir := flag.String("output-dir", "", "Directory for filtered files")
	format := flag.String("format", "", "Output format: png, jpeg, gif, bmp, tiff")
	numCores := flag.Int("cores", 0, "Number of files to process concurrently (default: all CPUs)")
	saveIntermediary := flag.Bool("save-intermediary", false, "Save intermediary results during processing")
	intermediaryDir := flag.String("intermediary-dir", "", "Directory to save intermediary results")
	showMetrics := flag.Bool("metrics", false, "Report quality metrics for every file")
	raw := flag.Bool("raw", false, "Write zstd-compressed raw RGBA containers instead of images")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	if *initConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Apply only the flags that were set explicitly
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "filter":
			cfg.Processing.Filter = *filterName
		case "area":
			cfg.Processing.MosaicArea = *area
		case "cores":
			cfg.Processing.NumCores = *numCores
		case "output-dir":
			cfg.Output.Dir = *outputDir
		case "format":
			cfg.Output.Format = *format
		case "save-intermediary":
			cfg.Output.SaveIntermediaryResults = *saveIntermediary
		case "intermediary-dir":
			cfg.Output.IntermediaryDir = *intermediaryDir
		case "metrics":
			cfg.Output.Metrics = *showMetrics
		case "verbose":
			cfg.Output.Verbose = *verbose
		}
	})

	if *inputs == "" {
		flag.Usage()
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	level := slog.LevelInfo
	if cfg.Output.Verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	fmt.Println("================================")
	fmt.Println("PIXELFX IMAGE FILTERS")
	fmt.Println("================================")

	params := &pipeline.Params{
		Inputs:                  strings.Split(*inputs, ","),
		OutputDir:               cfg.Output.Dir,
		Filter:                  cfg.Processing.Filter,
		Area:                    cfg.Processing.MosaicArea,
		NumCores:                cfg.Processing.NumCores,
		Format:                  cfg.Output.Format,
		Raw:                     *raw,
		WorkSuffix:              cfg.Output.WorkSuffix,
		SaveIntermediaryResults: cfg.Output.SaveIntermediaryResults,
		IntermediaryDir:         cfg.Output.IntermediaryDir,
		Metrics:                 cfg.Output.Metrics,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p := pipeline.NewPipeline(params)

	fmt.Printf("Applying %s filter using %d workers...\n", params.Filter, params.NumCores)
	startTime := time.Now()
	if err := p.Process(ctx); err != nil {
		log.Fatalf("Processing failed: %v", err)
	}
	processingTime := time.Since(startTime)

	results := p.Results()
	fmt.Printf("\nProcessed %d files in %.2f seconds\n\n", len(results), processingTime.Seconds())

	for _, r := range results {
		fmt.Printf("%s -> %s (%dx%d, %s)\n", r.Input, r.Output, r.Width, r.Height, r.Duration.Round(time.Microsecond))
		if r.Quality != nil {
			fmt.Printf("    %s\n", r.Quality)
		}
	}

	if params.SaveIntermediaryResults {
		fmt.Println("\nIntermediary results saved to:")
		fmt.Printf("%s\n", params.IntermediaryDir)
		fmt.Println("The following stages were saved:")
		fmt.Println("- 01_original: Decoded input images")
		fmt.Println("- 02_filtered: Filter output")
		if params.Filter == "smoothing" {
			fmt.Println("- 03_planes: Luminance and chrominance planes")
		}
	}
}
