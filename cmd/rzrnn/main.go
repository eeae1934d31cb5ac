// Package main provides the rzrNN command line trainer.
//
// The session follows the interactive flow of the original MNIST trainer: load a saved
// model or create one from layer sizes, then either classify samples by index or train
// for a number of epochs and save the result.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/born-ml/rzrnn/internal/config"
	"github.com/born-ml/rzrnn/internal/mnist"
)

const version = "v0.1.0"

// MNIST image shape used for synthetic data.
const (
	mnistRows    = 28
	mnistColumns = 28
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("rzrNN %s\n", version)
		return
	}

	configPath := flag.String("config", "", "TOML configuration file")
	dataDir := flag.String("data", "", "Directory containing the MNIST training files")
	trainImages := flag.String("train-images", "", "MNIST training images file (overrides -data)")
	trainLabels := flag.String("train-labels", "", "MNIST training labels file (overrides -data)")
	modelPath := flag.String("model", "", "Model to load instead of asking")
	outPath := flag.String("out", "", "Where to save the trained model (default model.rzrnn)")
	epochs := flag.Int("epochs", 0, "Number of training epochs (default 10)")
	seed := flag.Uint64("seed", 0, "Weight initialization seed (default 1)")
	plotPath := flag.String("plot", "", "Save an accuracy plot to this file (.png, .svg, .pdf)")
	synthetic := flag.Int("synthetic", 0, "Use this many synthetic samples instead of MNIST files")
	workers := flag.Int("workers", 0, "Parallel validation workers (0 = sequential)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	// Flags override the configuration file only when given.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data":
			cfg.Data.Dir = *dataDir
		case "train-images":
			cfg.Data.TrainImages = *trainImages
		case "train-labels":
			cfg.Data.TrainLabels = *trainLabels
		case "out":
			cfg.Model.Path = *outPath
		case "epochs":
			cfg.Training.Epochs = *epochs
		case "seed":
			cfg.Model.Seed = *seed
		case "plot":
			cfg.Training.Plot = *plotPath
		case "synthetic":
			cfg.Data.Synthetic = *synthetic
		case "workers":
			cfg.Training.Workers = *workers
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	data, err := loadData(cfg.Data)
	if err != nil {
		if errors.Is(err, mnist.ErrNotFound) {
			fmt.Println("Error: MNIST data files not found!")
			fmt.Println("\nDownload train-images-idx3-ubyte.gz and train-labels-idx1-ubyte.gz")
			fmt.Println("into a directory and pass it with -data, or run with -synthetic 1000.")
			os.Exit(1)
		}
		log.Fatalf("Failed to load MNIST: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	s := newSession(os.Stdin, os.Stdout, cfg, data)
	s.status = os.Stderr
	s.model = *modelPath
	err = s.run(ctx)
	stop()
	if err != nil {
		log.Fatalf("%v", err)
	}
}

func loadData(cfg config.DataConfig) (*mnist.Dataset, error) {
	switch {
	case cfg.Synthetic > 0:
		return mnist.Synthetic(cfg.Synthetic, mnistRows, mnistColumns), nil
	case cfg.TrainImages != "" || cfg.TrainLabels != "":
		return mnist.LoadDataset(cfg.TrainImages, cfg.TrainLabels)
	default:
		return mnist.LoadTraining(cfg.Dir)
	}
}
