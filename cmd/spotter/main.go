package main

import (
	"errors"
	"log"
	"os"

	"github.com/JaimeStill/spotter/internal/config"
	"github.com/JaimeStill/spotter/internal/detections"
	"github.com/JaimeStill/spotter/internal/detector"
	"github.com/JaimeStill/spotter/internal/detector/yolo"
	"github.com/JaimeStill/spotter/internal/images"
	"github.com/JaimeStill/spotter/internal/infrastructure"
	"github.com/JaimeStill/spotter/internal/pipeline"
	"github.com/JaimeStill/spotter/pkg/formatting"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Println("config load failed:", err)
		return 1
	}

	infra, err := infrastructure.New(cfg, loadModel)
	if err != nil {
		log.Println("infrastructure init failed:", err)
		return 1
	}
	logger := infra.Logger

	defer func() {
		if err := infra.Shutdown(); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info(
		"spotter starting",
		"version", cfg.Version,
		"env", cfg.Env(),
		"data_lake", infra.Storage.Location(""),
		"max_image_size", cfg.Scanner.MaxImageSize,
	)

	if err := infra.Start(); err != nil {
		logger.Error("startup failed", "error", err)
		return 1
	}

	p := pipeline.New(
		infra.Database.Connection(),
		images.NewScanner(infra.Storage, cfg.Scanner.Extensions, logger),
		detector.NewAdapter(infra.Model, infra.Storage, cfg.Scanner.MaxImageSize, logger),
		detections.NewWriter(logger),
		logger,
	)

	summary, err := p.Run(infra.Lifecycle.Context())
	logger.Info("run summary", "summary", summary)
	if err != nil {
		if errors.Is(err, images.ErrRootUnreadable) {
			logger.Error("data lake unreadable", "error", err)
		} else {
			logger.Error("run failed", "error", err)
		}
		return 1
	}

	logger.Info("detection run complete", "scanned", formatting.FormatBytes(summary.Bytes, 1))
	return 0
}

func loadModel(cfg *config.ModelConfig) (detector.Model, error) {
	return yolo.Load(yolo.Config{
		ModelPath:  cfg.Path,
		LabelsPath: cfg.Labels,
		Confidence: float32(cfg.Confidence),
		NMS:        float32(cfg.NMS),
		InputSize:  cfg.InputSize,
	})
}
