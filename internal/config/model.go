package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvModelPath       = "SPOTTER_MODEL_PATH"
	EnvModelLabels     = "SPOTTER_MODEL_LABELS"
	EnvModelConfidence = "SPOTTER_MODEL_CONFIDENCE"
	EnvModelNMS        = "SPOTTER_MODEL_NMS"
	EnvModelInputSize  = "SPOTTER_MODEL_INPUT_SIZE"
)

// ModelConfig holds object-detection model parameters.
type ModelConfig struct {
	Path       string  `toml:"path"`
	Labels     string  `toml:"labels"`
	Confidence float64 `toml:"confidence"`
	NMS        float64 `toml:"nms"`
	InputSize  int     `toml:"input_size"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ModelConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ModelConfig) Merge(overlay *ModelConfig) {
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
	if overlay.Labels != "" {
		c.Labels = overlay.Labels
	}
	if overlay.Confidence != 0 {
		c.Confidence = overlay.Confidence
	}
	if overlay.NMS != 0 {
		c.NMS = overlay.NMS
	}
	if overlay.InputSize != 0 {
		c.InputSize = overlay.InputSize
	}
}

func (c *ModelConfig) loadDefaults() {
	if c.Path == "" {
		c.Path = "yolov8n.onnx"
	}
	if c.Confidence == 0 {
		c.Confidence = 0.25
	}
	if c.NMS == 0 {
		c.NMS = 0.7
	}
	if c.InputSize == 0 {
		c.InputSize = 640
	}
}

func (c *ModelConfig) loadEnv() {
	if v := os.Getenv(EnvModelPath); v != "" {
		c.Path = v
	}
	if v := os.Getenv(EnvModelLabels); v != "" {
		c.Labels = v
	}
	if v := os.Getenv(EnvModelConfidence); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Confidence = f
		}
	}
	if v := os.Getenv(EnvModelNMS); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.NMS = f
		}
	}
	if v := os.Getenv(EnvModelInputSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.InputSize = n
		}
	}
}

func (c *ModelConfig) validate() error {
	if c.Path == "" {
		return fmt.Errorf("path required")
	}
	if c.Confidence <= 0 || c.Confidence > 1 {
		return fmt.Errorf("confidence must be in (0, 1], got %v", c.Confidence)
	}
	if c.NMS <= 0 || c.NMS > 1 {
		return fmt.Errorf("nms must be in (0, 1], got %v", c.NMS)
	}
	if c.InputSize <= 0 || c.InputSize%32 != 0 {
		return fmt.Errorf("input_size must be a positive multiple of 32, got %d", c.InputSize)
	}
	return nil
}
