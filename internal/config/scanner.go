package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/spotter/internal/images"
	"github.com/JaimeStill/spotter/pkg/formatting"
)

const (
	EnvScannerExtensions   = "SPOTTER_IMAGE_EXTENSIONS"
	EnvScannerMaxImageSize = "SPOTTER_MAX_IMAGE_SIZE"
)

// ScannerConfig controls which files are picked up from channel image directories.
type ScannerConfig struct {
	Extensions   []string            `toml:"extensions"`
	MaxImageSize formatting.ByteSize `toml:"max_image_size"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ScannerConfig) Finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ScannerConfig) Merge(overlay *ScannerConfig) {
	if len(overlay.Extensions) > 0 {
		c.Extensions = overlay.Extensions
	}
	if overlay.MaxImageSize != 0 {
		c.MaxImageSize = overlay.MaxImageSize
	}
}

func (c *ScannerConfig) loadDefaults() {
	if len(c.Extensions) == 0 {
		c.Extensions = images.DefaultExtensions
	}
	if c.MaxImageSize == 0 {
		c.MaxImageSize = 50 << 20
	}
}

func (c *ScannerConfig) loadEnv() error {
	if v := os.Getenv(EnvScannerExtensions); v != "" {
		var exts []string
		for e := range strings.SplitSeq(v, ",") {
			if e = strings.TrimSpace(e); e != "" {
				exts = append(exts, e)
			}
		}
		if len(exts) > 0 {
			c.Extensions = exts
		}
	}
	if v := os.Getenv(EnvScannerMaxImageSize); v != "" {
		n, err := formatting.ParseBytes(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvScannerMaxImageSize, err)
		}
		c.MaxImageSize = formatting.ByteSize(n)
	}
	return nil
}

func (c *ScannerConfig) validate() error {
	for _, e := range c.Extensions {
		if strings.Trim(e, ". ") == "" {
			return fmt.Errorf("invalid extension %q", e)
		}
	}
	if c.MaxImageSize < 0 {
		return fmt.Errorf("max_image_size must not be negative")
	}
	return nil
}
