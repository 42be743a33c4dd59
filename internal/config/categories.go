package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	// EnvCategoriesImageExtension overrides the stored image extension policy.
	EnvCategoriesImageExtension = "CATEGORIES_IMAGE_EXTENSION"
)

// CategoriesConfig contains category domain policy settings.
type CategoriesConfig struct {
	// ImageExtension is the extension applied to stored category images.
	// The extension is a fixed policy and is not derived from the uploaded
	// content type.
	ImageExtension string `toml:"image_extension"`
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *CategoriesConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies non-zero values from overlay onto the receiver.
func (c *CategoriesConfig) Merge(overlay *CategoriesConfig) {
	if overlay.ImageExtension != "" {
		c.ImageExtension = overlay.ImageExtension
	}
}

func (c *CategoriesConfig) loadDefaults() {
	if c.ImageExtension == "" {
		c.ImageExtension = ".jpg"
	}
}

func (c *CategoriesConfig) loadEnv() {
	if v := os.Getenv(EnvCategoriesImageExtension); v != "" {
		c.ImageExtension = v
	}
}

func (c *CategoriesConfig) validate() error {
	if !strings.HasPrefix(c.ImageExtension, ".") {
		return fmt.Errorf("image_extension must start with a dot: %s", c.ImageExtension)
	}
	if strings.ContainsAny(c.ImageExtension[1:], "./\\") {
		return fmt.Errorf("invalid image_extension: %s", c.ImageExtension)
	}
	return nil
}
