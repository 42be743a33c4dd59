package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	"github.com/nhp-platform/catalog/internal/categories"
)

func init() {
	registerSeeder(&CategorySeeder{})
}

// CategorySeeder populates a starter set of catalog categories, each with a
// generated placeholder image so the blob store and the records stay coupled.
type CategorySeeder struct{}

func (s *CategorySeeder) Name() string {
	return "categories"
}

func (s *CategorySeeder) Description() string {
	return "Seeds a starter set of catalog categories with placeholder images"
}

var samples = []struct {
	title       string
	description string
	tint        color.RGBA
}{
	{"Fruits", "Fresh seasonal produce", color.RGBA{R: 196, G: 60, B: 48, A: 255}},
	{"Vegetables", "Greens, roots, and everything in between", color.RGBA{R: 64, G: 160, B: 72, A: 255}},
	{"Dairy", "Milk, cheese, and fermented goods", color.RGBA{R: 240, G: 234, B: 214, A: 255}},
	{"Bakery", "Breads and pastries baked daily", color.RGBA{R: 205, G: 148, B: 80, A: 255}},
	{"Beverages", "Juices, sodas, and hot drinks", color.RGBA{R: 72, G: 112, B: 190, A: 255}},
}

func (s *CategorySeeder) Seed(ctx context.Context, env *Environment) error {
	for _, sample := range samples {
		img, err := placeholderImage(sample.tint)
		if err != nil {
			return fmt.Errorf("render placeholder for %s: %w", sample.title, err)
		}

		_, err = env.Categories.Create(ctx, categories.CreateCommand{
			Title:       sample.title,
			Description: sample.description,
			Image:       img,
		})
		if err != nil {
			// Re-running the seeder against a populated database is fine.
			if errors.Is(err, categories.ErrDuplicate) {
				continue
			}
			return fmt.Errorf("create %s: %w", sample.title, err)
		}
	}

	return nil
}

// placeholderImage renders a small solid-color JPEG.
func placeholderImage(tint color.RGBA) ([]byte, error) {
	const size = 64

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, tint)
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
