// Package main provides the seed command for populating the service with
// sample data. Seeders run through the category system rather than raw SQL so
// every seeded record has a matching asset in blob storage.
package main

import (
	"context"
	"fmt"

	"github.com/nhp-platform/catalog/internal/categories"
)

// Environment carries the wired subsystems seeders operate against.
type Environment struct {
	Categories categories.System
}

// Seeder defines the interface for data seeders.
type Seeder interface {
	// Name returns the unique identifier for this seeder.
	Name() string

	// Description returns a human-readable description of what this seeder does.
	Description() string

	// Seed executes the seeding logic against the environment.
	Seed(ctx context.Context, env *Environment) error
}

var seeders = map[string]Seeder{}

// registerSeeder adds a seeder to the global registry.
// Seeders self-register via init() functions.
func registerSeeder(s Seeder) {
	seeders[s.Name()] = s
}

// getSeeder retrieves a seeder by name from the registry.
func getSeeder(name string) (Seeder, bool) {
	s, ok := seeders[name]
	return s, ok
}

// listSeeders returns all registered seeders.
func listSeeders() []Seeder {
	result := make([]Seeder, 0, len(seeders))
	for _, s := range seeders {
		result = append(result, s)
	}
	return result
}

// runSeeder executes a single seeder by name.
func runSeeder(ctx context.Context, env *Environment, name string) error {
	seeder, ok := getSeeder(name)
	if !ok {
		return fmt.Errorf("seeder not found: %s", name)
	}

	if err := seeder.Seed(ctx, env); err != nil {
		return fmt.Errorf("seed %s: %w", name, err)
	}

	return nil
}

// runAllSeeders executes all registered seeders.
func runAllSeeders(ctx context.Context, env *Environment) error {
	for _, s := range listSeeders() {
		if err := s.Seed(ctx, env); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
	}
	return nil
}
