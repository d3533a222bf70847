// Package main is the production entry point for WaveScope.
//
// WaveScope plays one local audio file and draws a live view of its
// frequency spectrum in one of four visualizations.
//
// Build:
//
//	go build -o build/wavescope ./cmd
//
// Run:
//
//	./build/wavescope [--mode wave] [file]
package main

import (
	"fmt"
	"os"

	"github.com/tejashwikalptaru/wavescope/internal/app"
)

func run(cfg app.Config) error {
	// Create the application with dependency injection
	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	// Ensure a graceful shutdown
	defer func() {
		if err := application.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		}
	}()

	// Run application (blocks until the window closed)
	return application.Run()
}

func main() {
	if err := newRootCmd(run).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "wavescope: %v\n", err)
		os.Exit(1)
	}
}
