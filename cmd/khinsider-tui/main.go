package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/handiism/khinsider-downloader/internal/config"
	"github.com/handiism/khinsider-downloader/internal/tui"
)

func main() {
	configFlag := flag.String("config", "", "Path to config file")
	envFlag := flag.String("env", ".env", "Path to an optional .env file")
	flag.Parse()

	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if err := settings.ApplyEnv(*envFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading environment: %v\n", err)
		os.Exit(1)
	}

	if err := tui.Run(settings); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
