package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/plantops/eventlens/internal/server"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	if err := server.Run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "eventlens: %v\n", err)
		os.Exit(1)
	}
}
