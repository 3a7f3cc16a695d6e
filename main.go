package main

import (
	"flag"
	"fmt"
	"os"

	"e84consent/internal/di"
	"e84consent/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "path to the YAML config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "also log to stdout")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "consent banner: %s\n", err)
		os.Exit(1)
	}
}
