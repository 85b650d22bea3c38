package main

import (
	"flag"
	"fmt"
	"os"

	"mtd/internal/di"
	"mtd/internal/structures"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	debug := flag.Bool("debug", false, "duplicate logs to stderr")
	flag.Parse()

	flags := &structures.CliFlags{
		ConfigPath: *configPath,
		DebugMode:  *debug,
	}

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "mtd: %s\n", err)
		os.Exit(1)
	}
}
