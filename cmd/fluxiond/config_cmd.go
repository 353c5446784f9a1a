// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/ManuGH/fluxion/internal/config"
	"github.com/ManuGH/fluxion/internal/version"
)

func runConfigCLI(args []string) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printConfigUsage()
		return 0
	}

	switch args[0] {
	case "init":
		return runConfigInit(args[1:])
	case "validate":
		return runConfigValidate(args[1:])
	case "dump":
		return runConfigDump(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown subcommand: %s\n\n", args[0])
		printConfigUsage()
		return 2
	}
}

func printConfigUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  fluxiond config init [--force] <path>")
	fmt.Fprintln(os.Stderr, "  fluxiond config validate [--file|-f config.yaml]")
	fmt.Fprintln(os.Stderr, "  fluxiond config dump [--file|-f config.yaml]")
}

func runConfigInit(args []string) int {
	fs := flag.NewFlagSet("fluxiond config init", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	force := fs.Bool("force", false, "overwrite an existing file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one path is required")
		return 2
	}

	path := fs.Arg(0)
	if err := config.WriteDefault(path, *force); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Printf("wrote default configuration to %s\n", path)
	return 0
}

func configFileFlag(name string, args []string) (string, bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var file string
	fs.StringVar(&file, "file", "", "path to YAML configuration file")
	fs.StringVar(&file, "f", "", "path to YAML configuration file (shorthand)")
	if err := fs.Parse(args); err != nil {
		return "", false
	}
	file = strings.TrimSpace(file)
	if file == "" {
		file = strings.TrimSpace(os.Getenv(envConfigPath))
	}
	return file, true
}

func runConfigValidate(args []string) int {
	path, ok := configFileFlag("fluxiond config validate", args)
	if !ok {
		return 2
	}
	if path == "" {
		fmt.Fprintf(os.Stderr, "Error: --file is required (or set %s)\n", envConfigPath)
		return 2
	}

	if _, err := config.NewLoader(path, version.Version).Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error in %s:\n  %v\n", path, err)
		return 1
	}
	fmt.Printf("%s is valid\n", path)
	return 0
}

// runConfigDump prints the effective configuration (defaults + file + env).
func runConfigDump(args []string) int {
	path, ok := configFileFlag("fluxiond config dump", args)
	if !ok {
		return 2
	}

	cfg, err := config.NewLoader(path, version.Version).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	_, _ = os.Stdout.Write(data)
	return 0
}
