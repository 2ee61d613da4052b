// Copyright 2025 The catalogserve Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the catalog search server and CLI [DBG] application.

catserve loads a product catalog snapshot, indexes it once for fuzzy search and
Markov-chain autocomplete, and then either serves MessagePack IPC requests over
stdin/stdout or runs an interactive CLI for testing queries.

# Usage

Start the server with the catalog from config:

	catserve

Use a specific catalog and enable debug logs:

	catserve -catalog data/catalog.json -d

Run in CLI mode, searching names and descriptions only:

	catserve -c -fields name,description -limit 5

# Configuration

Runtime configuration lives in a TOML file that is created with defaults if missing:

	[search]
	threshold = 0.3
	limit = 50
	autocomplete_limit = 10
	fields = ["name", "description", "category"]

	[server]
	max_limit = 64
	max_query = 120
	enable_filter = true

	[catalog]
	path = "data/catalog.json"

# Catalog

The catalog is a JSON, TOML or MessagePack file holding a "products" list. Each product
has an id, name and optional sku, description, category and free-form attributes. Any of
those can be listed as a search field.

# Command Line Flags

	-catalog string
	    Catalog snapshot (.json, .toml, .msgpack); overrides [catalog].path
	-config string
	    Config file path (default: user config dir)
	-fields string
	    Comma separated search fields; overrides [search].fields
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Results per query in CLI mode
	-qmin / -qmax int
	    Query length bounds in CLI mode
	-no-filter
	    Disable input filtering in CLI mode
	-rebuild-config
	    Write a fresh default config.toml and exit
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bastiangx/catalogserve/internal/cli"
	"github.com/bastiangx/catalogserve/internal/logger"
	"github.com/bastiangx/catalogserve/internal/utils"
	"github.com/bastiangx/catalogserve/pkg/catalog"
	"github.com/bastiangx/catalogserve/pkg/config"
	"github.com/bastiangx/catalogserve/pkg/search"
	"github.com/bastiangx/catalogserve/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0-beta"
	AppName = "catserve"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main only manages the flow: config, catalog, index, then CLI or server.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	catalogPath := flag.String("catalog", "", "Catalog snapshot file (.json, .toml, .msgpack)")
	configPath := flag.String("config", "", "Path to config.toml")
	fields := flag.String("fields", "", "Comma separated search fields (default from config)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of results to show per query")
	minQuery := flag.Int("qmin", defaultConfig.CLI.DefaultMinLen, "Minimum query length")
	maxQuery := flag.Int("qmax", defaultConfig.CLI.DefaultMaxLen, "Maximum query length")
	noFilter := flag.Bool("no-filter", defaultConfig.CLI.DefaultNoFilter, "Disable input filtering (DBG only)")
	rebuildConfig := flag.Bool("rebuild-config", false, "Overwrite the default config.toml with defaults and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup(*debugMode)

	if *rebuildConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		log.Print("Default config written", "path", config.GetActiveConfigPath(""))
		return
	}

	appConfig, activeConfigPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activeConfigPath))

	requested := appConfig.Catalog.Path
	if *catalogPath != "" {
		requested = *catalogPath
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}
	log.Debug("Runtime", "info", pathResolver.GetRuntimeInfo())
	resolvedCatalog, err := pathResolver.GetCatalogPath(requested)
	if err != nil {
		log.Fatalf("No catalog found for %q: %v", requested, err)
	}

	products, err := catalog.Load(resolvedCatalog)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	searchFields := appConfig.Search.Fields
	if *fields != "" {
		searchFields = splitFields(*fields)
		appConfig.Search.Fields = searchFields
	}
	log.Debug("Indexing catalog", "products", products.Len(), "fields", searchFields)
	engine := search.New(products.Products, searchFields)

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		log.Debug("Input info:",
			"minQuery", *minQuery,
			"maxQuery", *maxQuery,
			"limit", *limit,
			"noFilter", *noFilter)

		inputHandler := cli.NewInputHandler(engine, *minQuery, *maxQuery, *limit, *noFilter)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(engine, appConfig, activeConfigPath)

	showStartupInfo(products)

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func splitFields(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func printVersion() {
	banner := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ catserve ] fuzzy catalog search and autocomplete")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(c *catalog.Catalog) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	format := "unknown format"
	if info, ok := catalog.GetFormatInfo(c.Format); ok {
		format = info.Description
	}

	log.Infof("%s %s", AppName, Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("catalog: ( %s, %s ), %d products", c.Path, format, c.Len())
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}
