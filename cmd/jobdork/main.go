package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/hpungsan/jobdork/internal/app"
	"github.com/hpungsan/jobdork/internal/config"
	"github.com/hpungsan/jobdork/internal/logging"
	"github.com/hpungsan/jobdork/internal/mcp"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"dork": true, "search": true, "history": true, "preset": true,
	"job": true, "board": true, "blocklist": true, "theme": true,
	"stats": true, "ui": true, "mcp": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	// Global flags precede the subcommand.
	if arg == "--format" || arg == "-f" || strings.HasPrefix(arg, "--format=") {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
       _       _         _            _
      (_) ___ | |__   __| | ___  _ __| | __
      | |/ _ \| '_ \ / _' |/ _ \| '__| |/ /
      | | (_) | |_) | (_| | (_) | |  |   <
     _/ |\___/|_.__/ \__,_|\___/|_|  |_|\_\
    |__/

  Job search dorks and an application board

  Usage: jobdork <command> [options]
         jobdork ui           open the web UI on http://127.0.0.1:7878
         jobdork --help

  MCP server mode requires piped input.`)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before the store is opened
	if isHelpOrVersion() {
		cliApp := newCLIApp(nil, logging.NewNop())
		if err := cliApp.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}
	baseDir := filepath.Join(homeDir, ".jobdork")

	cwd, err := os.Getwd()
	if err != nil {
		cwd = baseDir
	}
	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(logging.Config{Level: cfg.LogLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	sess, err := app.Open(context.Background(), baseDir, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer sess.Close()

	// CLI mode: known subcommand
	if isCLIMode() {
		cliApp := newCLIApp(sess, log)
		if err := cliApp.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			sess.Close()
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'jobdork --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(sess, Version, log); err != nil {
		log.Error("mcp server stopped", logging.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		sess.Close()
		os.Exit(1)
	}
}
