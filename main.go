// ABOUTME: Entry point for the deal registration server and CLI
// ABOUTME: Routes to web server, MCP server, TUI, or CLI commands based on arguments
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"github.com/harperreed/dealreg/cli"
	"github.com/harperreed/dealreg/db"
)

const version = "0.1.0"

func main() {
	// Optional .env for local development; missing file is fine
	_ = godotenv.Load()

	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/dealreg/dealreg.db)")
	initOnly := flag.Bool("init", false, "Initialize database and exit")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	// Handle version flag
	if *showVersion {
		fmt.Printf("dealreg version %s\n", version)
		os.Exit(0)
	}

	// Get remaining args after flags
	args := flag.Args()

	// If no command specified, show usage
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	finalDBPath := getDatabasePath(*dbPath)
	database, err := db.OpenDatabase(finalDBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	if *initOnly {
		log.Printf("Database initialized: %s", finalDBPath)
		os.Exit(0)
	}

	// Route to top-level command
	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "serve":
		if err := cli.ServeCommand(database, commandArgs); err != nil {
			log.Fatalf("Server failed: %v", err)
		}

	case "mcp":
		if err := cli.MCPCommand(database); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "tui":
		if err := cli.TUICommand(database); err != nil {
			log.Fatalf("TUI failed: %v", err)
		}

	case "deals":
		if len(commandArgs) == 0 {
			fmt.Println("Error: deals requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		dealsCommand := commandArgs[0]
		dealsArgs := commandArgs[1:]

		switch dealsCommand {
		case "list":
			if err := cli.ListDealsCommand(database, dealsArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "show":
			if err := cli.ShowDealCommand(database, dealsArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "add-update":
			if err := cli.AddDealUpdateCommand(database, dealsArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "reminders":
			if err := cli.RemindersCommand(database, dealsArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "export":
			if err := cli.ExportCommand(database, dealsArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		default:
			fmt.Printf("Unknown deals command: %s\n\n", dealsCommand)
			printUsage()
			os.Exit(1)
		}

	case "sync":
		if len(commandArgs) == 0 {
			fmt.Println("Error: sync requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		syncCommand := commandArgs[0]
		syncArgs := commandArgs[1:]

		switch syncCommand {
		case "init":
			if err := cli.SyncInitCommand(database, syncArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "run":
			if err := cli.SyncRunCommand(database, syncArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "status":
			if err := cli.SyncStatusCommand(database, syncArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		default:
			fmt.Printf("Unknown sync command: %s\n\n", syncCommand)
			printUsage()
			os.Exit(1)
		}

	case "viz":
		if len(commandArgs) == 0 {
			fmt.Println("Error: viz requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		vizCommand := commandArgs[0]
		vizArgs := commandArgs[1:]

		switch vizCommand {
		case "dashboard":
			if err := cli.VizDashboardCommand(database, vizArgs); err != nil {
				log.Fatalf("Error: %v", err)
			}
		case "graph":
			if len(vizArgs) == 0 || vizArgs[0] != "pipeline" {
				fmt.Println("Error: viz graph requires a type (pipeline)")
				printUsage()
				os.Exit(1)
			}
			if err := cli.VizGraphPipelineCommand(database, vizArgs[1:]); err != nil {
				log.Fatalf("Error: %v", err)
			}
		default:
			fmt.Printf("Unknown viz command: %s\n\n", vizCommand)
			printUsage()
			os.Exit(1)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func getDatabasePath(dbPath string) string {
	if dbPath != "" {
		return dbPath
	}
	return filepath.Join(xdg.DataHome, "dealreg", "dealreg.db")
}

func printUsage() {
	fmt.Printf(`dealreg v%s - Reseller deal registration

USAGE:
  dealreg [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --db-path <path>       Database path (default: ~/.local/share/dealreg/dealreg.db)
  --init                 Initialize database and exit

COMMANDS:
  serve                  Start the registration web server
  mcp                    Start MCP server for agent integration
  tui                    Interactive terminal UI for deal review
  deals                  Deal management commands
  sync                   Spreadsheet sync commands
  viz                    Visualization commands

SERVER:
  dealreg serve          Start the web server
    --port <n>             Listen port (default: 8080)
    --no-sync              Disable spreadsheet sync

DEAL COMMANDS:
  dealreg deals list     List registered deals
    --status <status>      Filter by status (pending, approved, rejected, expired)
    --limit <n>            Max results (default: 50)

  dealreg deals show <id>        Show full detail for one deal

  dealreg deals add-update <id>  Append a progress update
    --content <text>             Update content (required)

  dealreg deals reminders <id>   Opt a deal into close-date reminders
    --off                        Opt out instead

  dealreg deals export           Export all deals as CSV
    --output <file>              Output file (default: stdout)

SYNC COMMANDS:
  dealreg sync init      Authorize Google access (one-time OAuth flow)
  dealreg sync run       Push unsynced deals to the spreadsheet
    --deal <id>            Push a single deal regardless of sync state
  dealreg sync status    Show sync state and backlog

VIZ COMMANDS:
  dealreg viz dashboard          Render pipeline dashboard to the terminal
  dealreg viz graph pipeline     Generate deal pipeline graph
    --output <file>              Output file (default: stdout)

EXAMPLES:
  # Start the registration web server
  dealreg serve --port 8080

  # List pending deals
  dealreg deals list --status pending

  # Append a progress note
  dealreg deals add-update 01J8 --content "Customer approved budget"

  # Push the backlog to the spreadsheet
  dealreg sync run

`, version)
}
