// ABOUTME: Web server subcommand
// ABOUTME: Starts the registration form, JSON API, and admin dashboard
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/harperreed/dealreg/sheets"
	"github.com/harperreed/dealreg/web"
)

// ServeCommand starts the web server. The spreadsheet gateway is wired when
// credentials are configured; otherwise submissions queue for a later sync.
func ServeCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.Int("port", 8080, "Listen port")
	noSync := fs.Bool("no-sync", false, "Disable the spreadsheet push")
	_ = fs.Parse(args)

	promptAdminSecret()

	var gateway sheets.Gateway
	if !*noSync {
		client, err := sheets.NewClientFromEnv()
		if err != nil {
			log.Printf("Spreadsheet sync disabled: %v", err)
		} else {
			gateway = client
		}
	}

	server, err := web.NewServer(database, gateway)
	if err != nil {
		return fmt.Errorf("failed to create web server: %w", err)
	}

	return server.Start(*port)
}

// promptAdminSecret asks for an admin secret when none is configured and
// stdin is a terminal. Leaving it blank keeps the admin surface disabled.
func promptAdminSecret() {
	if os.Getenv("ADMIN_SECRET") != "" {
		return
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return
	}

	fmt.Print("Admin secret (leave blank to disable the admin page): ")
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil || len(secret) == 0 {
		return
	}
	_ = os.Setenv("ADMIN_SECRET", string(secret))
}
