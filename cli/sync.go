// ABOUTME: Spreadsheet sync CLI commands
// ABOUTME: Handles OAuth setup, sync runs, and sync status reporting
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os/exec"
	"runtime"

	"golang.org/x/oauth2"

	"github.com/harperreed/dealreg/db"
	"github.com/harperreed/dealreg/sheets"
)

// SyncInitCommand handles OAuth setup
func SyncInitCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	_ = fs.Parse(args)

	ctx := context.Background()

	config, err := sheets.GetClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to get OAuth config: %w", err)
	}

	// Start local server for OAuth callback
	callbackChan := make(chan *oauth2.Token)
	errChan := make(chan error)

	http.HandleFunc("/oauth/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			errChan <- fmt.Errorf("no authorization code received")
			return
		}

		token, err := config.Exchange(ctx, code)
		if err != nil {
			errChan <- fmt.Errorf("failed to exchange code: %w", err)
			return
		}

		callbackChan <- token
		_, _ = fmt.Fprintf(w, "Authorization successful! You can close this window.")
	})

	server := &http.Server{Addr: ":8080"}
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Generate auth URL
	authURL := config.AuthCodeURL("state", oauth2.AccessTypeOffline)

	fmt.Println("Opening browser for Google OAuth...")
	fmt.Printf("\nIf browser doesn't open, visit this URL:\n%s\n\n", authURL)

	// Try to open browser
	_ = openBrowser(authURL)

	// Wait for callback or error
	select {
	case token := <-callbackChan:
		_ = server.Shutdown(ctx)

		if err := sheets.SaveToken(token); err != nil {
			return fmt.Errorf("failed to save token: %w", err)
		}

		fmt.Printf("\n✓ Authenticated successfully\n")
		fmt.Printf("✓ Tokens saved to %s\n\n", sheets.TokenPath())
		fmt.Println("Ready to sync! Set DEALREG_SPREADSHEET_ID and run 'dealreg sync run'.")

		return nil

	case err := <-errChan:
		_ = server.Shutdown(ctx)
		return fmt.Errorf("OAuth flow failed: %w", err)
	}
}

// SyncRunCommand pushes unsynced deals to the spreadsheet
func SyncRunCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	dealID := fs.String("deal", "", "Push a single deal by ID")
	_ = fs.Parse(args)

	gateway, err := sheets.NewClientFromEnv()
	if err != nil {
		return err
	}

	syncer := &sheets.Syncer{DB: database, Gateway: gateway}
	ctx := context.Background()

	if *dealID != "" {
		if err := syncer.PushDeal(ctx, *dealID); err != nil {
			return fmt.Errorf("push failed: %w", err)
		}
		fmt.Printf("✓ Deal %s pushed\n", *dealID)
		return nil
	}

	res, err := syncer.Run(ctx)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	fmt.Printf("✓ Sync complete: %d pushed, %d failed\n", res.Pushed, res.Failed)
	if res.Failed > 0 {
		fmt.Println("  Failed deals stay queued; run 'dealreg sync status' for details.")
	}
	return nil
}

// SyncStatusCommand reports sync state and the unsynced backlog
func SyncStatusCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	_ = fs.Parse(args)

	states, err := db.GetAllSyncStates(database)
	if err != nil {
		return fmt.Errorf("failed to get sync states: %w", err)
	}

	if len(states) == 0 {
		fmt.Println("No sync runs recorded yet")
	}
	for _, state := range states {
		fmt.Printf("%s: %s", state.Service, state.Status)
		if state.LastSyncTime != nil {
			fmt.Printf(" (last push %s)", state.LastSyncTime.Format("2006-01-02 15:04"))
		}
		fmt.Println()
		if state.ErrorMessage != nil {
			fmt.Printf("  error: %s\n", *state.ErrorMessage)
		}
	}

	unsynced, err := db.UnsyncedDeals(database)
	if err != nil {
		return fmt.Errorf("failed to list unsynced deals: %w", err)
	}
	fmt.Printf("\n%d deal(s) awaiting sync\n", len(unsynced))
	for _, deal := range unsynced {
		fmt.Printf("  %s  %s / %s\n", shortID(deal.ID), deal.ResellerName, deal.Solution)
	}

	return nil
}

// openBrowser attempts to open URL in default browser
func openBrowser(url string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		cmd = "xdg-open"
		args = []string{url}
	}

	command := exec.Command(cmd, args...)
	return command.Start()
}
