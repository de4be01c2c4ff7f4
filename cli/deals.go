// ABOUTME: Deal CLI commands
// ABOUTME: Human-friendly commands for listing, inspecting, and annotating deals
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/dealreg/db"
	"github.com/harperreed/dealreg/export"
	"github.com/harperreed/dealreg/models"
)

// ListDealsCommand lists registered deals.
func ListDealsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("list-deals", flag.ExitOnError)
	status := fs.String("status", "", "Filter by status (pending, approved, rejected, expired)")
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	deals, err := db.ListDeals(database, *status, *limit)
	if err != nil {
		return fmt.Errorf("failed to list deals: %w", err)
	}

	if len(deals) == 0 {
		fmt.Println("No deals found")
		return nil
	}

	// Pretty print results
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SUBMITTED\tRESELLER\tCUSTOMER\tSOLUTION\tVALUE\tSTAGE\tCLOSE\tSYNCED\tID")
	_, _ = fmt.Fprintln(w, "---------\t--------\t--------\t--------\t-----\t-----\t-----\t------\t--")

	for _, deal := range deals {
		customer := deal.CustomerName
		if deal.Confidential {
			customer = "(confidential)"
		}

		synced := "no"
		if deal.SyncedAt != "" {
			synced = deal.SyncedAt
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s %.0f\t%s (%d%%)\t%s\t%s\t%s\n",
			deal.SubmittedAt, deal.ResellerName, customer, deal.Solution,
			deal.Currency, deal.Value, deal.Stage, deal.Probability,
			deal.ExpectedCloseDate, synced, shortID(deal.ID))
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d deal(s)\n", len(deals))
	return nil
}

// ShowDealCommand prints the full local view of one deal.
func ShowDealCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("show-deal", flag.ExitOnError)
	_ = fs.Parse(args)

	if len(fs.Args()) != 1 {
		return fmt.Errorf("usage: show-deal <id>")
	}

	deal, err := db.GetDeal(database, fs.Arg(0))
	if err != nil {
		return err
	}
	if deal == nil {
		return fmt.Errorf("deal not found: %s", fs.Arg(0))
	}

	fmt.Printf("Deal %s (%s)\n", deal.ID, deal.Status)
	fmt.Printf("  Submitted:  %s\n", deal.SubmittedAt)
	fmt.Printf("  Reseller:   %s — %s <%s>\n", deal.ResellerName, deal.ResellerContact, deal.ResellerEmail)
	fmt.Printf("  Customer:   %s (%s)\n", deal.CustomerName, deal.CustomerLocation)
	fmt.Printf("  Deal:       %s, %s %.2f, %s (%d%%), closes %s\n",
		deal.Solution, deal.Currency, deal.Value, deal.Stage, deal.Probability, deal.ExpectedCloseDate)
	if len(deal.Supports) > 0 {
		fmt.Printf("  Support:    %s\n", strings.Join(deal.Supports, ", "))
	}
	if len(deal.Competitors) > 0 {
		fmt.Printf("  Competing:  %s\n", strings.Join(deal.Competitors, ", "))
	}
	if deal.Notes != "" {
		fmt.Printf("  Notes:      %s\n", deal.Notes)
	}
	for _, link := range deal.EvidenceLinks {
		fmt.Printf("  Evidence:   %s\n", link)
	}
	for _, a := range deal.Attachments {
		fmt.Printf("  Attachment: %s (%s, %d bytes)\n", a.Name, a.MimeType, a.SizeBytes)
	}
	if deal.SyncedAt != "" {
		fmt.Printf("  Synced:     %s\n", deal.SyncedAt)
	}

	if len(deal.Updates) > 0 {
		fmt.Println("\n  Updates:")
		for _, u := range deal.Updates {
			fmt.Printf("    %s  %s\n", u.CreatedAt.Format("2006-01-02"), u.Content)
		}
	}

	return nil
}

// AddDealUpdateCommand appends a progress note to a deal.
func AddDealUpdateCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("add-update", flag.ExitOnError)
	content := fs.String("content", "", "Update text (required)")
	_ = fs.Parse(args)

	if len(fs.Args()) != 1 {
		return fmt.Errorf("usage: add-update --content <text> <deal-id>")
	}
	if *content == "" {
		return fmt.Errorf("--content is required")
	}

	id := fs.Arg(0)
	deal, err := db.GetDeal(database, id)
	if err != nil {
		return err
	}
	if deal == nil {
		return fmt.Errorf("deal not found: %s", id)
	}

	update := &models.DealUpdate{DealID: id, Content: *content}
	if err := db.AddDealUpdate(database, update); err != nil {
		return fmt.Errorf("failed to add update: %w", err)
	}

	fmt.Printf("✓ Update added to deal %s\n", shortID(id))
	return nil
}

// RemindersCommand toggles close-date reminder emails for a deal.
func RemindersCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("reminders", flag.ExitOnError)
	optOut := fs.Bool("off", false, "Opt out instead of in")
	_ = fs.Parse(args)

	if len(fs.Args()) != 1 {
		return fmt.Errorf("usage: reminders [--off] <deal-id>")
	}

	id := fs.Arg(0)
	if err := db.SetRemindersOptIn(database, id, !*optOut); err != nil {
		return fmt.Errorf("failed to update reminders: %w", err)
	}

	if *optOut {
		fmt.Printf("✓ Reminders disabled for deal %s\n", shortID(id))
	} else {
		fmt.Printf("✓ Reminders enabled for deal %s\n", shortID(id))
	}
	return nil
}

// ExportCommand writes the full deal list as CSV.
func ExportCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default: stdout)")
	_ = fs.Parse(args)

	deals, err := db.ListDeals(database, "", 10000)
	if err != nil {
		return fmt.Errorf("failed to list deals: %w", err)
	}
	for i := range deals {
		updates, err := db.GetDealUpdates(database, deals[i].ID)
		if err != nil {
			return fmt.Errorf("failed to load updates: %w", err)
		}
		deals[i].Updates = updates
	}

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	if err := export.WriteCSV(out, deals); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if *output != "" {
		fmt.Printf("✓ Exported %d deal(s) to %s\n", len(deals), *output)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
