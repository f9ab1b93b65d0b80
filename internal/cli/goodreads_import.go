package cli

import (
	"flag"
	"fmt"
	"os"

	"librismundis/internal/config"
	"librismundis/internal/gamification"
	"librismundis/internal/goodreads"
	"librismundis/internal/library"
	"librismundis/internal/session"
	"librismundis/internal/storage"
)

// GoodreadsImportCommand imports a Goodreads CSV export into the library.
type GoodreadsImportCommand struct {
	CSVPath      string
	DatabasePath string
	DryRun       bool
}

func NewGoodreadsImportCommand() *GoodreadsImportCommand {
	return &GoodreadsImportCommand{}
}

func (cmd *GoodreadsImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("goodreads-import", flag.ExitOnError)

	fs.StringVar(&cmd.CSVPath, "file", "", "Path to the Goodreads CSV export (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Show what would be imported without making changes")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s goodreads-import -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import a Goodreads library export into the local database.\n\n")
		fmt.Fprintf(os.Stderr, "Export your library from Goodreads via:\n")
		fmt.Fprintf(os.Stderr, "  My Books -> Import and export -> Export Library\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s goodreads-import -file goodreads_library_export.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s goodreads-import -file export.csv -dry-run\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.CSVPath == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	return nil
}

func (cmd *GoodreadsImportCommand) Run() error {
	fmt.Println("Goodreads Import")
	fmt.Println("================")

	file, err := os.Open(cmd.CSVPath)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	if cmd.DryRun {
		rows, err := goodreads.Parse(file)
		if err != nil {
			return err
		}
		fmt.Printf("\nDRY RUN - %d books would be imported:\n", len(rows))
		for _, row := range rows {
			fmt.Printf("  %s by %s [%s]\n", row.Title, row.Author, row.Category)
		}
		return nil
	}

	db, err := storage.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	// Import into whichever namespace was last active.
	lib := library.New(db, gamification.NewEngine(gamification.NopNotifier{}))
	accounts := session.NewManager(db, lib)
	accounts.Activate()

	count, err := goodreads.Import(lib, file)
	if err != nil {
		return err
	}

	fmt.Printf("\nImported %d books into %s\n", count, lib.Namespace())
	return nil
}
