package cli

import (
	"flag"
	"fmt"
	"os"

	"librismundis/internal/config"
	"librismundis/internal/gamification"
	"librismundis/internal/library"
	"librismundis/internal/session"
	"librismundis/internal/snapshot"
	"librismundis/internal/storage"
)

// ExportSnapshotCommand writes the active library to a JSON snapshot file.
type ExportSnapshotCommand struct {
	OutputPath   string
	DatabasePath string
}

func NewExportSnapshotCommand() *ExportSnapshotCommand {
	return &ExportSnapshotCommand{}
}

func (cmd *ExportSnapshotCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export-snapshot", flag.ExitOnError)

	fs.StringVar(&cmd.OutputPath, "out", "", "Output file path (defaults to stdout)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export-snapshot [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export the active library (books and vocabulary) as JSON.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *ExportSnapshotCommand) Run() error {
	db, err := storage.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	lib := library.New(db, gamification.NewEngine(gamification.NopNotifier{}))
	accounts := session.NewManager(db, lib)
	accounts.Activate()

	data, err := snapshot.Export(lib).Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if cmd.OutputPath == "" {
		fmt.Println(string(data))
		return nil
	}

	if err := os.WriteFile(cmd.OutputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Snapshot written to %s\n", cmd.OutputPath)
	return nil
}
