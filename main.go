package main

import (
	"flag"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"runsight/internal/calendar"
	"runsight/internal/clock"
	"runsight/internal/config"
	"runsight/internal/export"
	"runsight/internal/importer"
	"runsight/internal/service"
	"runsight/internal/store"
	"runsight/internal/tui"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	importPath := flag.String("import", "", "import a JSON activity file and exit")
	exportID := flag.Int64("export", 0, "export one activity as web JSON and exit")
	reset := flag.Bool("reset", false, "delete all stored data and exit")
	flag.Parse()

	cfg, err := config.LoadOrDefault()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		configDir, _ := config.GetConfigDir()
		return fmt.Errorf("invalid config (%s/config.json): %w", configDir, err)
	}

	st, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer st.Close()

	clk := clock.System{}
	svc := service.NewIntelligenceService(st, clk, calendar.Madrid())

	switch {
	case *reset:
		if err := st.DeleteAllData(); err != nil {
			return fmt.Errorf("resetting data: %w", err)
		}
		fmt.Println("All data deleted.")
		return nil

	case *importPath != "":
		n, err := importer.New(st, clk).ImportFile(*importPath)
		if err != nil {
			return fmt.Errorf("importing %s: %w", *importPath, err)
		}
		fmt.Printf("Imported %d activities.\n", n)
		return nil

	case *exportID != 0:
		eval, err := svc.EvaluateActivity(*exportID)
		if err != nil {
			return fmt.Errorf("loading activity %d: %w", *exportID, err)
		}
		dir, err := cfg.ExportPath()
		if err != nil {
			return err
		}
		path, err := export.WriteFile(dir, &eval.Activity, eval.Laps, eval.Splits)
		if err != nil {
			return fmt.Errorf("exporting activity %d: %w", *exportID, err)
		}
		fmt.Printf("Exported to %s\n", path)
		return nil
	}

	exportDir, err := cfg.ExportPath()
	if err != nil {
		return err
	}

	app := tui.NewApp(svc, exportDir)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
