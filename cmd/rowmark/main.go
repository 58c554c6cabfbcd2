package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/rowmark/internal/config"
	"github.com/jask/rowmark/internal/document"
	"github.com/jask/rowmark/internal/keys"
	"github.com/jask/rowmark/internal/source"
	"github.com/jask/rowmark/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logFile, err := tea.LogToFile(cfg.Log.Path, "rowmark")
	if err != nil {
		log.Fatalf("log: %v", err)
	}
	defer logFile.Close()

	container, err := loadContainer(ctx, cfg.Source)
	if err != nil {
		log.Fatalf("load rows: %v", err)
	}
	doc := document.New()
	doc.Add(cfg.Table.ID, container)

	registry := keys.NewRegistry()
	if err := registry.ApplyFile(cfg.Keymap.Path); err != nil {
		log.Fatalf("keymap: %v", err)
	}

	app := tui.NewApp(doc, tui.AppOptions{
		Title:          "rowmark",
		ContainerID:    cfg.Table.ID,
		SelectedLabels: cfg.Table.SelectedLabels,
		MarkedLabels:   cfg.Table.MarkedLabels,
		Height:         cfg.Table.Height,
		Keys:           registry,
		Theme:          cfg.Theme(),
	})
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	for _, r := range app.Table().MarkedRows() {
		fmt.Println(r.ID)
	}
}

func loadContainer(ctx context.Context, src config.SourceConfig) (*document.Container, error) {
	switch {
	case src.CSV != "":
		return source.LoadCSVFile(src.CSV, src.CSVHeader)
	case src.DB != "":
		db, err := source.OpenSQLite(src.DB)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		defer db.Close()
		qctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return source.LoadQuery(qctx, db, src.Query)
	default:
		return sampleContainer(), nil
	}
}

func sampleContainer() *document.Container {
	c := document.NewContainer([]string{"name", "kind", "size"})
	for _, cells := range [][]string{
		{"README.md", "file", "2.1K"},
		{"cmd", "dir", "-"},
		{"internal", "dir", "-"},
		{"go.mod", "file", "1.4K"},
		{"go.sum", "file", "9.8K"},
		{"DESIGN.md", "file", "6.0K"},
	} {
		c.Append(document.NewRow(cells...))
	}
	return c
}
