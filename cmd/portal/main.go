package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/staffvault/pdfportal/internal/client/app"
	"github.com/staffvault/pdfportal/internal/client/config"
	"github.com/staffvault/pdfportal/internal/filex"
	"github.com/staffvault/pdfportal/internal/logging"
)

func main() {

	cfg := config.LoadConfig()

	// Logs go to a file: the UI owns the terminal.
	stateDir, err := filex.StateDir()
	if err != nil {
		log.Fatalf("%v", err)
	}
	logFile, err := os.OpenFile(filepath.Join(stateDir, "portal.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer logFile.Close()

	logger := logging.NewTextLogger(logFile, slog.LevelInfo)

	a, err := app.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := a.Run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}

}
