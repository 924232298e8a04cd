package cmd

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mlongerich/DonationTracker-sub005/app/importer"
)

var (
	importFilePath string
	importProfile  string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a gateway transaction export file",
	Long:  "Read a CSV export from a payment gateway and reconcile its rows into the donation ledger.",
	Run: func(_ *cobra.Command, _ []string) {
		runImportFile()
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importFilePath, "file", "", "Path to the CSV export file")
	importCmd.Flags().StringVar(&importProfile, "profile", "", "Export format profile (defaults to IMPORT_DEFAULT_PROFILE)")
	_ = importCmd.MarkFlagRequired("file")
}

func runImportFile() {
	cfg, services, cleanup := mustCreateServices()
	defer cleanup()

	profileName := importProfile
	if profileName == "" {
		profileName = cfg.Import.DefaultProfile
	}

	rows, err := readCSVRows(importFilePath)
	if err != nil {
		logrus.WithError(err).WithField("file", importFilePath).Fatal("Failed to read export file")
	}

	start := time.Now()
	run, err := services.importService.RunImport(context.Background(), profileName, rows)
	latency := time.Since(start)
	if err != nil {
		logrus.WithError(err).WithField("job", "import").WithField("latency", latency.String()).Error("job_failed")
		os.Exit(1)
	}

	logrus.WithFields(logrus.Fields{
		"job":             "import",
		"run_id":          run.PublicID,
		"rows":            run.RowsTotal,
		"succeeded":       run.SucceededCount,
		"failed":          run.FailedCount,
		"needs_attention": run.NeedsAttentionCount,
		"skipped":         run.SkippedCount,
		"latency":         latency.String(),
	}).Info("job_completed")
}

func readCSVRows(path string) ([]importer.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("export file is empty")
		}
		return nil, err
	}

	var rows []importer.RawRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make(importer.RawRow, len(header))
		for i, column := range header {
			if i < len(record) {
				row[column] = record[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}
