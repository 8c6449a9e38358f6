package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"samplewms/adapters/excel"
	"samplewms/adapters/images"
	"samplewms/internal/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	var verbose bool
	rootCmd := &cobra.Command{
		Use:          "samplewms-cli",
		Short:        "Spreadsheet export, import and template generation for sample inventories",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log progress to stdout")

	newLogger := func() *zap.Logger {
		if !verbose {
			return zap.NewNop()
		}
		logger, err := logging.New(logging.Config{
			Mode:     os.Getenv("LOG_MODE"),
			Level:    os.Getenv("LOG_LEVEL"),
			Filename: os.Getenv("LOG_FILE"),
		})
		if err != nil {
			return zap.NewNop()
		}
		return logger
	}

	rootCmd.AddCommand(
		newExportCmd(newLogger),
		newImportCmd(newLogger),
		newTemplateCmd(newLogger),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newExportCmd(newLogger func() *zap.Logger) *cobra.Command {
	var (
		in       string
		path     string
		name     string
		outDir   string
		noImages bool
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render samples from a JSON file into an xlsx workbook",
		Long: `Render samples from a JSON file into an xlsx workbook with embedded images.

The input is an array of samples, or any JSON document holding one at --path
(gjson syntax).

Example: samplewms-cli export --in backup.json --path data.items --name 样品清单 --out ./exports`,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := os.ReadFile(in)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", in, err)
			}
			samples, err := loadSamples(body, path)
			if err != nil {
				return err
			}

			logger := newLogger()
			defer logger.Sync()

			var source excel.ImageSource
			if !noImages {
				fetchConfig := images.DefaultFetchConfig()
				if timeout > 0 {
					fetchConfig.Timeout = timeout
				}
				source = images.NewFetcher(fetchConfig, logger)
			}
			writer := excel.NewWorkbookWriter(excel.DefaultExportConfig(), source, logger)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			data, err := writer.Export(ctx, samples)
			if err != nil {
				return err
			}

			target := filepath.Join(outDir, excel.ExportFileName(name, time.Now()))
			if err := os.WriteFile(target, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", target, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d samples to %s\n", len(samples), target)
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "JSON file holding the samples")
	cmd.Flags().StringVar(&path, "path", "", "gjson path of the sample array inside the document")
	cmd.Flags().StringVar(&name, "name", "", "Export file base name (default LiveWMS_Export)")
	cmd.Flags().StringVar(&outDir, "out", ".", "Output directory")
	cmd.Flags().BoolVar(&noImages, "no-images", false, "Write image links without embedding pictures")
	cmd.Flags().DurationVar(&timeout, "image-timeout", 0, "Per-image fetch timeout")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func newImportCmd(newLogger func() *zap.Logger) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "import [file.xlsx|file.csv]",
		Short: "Parse a spreadsheet into sample JSON",
		Long: `Parse an edited export or filled template into sample JSON, reporting
rejected rows and coercion problems.

Example: samplewms-cli import 样品导入模板.xlsx --out samples.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			logger := newLogger()
			defer logger.Sync()

			reader := excel.NewDataReader(excel.DefaultImportConfig(), logger)
			report, err := reader.ReadSamples(cmd.Context(), file, filepath.Base(args[0]))
			if report != nil {
				printReport(cmd, report)
			}
			if err != nil {
				return err
			}

			encoded, err := json.MarshalIndent(report.Samples, "", "  ")
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(append(encoded, '\n'))
				return err
			}
			return os.WriteFile(out, encoded, 0o644)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Write samples JSON here instead of stdout")
	return cmd
}

func newTemplateCmd(newLogger func() *zap.Logger) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the blank import template",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			defer logger.Sync()

			generator := excel.NewTemplateGenerator(excel.DefaultTemplateConfig(), logger)
			data, err := generator.Generate()
			if err != nil {
				return err
			}
			target := filepath.Join(outDir, generator.FileName())
			if err := os.WriteFile(target, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", target, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "template written to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", ".", "Output directory")
	return cmd
}

func printReport(cmd *cobra.Command, report *excel.ImportReport) {
	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "%s: %d data rows, %d accepted, %d rejected\n",
		report.FileName, report.DataRows, report.Accepted(), len(report.Rejected))
	for _, r := range report.Rejected {
		fmt.Fprintf(w, "  row %d rejected: %s\n", r.Row, r.Reason)
	}
	for _, d := range report.Diagnostics {
		fmt.Fprintf(w, "  %s (%s): %s\n", d.Cell, d.Field, d.Diagnostic.String())
	}
}
