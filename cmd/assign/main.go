package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ps-assigner/app/config"
	"github.com/ps-assigner/app/models"
	"github.com/ps-assigner/app/services"
	"github.com/ps-assigner/helpers/utils"
	"github.com/ps-assigner/internal/encoder"
	"github.com/ps-assigner/internal/tabular"
)

// runOptions flags của lệnh run
type runOptions struct {
	houses     string
	ranges     string
	out        string
	format     string
	policy     string
	workers    int
	configPath string
	verify     bool
}

func main() {
	var logLevel string

	// Create root command
	rootCmd := &cobra.Command{
		Use:          "assign",
		Short:        "PS/Section assignment",
		Long:         `Assign PS_No and Section_No codes to house numbers using a table of house-number ranges`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	newLogger := func() (*zap.Logger, error) {
		return utils.NewLogger(os.Getenv("APP_ENV"), logLevel)
	}

	// Add subcommands
	rootCmd.AddCommand(createRunCmd(newLogger))
	rootCmd.AddCommand(createSamplesCmd())
	rootCmd.AddCommand(createEncodeCmd())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// createRunCmd creates the batch assignment command
func createRunCmd(newLogger func() (*zap.Logger, error)) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Assign ps/sec to a house table",
		Long: `Read a house table (H_No, S_No, Ref_no) and a range table (from, to, ps, sec),
encode every house number and write s_no, dh_no, ps, sec, odh_no, ref_no.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			summary, err := runAssign(ctx, opts, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assigned %d houses against %d ranges: %d matched, %d unmatched (%dms) -> %s\n",
				summary.Houses, summary.Ranges, summary.Matched, summary.Unmatched, summary.DurationMs, opts.out)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.houses, "houses", "Ref_House.xlsx", "House table (.csv, .xlsx)")
	cmd.Flags().StringVar(&opts.ranges, "ranges", "Main_assign.xlsx", "Range table (.csv, .xlsx)")
	cmd.Flags().StringVar(&opts.out, "out", tabular.DefaultOutputName, "Output file")
	cmd.Flags().StringVar(&opts.format, "format", "", "Output format (xlsx, csv, json, ndjson); default from --out extension")
	cmd.Flags().StringVar(&opts.policy, "policy", "", "Overlap policy (first-match, reject-on-overlap)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Number of parallel workers")
	cmd.Flags().StringVar(&opts.configPath, "config", "config/assign.yaml", "Assignment config file")
	cmd.Flags().BoolVar(&opts.verify, "verify", false, "Cross-check binary search against a sequential scan")

	return cmd
}

// runAssign đọc hai bảng, gán và ghi file kết quả
func runAssign(ctx context.Context, opts runOptions, logger *zap.Logger) (*models.BatchSummary, error) {
	cfg, err := config.Read(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.policy != "" {
		cfg.OverlapPolicy = opts.policy
	}
	if opts.workers > 0 {
		cfg.Workers = opts.workers
	}

	format, err := outputFormat(opts.format, opts.out, cfg.OutputFormat)
	if err != nil {
		return nil, err
	}

	houses, err := readFile(opts.houses, tabular.ReadHouses)
	if err != nil {
		return nil, err
	}
	ranges, err := readFile(opts.ranges, tabular.ReadRanges)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded input",
		zap.String("houses_file", opts.houses),
		zap.Int("houses", len(houses)),
		zap.String("ranges_file", opts.ranges),
		zap.Int("ranges", len(ranges)))

	svc, err := services.NewAssignmentService(cfg, services.NewMemoryJobStore(1, time.Minute), logger)
	if err != nil {
		return nil, err
	}

	if opts.verify {
		mismatches, err := svc.CrossCheck(houses, ranges)
		if err != nil {
			return nil, err
		}
		for _, m := range mismatches {
			logger.Warn("Binary search and scan disagree",
				zap.Int("row", m.Row),
				zap.String("sort_key", m.SortKey),
				zap.Int("binary_range_row", m.Binary),
				zap.Int("scan_range_row", m.Scan))
		}
		if len(mismatches) > 0 {
			return nil, fmt.Errorf("%d houses matched differently; the range table has overlapping ranges", len(mismatches))
		}
		logger.Info("Verification passed", zap.Int("houses", len(houses)))
	}

	batch, err := svc.Assign(ctx, houses, ranges)
	if err != nil {
		return nil, err
	}

	if err := writeFile(opts.out, format, batch.Results); err != nil {
		return nil, err
	}
	return &batch.Summary, nil
}

func outputFormat(flag, out, fallback string) (tabular.Format, error) {
	if flag != "" {
		return tabular.ParseFormat(flag)
	}
	if ext := strings.TrimPrefix(filepath.Ext(out), "."); ext != "" {
		return tabular.ParseFormat(ext)
	}
	return tabular.ParseFormat(fallback)
}

func readFile[T any](path string, read func(r io.Reader, f tabular.Format) ([]T, error)) ([]T, error) {
	format, err := tabular.FormatFromName(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

func writeFile(path string, format tabular.Format, results []models.AssignmentResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := tabular.WriteResults(f, format, results); err != nil {
		f.Close()
		return fmt.Errorf("ghi %s: %w", path, err)
	}
	return f.Close()
}

// createSamplesCmd writes the sample input templates
func createSamplesCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "samples",
		Short: "Write Ref_House.xlsx and Main_assign.xlsx templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := writeSamples(dir)
			for _, path := range written {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&dir, "dir", ".", "Output directory")
	return cmd
}

func writeSamples(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var written []string
	for _, name := range tabular.TemplateNames() {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			return written, err
		}
		if err := tabular.WriteTemplate(f, name); err != nil {
			f.Close()
			return written, err
		}
		if err := f.Close(); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// createEncodeCmd prints the structured key of each argument
func createEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode [house-no...]",
		Short: "Print dh_no and sort key for house numbers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, raw := range args {
				rec, err := encoder.EncodeHouse(raw)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", rec.RawHouseNo, rec.EncodedKey, rec.SortKey)
			}
			return nil
		},
	}
}
