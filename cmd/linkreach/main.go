package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"linkreach/internal/config"
	"linkreach/internal/outreach"
	"linkreach/internal/store"
)

var (
	// Global flags
	verbose      bool
	flagEmail    string
	flagPassword string
	flagExcel    string
	flagLimit    int
	flagMessage  string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "linkreach",
	Short: "linkreach - spreadsheet-driven connection outreach",
	Long: `linkreach sends connection requests on LinkedIn, driven by rows in an
Excel workbook. Rows whose Status column is empty are selected (up to
--limit), each outcome is written back to the workbook immediately, and a
paced delay separates items so runs don't present a fixed cadence.

Two interchangeable delivery strategies are available:

  connect   direct API client (cookie session)
  browser   UI automation through a controlled Chrome

The workbook needs the columns: Name, Linkedin URL, Company Name, Status,
Delivered. Only Status and Delivered are ever written.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&flagEmail, "email", "", "LinkedIn email")
	pf.StringVar(&flagPassword, "password", "", "LinkedIn password")
	pf.StringVar(&flagExcel, "excel", "", "Excel file path (default linkedin-data.xlsx next to the executable)")
	pf.IntVar(&flagLimit, "limit", 0, "Max connections to send (default 20)")
	pf.StringVar(&flagMessage, "message", "", "Connection message, truncated to 300 chars")

	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(browserCmd)
}

// buildConfig folds CLI flags over the config file (when one exists at the
// conventional location), env overrides, and the defaults, in ascending
// precedence: defaults < file < env < flags.
func buildConfig() (config.Config, error) {
	cfg, err := config.LoadOrDefault(config.DefaultPath())
	if err != nil {
		return config.Config{}, err
	}
	if flagEmail != "" {
		cfg.Email = flagEmail
	}
	if flagPassword != "" {
		cfg.Password = flagPassword
	}
	if flagExcel != "" {
		cfg.ExcelPath = flagExcel
	}
	if flagLimit > 0 {
		cfg.Limit = flagLimit
	}
	if flagMessage != "" {
		cfg.Message = flagMessage
	}
	return cfg, nil
}

// loadWork opens the workbook and selects the unsent rows. The caller owns
// closing the returned workbook.
func loadWork(cfg config.Config) (*store.Workbook, []store.WorkItem, error) {
	path, err := cfg.ResolvedExcelPath()
	if err != nil {
		return nil, nil, err
	}

	fmt.Printf("📂 Loading profiles from %s...\n", cfg.ExcelPath)
	wb, err := store.Open(path)
	if err != nil {
		return nil, nil, err
	}

	items, dropped, err := wb.Load(cfg.Limit)
	if err != nil {
		wb.Close()
		return nil, nil, err
	}
	logger.Debug("workbook loaded",
		zap.Int("rows", wb.Rows()),
		zap.Int("selected", len(items)),
		zap.Int("dropped", dropped))
	if dropped > 0 {
		logger.Warn("rows without an extractable profile URL were skipped; they will reappear next run",
			zap.Int("count", dropped))
	}
	fmt.Printf("📋 Found %d profiles to contact\n\n", len(items))
	return wb, items, nil
}

func printBanner(title string, pairs ...string) {
	line := strings.Repeat("=", 60)
	fmt.Println(line)
	fmt.Println("🔗 " + title)
	fmt.Println(line)
	for i := 0; i+1 < len(pairs); i += 2 {
		fmt.Printf("%s: %s\n", pairs[i], pairs[i+1])
	}
	fmt.Println()
}

func printSummary(summary outreach.Summary, excelName string) {
	line := strings.Repeat("=", 60)
	fmt.Println("\n" + line)
	fmt.Println("📊 SUMMARY")
	fmt.Println(line)
	fmt.Printf("✅ Successful: %d\n", summary.Successful)
	fmt.Printf("❌ Failed: %d\n", summary.Failed)
	fmt.Printf("⏱️ Time elapsed: %.1fs\n", summary.Elapsed.Seconds())
	fmt.Printf("📁 Excel updated: %s\n", excelName)
	fmt.Println(line)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
