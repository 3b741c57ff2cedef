// Package main implements the linkreach CLI commands.
// This file contains the browser-driven delivery strategy command.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"linkreach/internal/outreach"
	"linkreach/internal/pacing"
	"linkreach/internal/uibot"
)

var flagHeadless bool

var browserCmd = &cobra.Command{
	Use:   "browser",
	Short: "Send connection requests through a controlled Chrome",
	RunE:  runBrowser,
}

func init() {
	browserCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Run the browser in headless mode")
}

func runBrowser(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("headless") {
		cfg.Headless = flagHeadless
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	printBanner("LINKEDIN CONNECTION AUTOMATION (BROWSER)",
		"Email", cfg.Email,
		"Excel", cfg.ExcelPath,
		"Limit", fmt.Sprintf("%d", cfg.Limit),
		"Headless", fmt.Sprintf("%v", cfg.Headless),
	)

	wb, items, err := loadWork(cfg)
	if err != nil {
		return err
	}
	defer wb.Close()

	if len(items) == 0 {
		fmt.Println("⚠️ No unsent profiles found in Excel. All done!")
		return nil
	}

	fmt.Println("🌐 Starting browser...")
	browserCfg := uibot.DefaultConfig()
	browserCfg.Headless = cfg.Headless
	browser, err := uibot.Launch(cmd.Context(), browserCfg)
	if err != nil {
		return err
	}
	defer browser.Close()

	bot := uibot.NewBot(uibot.Options{
		Surface: browser.Surface(),
		Log:     logger,
	})

	fmt.Println("🔐 Logging in to LinkedIn...")
	state, err := bot.Login(cmd.Context(), cfg.Email, cfg.Password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	switch state {
	case uibot.LoginAuthenticated:
		fmt.Print("✅ Login successful!\n\n")
	case uibot.LoginVerificationRequired:
		fmt.Println("⚠️ Security verification required. Please complete it manually.")
		return fmt.Errorf("login blocked by security checkpoint")
	default:
		return fmt.Errorf("login failed")
	}

	runner := &outreach.Runner{
		Strategy: bot,
		Records:  wb,
		Pacing:   pacing.DefaultUniform(),
		Message:  cfg.Message,
		Log:      logger,
	}
	summary, err := runner.Run(cmd.Context(), items)
	if err != nil {
		return err
	}
	logger.Info("run complete",
		zap.String("run_id", summary.RunID),
		zap.Int("successful", summary.Successful),
		zap.Int("failed", summary.Failed))

	printSummary(summary, cfg.ExcelPath)
	return nil
}
