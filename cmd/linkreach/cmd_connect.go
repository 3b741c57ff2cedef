// Package main implements the linkreach CLI commands.
// This file contains the direct API delivery strategy command.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"linkreach/internal/linkedin"
	"linkreach/internal/outreach"
	"linkreach/internal/pacing"
)

var (
	flagRefreshCookies bool
	flagNoFollow       bool
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Send connection requests through the direct API client",
	RunE:  runConnect,
}

func init() {
	connectCmd.Flags().BoolVar(&flagRefreshCookies, "refresh-cookies", false, "Force a fresh credential handshake")
	connectCmd.Flags().BoolVar(&flagNoFollow, "nofollow", false, "Unfollow each profile after connecting")
}

func runConnect(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("refresh-cookies") {
		cfg.RefreshCookies = flagRefreshCookies
	}
	if cmd.Flags().Changed("nofollow") {
		cfg.NoFollow = flagNoFollow
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	printBanner("LINKEDIN CONNECTION AUTOMATION (FROM EXCEL)",
		"Email", cfg.Email,
		"Excel", cfg.ExcelPath,
		"Limit", fmt.Sprintf("%d", cfg.Limit),
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

	client, err := linkedin.NewClient(linkedin.Options{
		Email:             cfg.Email,
		Password:          cfg.Password,
		CookiePath:        cfg.CookiePath,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Log:               logger,
	})
	if err != nil {
		return err
	}

	fmt.Println("🔐 Authenticating with LinkedIn...")
	if err := client.Authenticate(cmd.Context(), cfg.RefreshCookies); err != nil {
		if errors.Is(err, linkedin.ErrAuthFailed) {
			fmt.Println("❌ Authentication failed")
		}
		return err
	}
	fmt.Print("✅ Authentication successful!\n\n")

	runner := &outreach.Runner{
		Strategy: client,
		Records:  wb,
		Pacing:   pacing.DefaultNameHash(),
		Message:  cfg.Message,
		NoFollow: cfg.NoFollow,
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
