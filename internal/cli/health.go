// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-cryptotoken.
//
// go-cryptotoken is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// healthCmd probes the signing backend
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe the signing backend",
	Long:  `Check whether the remote signing backend is reachable and healthy`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()
		printer := NewPrinter(cfg.OutputFormat, os.Stdout)

		appCfg, err := cfg.loadAppConfig()
		if err != nil {
			handleError(err)
			return
		}

		client, err := cfg.CreateClient()
		if err != nil {
			handleError(fmt.Errorf("failed to create backend client: %w", err))
			return
		}
		defer func() { _ = client.Close() }()

		healthy := client.TestConnection(context.Background())
		if err := printer.PrintHealth(healthy, appCfg.Backend.Address); err != nil {
			handleError(err)
			return
		}
		if !healthy {
			os.Exit(1)
		}
	},
}
