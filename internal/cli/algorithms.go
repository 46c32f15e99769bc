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
	"os"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-cryptotoken/pkg/params"
)

// algorithmsCmd prints the supported algorithm advertisement
var algorithmsCmd = &cobra.Command{
	Use:   "algorithms",
	Short: "List supported algorithms",
	Long:  `List the signature, encryption, and key exchange algorithms the token advertises`,
	Run: func(cmd *cobra.Command, args []string) {
		printer := NewPrinter(getConfig().OutputFormat, os.Stdout)
		err := printer.PrintAlgorithms(
			params.SupportedSignatureAlgorithms(),
			params.SupportedEncryptionAlgorithms(),
			params.SupportedKeyExchangeAlgorithms(),
		)
		if err != nil {
			handleError(err)
		}
	},
}
