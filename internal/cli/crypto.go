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
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-cryptotoken/pkg/token"
	"github.com/jeremyhahn/go-cryptotoken/pkg/types"
)

// readInput resolves operation input: --data takes base64, --file reads a
// file, and "-" or neither reads stdin.
func readInput(cmd *cobra.Command) ([]byte, error) {
	if data, _ := cmd.Flags().GetString("data"); data != "" {
		decoded, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 in --data: %w", err)
		}
		return decoded, nil
	}
	file, _ := cmd.Flags().GetString("file")
	if file == "" || file == "-" {
		return io.ReadAll(os.Stdin)
	}
	// #nosec G304 - Input file path is provided by the user
	return os.ReadFile(file)
}

// withSession wires a token session, runs fn, and tears everything down.
func withSession(cfg *Config, fn func(ctx context.Context, session *token.Session) error) error {
	tok, client, metaStore, err := cfg.CreateToken()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()
	defer func() { _ = metaStore.Close() }()

	session, err := tok.CreateSession(types.SessionFormatStandard)
	if err != nil {
		return err
	}
	defer func() { _ = session.Close() }()

	return fn(context.Background(), session)
}

// signCmd signs data with a token key
var signCmd = &cobra.Command{
	Use:   "sign <key-id>",
	Short: "Sign data with a token key",
	Long: `Sign data with a key held by the remote signing backend. Input comes
from --data (base64), --file, or stdin. The signature is printed base64
encoded.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()
		printer := NewPrinter(cfg.OutputFormat, os.Stdout)

		data, err := readInput(cmd)
		if err != nil {
			handleError(err)
			return
		}
		algorithm, _ := cmd.Flags().GetString("algorithm")
		prehashed, _ := cmd.Flags().GetBool("prehashed")

		printVerbose("Signing %d bytes with key %s (%s)", len(data), args[0], algorithm)

		err = withSession(cfg, func(ctx context.Context, session *token.Session) error {
			signature, err := session.Sign(ctx, types.KeyObjectID(args[0]),
				data, types.SignatureAlgorithm(algorithm), prehashed)
			if err != nil {
				return fmt.Errorf("failed to sign: %w", err)
			}
			return printer.PrintSignature(signature)
		})
		if err != nil {
			handleError(err)
		}
	},
}

// verifyCmd verifies a signature with a token key
var verifyCmd = &cobra.Command{
	Use:   "verify <key-id>",
	Short: "Verify a signature with a token key",
	Long:  `Verify a base64-encoded signature over the given input data`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()
		printer := NewPrinter(cfg.OutputFormat, os.Stdout)

		data, err := readInput(cmd)
		if err != nil {
			handleError(err)
			return
		}
		algorithm, _ := cmd.Flags().GetString("algorithm")
		sigB64, _ := cmd.Flags().GetString("signature")
		signature, err := base64.StdEncoding.DecodeString(sigB64)
		if err != nil {
			handleError(fmt.Errorf("invalid base64 in --signature: %w", err))
			return
		}

		err = withSession(cfg, func(ctx context.Context, session *token.Session) error {
			valid, err := session.VerifySignature(ctx, types.KeyObjectID(args[0]),
				data, signature, types.SignatureAlgorithm(algorithm))
			if err != nil {
				return fmt.Errorf("failed to verify: %w", err)
			}
			return printer.PrintVerification(valid)
		})
		if err != nil {
			handleError(err)
		}
	},
}

// decryptCmd decrypts ciphertext with a token key
var decryptCmd = &cobra.Command{
	Use:   "decrypt <key-id>",
	Short: "Decrypt data with a token key",
	Long: `Decrypt ciphertext with a key held by the remote signing backend.
The recovered plaintext is printed base64 encoded.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()
		printer := NewPrinter(cfg.OutputFormat, os.Stdout)

		ciphertext, err := readInput(cmd)
		if err != nil {
			handleError(err)
			return
		}
		algorithm, _ := cmd.Flags().GetString("algorithm")

		printVerbose("Decrypting %d bytes with key %s (%s)", len(ciphertext), args[0], algorithm)

		err = withSession(cfg, func(ctx context.Context, session *token.Session) error {
			plaintext, err := session.Decrypt(ctx, types.KeyObjectID(args[0]),
				ciphertext, types.EncryptionAlgorithm(algorithm))
			if err != nil {
				return fmt.Errorf("failed to decrypt: %w", err)
			}
			return printer.PrintPlaintext(plaintext)
		})
		if err != nil {
			handleError(err)
		}
	},
}

// deriveCmd derives a shared secret with a token key
var deriveCmd = &cobra.Command{
	Use:   "derive <key-id>",
	Short: "Derive a shared secret with a token key",
	Long: `Perform an ECDH key exchange between a token EC key and a peer's
public key (base64 encoded, uncompressed point). The shared secret is
printed base64 encoded.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()
		printer := NewPrinter(cfg.OutputFormat, os.Stdout)

		peerB64, _ := cmd.Flags().GetString("peer-key")
		peerPublicKey, err := base64.StdEncoding.DecodeString(peerB64)
		if err != nil {
			handleError(fmt.Errorf("invalid base64 in --peer-key: %w", err))
			return
		}
		algorithm, _ := cmd.Flags().GetString("algorithm")

		err = withSession(cfg, func(ctx context.Context, session *token.Session) error {
			secret, err := session.PerformKeyExchange(ctx, types.KeyObjectID(args[0]),
				peerPublicKey, types.KeyExchangeAlgorithm(algorithm))
			if err != nil {
				return fmt.Errorf("failed to derive shared secret: %w", err)
			}
			return printer.PrintSharedSecret(secret)
		})
		if err != nil {
			handleError(err)
		}
	},
}

func init() {
	signCmd.Flags().String("data", "", "input data, base64 encoded")
	signCmd.Flags().String("file", "", "input file (- for stdin)")
	signCmd.Flags().String("algorithm", string(types.SignatureRSAPKCS1SHA256), "signature algorithm")
	signCmd.Flags().Bool("prehashed", false, "input is a precomputed digest")

	verifyCmd.Flags().String("data", "", "input data, base64 encoded")
	verifyCmd.Flags().String("file", "", "input file (- for stdin)")
	verifyCmd.Flags().String("algorithm", string(types.SignatureRSAPKCS1SHA256), "signature algorithm")
	verifyCmd.Flags().String("signature", "", "signature to verify, base64 encoded")
	_ = verifyCmd.MarkFlagRequired("signature")

	decryptCmd.Flags().String("data", "", "ciphertext, base64 encoded")
	decryptCmd.Flags().String("file", "", "ciphertext file (- for stdin)")
	decryptCmd.Flags().String("algorithm", string(types.EncryptionRSAOAEPSHA256), "encryption algorithm")

	deriveCmd.Flags().String("peer-key", "", "peer public key, base64 encoded")
	deriveCmd.Flags().String("algorithm", string(types.KeyExchangeECDH), "key exchange algorithm")
	_ = deriveCmd.MarkFlagRequired("peer-key")
}
