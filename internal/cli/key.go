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

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-cryptotoken/pkg/backend"
	"github.com/jeremyhahn/go-cryptotoken/pkg/types"
)

// keyCmd represents the key command
var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage token key objects",
	Long: `List, inspect, generate, import, and delete token key objects.

Key generation happens on the remote signing backend; only public key
metadata is recorded locally.`,
}

// keyListCmd lists all key objects
var keyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all key objects",
	Long:  `List all key objects known to the token`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()
		printer := NewPrinter(cfg.OutputFormat, os.Stdout)

		tok, client, metaStore, err := cfg.CreateToken()
		if err != nil {
			handleError(err)
			return
		}
		defer func() { _ = client.Close() }()
		defer func() { _ = metaStore.Close() }()

		session, err := tok.CreateSession(types.SessionFormatStandard)
		if err != nil {
			handleError(err)
			return
		}
		defer func() { _ = session.Close() }()

		ctx := context.Background()
		ids, err := session.ObjectIDs(ctx)
		if err != nil {
			handleError(fmt.Errorf("failed to list key objects: %w", err))
			return
		}

		printVerbose("Found %d key objects", len(ids))

		keys := make([]*types.KeyMetadata, 0, len(ids))
		objects, err := session.Objects(ctx, ids)
		if err != nil {
			handleError(fmt.Errorf("failed to resolve key objects: %w", err))
			return
		}
		for _, id := range ids {
			if obj, ok := objects[id]; ok {
				keys = append(keys, obj.Metadata())
			}
		}

		if err := printer.PrintKeyList(keys); err != nil {
			handleError(err)
		}
	},
}

// keyShowCmd shows one key object
var keyShowCmd = &cobra.Command{
	Use:   "show <key-id>",
	Short: "Show key object details",
	Long:  `Show the metadata, attributes, and allowed operations of a key object`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()
		printer := NewPrinter(cfg.OutputFormat, os.Stdout)

		tok, client, metaStore, err := cfg.CreateToken()
		if err != nil {
			handleError(err)
			return
		}
		defer func() { _ = client.Close() }()
		defer func() { _ = metaStore.Close() }()

		session, err := tok.CreateSession(types.SessionFormatStandard)
		if err != nil {
			handleError(err)
			return
		}
		defer func() { _ = session.Close() }()

		obj, err := session.Object(context.Background(), types.KeyObjectID(args[0]))
		if err != nil {
			handleError(fmt.Errorf("failed to load key object: %w", err))
			return
		}

		if err := printer.PrintKeyInfo(obj.Metadata(), obj.Operations()); err != nil {
			handleError(err)
		}
	},
}

// keyGenerateCmd generates a new key on the backend and records it locally
var keyGenerateCmd = &cobra.Command{
	Use:   "generate [key-id]",
	Short: "Generate a new key on the signing backend",
	Long: `Generate a new key pair on the remote signing backend and record its
public metadata locally. A random identifier is assigned when none is given.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()
		printer := NewPrinter(cfg.OutputFormat, os.Stdout)

		keyID := uuid.New().String()
		if len(args) == 1 {
			keyID = args[0]
		}

		keyTypeName, _ := cmd.Flags().GetString("key-type")
		keySize, _ := cmd.Flags().GetInt("key-size")
		label, _ := cmd.Flags().GetString("label")
		canSign, _ := cmd.Flags().GetBool("can-sign")
		canDecrypt, _ := cmd.Flags().GetBool("can-decrypt")
		canDerive, _ := cmd.Flags().GetBool("can-derive")

		keyType := types.KeyType(keyTypeName)
		if !keyType.ValidSize(keySize) {
			handleError(fmt.Errorf("invalid key type/size combination: %s/%d", keyTypeName, keySize))
			return
		}

		printVerbose("Generating %s-%d key with ID: %s", keyTypeName, keySize, keyID)

		client, err := cfg.CreateClient()
		if err != nil {
			handleError(fmt.Errorf("failed to create backend client: %w", err))
			return
		}
		defer func() { _ = client.Close() }()

		metaStore, err := cfg.CreateStore()
		if err != nil {
			handleError(fmt.Errorf("failed to create metadata store: %w", err))
			return
		}
		defer func() { _ = metaStore.Close() }()

		ctx := context.Background()
		info, err := client.GenerateKey(ctx, &backend.GenerateKeyRequest{
			Version:     backend.WireVersion,
			KeyID:       keyID,
			KeyType:     keyType,
			KeySizeBits: keySize,
			Label:       label,
			Capabilities: types.Capabilities{
				Sign:    canSign,
				Verify:  canSign,
				Decrypt: canDecrypt,
				Derive:  canDerive,
			},
		})
		if err != nil {
			handleError(fmt.Errorf("failed to generate key: %w", err))
			return
		}

		meta := &types.KeyMetadata{
			ID:           types.KeyObjectID(info.KeyID),
			KeyType:      info.KeyType,
			KeySizeBits:  info.KeySizeBits,
			Label:        info.Label,
			KeyClass:     types.KeyClassPrivate,
			PublicKey:    info.PublicKey,
			Capabilities: info.Capabilities,
		}
		if err := metaStore.StoreKeyPair(ctx, info.PublicKey, nil, meta, meta.ID); err != nil {
			handleError(fmt.Errorf("key generated on backend but local record failed: %w", err))
			return
		}

		if err := printer.PrintSuccess(fmt.Sprintf("Successfully generated %s key: %s", keyTypeName, keyID)); err != nil {
			handleError(err)
		}
	},
}

// keyImportCmd records an existing backend key locally
var keyImportCmd = &cobra.Command{
	Use:   "import <key-id>",
	Short: "Import an existing backend key",
	Long: `Fetch the public description of a key already held by the signing
backend and record it as a local key object`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()
		printer := NewPrinter(cfg.OutputFormat, os.Stdout)
		keyID := args[0]

		client, err := cfg.CreateClient()
		if err != nil {
			handleError(fmt.Errorf("failed to create backend client: %w", err))
			return
		}
		defer func() { _ = client.Close() }()

		metaStore, err := cfg.CreateStore()
		if err != nil {
			handleError(fmt.Errorf("failed to create metadata store: %w", err))
			return
		}
		defer func() { _ = metaStore.Close() }()

		ctx := context.Background()
		info, err := client.GetKey(ctx, keyID)
		if err != nil {
			handleError(fmt.Errorf("failed to fetch key from backend: %w", err))
			return
		}

		meta := &types.KeyMetadata{
			ID:           types.KeyObjectID(info.KeyID),
			KeyType:      info.KeyType,
			KeySizeBits:  info.KeySizeBits,
			Label:        info.Label,
			KeyClass:     types.KeyClassPrivate,
			PublicKey:    info.PublicKey,
			Capabilities: info.Capabilities,
		}
		if err := metaStore.StoreKeyPair(ctx, info.PublicKey, nil, meta, meta.ID); err != nil {
			handleError(fmt.Errorf("failed to record key locally: %w", err))
			return
		}

		if err := printer.PrintSuccess(fmt.Sprintf("Successfully imported key: %s", keyID)); err != nil {
			handleError(err)
		}
	},
}

// keyDeleteCmd deletes a key object
var keyDeleteCmd = &cobra.Command{
	Use:   "delete <key-id>",
	Short: "Delete a key object",
	Long: `Remove a key object's local record. With --backend, the key is also
destroyed on the remote signing backend.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := getConfig()
		printer := NewPrinter(cfg.OutputFormat, os.Stdout)
		keyID := args[0]
		deleteRemote, _ := cmd.Flags().GetBool("backend")

		metaStore, err := cfg.CreateStore()
		if err != nil {
			handleError(fmt.Errorf("failed to create metadata store: %w", err))
			return
		}
		defer func() { _ = metaStore.Close() }()

		ctx := context.Background()
		if err := metaStore.DeleteKey(ctx, types.KeyObjectID(keyID)); err != nil {
			handleError(fmt.Errorf("failed to delete key object: %w", err))
			return
		}

		if deleteRemote {
			client, err := cfg.CreateClient()
			if err != nil {
				handleError(fmt.Errorf("failed to create backend client: %w", err))
				return
			}
			defer func() { _ = client.Close() }()

			if err := client.DeleteKey(ctx, keyID); err != nil {
				handleError(fmt.Errorf("local record removed but backend delete failed: %w", err))
				return
			}
		}

		if err := printer.PrintSuccess(fmt.Sprintf("Successfully deleted key: %s", keyID)); err != nil {
			handleError(err)
		}
	},
}

func init() {
	keyGenerateCmd.Flags().String("key-type", "RSA", "key type (RSA, EC-P256, EC-P384, EC-P521)")
	keyGenerateCmd.Flags().Int("key-size", 2048, "key size in bits")
	keyGenerateCmd.Flags().String("label", "", "human-readable key label")
	keyGenerateCmd.Flags().Bool("can-sign", true, "allow signing with this key")
	keyGenerateCmd.Flags().Bool("can-decrypt", false, "allow decryption with this key")
	keyGenerateCmd.Flags().Bool("can-derive", false, "allow key exchange with this key")

	keyDeleteCmd.Flags().Bool("backend", false, "also destroy the key on the signing backend")

	keyCmd.AddCommand(keyListCmd)
	keyCmd.AddCommand(keyShowCmd)
	keyCmd.AddCommand(keyGenerateCmd)
	keyCmd.AddCommand(keyImportCmd)
	keyCmd.AddCommand(keyDeleteCmd)
}
