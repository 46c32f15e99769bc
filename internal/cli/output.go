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
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jeremyhahn/go-cryptotoken/pkg/types"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatText  OutputFormat = "text"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatTable OutputFormat = "table"
)

// Printer handles formatted output
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a new Printer
func NewPrinter(format string, writer io.Writer) *Printer {
	return &Printer{
		format: OutputFormat(format),
		writer: writer,
	}
}

// PrintKeyList prints a list of key objects
func (p *Printer) PrintKeyList(keys []*types.KeyMetadata) error {
	switch p.format {
	case OutputFormatJSON:
		keyList := make([]map[string]interface{}, len(keys))
		for i, key := range keys {
			keyList[i] = map[string]interface{}{
				"id":            key.ID.String(),
				"type":          key.KeyType.String(),
				"key_size_bits": key.KeySizeBits,
				"label":         key.Label,
				"class":         key.KeyClass.String(),
			}
		}
		return p.printJSON(map[string]interface{}{
			"keys": keyList,
		})
	case OutputFormatTable:
		if len(keys) == 0 {
			fmt.Fprintln(p.writer, "No keys found")
			return nil
		}
		fmt.Fprintf(p.writer, "%-30s %-10s %-6s %-25s\n", "ID", "TYPE", "BITS", "LABEL")
		fmt.Fprintln(p.writer, strings.Repeat("-", 74))
		for _, key := range keys {
			fmt.Fprintf(p.writer, "%-30s %-10s %-6d %-25s\n",
				key.ID, key.KeyType, key.KeySizeBits, key.Label)
		}
		return nil
	case OutputFormatText:
		if len(keys) == 0 {
			fmt.Fprintln(p.writer, "No keys found")
			return nil
		}
		fmt.Fprintln(p.writer, "Keys:")
		for _, key := range keys {
			fmt.Fprintf(p.writer, "  - %s (%s-%d)\n", key.ID, key.KeyType, key.KeySizeBits)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintKeyInfo prints detailed key object information
func (p *Printer) PrintKeyInfo(key *types.KeyMetadata, operations []types.Operation) error {
	switch p.format {
	case OutputFormatJSON:
		ops := make([]string, len(operations))
		for i, op := range operations {
			ops[i] = op.String()
		}
		info := map[string]interface{}{
			"id":            key.ID.String(),
			"type":          key.KeyType.String(),
			"key_size_bits": key.KeySizeBits,
			"label":         key.Label,
			"class":         key.KeyClass.String(),
			"operations":    ops,
		}
		if len(key.ApplicationTag) > 0 {
			info["application_tag"] = string(key.ApplicationTag)
		}
		if len(key.PublicKey) > 0 {
			info["public_key"] = base64.StdEncoding.EncodeToString(key.PublicKey)
		}
		return p.printJSON(info)
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintf(p.writer, "Key Information:\n")
		fmt.Fprintf(p.writer, "  ID:        %s\n", key.ID)
		fmt.Fprintf(p.writer, "  Type:      %s\n", key.KeyType)
		fmt.Fprintf(p.writer, "  Size:      %d bits\n", key.KeySizeBits)
		fmt.Fprintf(p.writer, "  Label:     %s\n", key.Label)
		fmt.Fprintf(p.writer, "  Class:     %s\n", key.KeyClass)
		if len(key.ApplicationTag) > 0 {
			fmt.Fprintf(p.writer, "  App Tag:   %s\n", string(key.ApplicationTag))
		}
		if len(operations) > 0 {
			opNames := make([]string, len(operations))
			for i, op := range operations {
				opNames[i] = op.String()
			}
			fmt.Fprintf(p.writer, "  Operations: %s\n", strings.Join(opNames, ", "))
		}
		if len(key.PublicKey) > 0 {
			fmt.Fprintf(p.writer, "  Public Key: %s\n", base64.StdEncoding.EncodeToString(key.PublicKey))
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintSuccess prints a success message
func (p *Printer) PrintSuccess(message string) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status":  "success",
			"message": message,
		})
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintln(p.writer, message)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintError prints an error message
func (p *Printer) PrintError(err error) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		})
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintf(p.writer, "Error: %v\n", err)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintSignature prints a signature (base64 encoded)
func (p *Printer) PrintSignature(signature []byte) error {
	encoded := base64.StdEncoding.EncodeToString(signature)
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"signature": encoded,
		})
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintln(p.writer, encoded)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintVerification prints a signature verification result
func (p *Printer) PrintVerification(valid bool) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"valid": valid,
		})
	case OutputFormatTable, OutputFormatText:
		if valid {
			fmt.Fprintln(p.writer, "Signature is valid")
		} else {
			fmt.Fprintln(p.writer, "Signature is INVALID")
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintPlaintext prints recovered plaintext (base64 encoded)
func (p *Printer) PrintPlaintext(plaintext []byte) error {
	encoded := base64.StdEncoding.EncodeToString(plaintext)
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"plaintext": encoded,
		})
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintln(p.writer, encoded)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintSharedSecret prints a derived shared secret (base64 encoded)
func (p *Printer) PrintSharedSecret(secret []byte) error {
	encoded := base64.StdEncoding.EncodeToString(secret)
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"shared_secret": encoded,
			"length":        len(secret),
		})
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintln(p.writer, encoded)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintHealth prints a backend health probe result
func (p *Printer) PrintHealth(healthy bool, address string) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"healthy": healthy,
			"backend": address,
		})
	case OutputFormatTable, OutputFormatText:
		if healthy {
			fmt.Fprintf(p.writer, "Backend %s is healthy\n", address)
		} else {
			fmt.Fprintf(p.writer, "Backend %s is UNREACHABLE\n", address)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintAlgorithms prints the supported algorithm advertisement
func (p *Printer) PrintAlgorithms(signing []types.SignatureAlgorithm, encryption []types.EncryptionAlgorithm, exchange []types.KeyExchangeAlgorithm) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"signature_algorithms":    signing,
			"encryption_algorithms":   encryption,
			"key_exchange_algorithms": exchange,
		})
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintln(p.writer, "Signature algorithms:")
		for _, alg := range signing {
			fmt.Fprintf(p.writer, "  - %s\n", alg)
		}
		fmt.Fprintln(p.writer, "Encryption algorithms:")
		for _, alg := range encryption {
			fmt.Fprintf(p.writer, "  - %s\n", alg)
		}
		fmt.Fprintln(p.writer, "Key exchange algorithms:")
		for _, alg := range exchange {
			fmt.Fprintf(p.writer, "  - %s\n", alg)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// printJSON prints data as JSON
func (p *Printer) printJSON(data interface{}) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
