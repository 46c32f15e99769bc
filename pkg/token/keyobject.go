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

package token

import "github.com/jeremyhahn/go-cryptotoken/pkg/types"

// Attribute names exposed in a key object's attribute map.
const (
	AttrKeyType        = "keyType"
	AttrKeySizeBits    = "keySizeBits"
	AttrLabel          = "label"
	AttrKeyClass       = "keyClass"
	AttrApplicationTag = "applicationTag"
	AttrTokenID        = "tokenId"
	AttrPublicKey      = "publicKey"
	AttrCanSign        = "canSign"
	AttrCanDecrypt     = "canDecrypt"
	AttrCanDerive      = "canDerive"
	AttrCanVerify      = "canVerify"
	AttrCanEncrypt     = "canEncrypt"
	AttrCanWrap        = "canWrap"
	AttrCanUnwrap      = "canUnwrap"
)

// KeyObject is the read-only projection of one key's metadata for host
// consumption. It has no lifecycle of its own: instances are constructed per
// query and attributes and operations are recomputed on every call, so two
// queries against the same metadata always yield identical results.
type KeyObject struct {
	tokenID string
	meta    types.KeyMetadata
}

// newKeyObject builds a projection over a metadata snapshot.
func newKeyObject(tokenID string, meta types.KeyMetadata) *KeyObject {
	return &KeyObject{tokenID: tokenID, meta: meta}
}

// ID returns the key object identifier.
func (o *KeyObject) ID() types.KeyObjectID {
	return o.meta.ID
}

// Class returns the key class.
func (o *KeyObject) Class() types.KeyClass {
	return o.meta.KeyClass
}

// Metadata returns a copy of the backing metadata.
func (o *KeyObject) Metadata() *types.KeyMetadata {
	return o.meta.Clone()
}

// Attributes returns the host-facing attribute map. The raw public key is
// included only when present; the seven capability booleans are always
// included.
func (o *KeyObject) Attributes() map[string]any {
	attrs := map[string]any{
		AttrKeyType:        o.meta.KeyType.String(),
		AttrKeySizeBits:    o.meta.KeySizeBits,
		AttrLabel:          o.meta.Label,
		AttrKeyClass:       o.meta.KeyClass.String(),
		AttrApplicationTag: append([]byte(nil), o.meta.ApplicationTag...),
		AttrTokenID:        o.tokenID,
		AttrCanSign:        o.meta.Capabilities.Sign,
		AttrCanDecrypt:     o.meta.Capabilities.Decrypt,
		AttrCanDerive:      o.meta.Capabilities.Derive,
		AttrCanVerify:      o.meta.Capabilities.Verify,
		AttrCanEncrypt:     o.meta.Capabilities.Encrypt,
		AttrCanWrap:        o.meta.Capabilities.Wrap,
		AttrCanUnwrap:      o.meta.Capabilities.Unwrap,
	}
	if len(o.meta.PublicKey) > 0 {
		attrs[AttrPublicKey] = append([]byte(nil), o.meta.PublicKey...)
	}
	return attrs
}

// Operations derives the allowed operation list from the capability flags.
// Order is stable: Sign, Decrypt, KeyExchange.
func (o *KeyObject) Operations() []types.Operation {
	ops := make([]types.Operation, 0, 3)
	if o.meta.Capabilities.Sign {
		ops = append(ops, types.OperationSign)
	}
	if o.meta.Capabilities.Decrypt {
		ops = append(ops, types.OperationDecrypt)
	}
	if o.meta.Capabilities.Derive {
		ops = append(ops, types.OperationKeyExchange)
	}
	return ops
}
