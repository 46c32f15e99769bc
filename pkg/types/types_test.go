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

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyObjectID_Valid(t *testing.T) {
	assert.False(t, KeyObjectID("").Valid())
	assert.True(t, KeyObjectID("signing-key-01").Valid())
}

func TestKeyType_ValidSize(t *testing.T) {
	tests := []struct {
		keyType KeyType
		bits    int
		want    bool
	}{
		{KeyTypeRSA, 2048, true},
		{KeyTypeRSA, 3072, true},
		{KeyTypeRSA, 4096, true},
		{KeyTypeRSA, 1024, false},
		{KeyTypeECP256, 256, true},
		{KeyTypeECP256, 384, false},
		{KeyTypeECP384, 384, true},
		{KeyTypeECP521, 521, true},
		{KeyTypeECP521, 512, false},
		{KeyType("DSA"), 1024, false},
	}

	for _, tc := range tests {
		t.Run(tc.keyType.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.keyType.ValidSize(tc.bits),
				"%s/%d", tc.keyType, tc.bits)
		})
	}
}

func TestKeyType_SharedSecretSize(t *testing.T) {
	assert.Equal(t, 32, KeyTypeECP256.SharedSecretSize())
	assert.Equal(t, 48, KeyTypeECP384.SharedSecretSize())
	assert.Equal(t, 66, KeyTypeECP521.SharedSecretSize())
	assert.Equal(t, 0, KeyTypeRSA.SharedSecretSize())
}

func TestKeyClass_Valid(t *testing.T) {
	assert.True(t, KeyClassPublic.Valid())
	assert.True(t, KeyClassPrivate.Valid())
	assert.False(t, KeyClass("secret").Valid())
}

func TestSessionFormat_Valid(t *testing.T) {
	assert.True(t, SessionFormatStandard.Valid())
	assert.True(t, SessionFormatRestricted.Valid())
	assert.False(t, SessionFormat("elevated").Valid())
}

func TestKeyMetadata_Clone(t *testing.T) {
	meta := &KeyMetadata{
		ID:             "key-1",
		KeyType:        KeyTypeRSA,
		KeySizeBits:    2048,
		Label:          "tls key",
		KeyClass:       KeyClassPrivate,
		ApplicationTag: []byte("com.example.app"),
		PublicKey:      []byte{0x30, 0x82},
		Capabilities:   Capabilities{Sign: true, Verify: true},
	}

	clone := meta.Clone()
	require.NotNil(t, clone)
	assert.Equal(t, meta, clone)

	// Mutating the clone's byte slices must not affect the original.
	clone.ApplicationTag[0] = 'x'
	clone.PublicKey[0] = 0xff
	assert.Equal(t, byte('c'), meta.ApplicationTag[0])
	assert.Equal(t, byte(0x30), meta.PublicKey[0])
}

func TestKeyMetadata_Clone_Nil(t *testing.T) {
	var meta *KeyMetadata
	assert.Nil(t, meta.Clone())
}

func TestAlgorithmEnumerations(t *testing.T) {
	assert.Len(t, SignatureAlgorithms(), 6)
	assert.Len(t, EncryptionAlgorithms(), 4)
	assert.Len(t, KeyExchangeAlgorithms(), 1)
	assert.Len(t, KeyTypes(), 4)
}
