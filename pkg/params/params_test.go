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

package params

import (
	"testing"

	"github.com/jeremyhahn/go-cryptotoken/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapSigningParameters_RSA(t *testing.T) {
	tests := []struct {
		alg  types.SignatureAlgorithm
		hash types.HashAlgorithm
	}{
		{types.SignatureRSAPKCS1SHA256, types.HashSHA256},
		{types.SignatureRSAPKCS1SHA384, types.HashSHA384},
		{types.SignatureRSAPKCS1SHA512, types.HashSHA512},
	}

	for _, tc := range tests {
		t.Run(tc.alg.String(), func(t *testing.T) {
			p, err := MapSigningParameters(tc.alg)
			require.NoError(t, err)
			assert.Equal(t, tc.hash, p.Hash)
			require.NotNil(t, p.RSA)
			assert.Equal(t, types.RSAPaddingPKCS1, p.RSA.Padding)
			assert.Nil(t, p.ECC)
		})
	}
}

func TestMapSigningParameters_ECDSA(t *testing.T) {
	tests := []struct {
		alg  types.SignatureAlgorithm
		hash types.HashAlgorithm
	}{
		{types.SignatureECDSAX962SHA256, types.HashSHA256},
		{types.SignatureECDSAX962SHA384, types.HashSHA384},
		{types.SignatureECDSAX962SHA512, types.HashSHA512},
	}

	for _, tc := range tests {
		t.Run(tc.alg.String(), func(t *testing.T) {
			p, err := MapSigningParameters(tc.alg)
			require.NoError(t, err)
			assert.Equal(t, tc.hash, p.Hash)
			assert.Nil(t, p.RSA)
			require.NotNil(t, p.ECC, "ecc params must be present, curve implied by key")
		})
	}
}

func TestMapSigningParameters_Totality(t *testing.T) {
	for _, alg := range types.SignatureAlgorithms() {
		_, err := MapSigningParameters(alg)
		assert.NoError(t, err, "algorithm %s must map", alg)
	}
}

func TestMapSigningParameters_Unsupported(t *testing.T) {
	_, err := MapSigningParameters("RSA-PSS-SHA256")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
	assert.Contains(t, err.Error(), "RSA-PSS-SHA256", "error must name the offending algorithm")
}

func TestMapSigningParameters_CopiesTableEntries(t *testing.T) {
	p1, err := MapSigningParameters(types.SignatureRSAPKCS1SHA256)
	require.NoError(t, err)
	p1.RSA.Padding = types.RSAPaddingOAEP

	p2, err := MapSigningParameters(types.SignatureRSAPKCS1SHA256)
	require.NoError(t, err)
	assert.Equal(t, types.RSAPaddingPKCS1, p2.RSA.Padding)
}

func TestMapEncryptionParameters_OAEP(t *testing.T) {
	tests := []struct {
		alg  types.EncryptionAlgorithm
		hash types.HashAlgorithm
	}{
		{types.EncryptionRSAOAEPSHA256, types.HashSHA256},
		{types.EncryptionRSAOAEPSHA384, types.HashSHA384},
		{types.EncryptionRSAOAEPSHA512, types.HashSHA512},
	}

	for _, tc := range tests {
		t.Run(tc.alg.String(), func(t *testing.T) {
			p, err := MapEncryptionParameters(tc.alg)
			require.NoError(t, err)
			assert.Equal(t, types.RSAPaddingOAEP, p.RSA.Padding)
			assert.Equal(t, tc.hash, p.RSA.OAEPHash)
		})
	}
}

func TestMapEncryptionParameters_PKCS1(t *testing.T) {
	p, err := MapEncryptionParameters(types.EncryptionRSAPKCS1)
	require.NoError(t, err)
	assert.Equal(t, types.RSAPaddingPKCS1, p.RSA.Padding)
	assert.Empty(t, p.RSA.OAEPHash, "PKCS1 encryption has no hash")
}

func TestMapEncryptionParameters_Totality(t *testing.T) {
	for _, alg := range types.EncryptionAlgorithms() {
		_, err := MapEncryptionParameters(alg)
		assert.NoError(t, err, "algorithm %s must map", alg)
	}
}

func TestMapEncryptionParameters_Unsupported(t *testing.T) {
	_, err := MapEncryptionParameters("AES-256-GCM")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
	assert.Contains(t, err.Error(), "AES-256-GCM")
}

func TestMapKeyExchangeParameters(t *testing.T) {
	_, err := MapKeyExchangeParameters(types.KeyExchangeECDH)
	assert.NoError(t, err)

	_, err = MapKeyExchangeParameters("X25519")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
	assert.Contains(t, err.Error(), "X25519")
}

func TestSupportedAlgorithmAdvertisement(t *testing.T) {
	assert.Equal(t, types.SignatureAlgorithms(), SupportedSignatureAlgorithms())
	assert.Equal(t, types.EncryptionAlgorithms(), SupportedEncryptionAlgorithms())
	assert.Equal(t, types.KeyExchangeAlgorithms(), SupportedKeyExchangeAlgorithms())
}
