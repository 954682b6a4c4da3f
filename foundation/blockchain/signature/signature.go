// Package signature handles all lower level support for signing and
// verifying transactions: RSA-2048 key generation, PKCS#1 v1.5 signing over
// SHA-256, and verification.
package signature

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
)

// ErrInvalidSignature is returned whenever a signature fails to verify
// against the claimed public key, for any reason: bad hex, bad PEM, bad
// key, or a genuine cryptographic mismatch. The spec requires all of those
// failure modes to collapse to the same rejection.
var ErrInvalidSignature = errors.New("invalid signature")

const keyBits = 2048

// GenerateKeys produces a fresh RSA-2048 keypair, PEM-encoded.
func GenerateKeys() (privatePEM, publicPEM string, err error) {
	key, err := rsa.GenerateKey(rand.Reader, keyBits)
	if err != nil {
		return "", "", fmt.Errorf("signature: generating key: %w", err)
	}

	privBytes := x509.MarshalPKCS1PrivateKey(key)
	privBlock := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: privBytes,
	})

	pubBytes, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return "", "", fmt.Errorf("signature: marshaling public key: %w", err)
	}
	pubBlock := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubBytes,
	})

	return string(privBlock), string(pubBlock), nil
}

// Sign signs data (already the canonical bytes of the signing tuple) with
// the PEM-encoded RSA private key, returning the signature as lowercase
// hex.
func Sign(privateKeyPEM string, data []byte) (string, error) {
	key, err := parsePrivateKey(privateKeyPEM)
	if err != nil {
		return "", fmt.Errorf("signature: parsing private key: %w", err)
	}

	digest := sha256.Sum256(data)

	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("signature: signing: %w", err)
	}

	return hex.EncodeToString(sig), nil
}

// Verify verifies signatureHex over data against the PEM-encoded RSA
// public key. Any format error (bad hex, bad PEM, non-RSA key) or a
// cryptographic mismatch returns ErrInvalidSignature — the spec does not
// distinguish between these failure modes.
func Verify(publicKeyPEM string, data []byte, signatureHex string) error {
	key, err := parsePublicKey(publicKeyPEM)
	if err != nil {
		return fmt.Errorf("%w: parsing public key: %s", ErrInvalidSignature, err)
	}

	sig, err := hex.DecodeString(signatureHex)
	if err != nil {
		return fmt.Errorf("%w: decoding signature hex: %s", ErrInvalidSignature, err)
	}

	digest := sha256.Sum256(data)

	if err := rsa.VerifyPKCS1v15(key, crypto.SHA256, digest[:], sig); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSignature, err)
	}

	return nil
}

func parsePrivateKey(pemStr string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemStr))
	if block == nil {
		return nil, errors.New("no PEM block found")
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("not an RSA private key")
	}
	return rsaKey, nil
}

func parsePublicKey(pemStr string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemStr))
	if block == nil {
		return nil, errors.New("no PEM block found")
	}

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		if key, err2 := x509.ParsePKCS1PublicKey(block.Bytes); err2 == nil {
			return key, nil
		}
		return nil, err
	}

	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("not an RSA public key")
	}
	return rsaKey, nil
}
