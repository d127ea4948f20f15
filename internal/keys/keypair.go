// Package keys implements the local keystore: keypair generation from BIP-39
// mnemonics, SS58 address derivation, and password-obfuscated persistence of
// coldkeys and hotkeys on disk.
package keys

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/tyler-smith/go-bip39"
)

// MnemonicEntropyBits is the entropy size for 24-word mnemonics.
const MnemonicEntropyBits = 256

// Keypair is an ed25519 signing identity. It is held in memory only for the
// duration of a signing operation and never persisted unencoded.
type Keypair struct {
	PublicKey []byte // 32 bytes
	Address   string // SS58-encoded public key
	Mnemonic  string // empty when reconstructed from a key file

	private ed25519.PrivateKey // 64 bytes: seed || public key
}

// GenerateMnemonic creates a new 24-word BIP-39 mnemonic.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(MnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// ValidateMnemonic checks a mnemonic per BIP-39 (word count, word list,
// checksum).
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(mnemonic)
}

// Generate creates a keypair from a fresh 24-word mnemonic.
func Generate() (*Keypair, error) {
	mnemonic, err := GenerateMnemonic()
	if err != nil {
		return nil, err
	}
	return FromMnemonic(mnemonic)
}

// FromMnemonic derives a keypair deterministically from a BIP-39 mnemonic.
// The ed25519 seed is the first 32 bytes of the BIP-39 seed.
func FromMnemonic(mnemonic string) (*Keypair, error) {
	if !ValidateMnemonic(mnemonic) {
		return nil, fmt.Errorf("invalid mnemonic")
	}
	seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
	if err != nil {
		return nil, fmt.Errorf("derive seed: %w", err)
	}

	priv := ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize])
	for i := range seed {
		seed[i] = 0
	}

	kp, err := newKeypair(priv)
	if err != nil {
		return nil, err
	}
	kp.Mnemonic = mnemonic
	return kp, nil
}

// FromPrivateKey reconstructs a keypair from raw 64-byte private key material
// (for example, de-obfuscated key file contents). Returns ErrInvalidKey when
// the bytes do not form a structurally valid ed25519 key: the embedded public
// half must match the key re-derived from the seed half. Wrong passwords
// produce garbage that fails this check.
func FromPrivateKey(priv []byte) (*Keypair, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKey, len(priv), ed25519.PrivateKeySize)
	}
	derived := ed25519.NewKeyFromSeed(priv[:ed25519.SeedSize])
	if !bytes.Equal(derived[ed25519.SeedSize:], priv[ed25519.SeedSize:]) {
		return nil, fmt.Errorf("%w: public key half does not match seed", ErrInvalidKey)
	}
	return newKeypair(derived)
}

func newKeypair(priv ed25519.PrivateKey) (*Keypair, error) {
	pub := make([]byte, ed25519.PublicKeySize)
	copy(pub, priv[ed25519.SeedSize:])

	addr, err := EncodeSS58(pub, NetworkSS58Format)
	if err != nil {
		return nil, fmt.Errorf("encode address: %w", err)
	}

	return &Keypair{
		PublicKey: pub,
		Address:   addr,
		private:   priv,
	}, nil
}

// Sign produces an ed25519 signature over the message.
func (k *Keypair) Sign(message []byte) []byte {
	return ed25519.Sign(k.private, message)
}

// Verify checks an ed25519 signature against this keypair's public key.
func (k *Keypair) Verify(message, signature []byte) bool {
	return ed25519.Verify(ed25519.PublicKey(k.PublicKey), message, signature)
}

// PrivateKeyBytes returns the raw 64-byte private key (seed || public).
func (k *Keypair) PrivateKeyBytes() []byte {
	out := make([]byte, len(k.private))
	copy(out, k.private)
	return out
}

// Zero overwrites the private key material in memory.
func (k *Keypair) Zero() {
	for i := range k.private {
		k.private[i] = 0
	}
	k.Mnemonic = ""
}
