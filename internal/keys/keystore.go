package keys

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shiftlayer-llc/htcli-sub001/internal/log"
)

// On-disk layout under the keystore root:
//
//	<root>/<wallet>/coldkey          raw layout: obfuscated private key bytes
//	<root>/<wallet>/coldkey.pub      JSON: accountId, ss58Address, publicKey
//	<root>/<wallet>/hotkeys/<name>   structured layout: single JSON document
//
// Key files are 0600 and created with O_EXCL so two concurrent invocations
// cannot both win the "does this file exist" race.
const (
	coldkeyFileName = "coldkey"
	hotkeysDirName  = "hotkeys"
)

// pubFile is the sibling public file written next to a raw-layout coldkey.
type pubFile struct {
	AccountID   string `json:"accountId"`
	SS58Address string `json:"ss58Address"`
	PublicKey   string `json:"publicKey"`
}

// hotkeyFile is the structured single-file layout used for hotkeys.
// PrivateKey holds the obfuscated private key as 0x-hex. SecretPhrase holds
// the obfuscated mnemonic: plain text when the password is empty, 0x-hex
// otherwise (XOR output is not valid UTF-8, so it cannot be stored verbatim
// in JSON).
type hotkeyFile struct {
	AccountID    string  `json:"accountId"`
	PublicKey    string  `json:"publicKey"`
	PrivateKey   string  `json:"privateKey"`
	SecretPhrase string  `json:"secretPhrase"`
	SecretSeed   *string `json:"secretSeed"`
	SS58Address  string  `json:"ss58Address"`
}

// Keystore manages coldkeys and hotkeys rooted at a wallet directory.
type Keystore struct {
	root string
}

// NewKeystore opens a keystore at the given directory, creating it if needed.
func NewKeystore(root string) (*Keystore, error) {
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, fmt.Errorf("create keystore dir: %w", err)
	}
	return &Keystore{root: root}, nil
}

// Path returns the keystore root directory.
func (ks *Keystore) Path() string {
	return ks.root
}

func (ks *Keystore) walletDir(wallet string) string {
	return filepath.Join(ks.root, wallet)
}

func (ks *Keystore) coldkeyPath(wallet string) string {
	return filepath.Join(ks.walletDir(wallet), coldkeyFileName)
}

func (ks *Keystore) coldkeyPubPath(wallet string) string {
	return ks.coldkeyPath(wallet) + ".pub"
}

func (ks *Keystore) hotkeyPath(wallet, name string) string {
	return filepath.Join(ks.walletDir(wallet), hotkeysDirName, name)
}

// CreateColdkey creates a new coldkey in the raw layout. When mnemonic is
// empty a fresh 24-word mnemonic is generated; supplying one re-derives the
// same keypair deterministically (regen from a backup phrase). The returned
// keypair carries the mnemonic so the caller can display it once.
func (ks *Keystore) CreateColdkey(wallet, password, mnemonic string) (string, *Keypair, error) {
	if err := validateName(wallet); err != nil {
		return "", nil, err
	}

	kp, err := ks.newKeypair(mnemonic)
	if err != nil {
		return "", nil, err
	}

	dir := ks.walletDir(wallet)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", nil, fmt.Errorf("create wallet dir: %w", err)
	}

	path := ks.coldkeyPath(wallet)
	obfuscated := Obfuscate(kp.PrivateKeyBytes(), password)
	if err := writeExclusive(path, obfuscated, 0600); err != nil {
		return "", nil, err
	}

	pub, err := json.MarshalIndent(pubFile{
		AccountID:   hexPrefixed(kp.PublicKey),
		SS58Address: kp.Address,
		PublicKey:   hexPrefixed(kp.PublicKey),
	}, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("marshal public file: %w", err)
	}
	if err := writeExclusive(ks.coldkeyPubPath(wallet), pub, 0600); err != nil {
		// Keep the invariant that a failed create leaves nothing behind.
		os.Remove(path)
		return "", nil, err
	}

	log.Wallet.Info().Str("wallet", wallet).Str("address", kp.Address).Msg("coldkey created")
	return path, kp, nil
}

// CreateHotkey creates a new hotkey under an existing coldkey, in the
// structured single-file layout. Fails with ErrNotFound before any key
// material is generated when the coldkey directory does not exist.
func (ks *Keystore) CreateHotkey(wallet, name, password, mnemonic string) (string, *Keypair, error) {
	if err := validateName(wallet); err != nil {
		return "", nil, err
	}
	if err := validateName(name); err != nil {
		return "", nil, err
	}

	if _, err := os.Stat(ks.walletDir(wallet)); err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("coldkey %q: %w", wallet, ErrNotFound)
		}
		return "", nil, fmt.Errorf("stat wallet dir: %w", err)
	}

	kp, err := ks.newKeypair(mnemonic)
	if err != nil {
		return "", nil, err
	}

	dir := filepath.Join(ks.walletDir(wallet), hotkeysDirName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", nil, fmt.Errorf("create hotkeys dir: %w", err)
	}

	hf := hotkeyFile{
		AccountID:    hexPrefixed(kp.PublicKey),
		PublicKey:    hexPrefixed(kp.PublicKey),
		PrivateKey:   hexPrefixed(Obfuscate(kp.PrivateKeyBytes(), password)),
		SecretPhrase: encodePhrase(kp.Mnemonic, password),
		SecretSeed:   nil,
		SS58Address:  kp.Address,
	}
	data, err := json.MarshalIndent(hf, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("marshal hotkey file: %w", err)
	}

	path := ks.hotkeyPath(wallet, name)
	if err := writeExclusive(path, data, 0600); err != nil {
		return "", nil, err
	}

	log.Wallet.Info().Str("wallet", wallet).Str("hotkey", name).Str("address", kp.Address).Msg("hotkey created")
	return path, kp, nil
}

// LoadColdkey reads a raw-layout coldkey, reverses the obfuscation with the
// supplied password, and reconstructs the keypair. Returns ErrNotFound when
// the file is absent and ErrInvalidKey when the de-obfuscated bytes do not
// form a valid keypair.
func (ks *Keystore) LoadColdkey(wallet, password string) (*Keypair, error) {
	data, err := os.ReadFile(ks.coldkeyPath(wallet))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("coldkey %q: %w", wallet, ErrNotFound)
		}
		return nil, fmt.Errorf("read coldkey: %w", err)
	}

	kp, err := FromPrivateKey(Deobfuscate(data, password))
	if err != nil {
		return nil, fmt.Errorf("coldkey %q: %w", wallet, err)
	}
	return kp, nil
}

// LoadHotkey reads a structured-layout hotkey and reconstructs the keypair.
func (ks *Keystore) LoadHotkey(wallet, name, password string) (*Keypair, error) {
	data, err := os.ReadFile(ks.hotkeyPath(wallet, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("hotkey %q/%q: %w", wallet, name, ErrNotFound)
		}
		return nil, fmt.Errorf("read hotkey: %w", err)
	}

	var hf hotkeyFile
	if err := json.Unmarshal(data, &hf); err != nil {
		return nil, fmt.Errorf("hotkey %q/%q: %w", wallet, name, ErrInvalidKey)
	}

	raw, err := hexDecodePrefixed(hf.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("hotkey %q/%q: %w", wallet, name, ErrInvalidKey)
	}

	kp, err := FromPrivateKey(Deobfuscate(raw, password))
	if err != nil {
		return nil, fmt.Errorf("hotkey %q/%q: %w", wallet, name, err)
	}

	if phrase, err := decodePhrase(hf.SecretPhrase, password); err == nil && ValidateMnemonic(phrase) {
		kp.Mnemonic = phrase
	}
	return kp, nil
}

// WalletInfo describes a coldkey and its hotkeys, read from public metadata
// only (no password required).
type WalletInfo struct {
	Name    string
	Address string
	Hotkeys []HotkeyInfo
}

// HotkeyInfo describes a hotkey's public metadata.
type HotkeyInfo struct {
	Name    string
	Address string
}

// List enumerates coldkeys and their hotkeys.
func (ks *Keystore) List() ([]WalletInfo, error) {
	entries, err := os.ReadDir(ks.root)
	if err != nil {
		return nil, fmt.Errorf("read keystore dir: %w", err)
	}

	var wallets []WalletInfo
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if _, err := os.Stat(ks.coldkeyPath(name)); err != nil {
			continue
		}

		info := WalletInfo{Name: name}
		if data, err := os.ReadFile(ks.coldkeyPubPath(name)); err == nil {
			var pf pubFile
			if json.Unmarshal(data, &pf) == nil {
				info.Address = pf.SS58Address
			}
		}

		hotkeys, _ := os.ReadDir(filepath.Join(ks.walletDir(name), hotkeysDirName))
		for _, h := range hotkeys {
			if h.IsDir() {
				continue
			}
			hi := HotkeyInfo{Name: h.Name()}
			if data, err := os.ReadFile(ks.hotkeyPath(name, h.Name())); err == nil {
				var hf hotkeyFile
				if json.Unmarshal(data, &hf) == nil {
					hi.Address = hf.SS58Address
				}
			}
			info.Hotkeys = append(info.Hotkeys, hi)
		}

		wallets = append(wallets, info)
	}

	sort.Slice(wallets, func(i, j int) bool { return wallets[i].Name < wallets[j].Name })
	return wallets, nil
}

// RemoveColdkey deletes a coldkey directory, including all of its hotkeys.
func (ks *Keystore) RemoveColdkey(wallet string) error {
	dir := ks.walletDir(wallet)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("coldkey %q: %w", wallet, ErrNotFound)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove wallet dir: %w", err)
	}
	return nil
}

// RemoveHotkey deletes a single hotkey file.
func (ks *Keystore) RemoveHotkey(wallet, name string) error {
	path := ks.hotkeyPath(wallet, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("hotkey %q/%q: %w", wallet, name, ErrNotFound)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove hotkey: %w", err)
	}
	return nil
}

func (ks *Keystore) newKeypair(mnemonic string) (*Keypair, error) {
	if mnemonic == "" {
		return Generate()
	}
	return FromMnemonic(mnemonic)
}

// writeExclusive writes data to path with O_EXCL create semantics so a
// concurrent create of the same key cannot silently overwrite it.
func writeExclusive(path string, data []byte, perm os.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%s: %w", path, ErrAlreadyExists)
		}
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return fmt.Errorf("invalid name %q", name)
	}
	return nil
}

func hexPrefixed(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

func hexDecodePrefixed(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(s, "0x"))
}

// encodePhrase obfuscates a mnemonic for the structured layout. The empty
// password passthrough keeps the phrase as plain text; otherwise the XOR
// output is hex-encoded since it is not valid UTF-8.
func encodePhrase(mnemonic, password string) string {
	if password == "" {
		return mnemonic
	}
	return hexPrefixed(Obfuscate([]byte(mnemonic), password))
}

func decodePhrase(stored, password string) (string, error) {
	if !strings.HasPrefix(stored, "0x") {
		return stored, nil
	}
	raw, err := hexDecodePrefixed(stored)
	if err != nil {
		return "", err
	}
	return string(Deobfuscate(raw, password)), nil
}
