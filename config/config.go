// Package config handles client configuration.
//
// Precedence is layered: built-in network defaults, then the config file,
// then command-line flags.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// NetworkType identifies mainnet or testnet.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
)

// Config holds client runtime configuration.
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// Node RPC endpoint
	RPC RPCConfig

	// Wallet storage
	Wallet WalletConfig

	// Logging
	Log LogConfig
}

// RPCConfig holds node endpoint settings.
type RPCConfig struct {
	Endpoint       string `conf:"rpc.endpoint"`
	TimeoutSeconds int    `conf:"rpc.timeout"`
}

// WalletConfig holds wallet storage settings.
type WalletConfig struct {
	// Dir overrides the default <datadir>/<network>/wallets location.
	Dir string `conf:"wallet.dir"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.htcli
//	macOS:   ~/Library/Application Support/Htcli
//	Windows: %APPDATA%\Htcli
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".htcli"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Htcli")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "Htcli")
		}
		return filepath.Join(home, "AppData", "Roaming", "Htcli")
	default:
		return filepath.Join(home, ".htcli")
	}
}

// NetworkDataDir returns the network-specific data directory.
func (c *Config) NetworkDataDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// WalletDir returns the wallet storage directory.
func (c *Config) WalletDir() string {
	if c.Wallet.Dir != "" {
		return c.Wallet.Dir
	}
	return filepath.Join(c.NetworkDataDir(), "wallets")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "htcli.conf")
}
