// htcli is a command-line client for the Hypertensor chain: wallet
// management, chain queries, and signed extrinsic submission.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/shiftlayer-llc/htcli-sub001/config"
	"github.com/shiftlayer-llc/htcli-sub001/internal/gateway"
	"github.com/shiftlayer-llc/htcli-sub001/internal/keys"
	"github.com/shiftlayer-llc/htcli-sub001/internal/log"
	"github.com/shiftlayer-llc/htcli-sub001/internal/rpcclient"
	"github.com/shiftlayer-llc/htcli-sub001/internal/tx"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	// Parse global flags that appear before the subcommand.
	network := "mainnet"
	dataDir := ""
	rpcURL := ""

	args := os.Args[1:]
	for len(args) > 0 {
		switch {
		case args[0] == "--network" && len(args) > 1:
			network = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--network="):
			network = args[0][len("--network="):]
			args = args[1:]
		case args[0] == "--datadir" && len(args) > 1:
			dataDir = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--datadir="):
			dataDir = args[0][len("--datadir="):]
			args = args[1:]
		case args[0] == "--rpc" && len(args) > 1:
			rpcURL = args[1]
			args = args[2:]
		case strings.HasPrefix(args[0], "--rpc="):
			rpcURL = args[0][len("--rpc="):]
			args = args[1:]
		default:
			goto dispatch
		}
	}

dispatch:
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	// Layer configuration: defaults, then file, then flags.
	cfg := config.Default(config.NetworkType(network))
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	values, err := config.LoadFile(cfg.ConfigFile())
	if err != nil {
		fatal("load config: %v", err)
	}
	if err := config.ApplyFileConfig(cfg, values); err != nil {
		fatal("apply config: %v", err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if rpcURL != "" {
		cfg.RPC.Endpoint = rpcURL
	}

	if err := log.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		fatal("init logging: %v", err)
	}

	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "wallet":
		cmdWallet(cfg, cmdArgs)
	case "balance":
		cmdBalance(cfg, cmdArgs)
	case "chain":
		cmdChain(cfg, cmdArgs)
	case "subnet":
		cmdSubnet(cfg, cmdArgs)
	case "node":
		cmdNode(cfg, cmdArgs)
	case "stake":
		cmdStake(cfg, cmdArgs)
	case "delegate":
		cmdDelegate(cfg, cmdArgs)
	case "transfer":
		cmdTransfer(cfg, cmdArgs)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: htcli [global flags] <command> [flags]

Global flags:
  --network <net>     mainnet (default) or testnet
  --datadir <path>    Data directory (default: ~/.htcli)
  --rpc <url>         Node RPC endpoint (default: http://127.0.0.1:9933)

Commands:
  wallet new-coldkey --name <n>           Create a new coldkey
  wallet regen-coldkey --name <n> --mnemonic "..."
                                          Regenerate a coldkey from its phrase
  wallet new-hotkey --wallet <w> --name <n>
                                          Create a hotkey under a coldkey
  wallet list                             List wallets and hotkeys
  wallet remove --wallet <w> [--hotkey <h>]
                                          Remove a coldkey or a single hotkey

  balance <ss58 | --wallet <w>>           Show free balance
  chain status                            Show chain head and epoch

  subnet list                             List registered subnets
  subnet info <id>                        Show subnet details
  subnet register --wallet <w> --path <p> --memory <mb>
                  --blocks <n> --interval <n> [--yes]
                                          Register a new subnet

  node register --wallet <w> --hotkey <h> --subnet <id>
                --peer-id <p> --stake <amt> [--yes]
  node activate --wallet <w> --hotkey <h> --subnet <id> --node <id> [--yes]
  node deactivate --wallet <w> --hotkey <h> --subnet <id> --node <id> [--yes]
  node remove --wallet <w> --hotkey <h> --subnet <id> --node <id> [--yes]

  stake add --wallet <w> --hotkey <h> --subnet <id> --amount <amt> [--yes]
  stake remove --wallet <w> --hotkey <h> --subnet <id> --amount <amt> [--yes]

  delegate add --wallet <w> --subnet <id> --amount <amt> [--yes]
  delegate remove --wallet <w> --subnet <id> --shares <n> [--yes]

  transfer --wallet <w> --dest <ss58> --amount <amt> [--yes]
`)
}

// newGateway builds the RPC client and gateway from config.
func newGateway(cfg *config.Config) *gateway.Gateway {
	client := rpcclient.NewWithTimeout(cfg.RPC.Endpoint, time.Duration(cfg.RPC.TimeoutSeconds)*time.Second)
	return gateway.New(client)
}

// newKeystore opens the wallet keystore from config.
func newKeystore(cfg *config.Config) *keys.Keystore {
	ks, err := keys.NewKeystore(cfg.WalletDir())
	if err != nil {
		fatal("open keystore: %v", err)
	}
	return ks
}

// submit runs a composed call through the submission pipeline and renders the
// receipt. yes replaces the interactive prompt with auto-approval; the
// balance check still applies.
func submit(cfg *config.Config, kp *keys.Keypair, callName string, callArgs map[string]interface{}, yes bool) {
	defer kp.Zero()

	call, err := gateway.Compose(callName, callArgs)
	if err != nil {
		fatal("compose call: %v", err)
	}

	gw := newGateway(cfg)
	var confirm tx.Confirmer = stdinConfirmer{}
	if yes {
		confirm = tx.AutoConfirm
	}
	pipeline := tx.NewPipeline(gw, tx.NewGuard(gw, confirm))

	receipt, err := pipeline.Submit(kp, call)
	if receipt != nil {
		printReceipt(receipt)
	}
	if err != nil {
		fatal("%v", err)
	}
}

func printReceipt(r *gateway.Receipt) {
	if r.Success {
		fmt.Printf("Included: %s\n", r.ExtrinsicHash)
	} else {
		fmt.Printf("Failed:   %s\n", r.ExtrinsicHash)
		fmt.Printf("Error:    %s\n", r.Error)
	}
	for _, ev := range r.Events {
		fmt.Printf("  event %s.%s\n", ev.Module, ev.Name)
	}
}

// ── Prompt helpers ──────────────────────────────────────────────────────

// stdinConfirmer asks for a y/N decision on the terminal.
type stdinConfirmer struct{}

func (stdinConfirmer) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return "", err
	}
	return string(password), nil
}

// readNewPassword prompts twice and requires both entries to match.
func readNewPassword() (string, error) {
	password, err := readPassword("Enter password: ")
	if err != nil {
		return "", err
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", fmt.Errorf("passwords do not match")
	}
	return password, nil
}

// ── Error helper ────────────────────────────────────────────────────────

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
