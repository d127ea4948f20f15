package main

import (
	"flag"
	"fmt"

	"github.com/shiftlayer-llc/htcli-sub001/config"
	"github.com/shiftlayer-llc/htcli-sub001/internal/gateway"
	"github.com/shiftlayer-llc/htcli-sub001/internal/keys"
)

// loadColdkey prompts for the wallet password and loads the coldkey.
func loadColdkey(cfg *config.Config, wallet string) *keys.Keypair {
	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	ks := newKeystore(cfg)
	kp, err := ks.LoadColdkey(wallet, password)
	if err != nil {
		fatal("load coldkey: %v", err)
	}
	return kp
}

// loadHotkey prompts for the wallet password and loads a hotkey.
func loadHotkey(cfg *config.Config, wallet, hotkey string) *keys.Keypair {
	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	ks := newKeystore(cfg)
	kp, err := ks.LoadHotkey(wallet, hotkey, password)
	if err != nil {
		fatal("load hotkey: %v", err)
	}
	return kp
}

// hotkeyAddress resolves a hotkey's SS58 address from public metadata,
// without needing the password.
func hotkeyAddress(cfg *config.Config, wallet, hotkey string) string {
	ks := newKeystore(cfg)
	wallets, err := ks.List()
	if err != nil {
		fatal("list wallets: %v", err)
	}
	for _, w := range wallets {
		if w.Name != wallet {
			continue
		}
		for _, h := range w.Hotkeys {
			if h.Name == hotkey {
				return h.Address
			}
		}
	}
	fatal("hotkey %q/%q not found", wallet, hotkey)
	return ""
}

// ── subnet ──────────────────────────────────────────────────────────────

func cmdSubnet(cfg *config.Config, args []string) {
	if len(args) == 0 {
		fatal("Usage: htcli subnet <list|info|register> [flags]")
	}
	switch args[0] {
	case "list":
		cmdSubnetList(cfg)
	case "info":
		cmdSubnetInfo(cfg, args[1:])
	case "register":
		cmdSubnetRegister(cfg, args[1:])
	default:
		fatal("Unknown subnet command: %s", args[0])
	}
}

func cmdSubnetRegister(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("subnet register", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Coldkey wallet name")
	path := fs.String("path", "", "Model path identifier")
	memory := fs.Uint64("memory", 0, "Required memory (MB)")
	blocks := fs.Uint64("blocks", 0, "Registration window (blocks)")
	interval := fs.Uint64("interval", 0, "Node entry interval (blocks)")
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	fs.Parse(args)

	if *walletName == "" || *path == "" || *memory == 0 {
		fatal("Usage: htcli subnet register --wallet <w> --path <p> --memory <mb> --blocks <n> --interval <n>")
	}

	// Surface the current registration cost before committing.
	if cost, err := newGateway(cfg).RegistrationCost(); err == nil {
		fmt.Printf("Current registration cost: %s\n", gateway.FormatBalance(cost))
	}

	kp := loadColdkey(cfg, *walletName)
	submit(cfg, kp, gateway.CallRegisterSubnet, map[string]interface{}{
		"path":                *path,
		"memory_mb":           *memory,
		"registration_blocks": *blocks,
		"entry_interval":      *interval,
	}, *yes)
}

// ── node ────────────────────────────────────────────────────────────────

func cmdNode(cfg *config.Config, args []string) {
	if len(args) == 0 {
		fatal("Usage: htcli node <register|activate|deactivate|remove> [flags]")
	}
	switch args[0] {
	case "register":
		cmdNodeRegister(cfg, args[1:])
	case "activate":
		cmdNodeLifecycle(cfg, args[1:], gateway.CallActivateNode, "node activate")
	case "deactivate":
		cmdNodeLifecycle(cfg, args[1:], gateway.CallDeactivateNode, "node deactivate")
	case "remove":
		cmdNodeLifecycle(cfg, args[1:], gateway.CallRemoveNode, "node remove")
	default:
		fatal("Unknown node command: %s", args[0])
	}
}

func cmdNodeRegister(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("node register", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Coldkey wallet name")
	hotkey := fs.String("hotkey", "", "Hotkey name")
	subnetID := fs.Uint64("subnet", 0, "Subnet ID")
	peerID := fs.String("peer-id", "", "Subnet node peer ID")
	stake := fs.String("stake", "", "Initial stake (TENSOR)")
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	fs.Parse(args)

	if *walletName == "" || *hotkey == "" || *subnetID == 0 || *peerID == "" || *stake == "" {
		fatal("Usage: htcli node register --wallet <w> --hotkey <h> --subnet <id> --peer-id <p> --stake <amt>")
	}

	amount, err := gateway.ParseBalance(*stake)
	if err != nil {
		fatal("parse stake: %v", err)
	}

	// Registration must satisfy the subnet's stake floor; check locally for
	// a better message than the chain's.
	if min, err := newGateway(cfg).MinStake(*subnetID); err == nil && amount < min {
		fatal("stake %s below subnet minimum %s",
			gateway.FormatBalance(amount), gateway.FormatBalance(min))
	}

	hotkeyAddr := hotkeyAddress(cfg, *walletName, *hotkey)
	kp := loadColdkey(cfg, *walletName)
	submit(cfg, kp, gateway.CallRegisterNode, map[string]interface{}{
		"subnet_id":         *subnetID,
		"hotkey":            hotkeyAddr,
		"peer_id":           *peerID,
		"stake_to_be_added": amount,
	}, *yes)
}

// cmdNodeLifecycle handles activate/deactivate/remove, all signed by the
// hotkey and taking (subnet_id, subnet_node_id).
func cmdNodeLifecycle(cfg *config.Config, args []string, callName, usage string) {
	fs := flag.NewFlagSet(usage, flag.ExitOnError)
	walletName := fs.String("wallet", "", "Coldkey wallet name")
	hotkey := fs.String("hotkey", "", "Hotkey name")
	subnetID := fs.Uint64("subnet", 0, "Subnet ID")
	nodeID := fs.Uint64("node", 0, "Subnet node ID")
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	fs.Parse(args)

	if *walletName == "" || *hotkey == "" || *subnetID == 0 || *nodeID == 0 {
		fatal("Usage: htcli %s --wallet <w> --hotkey <h> --subnet <id> --node <id>", usage)
	}

	kp := loadHotkey(cfg, *walletName, *hotkey)
	submit(cfg, kp, callName, map[string]interface{}{
		"subnet_id":      *subnetID,
		"subnet_node_id": *nodeID,
	}, *yes)
}

// ── stake ───────────────────────────────────────────────────────────────

func cmdStake(cfg *config.Config, args []string) {
	if len(args) == 0 {
		fatal("Usage: htcli stake <add|remove> [flags]")
	}
	switch args[0] {
	case "add":
		cmdStakeChange(cfg, args[1:], gateway.CallAddStake, "stake_to_be_added", "stake add")
	case "remove":
		cmdStakeChange(cfg, args[1:], gateway.CallRemoveStake, "stake_to_be_removed", "stake remove")
	default:
		fatal("Unknown stake command: %s", args[0])
	}
}

func cmdStakeChange(cfg *config.Config, args []string, callName, amountParam, usage string) {
	fs := flag.NewFlagSet(usage, flag.ExitOnError)
	walletName := fs.String("wallet", "", "Coldkey wallet name")
	hotkey := fs.String("hotkey", "", "Hotkey name")
	subnetID := fs.Uint64("subnet", 0, "Subnet ID")
	amountStr := fs.String("amount", "", "Amount (TENSOR)")
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	fs.Parse(args)

	if *walletName == "" || *hotkey == "" || *subnetID == 0 || *amountStr == "" {
		fatal("Usage: htcli %s --wallet <w> --hotkey <h> --subnet <id> --amount <amt>", usage)
	}

	amount, err := gateway.ParseBalance(*amountStr)
	if err != nil {
		fatal("parse amount: %v", err)
	}

	hotkeyAddr := hotkeyAddress(cfg, *walletName, *hotkey)
	kp := loadColdkey(cfg, *walletName)
	submit(cfg, kp, callName, map[string]interface{}{
		"subnet_id": *subnetID,
		"hotkey":    hotkeyAddr,
		amountParam: amount,
	}, *yes)
}

// ── delegate stake ──────────────────────────────────────────────────────

func cmdDelegate(cfg *config.Config, args []string) {
	if len(args) == 0 {
		fatal("Usage: htcli delegate <add|remove> [flags]")
	}
	switch args[0] {
	case "add":
		cmdDelegateAdd(cfg, args[1:])
	case "remove":
		cmdDelegateRemove(cfg, args[1:])
	default:
		fatal("Unknown delegate command: %s", args[0])
	}
}

func cmdDelegateAdd(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("delegate add", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Coldkey wallet name")
	subnetID := fs.Uint64("subnet", 0, "Subnet ID")
	amountStr := fs.String("amount", "", "Amount (TENSOR)")
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	fs.Parse(args)

	if *walletName == "" || *subnetID == 0 || *amountStr == "" {
		fatal("Usage: htcli delegate add --wallet <w> --subnet <id> --amount <amt>")
	}

	amount, err := gateway.ParseBalance(*amountStr)
	if err != nil {
		fatal("parse amount: %v", err)
	}

	kp := loadColdkey(cfg, *walletName)
	submit(cfg, kp, gateway.CallAddDelegateStake, map[string]interface{}{
		"subnet_id":         *subnetID,
		"stake_to_be_added": amount,
	}, *yes)
}

func cmdDelegateRemove(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("delegate remove", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Coldkey wallet name")
	subnetID := fs.Uint64("subnet", 0, "Subnet ID")
	shares := fs.Uint64("shares", 0, "Delegate shares to withdraw")
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	fs.Parse(args)

	if *walletName == "" || *subnetID == 0 || *shares == 0 {
		fatal("Usage: htcli delegate remove --wallet <w> --subnet <id> --shares <n>")
	}

	kp := loadColdkey(cfg, *walletName)
	submit(cfg, kp, gateway.CallRemoveDelegateStake, map[string]interface{}{
		"subnet_id":            *subnetID,
		"shares_to_be_removed": *shares,
	}, *yes)
}

// ── transfer ────────────────────────────────────────────────────────────

func cmdTransfer(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("transfer", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Coldkey wallet name")
	dest := fs.String("dest", "", "Recipient SS58 address")
	amountStr := fs.String("amount", "", "Amount (TENSOR)")
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	fs.Parse(args)

	if *walletName == "" || *dest == "" || *amountStr == "" {
		fatal("Usage: htcli transfer --wallet <w> --dest <ss58> --amount <amt>")
	}

	if _, _, err := keys.DecodeSS58(*dest); err != nil {
		fatal("invalid destination address: %v", err)
	}
	amount, err := gateway.ParseBalance(*amountStr)
	if err != nil {
		fatal("parse amount: %v", err)
	}

	kp := loadColdkey(cfg, *walletName)
	submit(cfg, kp, gateway.CallTransferBalance, map[string]interface{}{
		"dest":  *dest,
		"value": amount,
	}, *yes)
}
