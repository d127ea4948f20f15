package main

import (
	"flag"
	"fmt"

	"github.com/shiftlayer-llc/htcli-sub001/config"
)

func cmdWallet(cfg *config.Config, args []string) {
	if len(args) == 0 {
		fatal("Usage: htcli wallet <new-coldkey|regen-coldkey|new-hotkey|list|remove> [flags]")
	}

	switch args[0] {
	case "new-coldkey":
		cmdWalletNewColdkey(cfg, args[1:])
	case "regen-coldkey":
		cmdWalletRegenColdkey(cfg, args[1:])
	case "new-hotkey":
		cmdWalletNewHotkey(cfg, args[1:])
	case "list":
		cmdWalletList(cfg)
	case "remove":
		cmdWalletRemove(cfg, args[1:])
	default:
		fatal("Unknown wallet command: %s", args[0])
	}
}

func cmdWalletNewColdkey(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("wallet new-coldkey", flag.ExitOnError)
	name := fs.String("name", "", "Wallet name")
	fs.Parse(args)

	if *name == "" {
		fatal("Usage: htcli wallet new-coldkey --name <name>")
	}

	password, err := readNewPassword()
	if err != nil {
		fatal("read password: %v", err)
	}

	ks := newKeystore(cfg)
	path, kp, err := ks.CreateColdkey(*name, password, "")
	if err != nil {
		fatal("create coldkey: %v", err)
	}
	defer kp.Zero()

	fmt.Println("Mnemonic (write this down, it is the only backup):")
	fmt.Printf("  %s\n\n", kp.Mnemonic)
	fmt.Printf("Coldkey created: %s\n", path)
	fmt.Printf("Address: %s\n", kp.Address)
}

func cmdWalletRegenColdkey(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("wallet regen-coldkey", flag.ExitOnError)
	name := fs.String("name", "", "Wallet name")
	mnemonic := fs.String("mnemonic", "", "BIP-39 backup phrase")
	fs.Parse(args)

	if *name == "" || *mnemonic == "" {
		fatal("Usage: htcli wallet regen-coldkey --name <name> --mnemonic \"word1 word2 ...\"")
	}

	password, err := readNewPassword()
	if err != nil {
		fatal("read password: %v", err)
	}

	ks := newKeystore(cfg)
	path, kp, err := ks.CreateColdkey(*name, password, *mnemonic)
	if err != nil {
		fatal("regen coldkey: %v", err)
	}
	defer kp.Zero()

	fmt.Printf("Coldkey regenerated: %s\n", path)
	fmt.Printf("Address: %s\n", kp.Address)
}

func cmdWalletNewHotkey(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("wallet new-hotkey", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Coldkey wallet name")
	name := fs.String("name", "", "Hotkey name")
	fs.Parse(args)

	if *walletName == "" || *name == "" {
		fatal("Usage: htcli wallet new-hotkey --wallet <coldkey> --name <hotkey>")
	}

	password, err := readNewPassword()
	if err != nil {
		fatal("read password: %v", err)
	}

	ks := newKeystore(cfg)
	path, kp, err := ks.CreateHotkey(*walletName, *name, password, "")
	if err != nil {
		fatal("create hotkey: %v", err)
	}
	defer kp.Zero()

	fmt.Println("Mnemonic (write this down, it is the only backup):")
	fmt.Printf("  %s\n\n", kp.Mnemonic)
	fmt.Printf("Hotkey created: %s\n", path)
	fmt.Printf("Address: %s\n", kp.Address)
}

func cmdWalletList(cfg *config.Config) {
	ks := newKeystore(cfg)
	wallets, err := ks.List()
	if err != nil {
		fatal("list wallets: %v", err)
	}

	if len(wallets) == 0 {
		fmt.Println("No wallets found.")
		return
	}

	for _, w := range wallets {
		fmt.Printf("%s  %s\n", w.Name, w.Address)
		for _, h := range w.Hotkeys {
			fmt.Printf("  %s  %s\n", h.Name, h.Address)
		}
	}
}

func cmdWalletRemove(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("wallet remove", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Coldkey wallet name")
	hotkey := fs.String("hotkey", "", "Hotkey name (omit to remove the whole wallet)")
	fs.Parse(args)

	if *walletName == "" {
		fatal("Usage: htcli wallet remove --wallet <name> [--hotkey <name>]")
	}

	ks := newKeystore(cfg)
	if *hotkey != "" {
		if err := ks.RemoveHotkey(*walletName, *hotkey); err != nil {
			fatal("remove hotkey: %v", err)
		}
		fmt.Printf("Hotkey removed: %s/%s\n", *walletName, *hotkey)
		return
	}

	ok, err := stdinConfirmer{}.Confirm(fmt.Sprintf("Remove wallet %q and all of its hotkeys?", *walletName))
	if err != nil {
		fatal("read confirmation: %v", err)
	}
	if !ok {
		fmt.Println("Aborted.")
		return
	}

	if err := ks.RemoveColdkey(*walletName); err != nil {
		fatal("remove wallet: %v", err)
	}
	fmt.Printf("Wallet removed: %s\n", *walletName)
}
