package main

import (
	"flag"
	"fmt"
	"strconv"

	"github.com/shiftlayer-llc/htcli-sub001/config"
	"github.com/shiftlayer-llc/htcli-sub001/internal/gateway"
	"github.com/shiftlayer-llc/htcli-sub001/internal/keys"
)

func cmdBalance(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Wallet name (coldkey address)")
	fs.Parse(args)

	var address string
	switch {
	case *walletName != "":
		ks := newKeystore(cfg)
		wallets, err := ks.List()
		if err != nil {
			fatal("list wallets: %v", err)
		}
		for _, w := range wallets {
			if w.Name == *walletName {
				address = w.Address
			}
		}
		if address == "" {
			fatal("wallet %q not found", *walletName)
		}
	case fs.NArg() == 1:
		address = fs.Arg(0)
		if _, _, err := keys.DecodeSS58(address); err != nil {
			fatal("invalid address: %v", err)
		}
	default:
		fatal("Usage: htcli balance <ss58 | --wallet <name>>")
	}

	gw := newGateway(cfg)
	balance, err := gw.FreeBalance(address)
	if err != nil {
		fatal("fetch balance: %v", err)
	}

	fmt.Printf("Address: %s\n", address)
	fmt.Printf("Free:    %s\n", gateway.FormatBalance(balance))
}

func cmdChain(cfg *config.Config, args []string) {
	if len(args) == 0 || args[0] != "status" {
		fatal("Usage: htcli chain status")
	}

	gw := newGateway(cfg)
	head, err := gw.ChainHead()
	if err != nil {
		fatal("chain head: %v", err)
	}
	epoch, err := gw.Epoch()
	if err != nil {
		fatal("current epoch: %v", err)
	}

	fmt.Printf("Height: %d\n", head.Height)
	fmt.Printf("Tip:    %s\n", head.Hash)
	fmt.Printf("Epoch:  %d\n", epoch)
}

func cmdSubnetList(cfg *config.Config) {
	gw := newGateway(cfg)
	subnets, err := gw.Subnets()
	if err != nil {
		fatal("list subnets: %v", err)
	}

	if len(subnets) == 0 {
		fmt.Println("No subnets registered.")
		return
	}

	for _, s := range subnets {
		state := "registered"
		if s.Activated {
			state = "active"
		}
		fmt.Printf("[%d] %s  nodes=%d  stake=%s  %s\n",
			s.ID, s.Path, s.NodeCount, gateway.FormatBalance(s.TotalStake), state)
	}
}

func cmdSubnetInfo(cfg *config.Config, args []string) {
	if len(args) != 1 {
		fatal("Usage: htcli subnet info <id>")
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fatal("invalid subnet id: %v", err)
	}

	gw := newGateway(cfg)
	info, err := gw.Subnet(id)
	if err != nil {
		fatal("subnet info: %v", err)
	}

	fmt.Printf("Subnet:      %d\n", info.ID)
	fmt.Printf("Path:        %s\n", info.Path)
	fmt.Printf("Memory:      %d MB\n", info.MemoryMB)
	fmt.Printf("Nodes:       %d\n", info.NodeCount)
	fmt.Printf("Total stake: %s\n", gateway.FormatBalance(info.TotalStake))
	fmt.Printf("Activated:   %v\n", info.Activated)
}
