package models

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

type Network int

const (
	Regtest Network = iota
	Testnet
	Mainnet
)

// Networks lists every network in the order the setup wizard offers them
func Networks() []Network {
	return []Network{Regtest, Testnet, Mainnet}
}

func (n Network) String() string {
	switch n {
	case Regtest:
		return "Regtest"
	case Testnet:
		return "Testnet"
	case Mainnet:
		return "Mainnet"
	default:
		return fmt.Sprintf("Network(%d)", int(n))
	}
}

// Params returns the chain parameters used for key and address encoding
func (n Network) Params() *chaincfg.Params {
	switch n {
	case Testnet:
		return &chaincfg.TestNet3Params
	case Mainnet:
		return &chaincfg.MainNetParams
	default:
		return &chaincfg.RegressionNetParams
	}
}

// CoinType is the BIP-44 coin type, 0 for mainnet and 1 for every test chain
func (n Network) CoinType() uint32 {
	if n == Mainnet {
		return 0
	}
	return 1
}

func (n Network) Valid() bool {
	return n >= Regtest && n <= Mainnet
}

func ParseNetwork(s string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "regtest":
		return Regtest, nil
	case "testnet", "testnet3":
		return Testnet, nil
	case "mainnet", "bitcoin":
		return Mainnet, nil
	default:
		return 0, fmt.Errorf("unknown network %q", s)
	}
}
