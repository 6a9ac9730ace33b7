package seed

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/vulpemventures/go-bip39"

	"github.com/kelsos/junction/internal/models"
)

var (
	ErrInvalidWordCount = errors.New("word count must be 12, 18 or 24")
	ErrInvalidNetwork   = errors.New("unknown network")
	ErrInvalidMnemonic  = errors.New("mnemonic is invalid")
)

// Seed is a freshly generated mnemonic together with the master key derived
// from it for one network.
type Seed struct {
	Words     []string
	MasterKey *hdkeychain.ExtendedKey
}

// Generator is the entropy/mnemonic collaborator used by the setup wizard
type Generator interface {
	Generate(network models.Network, words models.WordCount) (Seed, error)
}

// BIP39 generates seeds from the system entropy source
type BIP39 struct {
	// Passphrase is the optional BIP-39 extension word
	Passphrase string
}

func (g BIP39) Generate(network models.Network, words models.WordCount) (Seed, error) {
	if !words.Valid() {
		return Seed{}, ErrInvalidWordCount
	}
	if !network.Valid() {
		return Seed{}, ErrInvalidNetwork
	}

	entropy, err := bip39.NewEntropy(words.EntropyBits())
	if err != nil {
		return Seed{}, fmt.Errorf("failed to read entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return Seed{}, fmt.Errorf("failed to encode mnemonic: %w", err)
	}

	return FromMnemonic(strings.Split(mnemonic, " "), g.Passphrase, network)
}

// FromMnemonic restores the master key for an existing word list
func FromMnemonic(words []string, passphrase string, network models.Network) (Seed, error) {
	mnemonic := strings.Join(words, " ")
	if !bip39.IsMnemonicValid(mnemonic) {
		return Seed{}, ErrInvalidMnemonic
	}

	master, err := hdkeychain.NewMaster(bip39.NewSeed(mnemonic, passphrase), network.Params())
	if err != nil {
		return Seed{}, fmt.Errorf("failed to derive master key: %w", err)
	}

	return Seed{Words: words, MasterKey: master}, nil
}
