package wallet

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/kelsos/junction/internal/models"
)

// DemoAccounts builds n deterministic accounts for the offline backend. When
// n > 1 the last one is watch-only, which is useful to see a send stop at the
// signing stage.
func DemoAccounts(n int, network models.Network) ([]models.Account, error) {
	accounts := make([]models.Account, 0, n)
	for i := 0; i < n; i++ {
		seed := chainhash.HashB([]byte(fmt.Sprintf("junction demo account %d", i)))
		master, err := hdkeychain.NewMaster(seed, network.Params())
		if err != nil {
			return nil, fmt.Errorf("failed to create demo account %d: %w", i, err)
		}
		name := fmt.Sprintf("Account #%d", i)
		key := master.String()

		if n > 1 && i == n-1 {
			acct, err := accountKey(models.Account{Key: key, Network: network})
			if err != nil {
				return nil, err
			}
			pub, err := acct.Neuter()
			if err != nil {
				return nil, fmt.Errorf("failed to create watch-only account: %w", err)
			}
			name = fmt.Sprintf("Account #%d (watch-only)", i)
			key = pub.String()
		}

		account := models.NewAccount(name, network, key)
		account.ID = fmt.Sprintf("demo-%s-%d", network, i)
		accounts = append(accounts, account)
	}
	return accounts, nil
}
