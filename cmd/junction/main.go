package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/spf13/cobra"

	"github.com/kelsos/junction/internal/account"
	"github.com/kelsos/junction/internal/app"
	"github.com/kelsos/junction/internal/async"
	"github.com/kelsos/junction/internal/config"
	"github.com/kelsos/junction/internal/effect"
	"github.com/kelsos/junction/internal/logger"
	"github.com/kelsos/junction/internal/models"
	"github.com/kelsos/junction/internal/seed"
	"github.com/kelsos/junction/internal/tui"
	"github.com/kelsos/junction/internal/utils"
	"github.com/kelsos/junction/internal/wallet"
)

// applyFlags lets explicitly set flags override the environment
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("network") {
		value, _ := flags.GetString("network")
		network, err := models.ParseNetwork(value)
		if err != nil {
			return err
		}
		cfg.Network = network
	}
	if flags.Changed("max-addresses") {
		cfg.MaxAddresses, _ = flags.GetUint32("max-addresses")
	}
	if flags.Changed("effect-timeout") {
		ms, _ := flags.GetInt("effect-timeout")
		cfg.EffectTimeout = time.Duration(ms) * time.Millisecond
	}
	if flags.Changed("latency") {
		ms, _ := flags.GetInt("latency")
		cfg.Latency = time.Duration(ms) * time.Millisecond
	}
	if flags.Changed("demo-accounts") {
		cfg.DemoAccounts, _ = flags.GetInt("demo-accounts")
	}
	if flags.Changed("demo-balance") {
		sats, _ := flags.GetInt64("demo-balance")
		cfg.DemoBalance = btcutil.Amount(sats)
	}
	if flags.Changed("log-dir") {
		cfg.LogDir, _ = flags.GetString("log-dir")
	}
	return cfg.Validate()
}

func runWallet(cfg *config.Config) error {
	logPath, err := logger.InitFileOnly(cfg.LogDir)
	if err != nil {
		return err
	}
	defer logger.Close()

	accounts, err := wallet.DemoAccounts(cfg.DemoAccounts, cfg.Network)
	if err != nil {
		return err
	}

	svc := wallet.NewSimulated(wallet.SimulatedOptions{
		Latency:         cfg.Latency,
		StartingBalance: cfg.DemoBalance,
	})
	seeds := seed.BIP39{}
	scheduler := async.NewScheduler(svc,
		async.WithSeedGenerator(seeds),
		async.WithTimeout(cfg.EffectTimeout),
	)

	router, initial := app.New(accounts, app.Options{
		Seeds: seeds,
		Page:  account.Options{MaxAddresses: cfg.MaxAddresses},
	})

	logger.Info("Starting wallet on %s with %d accounts, logging to %s", cfg.Network, len(accounts), logPath)

	program := tui.NewProgram(router, initial, scheduler)
	if err := program.Start(); err != nil {
		return err
	}
	return program.Run()
}

func generateSeed(network models.Network, words models.WordCount, passphrase string) error {
	scheduler := async.NewScheduler(
		wallet.NewSimulated(wallet.SimulatedOptions{}),
		async.WithSeedGenerator(seed.BIP39{Passphrase: passphrase}),
	)
	defer scheduler.Stop()

	result, ok := scheduler.Await(effect.GenerateSeed{Network: network, WordCount: words}).(effect.SeedGenerated)
	if !ok {
		return fmt.Errorf("unexpected seed generation result")
	}
	if result.Err != nil {
		return fmt.Errorf("failed to generate seed: %w", result.Err)
	}

	generated := models.NewAccount("generated", network, result.Seed.MasterKey.String())
	fmt.Println(strings.Join(result.Seed.Words, " "))
	fmt.Println(generated.Descriptor())
	return nil
}

func main() {
	utils.LoadEnvironment()

	cfg := config.NewConfig()
	cfg.LoadFromEnvironment()

	rootCmd := &cobra.Command{
		Use:   "junction",
		Short: "A terminal bitcoin wallet",
		Long:  `junction is a terminal wallet with multiple accounts, a setup wizard and a send pipeline.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyFlags(cmd, cfg); err != nil {
				return err
			}
			return runWallet(cfg)
		},
	}

	rootCmd.Flags().StringP("network", "n", cfg.Network.String(), "Network for the demo accounts (regtest, testnet, mainnet)")
	rootCmd.Flags().Uint32P("max-addresses", "a", cfg.MaxAddresses, "Address gap used when syncing")
	rootCmd.Flags().IntP("effect-timeout", "t", int(cfg.EffectTimeout/time.Millisecond), "Timeout for each wallet operation in milliseconds, 0 disables it")
	rootCmd.Flags().IntP("latency", "l", int(cfg.Latency/time.Millisecond), "Simulated backend latency in milliseconds")
	rootCmd.Flags().IntP("demo-accounts", "d", cfg.DemoAccounts, "Number of demo accounts to load")
	rootCmd.Flags().Int64P("demo-balance", "b", int64(cfg.DemoBalance), "Starting balance of each demo account in sats")
	rootCmd.Flags().StringP("log-dir", "", cfg.LogDir, "Directory for log files")

	var (
		words      string
		network    string
		passphrase string
	)
	genseedCmd := &cobra.Command{
		Use:   "genseed",
		Short: "Generate a BIP-39 mnemonic and print its descriptor",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Init()

			count, err := models.ParseWordCount(words)
			if err != nil {
				return err
			}
			net, err := models.ParseNetwork(network)
			if err != nil {
				return err
			}
			return generateSeed(net, count, passphrase)
		},
	}
	genseedCmd.Flags().StringVarP(&words, "words", "w", "12", "Number of words (12, 18 or 24)")
	genseedCmd.Flags().StringVarP(&network, "network", "n", cfg.Network.String(), "Network for the master key")
	genseedCmd.Flags().StringVarP(&passphrase, "passphrase", "p", "", "Optional BIP-39 passphrase")

	rootCmd.AddCommand(genseedCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("Failed to execute command: %v", err)
		os.Exit(1)
	}
}
