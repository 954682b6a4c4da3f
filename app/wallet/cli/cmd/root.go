// Package cmd implements the wallet CLI: key generation, local signing,
// and transaction submission against a running node.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wallet",
	Short: "A client wallet for the ledger node",
}

// Execute runs the wallet CLI; it is the program's single entrypoint.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

var keyDir string

func init() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	rootCmd.PersistentFlags().StringVar(&keyDir, "keys", filepath.Join(home, ".ledger", "keys"), "Directory holding this wallet's key pair.")
}

func privateKeyPath() string {
	return filepath.Join(keyDir, "wallet.private.pem")
}

func publicKeyPath() string {
	return filepath.Join(keyDir, "wallet.public.pem")
}
