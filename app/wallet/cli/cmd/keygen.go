package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/qcbit/ledger/foundation/blockchain/signature"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an RSA-2048 key pair and store it under --keys",
	Run:   keygenRun,
}

func init() {
	rootCmd.AddCommand(keygenCmd)
}

func keygenRun(cmd *cobra.Command, args []string) {
	priv, pub, err := signature.GenerateKeys()
	if err != nil {
		log.Fatal(err)
	}

	if err := os.MkdirAll(keyDir, 0o700); err != nil {
		log.Fatal(err)
	}

	if err := os.WriteFile(privateKeyPath(), []byte(priv), 0o600); err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(publicKeyPath(), []byte(pub), 0o644); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("wrote key pair to %s\n", filepath.Dir(privateKeyPath()))
	fmt.Println(pub)
}
