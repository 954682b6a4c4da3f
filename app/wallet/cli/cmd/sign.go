package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/qcbit/ledger/foundation/blockchain/signature"
	"github.com/qcbit/ledger/foundation/blockchain/txn"
)

var (
	signReceiver string
	signAmount   float64
	signNonce    uint64
)

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Sign a transaction locally and print its hex signature",
	Run:   signRun,
}

func init() {
	rootCmd.AddCommand(signCmd)
	signCmd.Flags().StringVarP(&signReceiver, "to", "t", "", "Recipient.")
	signCmd.Flags().Float64VarP(&signAmount, "amount", "a", 0, "Amount.")
	signCmd.Flags().Uint64VarP(&signNonce, "nonce", "n", 0, "Nonce; must exceed every nonce this wallet has used before.")
	signCmd.MarkFlagRequired("to")
	signCmd.MarkFlagRequired("nonce")
}

func signRun(cmd *cobra.Command, args []string) {
	priv, err := os.ReadFile(privateKeyPath())
	if err != nil {
		log.Fatal(err)
	}
	pub, err := os.ReadFile(publicKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	tx := txn.New(string(pub), signReceiver, signAmount, signNonce, "", string(pub))

	data, err := tx.CanonicalBytes()
	if err != nil {
		log.Fatal(err)
	}

	sig, err := signature.Sign(string(priv), data)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(sig)
}
