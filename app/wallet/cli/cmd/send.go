package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/qcbit/ledger/foundation/blockchain/signature"
	"github.com/qcbit/ledger/foundation/blockchain/txn"
)

var (
	nodeURL      string
	sendReceiver string
	sendAmount   float64
	sendNonce    uint64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Sign and submit a transaction to a node",
	Run:   sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&nodeURL, "node", "u", "http://localhost:5000", "Base URL of the node.")
	sendCmd.Flags().StringVarP(&sendReceiver, "to", "t", "", "Recipient.")
	sendCmd.Flags().Float64VarP(&sendAmount, "amount", "a", 0, "Amount.")
	sendCmd.Flags().Uint64VarP(&sendNonce, "nonce", "n", 0, "Nonce; must exceed every nonce this wallet has used before.")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("nonce")
}

func sendRun(cmd *cobra.Command, args []string) {
	priv, err := os.ReadFile(privateKeyPath())
	if err != nil {
		log.Fatal(err)
	}
	pub, err := os.ReadFile(publicKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	tx := txn.New(string(pub), sendReceiver, sendAmount, sendNonce, "", string(pub))

	data, err := tx.CanonicalBytes()
	if err != nil {
		log.Fatal(err)
	}

	sig, err := signature.Sign(string(priv), data)
	if err != nil {
		log.Fatal(err)
	}
	tx.Signature = sig

	payload, err := json.Marshal(tx)
	if err != nil {
		log.Fatal(err)
	}

	resp, err := http.Post(nodeURL+"/add_transaction", "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s: %s\n", resp.Status, body)
}
