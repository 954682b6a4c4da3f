// Command wallet is the client-side companion to the node: it generates
// key pairs, signs transactions offline, and submits them over HTTP.
package main

import "github.com/qcbit/ledger/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
