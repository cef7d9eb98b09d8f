package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ardanlabs/blocker/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new key pair",
	RunE:  generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func generateRun(cmd *cobra.Command, args []string) error {
	w, err := wallet.New()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(accountPath, 0700); err != nil {
		return err
	}

	if err := w.Save(getPrivateKeyPath()); err != nil {
		return err
	}

	data, err := json.MarshalIndent(w.Info(), "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
