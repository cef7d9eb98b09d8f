package cmd

import (
	"fmt"
	"sort"

	"github.com/ardanlabs/blocker/foundation/nameservice"
	"github.com/spf13/cobra"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Print the name and address of every key in the account path",
	RunE:  accountsRun,
}

func init() {
	rootCmd.AddCommand(accountsCmd)
}

func accountsRun(cmd *cobra.Command, args []string) error {
	ns, err := nameservice.New(accountPath)
	if err != nil {
		return err
	}

	names := ns.Copy()
	addresses := make([]string, 0, len(names))
	for address := range names {
		addresses = append(addresses, address)
	}
	sort.Slice(addresses, func(i, j int) bool { return names[addresses[i]] < names[addresses[j]] })

	for _, address := range addresses {
		fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", names[address], address)
	}

	return nil
}
