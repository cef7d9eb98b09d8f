package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var client = http.Client{
	Timeout: 2 * time.Minute,
}

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to mine the next block",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodPost, "/v1/mine")
	},
}

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the full chain held by the node",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodGet, "/v1/chain")
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Ask the node to validate its chain",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodGet, "/v1/validate")
	},
}

func init() {
	rootCmd.AddCommand(mineCmd)
	rootCmd.AddCommand(chainCmd)
	rootCmd.AddCommand(validateCmd)
}

// call performs the request against the node and prints the indented
// response body.
func call(cmd *cobra.Command, method string, path string) error {
	req, err := http.NewRequestWithContext(cmd.Context(), method, url+path, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("node responded %d: %s", resp.StatusCode, body)
	}

	var out any
	if err := json.Unmarshal(body, &out); err != nil {
		return err
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
