package cmd

import (
	"fmt"

	bridgews "github.com/arko-chat/webuicall/internal/ws/bridge"
	"github.com/spf13/cobra"
)

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List the functions a running host has bound",
	Args:  cobra.NoArgs,
	RunE:  runFunctions,
}

func init() {
	addHostFlags(functionsCmd)
	rootCmd.AddCommand(functionsCmd)
}

func runFunctions(cmd *cobra.Command, args []string) error {
	ctx, cancel, _, err := hostContext(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	info, err := bridgews.FetchToken(ctx, hostURL)
	if err != nil {
		return err
	}
	for _, name := range info.Functions {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
