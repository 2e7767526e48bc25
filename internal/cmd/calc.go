package cmd

import (
	"fmt"

	"github.com/arko-chat/webuicall/internal/calc"
	"github.com/spf13/cobra"
)

var calcLegacy bool

var calcCmd = &cobra.Command{
	Use:   "calc X Y",
	Short: "Run the calculator against a running host",
	Long: `Calc mounts the calculator once the host is ready, enters X and Y
as if typed, and prints the sum the host computed.

By default it calls add2 with a JSON input and an enveloped result.
With --legacy it calls add with two string arguments instead.`,
	Args: cobra.ExactArgs(2),
	RunE: runCalc,
}

func init() {
	addHostFlags(calcCmd)
	calcCmd.Flags().BoolVar(&calcLegacy, "legacy", false, "use the bare-string add function")
	rootCmd.AddCommand(calcCmd)
}

func runCalc(cmd *cobra.Command, args []string) error {
	ctx, cancel, cfg, err := hostContext(cmd)
	if err != nil {
		return err
	}
	defer cancel()

	g, closeFn := connectGate(ctx, cfg)
	defer closeFn()

	app := calc.NewApp(calc.Options{
		Legacy:      calcLegacy,
		CallTimeout: cfg.CallTimeout(),
		Logger:      clientLogger(),
	})
	c, err := app.Run(ctx, g)
	if err != nil {
		return fmt.Errorf("mounting calculator: %w", err)
	}

	c.SetX(ctx, args[0])
	c.SetY(ctx, args[1])
	c.Wait()

	st := c.State()
	if st.Err != nil {
		return st.Err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Sum: %s\n", st.Sum)
	return nil
}
