package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/convergehq/statecheck/internal/output"
)

var modulesCmd = &cobra.Command{
	Use:   "modules [module]",
	Short: "List callable agent modules and functions",
	Long: `Without arguments, lists every registered agent module. With a
module name, lists that module's callable functions.

Examples:
  statecheck modules
  statecheck modules test`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		local, err := newAgent(Logger)
		if err != nil {
			return err
		}

		renderer := output.NewRenderer()

		if len(args) == 0 {
			modules, err := local.ListModules(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing modules: %w", err)
			}

			rows := make([][]string, 0, len(modules))
			for _, module := range modules {
				functions, err := local.ListFunctions(cmd.Context(), module)
				if err != nil {
					return fmt.Errorf("listing functions: %w", err)
				}

				rows = append(rows, []string{module, fmt.Sprintf("%d", len(functions))})
			}

			renderer.RenderToWriter(os.Stdout, []string{"Module", "Functions"}, rows)

			return nil
		}

		functions, err := local.ListFunctions(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(functions))
		for _, fun := range functions {
			rows = append(rows, []string{fun})
		}

		renderer.RenderToWriter(os.Stdout, []string{"Function"}, rows, output.WithBorder(false))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(modulesCmd)
}
