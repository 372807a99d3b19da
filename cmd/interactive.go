package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/convergehq/statecheck/internal/check"
	"github.com/convergehq/statecheck/internal/output"
	"github.com/convergehq/statecheck/pkg/interactive"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch interactive mode",
	Long:  `Launches the interactive terminal menu for statecheck.`,
	Run: func(_ *cobra.Command, _ []string) {
		runInteractive()
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive() {
	fmt.Println("Statecheck - Interactive Mode")
	fmt.Println("=============================")
	fmt.Println()

	for {
		options := []interactive.MenuOption{
			{
				Name:        "Run Unit",
				Description: "Run declared tests for one active unit",
				Action:      interactiveRunUnit,
			},
			{
				Name:        "Run All",
				Description: "Run tests for every active unit from the top file",
				Action:      interactiveRunAll,
			},
			{
				Name:        "Refresh Cache",
				Description: "Sync the agent file cache from the file roots",
				Action:      interactiveRefresh,
			},
			{
				Name:        "Show Config",
				Description: "Display current environment configuration",
				Action:      interactiveShowConfig,
			},
		}

		if err := interactive.ShowMainMenu(options); err != nil {
			if errors.Is(err, interactive.ErrExit) {
				fmt.Println("Goodbye!")
				return
			}
			log.Fatal(err)
		}

		fmt.Println()
	}
}

func interactiveRunUnit() error {
	ctx := context.Background()

	harness, local, err := newHarness(Logger, 1)
	if err != nil {
		fmt.Printf("\n❌ Error: %v\n", err)
		interactive.PauseForEnter()
		return nil
	}

	units, err := local.TopUnits(ctx)
	if err != nil {
		fmt.Printf("\n❌ Error: %v\n", err)
		interactive.PauseForEnter()
		return nil
	}

	names := check.NormalizeUnits(units)
	if len(names) == 0 {
		fmt.Println("\nNo active units found in the top file.")
		interactive.PauseForEnter()
		return nil
	}

	unit, err := interactive.SelectFromList("Which unit?", names)
	if err != nil {
		return nil
	}

	report := harness.RunUnit(ctx, unit)

	formatter := output.NewFormatter(os.Stdout, false)
	if err := formatter.PrintUnitReport(report); err != nil {
		fmt.Printf("\n❌ Error: %v\n", err)
	}

	interactive.PauseForEnter()
	return nil
}

func interactiveRunAll() error {
	ctx := context.Background()

	harness, _, err := newHarness(Logger, 1)
	if err != nil {
		fmt.Printf("\n❌ Error: %v\n", err)
		interactive.PauseForEnter()
		return nil
	}

	report, err := harness.RunAll(ctx)
	if err != nil {
		fmt.Printf("\n❌ Error: %v\n", err)
		interactive.PauseForEnter()
		return nil
	}

	formatter := output.NewFormatter(os.Stdout, false)
	if err := formatter.PrintReport(report); err != nil {
		fmt.Printf("\n❌ Error: %v\n", err)
	}

	interactive.PauseForEnter()
	return nil
}

func interactiveRefresh() error {
	if err := refreshCache(context.Background()); err != nil {
		fmt.Printf("\n❌ Error: %v\n", err)
	}

	interactive.PauseForEnter()
	return nil
}

func interactiveShowConfig() error {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Printf("\n❌ Error: %v\n", err)
	} else {
		fmt.Println(cfg.String())
	}

	interactive.PauseForEnter()
	return nil
}
