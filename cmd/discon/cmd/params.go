package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDISCON/pkg/params"
)

var paramKeys []string

var paramsCmd = &cobra.Command{
	Use:   "params <DISCON.IN>",
	Short: "Parse and display a controller parameter file",
	Long: `Parse a DISCON.IN style parameter file and print every named entry with
its values and description. The gearbox ratio used to seed the exchange
buffer is reported separately.

Examples:
  discon params DISCON.IN
  discon params DISCON.IN --key WE_GearboxRatio --key PC_GS_angles`,
	Args: cobra.ExactArgs(1),
	RunE: runParams,
}

func init() {
	rootCmd.AddCommand(paramsCmd)

	paramsCmd.Flags().StringSliceVarP(&paramKeys, "key", "k", nil,
		"only show these entries")
}

func runParams(cmd *cobra.Command, args []string) error {
	file, err := params.ReadFile(args[0])
	if err != nil {
		return err
	}

	if len(paramKeys) > 0 {
		for _, key := range paramKeys {
			v, ok := file.Lookup(key)
			if !ok {
				return fmt.Errorf("%s: no entry %q", args[0], key)
			}
			fmt.Printf("%s = %s\n", v.Name, literalText(v))
		}
		return nil
	}

	names := file.Names()
	fmt.Printf("Parameter file: %s\n", file.Path)
	fmt.Printf("Entries: %d\n\n", len(names))

	for _, name := range names {
		v, _ := file.Lookup(name)
		fmt.Printf("  %-20s %-30s", v.Name, literalText(v))
		if verbose && v.Description != "" {
			fmt.Printf(" ! %s", v.Description)
		}
		fmt.Println()
	}

	if ratio, err := file.GearboxRatio(); err == nil {
		fmt.Printf("\nGearbox ratio: %g\n", ratio)
	} else {
		fmt.Printf("\nGearbox ratio: unavailable (%v)\n", err)
	}
	return nil
}

func literalText(v *params.Value) string {
	parts := make([]string, len(v.Literals))
	for i, lit := range v.Literals {
		parts[i] = lit.Text()
	}
	return strings.Join(parts, " ")
}
