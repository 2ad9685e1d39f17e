package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceDISCON/pkg/avrswap"
)

var layoutDirection string

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Print the avrSWAP slot table",
	Long: `Print every exchange buffer slot the driver reads or writes, with its
unit and direction. Indexes are zero-based.

Examples:
  discon layout
  discon layout --dir input`,
	Args: cobra.NoArgs,
	RunE: runLayout,
}

func init() {
	rootCmd.AddCommand(layoutCmd)

	layoutCmd.Flags().StringVarP(&layoutDirection, "dir", "d", "",
		"only show slots with this direction (marker, init, input, output, bookkeeping)")
}

func runLayout(cmd *cobra.Command, args []string) error {
	slots := avrswap.Slots
	if layoutDirection != "" {
		dir, err := parseDirection(layoutDirection)
		if err != nil {
			return err
		}
		slots = avrswap.SlotsByDirection(dir)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tNAME\tUNIT\tDIR\tNOTES")
	for _, s := range slots {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", s.Index, s.Name, s.Unit, s.Dir, s.Notes)
	}
	return w.Flush()
}

func parseDirection(name string) (avrswap.Direction, error) {
	for _, dir := range []avrswap.Direction{
		avrswap.DirMarker, avrswap.DirInit, avrswap.DirInput,
		avrswap.DirOutput, avrswap.DirBookkeeping,
	} {
		if dir.String() == name {
			return dir, nil
		}
	}
	return 0, fmt.Errorf("unknown slot direction %q", name)
}
