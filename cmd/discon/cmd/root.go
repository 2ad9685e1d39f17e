package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "discon",
	Short: "Bladed-style DISCON controller driver",
	Long: `Load a wind turbine controller shared library that exports the DISCON
entry point and drive it through the avrSWAP exchange buffer.

Examples:
  discon run --library ./libdiscon.so --params DISCON.IN --steps 100   # Constant operating point
  discon run --library sim --params DISCON.IN --states run.csv         # Replay states into the simulator
  discon params DISCON.IN --key WE_GearboxRatio                        # Inspect a parameter file
  discon layout                                                        # Show the exchange buffer layout`,
	Version: "0.3.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		} else {
			logrus.SetLevel(logrus.WarnLevel)
		}
	},
	SilenceUsage: true,
}

// Execute runs the root command. Exit goes through atexit so pending
// recordings are flushed.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
