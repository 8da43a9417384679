package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "invisistrings",
	Short: "Air guitar engine for the InvisiStrings gloves",
	Long: `Turns touch and motion datagrams from the InvisiStrings ESP
sensors into chord plays.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
