package cmd

import (
	"fmt"

	"clothing-importer/core/utils"
	"clothing-importer/feature/clothing/naming"

	"github.com/spf13/cobra"
)

// hashCmd groups the name derivation helpers.
var hashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Compute archive names and string keys",
}

var hashArchiveCmd = &cobra.Command{
	Use:   "archive <item-name> <mesh-filename> <variant-id>",
	Short: "Print the male and female archive names of a mesh variant",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		variant, err := utils.ParseUint32(args[2])
		if err != nil {
			return fmt.Errorf("invalid variant id %q: %w", args[2], err)
		}
		male, female := naming.ArchiveNames(args[0], args[1], variant)
		fmt.Fprintf(cmd.OutOrStdout(), "male:   %s\nfemale: %s\n", male, female)
		return nil
	},
}

var hashKeyCmd = &cobra.Command{
	Use:   "key <text>",
	Short: "Print the string table key of a display name",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "0x%08X\n", naming.StringKey(args[0]))
	},
}

func init() {
	hashCmd.AddCommand(hashArchiveCmd, hashKeyCmd)
	RootCmd.AddCommand(hashCmd)
}
