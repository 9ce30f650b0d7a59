package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "municipales-import",
	Short: "Reload the municipales 2026 candidate lists into PostgreSQL",
	Long: `municipales-import reads the official municipales 2026 candidate file
(data/municipales-2026*.csv, UTF-8 or Latin-1), then drops and recreates the
circonscriptions, listes and candidats tables and bulk loads them.

The reload is destructive: existing tables are replaced. The source file is
fully parsed before anything is dropped, so a malformed file leaves the
database untouched.

Running without a subcommand performs the import.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments, flags or search query)
  3  - Panic or unexpected system error
  10 - Missing DATABASE_URL or invalid configuration
  11 - Database connection failed
  12 - Source file missing, empty or malformed
  13 - Schema reset failed
  14 - Bulk load failed
  15 - Index creation failed`,
	Args:         cobra.NoArgs,
	RunE:         runImport,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	addImportFlags(rootCmd)
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
