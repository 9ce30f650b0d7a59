package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/municipales2026/importer/internal/logging"
	"github.com/municipales2026/importer/internal/query"
	"github.com/municipales2026/importer/pkg/importer"
	"github.com/spf13/cobra"
)

var searchFlags struct {
	page  int
	limit int
}

var searchCmd = &cobra.Command{
	Use:   "search <words...>",
	Short: "Search lists by district, department, label, nuance or candidate name",
	Long: `Every word must match, accent- and case-insensitively, one of: district name,
department name, list label, short label, nuance, or a candidate of the list.
Queries shorter than 3 characters are rejected.`,
	Example: `  municipales-import search lyon
  municipales-import search dupont rhone --page 2`,
	Args: requireArgs("<words...>", 1, -1),
	RunE: runSearch,
}

var cityCmd = &cobra.Command{
	Use:     "city <district_code>",
	Short:   "Show a district and its lists",
	Example: `  municipales-import city 69123`,
	Args:    requireArgs("<district_code>", 1, 1),
	RunE:    runCity,
}

var listCmd = &cobra.Command{
	Use:     "list <district_code> <panel>",
	Short:   "Show a list and its candidates by rank",
	Example: `  municipales-import list 69123 4`,
	Args:    requireArgs("<district_code> <panel>", 2, 2),
	RunE:    runList,
}

func init() {
	searchCmd.Flags().IntVar(&searchFlags.page, "page", 1, "Result page, starting at 1")
	searchCmd.Flags().IntVar(&searchFlags.limit, "limit", query.DefaultLimit, fmt.Sprintf("Results per page (max %d)", query.MaxLimit))

	rootCmd.AddCommand(searchCmd, cityCmd, listCmd)
}

// requireArgs validates the positional argument count. maxArgs < 0 means unbounded.
func requireArgs(usage string, minArgs, maxArgs int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < minArgs {
			return fmt.Errorf(`%w: missing required argument: %s

Usage: %s`, importer.ErrInvalidQuery, usage, cmd.UseLine())
		}
		if maxArgs >= 0 && len(args) > maxArgs {
			return fmt.Errorf("%w: accepts %d arg(s), received %d", importer.ErrInvalidQuery, maxArgs, len(args))
		}
		return nil
	}
}

// withReadPool connects, runs fn, and closes the pool.
func withReadPool(cmd *cobra.Command, fn func(ctx context.Context, conn importer.DBConnection) error) error {
	logger := logging.NewConsoleLogger(getVerboseFlag(cmd))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := openReadPool(ctx, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	return fn(ctx, pool)
}

func runSearch(cmd *cobra.Command, args []string) error {
	params := query.SearchParams{
		Query: strings.Join(args, " "),
		Page:  searchFlags.page,
		Limit: searchFlags.limit,
	}
	// Reject short queries before connecting.
	if _, err := params.Normalize(); err != nil {
		return err
	}

	return withReadPool(cmd, func(ctx context.Context, conn importer.DBConnection) error {
		page, err := query.Search(ctx, conn, params)
		if err != nil {
			return err
		}
		writeSearchPage(cmd.OutOrStdout(), page)
		return nil
	})
}

func runCity(cmd *cobra.Command, args []string) error {
	return withReadPool(cmd, func(ctx context.Context, conn importer.DBConnection) error {
		city, err := query.City(ctx, conn, args[0])
		if err != nil {
			return err
		}
		if city == nil {
			return fmt.Errorf("%w: no list found for district %s", importer.ErrInvalidQuery, args[0])
		}
		writeCity(cmd.OutOrStdout(), city)
		return nil
	})
}

func runList(cmd *cobra.Command, args []string) error {
	panel, err := strconv.Atoi(args[1])
	if err != nil || panel < 1 {
		return fmt.Errorf("%w: panel must be a positive integer, got %q", importer.ErrInvalidQuery, args[1])
	}

	return withReadPool(cmd, func(ctx context.Context, conn importer.DBConnection) error {
		list, err := query.List(ctx, conn, args[0], panel)
		if err != nil {
			return err
		}
		if list == nil {
			return fmt.Errorf("%w: no list %d in district %s", importer.ErrInvalidQuery, panel, args[0])
		}
		writeList(cmd.OutOrStdout(), list)
		return nil
	})
}
