package services

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/municipales2026/importer/pkg/importer"
	"github.com/olekukonko/tablewriter"
)

// WriteSummary renders the outcome of a successful run as a table.
func WriteSummary(w io.Writer, summary *importer.Summary) {
	fmt.Fprintf(w, "Import finished in %.1fs (%s, %s, %d source rows)\n",
		summary.Elapsed.Seconds(), filepath.Base(summary.SourceFile), summary.Encoding, summary.SourceRows)
	if summary.Checksum != "" {
		fmt.Fprintf(w, "Source sha256: %s\n", summary.Checksum)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Table", "Rows"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	table.Append([]string{importer.TableDistricts, fmt.Sprintf("%d", summary.Districts)})
	table.Append([]string{importer.TableLists, fmt.Sprintf("%d", summary.Lists)})
	table.Append([]string{importer.TableCandidates, fmt.Sprintf("%d", summary.Candidates)})
	table.SetFooter([]string{"Heads of list repaired", fmt.Sprintf("%d", summary.Repaired)})

	table.Render()
}
