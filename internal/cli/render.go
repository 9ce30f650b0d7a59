package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/municipales2026/importer/internal/query"
	"github.com/olekukonko/tablewriter"
)

const missing = "—"

func orMissing(t pgtype.Text) string {
	if !t.Valid || t.String == "" {
		return missing
	}
	return t.String
}

func headName(h *query.Head) string {
	if h == nil {
		return missing
	}
	return h.GivenName + " " + h.Surname
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func writeSearchPage(w io.Writer, page *query.SearchPage) {
	if page.Total == 0 {
		fmt.Fprintln(w, "No list matches.")
		return
	}

	table := newTable(w, []string{"Dept", "District", "Panel", "List", "Nuance", "Head of list", "Matched candidate"})
	for _, r := range page.Results {
		matched := ""
		if r.Matched != nil {
			matched = fmt.Sprintf("%s %s (#%d)", r.Matched.GivenName, r.Matched.Surname, r.Matched.Rank)
		}
		table.Append([]string{
			r.District.DepartmentCode,
			r.District.Name + " (" + r.District.Code + ")",
			strconv.Itoa(r.List.Panel),
			r.List.Label,
			orMissing(r.List.Nuance),
			headName(r.List.Head),
			matched,
		})
	}
	table.Render()

	fmt.Fprintf(w, "Page %d, %d of %d result(s)", page.Page, len(page.Results), page.Total)
	if page.HasMore {
		fmt.Fprintf(w, ", more with --page %d", page.Page+1)
	}
	fmt.Fprintln(w)
}

func writeCity(w io.Writer, city *query.CityDetail) {
	d := city.District
	fmt.Fprintf(w, "%s (%s), %s (%s)\n", d.Name, d.Code, d.DepartmentName, d.DepartmentCode)

	table := newTable(w, []string{"Panel", "List", "Short label", "Nuance", "Head of list"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})
	for _, l := range city.Lists {
		table.Append([]string{
			strconv.Itoa(l.Panel),
			l.Label,
			orMissing(l.ShortLabel),
			orMissing(l.Nuance),
			headName(l.Head),
		})
	}
	table.Render()
}

func writeList(w io.Writer, list *query.ListDetail) {
	d := list.District
	fmt.Fprintf(w, "%s (%s), %s: panel %d, %s\n", d.Name, d.Code, d.DepartmentName, list.List.Panel, list.List.Label)
	fmt.Fprintf(w, "Nuance: %s  Head of list: %s\n", orMissing(list.List.Nuance), headName(list.List.Head))

	table := newTable(w, []string{"Rank", "Sex", "Surname", "Given name", "Nationality", "Head"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})
	for _, c := range list.Candidates {
		head := ""
		if c.HeadOfList {
			head = "yes"
		}
		table.Append([]string{strconv.Itoa(c.Rank), c.Sex, c.Surname, c.GivenName, orMissing(c.Nationality), head})
	}
	table.Render()
}
