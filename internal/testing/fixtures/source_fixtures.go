package fixtures

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Header is the full column set of a source file, in export order.
var Header = []string{
	"Code département", "Département", "Code circonscription", "Circonscription",
	"Numéro de panneau", "Libellé abrégé de liste", "Libellé de la liste",
	"Code nuance de liste", "Nuance de liste", "Sexe", "Nom sur le bulletin de vote",
	"Prénom sur le bulletin de vote", "Nationalité", "Code personnalité", "CC",
	"Ordre", "Tête de liste",
}

// Candidate describes one source row. Unset fields are written as empty cells.
type Candidate struct {
	DepartmentCode string
	DepartmentName string
	DistrictCode   string
	DistrictName   string
	Panel          string
	ShortLabel     string
	Label          string
	NuanceCode     string
	Nuance         string
	Sex            string
	Surname        string
	GivenName      string
	Nationality    string
	Personality    string
	CC             string
	Rank           string
	HeadOfList     string
}

func (c Candidate) fields() []string {
	return []string{
		c.DepartmentCode, c.DepartmentName, c.DistrictCode, c.DistrictName,
		c.Panel, c.ShortLabel, c.Label, c.NuanceCode, c.Nuance, c.Sex, c.Surname,
		c.GivenName, c.Nationality, c.Personality, c.CC, c.Rank, c.HeadOfList,
	}
}

// SourceFixtureBuilder provides a fluent API for building source CSV files
// used in loader, pipeline and CLI tests.
//
// Example usage:
//
//	path := NewSourceFixtureBuilder().
//	    AddCandidate(Candidate{DistrictCode: "01001", Panel: "1", Rank: "1", ...}).
//	    WriteFile(t.TempDir(), "municipales-2026.csv")
type SourceFixtureBuilder struct {
	header []string
	rows   [][]string
	latin1 bool
}

// NewSourceFixtureBuilder creates a builder with the full header.
func NewSourceFixtureBuilder() *SourceFixtureBuilder {
	return &SourceFixtureBuilder{header: Header}
}

// WithHeader replaces the header row.
func (b *SourceFixtureBuilder) WithHeader(columns ...string) *SourceFixtureBuilder {
	b.header = columns
	return b
}

// Latin1 makes WriteFile encode the content as ISO-8859-1.
func (b *SourceFixtureBuilder) Latin1() *SourceFixtureBuilder {
	b.latin1 = true
	return b
}

// AddCandidate appends one row.
func (b *SourceFixtureBuilder) AddCandidate(c Candidate) *SourceFixtureBuilder {
	b.rows = append(b.rows, c.fields())
	return b
}

// AddRaw appends a row as is, whatever its field count.
func (b *SourceFixtureBuilder) AddRaw(fields ...string) *SourceFixtureBuilder {
	b.rows = append(b.rows, fields)
	return b
}

// AddList appends size candidates for one list, rank 1 flagged as head of
// list when markHead is set.
func (b *SourceFixtureBuilder) AddList(districtCode, districtName, panel string, size int, markHead bool) *SourceFixtureBuilder {
	for rank := 1; rank <= size; rank++ {
		head := ""
		if rank == 1 && markHead {
			head = "OUI"
		}
		b.AddCandidate(Candidate{
			DepartmentCode: districtCode[:2],
			DepartmentName: "Département " + districtCode[:2],
			DistrictCode:   districtCode,
			DistrictName:   districtName,
			Panel:          panel,
			Label:          "Liste " + panel + " " + districtName,
			Sex:            []string{"F", "M"}[rank%2],
			Surname:        "NOM" + strconv.Itoa(rank),
			GivenName:      "Prénom" + strconv.Itoa(rank),
			Rank:           strconv.Itoa(rank),
			HeadOfList:     head,
		})
	}
	return b
}

// Build returns the UTF-8 text of the file.
func (b *SourceFixtureBuilder) Build() string {
	var sb strings.Builder
	sb.WriteString(strings.Join(b.header, ";"))
	sb.WriteString("\n")
	for _, row := range b.rows {
		sb.WriteString(strings.Join(row, ";"))
		sb.WriteString("\n")
	}
	return sb.String()
}

// WriteFile writes the file under dir and returns its path.
func (b *SourceFixtureBuilder) WriteFile(dir, name string) (string, error) {
	content := b.Build()
	if b.latin1 {
		encoded, err := charmap.ISO8859_1.NewEncoder().String(content)
		if err != nil {
			return "", err
		}
		content = encoded
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// ThreeRowScenario is the reference end-to-end fixture: a three-line file
// (header plus two rows) with one district, one list, candidates ranked 1
// and 2, and no head-of-list marker.
func ThreeRowScenario() *SourceFixtureBuilder {
	b := NewSourceFixtureBuilder()
	for _, rank := range []string{"1", "2"} {
		b.AddCandidate(Candidate{
			DepartmentCode: "01",
			DepartmentName: "Ain",
			DistrictCode:   "01001",
			DistrictName:   "L'Abergement-Clémenciat",
			Panel:          "1",
			Label:          "Agir ensemble",
			Sex:            "F",
			Surname:        "DUPONT" + rank,
			GivenName:      "Marie",
			Rank:           rank,
		})
	}
	return b
}
