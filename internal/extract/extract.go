package extract

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/municipales2026/importer/internal/source"
	"github.com/municipales2026/importer/pkg/importer"
)

type listKey struct {
	district string
	panel    int
}

// Districts returns one district per code, keeping the first row seen for each.
func Districts(records []source.Record) []importer.District {
	seen := make(map[string]struct{})
	var districts []importer.District

	for _, rec := range records {
		if !rec.DistrictCode.Valid {
			continue
		}
		code := rec.DistrictCode.String
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}

		districts = append(districts, importer.District{
			Code:           code,
			Name:           rec.DistrictName,
			DepartmentCode: rec.DepartmentCode,
			DepartmentName: rec.DepartmentName,
		})
	}

	return districts
}

// Lists returns one list per (district code, panel number). Rows without a
// panel number are skipped.
func Lists(records []source.Record) ([]importer.List, error) {
	seen := make(map[listKey]struct{})
	var lists []importer.List

	for _, rec := range records {
		if !rec.DistrictCode.Valid || isBlank(rec.Panel) {
			continue
		}
		panel, err := number(rec, source.ColPanel, rec.Panel)
		if err != nil {
			return nil, err
		}

		key := listKey{district: rec.DistrictCode.String, panel: panel}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		lists = append(lists, importer.List{
			DistrictCode: key.district,
			Panel:        panel,
			ShortLabel:   rec.ShortLabel,
			Label:        rec.Label,
			NuanceCode:   rec.NuanceCode,
			Nuance:       rec.Nuance,
		})
	}

	return lists, nil
}

// Candidates returns one candidate per source row carrying both a panel
// number and a rank. Duplicate keys are not filtered here; the primary key
// rejects them at load time.
func Candidates(records []source.Record) ([]importer.Candidate, error) {
	var candidates []importer.Candidate

	for _, rec := range records {
		if !rec.DistrictCode.Valid || isBlank(rec.Panel) || isBlank(rec.Rank) {
			continue
		}
		panel, err := number(rec, source.ColPanel, rec.Panel)
		if err != nil {
			return nil, err
		}
		rank, err := number(rec, source.ColRank, rec.Rank)
		if err != nil {
			return nil, err
		}

		candidates = append(candidates, importer.Candidate{
			DistrictCode:    rec.DistrictCode.String,
			Panel:           panel,
			Rank:            rank,
			Sex:             rec.Sex,
			Surname:         rec.Surname,
			GivenName:       rec.GivenName,
			Nationality:     rec.Nationality,
			PersonalityCode: rec.PersonalityCode,
			CC:              rec.CC,
			HeadOfList:      rec.HeadOfList.Valid && rec.HeadOfList.String == importer.HeadOfListMarker,
		})
	}

	return candidates, nil
}

// isBlank treats whitespace-only numbers like missing ones, NBSP included.
func isBlank(t pgtype.Text) bool {
	return !t.Valid || strings.TrimSpace(t.String) == ""
}

func number(rec source.Record, column string, value pgtype.Text) (int, error) {
	n, err := ParseNumber(value.String)
	if err != nil {
		return 0, fmt.Errorf("%w: line %d, column %q: %w", importer.ErrInputInvalid, rec.Line, column, err)
	}
	return n, nil
}
