package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/municipales2026/importer/pkg/importer"
)

const queryCity = `
	SELECT
		ci.circonscription, ci.code_departement, ci.departement,
		l.numero_panneau, l.libelle_abrege, l.libelle_liste, l.code_nuance, l.nuance,
		tl.sexe, tl.nom, tl.prenom, tl.nationalite
	FROM listes l
	JOIN circonscriptions ci ON ci.code_circonscription = l.code_circonscription
	LEFT JOIN LATERAL (
		SELECT h.sexe, h.nom, h.prenom, h.nationalite
		FROM candidats h
		WHERE h.code_circonscription = l.code_circonscription
		  AND h.numero_panneau = l.numero_panneau
		  AND h.tete_de_liste
		ORDER BY h.ordre
		LIMIT 1
	) tl ON TRUE
	WHERE l.code_circonscription = $1
	ORDER BY l.numero_panneau
`

const queryList = `
	SELECT
		ci.circonscription, ci.code_departement, ci.departement,
		l.libelle_abrege, l.libelle_liste, l.code_nuance, l.nuance,
		c.ordre, c.sexe, c.nom, c.prenom, c.nationalite, c.code_personnalite, c.cc, c.tete_de_liste
	FROM listes l
	JOIN circonscriptions ci ON ci.code_circonscription = l.code_circonscription
	JOIN candidats c ON c.code_circonscription = l.code_circonscription
		AND c.numero_panneau = l.numero_panneau
	WHERE l.code_circonscription = $1 AND l.numero_panneau = $2
	ORDER BY c.ordre
`

// City returns the district with all its lists, or nil when no list exists
// for code.
func City(ctx context.Context, conn importer.DBConnection, code string) (*CityDetail, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: district code is required", importer.ErrInvalidQuery)
	}

	rows, err := conn.Query(ctx, queryCity, code)
	if err != nil {
		return nil, fmt.Errorf("city %s: %w", code, err)
	}
	defer rows.Close()

	var detail *CityDetail
	for rows.Next() {
		var d District
		var l ListSummary
		var head headColumns
		err := rows.Scan(
			&d.Name, &d.DepartmentCode, &d.DepartmentName,
			&l.Panel, &l.ShortLabel, &l.Label, &l.NuanceCode, &l.Nuance,
			&head.sex, &head.surname, &head.givenName, &head.nationality,
		)
		if err != nil {
			return nil, fmt.Errorf("city %s: %w", code, err)
		}
		if detail == nil {
			d.Code = code
			detail = &CityDetail{District: d}
		}
		l.DistrictCode = code
		l.Head = head.toHead()
		detail.Lists = append(detail.Lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("city %s: %w", code, err)
	}

	return detail, nil
}

// List returns the list with all its candidates, or nil when it does not
// exist or has no candidate.
func List(ctx context.Context, conn importer.DBConnection, code string, panel int) (*ListDetail, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: district code is required", importer.ErrInvalidQuery)
	}
	if panel < 1 {
		return nil, fmt.Errorf("%w: panel number must be positive, got %d", importer.ErrInvalidQuery, panel)
	}

	rows, err := conn.Query(ctx, queryList, code, panel)
	if err != nil {
		return nil, fmt.Errorf("list %s/%d: %w", code, panel, err)
	}
	defer rows.Close()

	var detail *ListDetail
	for rows.Next() {
		var d District
		var l ListSummary
		var c Candidate
		err := rows.Scan(
			&d.Name, &d.DepartmentCode, &d.DepartmentName,
			&l.ShortLabel, &l.Label, &l.NuanceCode, &l.Nuance,
			&c.Rank, &c.Sex, &c.Surname, &c.GivenName, &c.Nationality, &c.PersonalityCode, &c.CC, &c.HeadOfList,
		)
		if err != nil {
			return nil, fmt.Errorf("list %s/%d: %w", code, panel, err)
		}
		if detail == nil {
			d.Code = code
			l.DistrictCode = code
			l.Panel = panel
			detail = &ListDetail{District: d, List: l}
		}
		if c.HeadOfList && detail.List.Head == nil {
			detail.List.Head = &Head{Sex: c.Sex, Surname: c.Surname, GivenName: c.GivenName, Nationality: c.Nationality}
		}
		detail.Candidates = append(detail.Candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s/%d: %w", code, panel, err)
	}

	return detail, nil
}
