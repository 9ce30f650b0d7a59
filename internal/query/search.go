package query

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/municipales2026/importer/pkg/importer"
)

const (
	MinQueryLength = 3
	DefaultLimit   = 20
	MaxLimit       = 50
)

// SearchParams selects one page of search results.
type SearchParams struct {
	Query string
	Page  int
	Limit int
}

// Normalize trims the query, applies defaults and caps, and rejects queries
// shorter than MinQueryLength characters.
func (p SearchParams) Normalize() (SearchParams, error) {
	p.Query = strings.TrimSpace(p.Query)
	if utf8.RuneCountInString(p.Query) < MinQueryLength {
		return p, fmt.Errorf("%w: search needs at least %d characters", importer.ErrInvalidQuery, MinQueryLength)
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p, nil
}

// Words splits the query on whitespace. Every word must match somewhere.
func (p SearchParams) Words() []string {
	return strings.Fields(p.Query)
}

// searchFilter returns the WHERE clause matching every word, and its arguments.
// Each word may match the district, department, list labels, nuance, or any
// candidate of the list.
func searchFilter(words []string) (string, []any) {
	conds := make([]string, len(words))
	args := make([]any, len(words))
	for i, w := range words {
		args[i] = "%" + w + "%"
		p := fmt.Sprintf("unaccent($%d)", i+1)
		conds[i] = fmt.Sprintf(`(
			unaccent(ci.circonscription) ILIKE %[1]s
			OR unaccent(ci.departement) ILIKE %[1]s
			OR unaccent(l.libelle_liste) ILIKE %[1]s
			OR unaccent(COALESCE(l.libelle_abrege, '')) ILIKE %[1]s
			OR unaccent(COALESCE(l.nuance, '')) ILIKE %[1]s
			OR EXISTS (
				SELECT 1 FROM candidats cw
				WHERE cw.code_circonscription = l.code_circonscription
				  AND cw.numero_panneau = l.numero_panneau
				  AND unaccent(cw.nom || ' ' || cw.prenom) ILIKE %[1]s
			)
		)`, p)
	}
	return strings.Join(conds, " AND "), args
}

// matchedCandidateFilter matches a candidate name against any word. Word
// arguments are shared with searchFilter.
func matchedCandidateFilter(words []string) string {
	conds := make([]string, len(words))
	for i := range words {
		conds[i] = fmt.Sprintf("unaccent(cm.nom || ' ' || cm.prenom) ILIKE unaccent($%d)", i+1)
	}
	return strings.Join(conds, " OR ")
}

// Search returns the lists matching every word of params.Query, ordered by
// department code, district name and panel.
func Search(ctx context.Context, conn importer.DBConnection, params SearchParams) (*SearchPage, error) {
	params, err := params.Normalize()
	if err != nil {
		return nil, err
	}
	words := params.Words()
	where, args := searchFilter(words)

	page := &SearchPage{Page: params.Page, Limit: params.Limit}

	countSQL := `SELECT count(*) FROM listes l
		JOIN circonscriptions ci ON ci.code_circonscription = l.code_circonscription
		WHERE ` + where
	if err := conn.QueryRow(ctx, countSQL, args...).Scan(&page.Total); err != nil {
		return nil, fmt.Errorf("search count: %w", err)
	}

	offset := (params.Page - 1) * params.Limit
	n := len(args)
	pageSQL := fmt.Sprintf(`
		SELECT
			l.code_circonscription, l.numero_panneau, l.libelle_abrege, l.libelle_liste,
			l.code_nuance, l.nuance,
			ci.circonscription, ci.code_departement, ci.departement,
			tl.sexe, tl.nom, tl.prenom, tl.nationalite,
			mc.nom, mc.prenom, mc.ordre
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
		LEFT JOIN LATERAL (
			SELECT cm.nom, cm.prenom, cm.ordre
			FROM candidats cm
			WHERE cm.code_circonscription = l.code_circonscription
			  AND cm.numero_panneau = l.numero_panneau
			  AND NOT cm.tete_de_liste
			  AND (%s)
			ORDER BY cm.ordre
			LIMIT 1
		) mc ON TRUE
		WHERE %s
		ORDER BY ci.code_departement, ci.circonscription, l.numero_panneau
		LIMIT $%d OFFSET $%d`, matchedCandidateFilter(words), where, n+1, n+2)

	rows, err := conn.Query(ctx, pageSQL, append(args, params.Limit, offset)...)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r SearchResult
		var head headColumns
		var mSurname, mGiven pgtype.Text
		var mRank pgtype.Int4

		err := rows.Scan(
			&r.List.DistrictCode, &r.List.Panel, &r.List.ShortLabel, &r.List.Label,
			&r.List.NuanceCode, &r.List.Nuance,
			&r.District.Name, &r.District.DepartmentCode, &r.District.DepartmentName,
			&head.sex, &head.surname, &head.givenName, &head.nationality,
			&mSurname, &mGiven, &mRank,
		)
		if err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}
		r.District.Code = r.List.DistrictCode
		r.List.Head = head.toHead()
		if mRank.Valid {
			r.Matched = &MatchedCandidate{Surname: mSurname.String, GivenName: mGiven.String, Rank: int(mRank.Int32)}
		}
		page.Results = append(page.Results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	page.HasMore = offset+len(page.Results) < page.Total
	return page, nil
}

// headColumns scans the head-of-list columns. A list flagged with several
// heads reports the lowest-ranked one.
type headColumns struct {
	sex, surname, givenName, nationality pgtype.Text
}

func (h headColumns) toHead() *Head {
	if !h.surname.Valid {
		return nil
	}
	return &Head{Sex: h.sex.String, Surname: h.surname.String, GivenName: h.givenName.String, Nationality: h.nationality}
}
