package query

import "github.com/jackc/pgx/v5/pgtype"

// District is a circonscription as shown to users.
type District struct {
	Code           string
	Name           string
	DepartmentCode string
	DepartmentName string
}

// Head is the head of a list. Nil on a list when no candidate carries the flag.
type Head struct {
	Sex         string
	Surname     string
	GivenName   string
	Nationality pgtype.Text
}

// ListSummary describes a list without its candidates.
type ListSummary struct {
	DistrictCode string
	Panel        int
	ShortLabel   pgtype.Text
	Label        string
	NuanceCode   pgtype.Text
	Nuance       pgtype.Text
	Head         *Head
}

// MatchedCandidate is the first non-head candidate whose name matched a search word.
type MatchedCandidate struct {
	Surname   string
	GivenName string
	Rank      int
}

// SearchResult is one list matching a search.
type SearchResult struct {
	List     ListSummary
	District District
	Matched  *MatchedCandidate
}

// SearchPage is one page of search results.
type SearchPage struct {
	Results []SearchResult
	Total   int
	Page    int
	Limit   int
	HasMore bool
}

// CityDetail is a district with all its lists, panel ascending.
type CityDetail struct {
	District District
	Lists    []ListSummary
}

// Candidate is a full candidate row.
type Candidate struct {
	Rank            int
	Sex             string
	Surname         string
	GivenName       string
	Nationality     pgtype.Text
	PersonalityCode pgtype.Text
	CC              pgtype.Text
	HeadOfList      bool
}

// ListDetail is a list with all its candidates by rank.
type ListDetail struct {
	District   District
	List       ListSummary
	Candidates []Candidate
}
