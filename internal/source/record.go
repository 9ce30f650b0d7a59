package source

import "github.com/jackc/pgx/v5/pgtype"

// Source column headers.
const (
	ColDepartmentCode  = "Code département"
	ColDepartmentName  = "Département"
	ColDistrictCode    = "Code circonscription"
	ColDistrictName    = "Circonscription"
	ColPanel           = "Numéro de panneau"
	ColShortLabel      = "Libellé abrégé de liste"
	ColLabel           = "Libellé de la liste"
	ColNuanceCode      = "Code nuance de liste"
	ColNuance          = "Nuance de liste"
	ColRank            = "Ordre"
	ColSex             = "Sexe"
	ColSurname         = "Nom sur le bulletin de vote"
	ColGivenName       = "Prénom sur le bulletin de vote"
	ColNationality     = "Nationalité"
	ColPersonalityCode = "Code personnalité"
	ColCC              = "CC"
	ColHeadOfList      = "Tête de liste"
)

// Record is one data row of the source file.
// A field with Valid=false was empty in the source.
type Record struct {
	// Line is the 1-based line of the row in the source file.
	Line int

	DepartmentCode  pgtype.Text
	DepartmentName  pgtype.Text
	DistrictCode    pgtype.Text
	DistrictName    pgtype.Text
	Panel           pgtype.Text
	ShortLabel      pgtype.Text
	Label           pgtype.Text
	NuanceCode      pgtype.Text
	Nuance          pgtype.Text
	Rank            pgtype.Text
	Sex             pgtype.Text
	Surname         pgtype.Text
	GivenName       pgtype.Text
	Nationality     pgtype.Text
	PersonalityCode pgtype.Text
	CC              pgtype.Text
	HeadOfList      pgtype.Text
}

type column struct {
	name     string
	required bool
	field    func(r *Record) *pgtype.Text
}

// Optional columns may be missing from the header altogether.
var columns = []column{
	{ColDepartmentCode, true, func(r *Record) *pgtype.Text { return &r.DepartmentCode }},
	{ColDepartmentName, true, func(r *Record) *pgtype.Text { return &r.DepartmentName }},
	{ColDistrictCode, true, func(r *Record) *pgtype.Text { return &r.DistrictCode }},
	{ColDistrictName, true, func(r *Record) *pgtype.Text { return &r.DistrictName }},
	{ColPanel, true, func(r *Record) *pgtype.Text { return &r.Panel }},
	{ColShortLabel, false, func(r *Record) *pgtype.Text { return &r.ShortLabel }},
	{ColLabel, true, func(r *Record) *pgtype.Text { return &r.Label }},
	{ColNuanceCode, false, func(r *Record) *pgtype.Text { return &r.NuanceCode }},
	{ColNuance, false, func(r *Record) *pgtype.Text { return &r.Nuance }},
	{ColRank, true, func(r *Record) *pgtype.Text { return &r.Rank }},
	{ColSex, true, func(r *Record) *pgtype.Text { return &r.Sex }},
	{ColSurname, true, func(r *Record) *pgtype.Text { return &r.Surname }},
	{ColGivenName, true, func(r *Record) *pgtype.Text { return &r.GivenName }},
	{ColNationality, false, func(r *Record) *pgtype.Text { return &r.Nationality }},
	{ColPersonalityCode, false, func(r *Record) *pgtype.Text { return &r.PersonalityCode }},
	{ColCC, false, func(r *Record) *pgtype.Text { return &r.CC }},
	{ColHeadOfList, false, func(r *Record) *pgtype.Text { return &r.HeadOfList }},
}

// RequiredColumns returns the headers a source file must declare.
func RequiredColumns() []string {
	var names []string
	for _, c := range columns {
		if c.required {
			names = append(names, c.name)
		}
	}
	return names
}

// cell converts a raw field to a nullable text value.
func cell(raw string) pgtype.Text {
	if raw == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: raw, Valid: true}
}
