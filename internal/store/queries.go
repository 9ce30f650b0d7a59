package store

// SQL statements for schema management. Tables are dropped children first.
var dropStatements = []string{
	`DROP TABLE IF EXISTS candidats CASCADE`,
	`DROP TABLE IF EXISTS listes CASCADE`,
	`DROP TABLE IF EXISTS circonscriptions CASCADE`,
}

var extensionStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS unaccent`,
	`CREATE EXTENSION IF NOT EXISTS pg_trgm`,
	// unaccent() is only STABLE; index expressions need an IMMUTABLE wrapper
	// pinned to the unaccent dictionary.
	`CREATE OR REPLACE FUNCTION unaccent_immutable(text)
		RETURNS text LANGUAGE sql IMMUTABLE STRICT PARALLEL SAFE AS $$
			SELECT unaccent('unaccent', $1)
		$$`,
}

var createTableStatements = []string{
	`CREATE TABLE circonscriptions (
		code_circonscription VARCHAR(10) PRIMARY KEY,
		circonscription      TEXT        NOT NULL,
		code_departement     VARCHAR(5)  NOT NULL,
		departement          TEXT        NOT NULL
	)`,
	`CREATE TABLE listes (
		code_circonscription VARCHAR(10) NOT NULL REFERENCES circonscriptions,
		numero_panneau       INTEGER     NOT NULL,
		libelle_abrege       TEXT,
		libelle_liste        TEXT        NOT NULL,
		code_nuance          VARCHAR(20),
		nuance               TEXT,
		PRIMARY KEY (code_circonscription, numero_panneau)
	)`,
	`CREATE TABLE candidats (
		code_circonscription VARCHAR(10) NOT NULL,
		numero_panneau       INTEGER     NOT NULL,
		ordre                INTEGER     NOT NULL,
		sexe                 VARCHAR(1)  NOT NULL,
		nom                  TEXT        NOT NULL,
		prenom               TEXT        NOT NULL,
		nationalite          TEXT,
		code_personnalite    VARCHAR(20),
		cc                   VARCHAR(20),
		tete_de_liste        BOOLEAN     NOT NULL DEFAULT FALSE,
		PRIMARY KEY (code_circonscription, numero_panneau, ordre),
		FOREIGN KEY (code_circonscription, numero_panneau)
			REFERENCES listes (code_circonscription, numero_panneau)
	)`,
}

// Column lists used by COPY, in table order.
var (
	districtColumns = []string{
		"code_circonscription", "circonscription", "code_departement", "departement",
	}
	listColumns = []string{
		"code_circonscription", "numero_panneau", "libelle_abrege",
		"libelle_liste", "code_nuance", "nuance",
	}
	candidateColumns = []string{
		"code_circonscription", "numero_panneau", "ordre", "sexe", "nom", "prenom",
		"nationalite", "code_personnalite", "cc", "tete_de_liste",
	}
)

// queryRepairHeadOfList flags rank 1 in every (district, panel) group that has
// no head of list. Running it twice changes nothing the second time.
const queryRepairHeadOfList = `
	UPDATE candidats c
	SET tete_de_liste = TRUE
	WHERE c.ordre = 1
	  AND NOT EXISTS (
		SELECT 1 FROM candidats c2
		WHERE c2.code_circonscription = c.code_circonscription
		  AND c2.numero_panneau = c.numero_panneau
		  AND c2.tete_de_liste = TRUE
	  )
`

// indexStatements are built after the data load.
var indexStatements = []struct {
	name string
	sql  string
}{
	{"idx_circo_search", `CREATE INDEX idx_circo_search ON circonscriptions
		USING gin (to_tsvector('simple', unaccent_immutable(circonscription || ' ' || departement)))`},
	{"idx_listes_search", `CREATE INDEX idx_listes_search ON listes
		USING gin (to_tsvector('simple', unaccent_immutable(
			libelle_liste || ' ' || COALESCE(libelle_abrege, '') || ' ' || COALESCE(nuance, '')
		)))`},
	{"idx_candidats_search", `CREATE INDEX idx_candidats_search ON candidats
		USING gin (to_tsvector('simple', unaccent_immutable(nom || ' ' || prenom)))`},
	{"idx_candidats_tete", `CREATE INDEX idx_candidats_tete ON candidats (code_circonscription, numero_panneau)
		WHERE tete_de_liste = TRUE`},
}
