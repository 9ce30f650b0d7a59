package services_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/municipales2026/importer/internal/db"
	"github.com/municipales2026/importer/internal/logging"
	"github.com/municipales2026/importer/internal/metrics"
	"github.com/municipales2026/importer/internal/services"
	"github.com/municipales2026/importer/internal/store"
	testhelpers "github.com/municipales2026/importer/internal/testing"
	"github.com/municipales2026/importer/internal/testing/fixtures"
	"github.com/municipales2026/importer/pkg/importer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() *services.ImportService {
	logger := logging.NewNullLogger()
	return services.NewImportService(
		db.NewConnectorFactory(logger),
		store.NewSchemaManager(logger),
		store.NewBulkLoader(logger),
		store.NewRepairer(logger),
		store.NewIndexBuilder(logger),
		metrics.NewRecorder(),
		logger,
	)
}

func importConfig(connString, dataDir string) importer.ImportConfig {
	return importer.ImportConfig{
		ConnectionString:   connString,
		DataDir:            dataDir,
		SourcePattern:      importer.DefaultSourcePattern,
		CandidateBatchSize: importer.DefaultCandidateBatchSize,
		RunID:              "integration",
	}
}

func scalar(t *testing.T, conn *pgxpool.Conn, query string) int {
	t.Helper()
	var n int
	require.NoError(t, conn.QueryRow(context.Background(), query).Scan(&n))
	return n
}

func TestImportService_ThreeRowScenario(t *testing.T) {
	conn, connString := testhelpers.NewTestDatabase(t, "svc_three_rows")
	dataDir := t.TempDir()
	_, err := fixtures.ThreeRowScenario().WriteFile(dataDir, "municipales-2026.csv")
	require.NoError(t, err)

	summary, err := newService().Run(context.Background(), importConfig(connString, dataDir))
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.Districts)
	assert.Equal(t, int64(1), summary.Lists)
	assert.Equal(t, int64(2), summary.Candidates)
	assert.Equal(t, int64(1), summary.Repaired)

	assert.Equal(t, 1, scalar(t, conn, `SELECT count(*) FROM circonscriptions`))
	assert.Equal(t, 1, scalar(t, conn, `SELECT count(*) FROM listes`))
	assert.Equal(t, 2, scalar(t, conn, `SELECT count(*) FROM candidats`))
	assert.Equal(t, 1, scalar(t, conn, `SELECT count(*) FROM candidats WHERE ordre = 1 AND tete_de_liste`))
	assert.Equal(t, 0, scalar(t, conn, `SELECT count(*) FROM candidats WHERE ordre > 1 AND tete_de_liste`))
	assert.Equal(t, 4, scalar(t, conn,
		`SELECT count(*) FROM pg_indexes WHERE indexname IN
			('idx_circo_search', 'idx_listes_search', 'idx_candidats_search', 'idx_candidats_tete')`))
}

func TestImportService_ReferentialClosureAndNulls(t *testing.T) {
	conn, connString := testhelpers.NewTestDatabase(t, "svc_closure")
	dataDir := t.TempDir()
	_, err := fixtures.NewSourceFixtureBuilder().
		AddList("01001", "Ambérieu", "1", 5, true).
		AddList("01001", "Ambérieu", "2.0", 3, false).
		AddList("13055", "Marseille", "1", 4, false).
		AddCandidate(fixtures.Candidate{DistrictCode: "13055", DistrictName: "Marseille", DepartmentCode: "13",
			DepartmentName: "Bouches-du-Rhône", Label: "Sans panneau", Sex: "F", Surname: "X", GivenName: "Y", Rank: "1"}).
		WriteFile(dataDir, "municipales-2026.csv")
	require.NoError(t, err)

	summary, err := newService().Run(context.Background(), importConfig(connString, dataDir))
	require.NoError(t, err)

	assert.Equal(t, int64(2), summary.Districts)
	assert.Equal(t, int64(3), summary.Lists)
	assert.Equal(t, int64(12), summary.Candidates)
	assert.Equal(t, int64(2), summary.Repaired)

	assert.Equal(t, 0, scalar(t, conn, `
		SELECT count(*) FROM candidats c
		WHERE NOT EXISTS (SELECT 1 FROM listes l
			WHERE l.code_circonscription = c.code_circonscription AND l.numero_panneau = c.numero_panneau)`))
	assert.Equal(t, 0, scalar(t, conn, `
		SELECT count(*) FROM listes l
		WHERE NOT EXISTS (SELECT 1 FROM circonscriptions d WHERE d.code_circonscription = l.code_circonscription)`))
	assert.Equal(t, 0, scalar(t, conn, `
		SELECT count(*) FROM listes
		WHERE libelle_abrege = '' OR code_nuance = '' OR nuance = ''`))
	assert.Equal(t, 3, scalar(t, conn, `
		SELECT count(*) FROM listes
		WHERE libelle_abrege IS NULL AND code_nuance IS NULL AND nuance IS NULL`))
	assert.Equal(t, 3, scalar(t, conn, `SELECT count(*) FROM candidats WHERE tete_de_liste`))
}

func TestImportService_DoubleRunIsIdempotent(t *testing.T) {
	conn, connString := testhelpers.NewTestDatabase(t, "svc_double_run")
	dataDir := t.TempDir()
	_, err := fixtures.NewSourceFixtureBuilder().
		AddList("01001", "Ambérieu", "1", 4, true).
		AddList("01002", "Ambronay", "1", 3, false).
		WriteFile(dataDir, "municipales-2026.csv")
	require.NoError(t, err)

	svc := newService()
	cfg := importConfig(connString, dataDir)

	first, err := svc.Run(context.Background(), cfg)
	require.NoError(t, err)
	second, err := svc.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, first.Districts, second.Districts)
	assert.Equal(t, first.Lists, second.Lists)
	assert.Equal(t, first.Candidates, second.Candidates)
	assert.Equal(t, first.Repaired, second.Repaired)
	assert.Equal(t, 7, scalar(t, conn, `SELECT count(*) FROM candidats`))
}

func TestImportService_SmallBatchesLoadEverything(t *testing.T) {
	conn, connString := testhelpers.NewTestDatabase(t, "svc_batches")
	dataDir := t.TempDir()
	_, err := fixtures.NewSourceFixtureBuilder().
		AddList("01001", "Ambérieu", "1", 23, true).
		WriteFile(dataDir, "municipales-2026.csv")
	require.NoError(t, err)

	cfg := importConfig(connString, dataDir)
	cfg.CandidateBatchSize = 5

	summary, err := newService().Run(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(23), summary.Candidates)
	assert.Equal(t, 23, scalar(t, conn, `SELECT count(*) FROM candidats`))
}

func TestImportService_MalformedFileKeepsPreviousData(t *testing.T) {
	conn, connString := testhelpers.NewTestDatabase(t, "svc_keep_data")
	dataDir := t.TempDir()
	svc := newService()
	cfg := importConfig(connString, dataDir)

	_, err := fixtures.ThreeRowScenario().WriteFile(dataDir, "municipales-2026-a.csv")
	require.NoError(t, err)
	_, err = svc.Run(context.Background(), cfg)
	require.NoError(t, err)

	_, err = fixtures.NewSourceFixtureBuilder().
		AddCandidate(fixtures.Candidate{DistrictCode: "01001", Panel: "premier", Rank: "1"}).
		WriteFile(dataDir, "municipales-2026-b.csv")
	require.NoError(t, err)

	_, err = svc.Run(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, importer.ErrInputInvalid)
	assert.Equal(t, 2, scalar(t, conn, `SELECT count(*) FROM candidats`))
}

func TestImportService_LateInvalidUTF8KeepsPreviousData(t *testing.T) {
	conn, connString := testhelpers.NewTestDatabase(t, "svc_bad_bytes")
	dataDir := t.TempDir()
	svc := newService()
	cfg := importConfig(connString, dataDir)

	_, err := fixtures.ThreeRowScenario().WriteFile(dataDir, "municipales-2026-a.csv")
	require.NoError(t, err)
	_, err = svc.Run(context.Background(), cfg)
	require.NoError(t, err)

	// Clean UTF-8 well past the detection window, then one Latin-1 row.
	_, err = fixtures.NewSourceFixtureBuilder().
		AddList("01001", "Ambérieu", "1", 40, true).
		AddCandidate(fixtures.Candidate{
			DepartmentCode: "01", DepartmentName: "Ain", DistrictCode: "01001", DistrictName: "Ambérieu",
			Panel: "1", Label: "Liste", Sex: "F", Surname: "LEF\xc8VRE", GivenName: "Zo\xe9", Rank: "41",
		}).
		WriteFile(dataDir, "municipales-2026-b.csv")
	require.NoError(t, err)

	_, err = svc.Run(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, importer.ErrInputInvalid)
	assert.Equal(t, importer.ExitInputError, importer.ExitCodeForError(err))
	assert.Equal(t, 2, scalar(t, conn, `SELECT count(*) FROM candidats`), "previous import is untouched")
}

func TestImportService_FirstSeenDepartmentNamePersisted(t *testing.T) {
	conn, connString := testhelpers.NewTestDatabase(t, "svc_first_seen")
	dataDir := t.TempDir()
	row := func(departmentName, rank string) fixtures.Candidate {
		return fixtures.Candidate{
			DepartmentCode: "01", DepartmentName: departmentName, DistrictCode: "01001",
			DistrictName: "Ambérieu", Panel: "1", Label: "Liste", Sex: "F",
			Surname: "MARTIN", GivenName: "Claire", Rank: rank,
		}
	}
	_, err := fixtures.NewSourceFixtureBuilder().
		AddCandidate(row("Ain", "1")).
		AddCandidate(row("AIN (ancien libellé)", "2")).
		WriteFile(dataDir, "municipales-2026.csv")
	require.NoError(t, err)

	summary, err := newService().Run(context.Background(), importConfig(connString, dataDir))
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.Districts)

	var name string
	require.NoError(t, conn.QueryRow(context.Background(),
		`SELECT departement FROM circonscriptions WHERE code_circonscription = '01001'`).Scan(&name))
	assert.Equal(t, "Ain", name)
	assert.Equal(t, 1, scalar(t, conn, `SELECT count(*) FROM circonscriptions`))
}

func TestImportService_DuplicateCandidateKeyFails(t *testing.T) {
	_, connString := testhelpers.NewTestDatabase(t, "svc_dup")
	dataDir := t.TempDir()
	_, err := fixtures.ThreeRowScenario().
		AddCandidate(fixtures.Candidate{
			DepartmentCode: "01", DepartmentName: "Ain", DistrictCode: "01001",
			DistrictName: "L'Abergement-Clémenciat", Panel: "1", Label: "Agir ensemble",
			Sex: "M", Surname: "DOUBLON", GivenName: "Jean", Rank: "2.0",
		}).
		WriteFile(dataDir, "municipales-2026.csv")
	require.NoError(t, err)

	_, err = newService().Run(context.Background(), importConfig(connString, dataDir))
	require.Error(t, err)
	assert.ErrorIs(t, err, importer.ErrLoad)
	assert.Equal(t, importer.ExitLoadError, importer.ExitCodeForError(err))
}
