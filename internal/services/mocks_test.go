package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/municipales2026/importer/pkg/importer"
)

// callLog records the order in which collaborators are invoked.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type mockConnector struct {
	pool *pgxpool.Pool
	err  error
}

func (m *mockConnector) Connect(_ context.Context) (*pgxpool.Pool, error) {
	return m.pool, m.err
}

// mockDBConnection is never used for real statements: every store collaborator is mocked.
type mockDBConnection struct{}

func (mockDBConnection) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, fmt.Errorf("unexpected Exec")
}

func (mockDBConnection) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, fmt.Errorf("unexpected Query")
}

func (mockDBConnection) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func (mockDBConnection) Begin(context.Context) (pgx.Tx, error) {
	return nil, fmt.Errorf("unexpected Begin")
}

type mockSchemaManager struct {
	log *callLog
	err error
}

func (m *mockSchemaManager) Reset(_ context.Context, _ importer.DBConnection) error {
	m.log.add(StageSchema)
	return m.err
}

type mockBulkLoader struct {
	log           *callLog
	districtsErr  error
	listsErr      error
	candidatesErr error

	gotDistricts  []importer.District
	gotLists      []importer.List
	gotCandidates []importer.Candidate
	gotBatchSize  int
}

func (m *mockBulkLoader) LoadDistricts(_ context.Context, _ importer.DBConnection, rows []importer.District) (int64, error) {
	m.log.add(StageDistricts)
	m.gotDistricts = rows
	if m.districtsErr != nil {
		return 0, m.districtsErr
	}
	return int64(len(rows)), nil
}

func (m *mockBulkLoader) LoadLists(_ context.Context, _ importer.DBConnection, rows []importer.List) (int64, error) {
	m.log.add(StageLists)
	m.gotLists = rows
	if m.listsErr != nil {
		return 0, m.listsErr
	}
	return int64(len(rows)), nil
}

func (m *mockBulkLoader) LoadCandidates(_ context.Context, _ importer.DBConnection, rows []importer.Candidate, batchSize int) (int64, error) {
	m.log.add(StageCandidates)
	m.gotCandidates = rows
	m.gotBatchSize = batchSize
	if m.candidatesErr != nil {
		return 0, m.candidatesErr
	}
	return int64(len(rows)), nil
}

type mockRepairer struct {
	log      *callLog
	repaired int64
	err      error
}

func (m *mockRepairer) RepairHeadOfList(_ context.Context, _ importer.DBConnection) (int64, error) {
	m.log.add(StageRepair)
	return m.repaired, m.err
}

type mockIndexBuilder struct {
	log *callLog
	err error
}

func (m *mockIndexBuilder) Build(_ context.Context, _ importer.DBConnection) error {
	m.log.add(StageIndexes)
	return m.err
}

type mockMetrics struct {
	mu      sync.Mutex
	stages  []string
	summary *importer.Summary
}

func (m *mockMetrics) ObserveStage(stage string, _ float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stages = append(m.stages, stage)
}

func (m *mockMetrics) RecordSummary(summary *importer.Summary) {
	m.summary = summary
}
