package localization

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/goliatone/go-cms-containers/pkg/testsupport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func seededStore(t *testing.T) *BunContentStore {
	t.Helper()
	ctx := context.Background()
	store := NewBunContentStore(testsupport.NewBunMemoryDB(t))
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	err := store.InsertRecords(ctx,
		ContentRecord{UID: 1, ContentType: "b13-2cols", Fields: map[string]any{"pid": 10, "header": "Two columns"}},
		ContentRecord{UID: 2, ContentType: "text", ColumnPosition: 200, ParentContainerUID: 1},
		ContentRecord{UID: 3, ContentType: "text", ColumnPosition: 201, ParentContainerUID: 1},
		ContentRecord{UID: 4, ContentType: "text"},
	)
	if err != nil {
		t.Fatalf("insert records: %v", err)
	}
	return store
}

func TestBunContentStoreContainerUIDs(t *testing.T) {
	store := seededStore(t)

	got, err := store.ContainerUIDs(context.Background(), []int64{1, 2, 4, 1}, []string{"b13-2cols"})
	if err != nil {
		t.Fatalf("container uids: %v", err)
	}
	if !slices.Equal(got, []int64{1}) {
		t.Fatalf("expected [1], got %v", got)
	}
}

func TestBunContentStoreContainerChildren(t *testing.T) {
	store := seededStore(t)

	got, err := store.ContainerChildren(context.Background(), []int64{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("container children: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 children, got %+v", got)
	}
	slices.SortFunc(got, func(a, b ContentRecord) int { return int(a.UID - b.UID) })
	if got[0].UID != 2 || got[0].ParentContainerUID != 1 || got[0].ColumnPosition != 200 || got[0].ContentType != "text" {
		t.Fatalf("unexpected child: %+v", got[0])
	}
	if got[1].UID != 3 || got[1].ColumnPosition != 201 {
		t.Fatalf("unexpected child: %+v", got[1])
	}
}

func TestBunContentStoreCustomTable(t *testing.T) {
	ctx := context.Background()
	store := NewBunContentStore(testsupport.NewBunMemoryDB(t), WithTable("content_elements"))
	if err := store.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if err := store.InsertRecords(ctx, ContentRecord{UID: 7, ContentType: "b13-2cols"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := store.ContainerUIDs(ctx, []int64{7}, []string{"b13-2cols"})
	if err != nil {
		t.Fatalf("container uids: %v", err)
	}
	if !slices.Equal(got, []int64{7}) {
		t.Fatalf("expected [7], got %v", got)
	}
}

func TestBunContentStoreRebuild(t *testing.T) {
	rebuilder := NewRebuilder(twoColumns, seededStore(t))
	payload := Payload{
		Records: RecordsByColumn{
			0:   {record(1, 0), record(4, 0)},
			200: {record(2, 1)},
			201: {record(3, 1)},
		},
		Columns: ColumnSet{Labels: map[int]string{0: "Main"}, List: []int{0}},
	}

	got, err := rebuilder.Rebuild(context.Background(), payload)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if len(got.Records) != 1 || len(got.Records[0]) != 2 {
		t.Fatalf("expected only column 0 to remain, got %+v", got.Records)
	}
}

func TestBunContentStoreRequiresDatabase(t *testing.T) {
	store := NewBunContentStore(nil)
	if _, err := store.ContainerUIDs(context.Background(), []int64{1}, []string{"x"}); !errors.Is(err, ErrDatabaseRequired) {
		t.Fatalf("expected ErrDatabaseRequired, got %v", err)
	}
}

func newMockStore(t *testing.T) (*BunContentStore, sqlmock.Sqlmock) {
	t.Helper()
	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return NewBunContentStore(db), mock
}

func TestRebuildWithEmptyRegistryIssuesNoSQL(t *testing.T) {
	store, mock := newMockStore(t)

	_, err := NewRebuilder(stubRegistry{}, store).Rebuild(context.Background(), samplePayload())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBunContentStoreQueries(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`FROM "tt_content" WHERE .*"CType" IN \('b13-2cols'\)`).
		WillReturnRows(sqlmock.NewRows([]string{"uid"}).AddRow(int64(1)))
	mock.ExpectQuery(`FROM "tt_content" WHERE .*"tx_container_parent" != 0`).
		WillReturnRows(sqlmock.NewRows([]string{"uid", "colPos", "CType", "tx_container_parent"}).
			AddRow(int64(2), int64(200), "text", int64(1)))

	got, err := NewRebuilder(twoColumns, store).Rebuild(context.Background(), samplePayload())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Len(t, got.Records, 1)
	assert.Contains(t, got.Records, 0)
}

func TestBunContentStorePropagatesQueryErrors(t *testing.T) {
	store, mock := newMockStore(t)
	boom := errors.New("relation does not exist")
	mock.ExpectQuery(`FROM "tt_content"`).WillReturnError(boom)

	_, err := NewRebuilder(twoColumns, store).Rebuild(context.Background(), samplePayload())
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
