package localization

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

var ErrDatabaseRequired = errors.New("localization: bun content store requires a database")

// BunContentStore reads the content table through Bun.
type BunContentStore struct {
	db    *bun.DB
	table string
}

var _ ContentStore = (*BunContentStore)(nil)

// BunStoreOption configures a BunContentStore.
type BunStoreOption func(*BunContentStore)

// WithTable overrides the content table name.
func WithTable(name string) BunStoreOption {
	return func(s *BunContentStore) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			s.table = trimmed
		}
	}
}

// NewBunContentStore constructs a Bun-backed content store.
func NewBunContentStore(db *bun.DB, opts ...BunStoreOption) *BunContentStore {
	store := &BunContentStore{db: db, table: DefaultContentTable}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store
}

// ContainerUIDs implements ContentStore.
func (s *BunContentStore) ContainerUIDs(ctx context.Context, uids []int64, types []string) ([]int64, error) {
	if s.db == nil {
		return nil, ErrDatabaseRequired
	}
	if len(uids) == 0 || len(types) == 0 {
		return nil, nil
	}
	var out []int64
	err := s.db.NewSelect().
		TableExpr("?", bun.Ident(s.table)).
		ColumnExpr("?", bun.Ident(FieldUID)).
		Where("? IN (?)", bun.Ident(FieldUID), bun.In(uids)).
		Where("? IN (?)", bun.Ident(FieldContentType), bun.In(types)).
		Scan(ctx, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ContainerChildren implements ContentStore. Rows are fetched whole and
// decoded with DecodeRecord.
func (s *BunContentStore) ContainerChildren(ctx context.Context, uids []int64) ([]ContentRecord, error) {
	if s.db == nil {
		return nil, ErrDatabaseRequired
	}
	if len(uids) == 0 {
		return nil, nil
	}
	var rows []map[string]interface{}
	err := s.db.NewSelect().
		TableExpr("?", bun.Ident(s.table)).
		ColumnExpr("*").
		Where("? IN (?)", bun.Ident(FieldUID), bun.In(uids)).
		Where("? != ?", bun.Ident(FieldContainerParent), 0).
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	out := make([]ContentRecord, 0, len(rows))
	for _, row := range rows {
		record, err := DecodeRecord(row)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

type contentRow struct {
	bun.BaseModel `bun:"table:tt_content"`

	UID             int64  `bun:"uid,pk"`
	PID             int64  `bun:"pid"`
	ColumnPosition  int    `bun:"colPos"`
	ContentType     string `bun:"CType"`
	ContainerParent int64  `bun:"tx_container_parent"`
	LanguageUID     int64  `bun:"sys_language_uid"`
	Header          string `bun:"header"`
}

const createContentTable = `CREATE TABLE IF NOT EXISTS ? (
	"uid" INTEGER PRIMARY KEY,
	"pid" INTEGER NOT NULL DEFAULT 0,
	"colPos" INTEGER NOT NULL DEFAULT 0,
	"CType" VARCHAR(255) NOT NULL DEFAULT '',
	"tx_container_parent" INTEGER NOT NULL DEFAULT 0,
	"sys_language_uid" INTEGER NOT NULL DEFAULT 0,
	"header" VARCHAR(255) NOT NULL DEFAULT ''
)`

// EnsureSchema creates the subset of the content table the store reads.
// Hosts that own the table never need to call it.
func (s *BunContentStore) EnsureSchema(ctx context.Context) error {
	if s.db == nil {
		return ErrDatabaseRequired
	}
	if _, err := s.db.ExecContext(ctx, createContentTable, bun.Ident(s.table)); err != nil {
		return fmt.Errorf("localization: create %s: %w", s.table, err)
	}
	return nil
}

// InsertRecords writes records into the content table. pid, header and
// sys_language_uid are taken from Fields when present.
func (s *BunContentStore) InsertRecords(ctx context.Context, records ...ContentRecord) error {
	if s.db == nil {
		return ErrDatabaseRequired
	}
	if len(records) == 0 {
		return nil
	}
	rows := make([]contentRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, rowFromRecord(record))
	}
	_, err := s.db.NewInsert().
		Model(&rows).
		ModelTableExpr("?", bun.Ident(s.table)).
		Exec(ctx)
	return err
}

func rowFromRecord(record ContentRecord) contentRow {
	row := contentRow{
		UID:             record.UID,
		ColumnPosition:  record.ColumnPosition,
		ContentType:     record.ContentType,
		ContainerParent: record.ParentContainerUID,
	}
	if pid, ok, _ := optionalInt(record.Fields, "pid", "pid"); ok {
		row.PID = pid
	}
	if lang, ok, _ := optionalInt(record.Fields, "sys_language_uid", "sys_language_uid"); ok {
		row.LanguageUID = lang
	}
	if header, ok := asString(record.Fields["header"]); ok {
		row.Header = header
	}
	return row
}
