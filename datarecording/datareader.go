package datarecording

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"
)

// ErrUnmappedTable is returned when querying a table that was never mapped to
// an entry type.
var ErrUnmappedTable = errors.New("table not mapped")

// QueryParams narrows and pages a query. The zero value selects every row.
type QueryParams struct {
	// Where is a SQL condition without the WHERE keyword, such as
	// "PageNo = ?".
	Where string
	Args  []any

	// OrderBy lists the sort columns without the ORDER BY keywords.
	OrderBy string

	// Limit caps the number of rows returned. 0 returns every row.
	Limit int

	// Offset skips rows. It applies with or without a Limit.
	Offset int
}

func (p QueryParams) validate() error {
	if p.Limit < 0 || p.Offset < 0 {
		return fmt.Errorf("negative limit %d or offset %d", p.Limit, p.Offset)
	}

	return nil
}

func (p QueryParams) filter() string {
	if p.Where == "" {
		return ""
	}

	return " WHERE " + p.Where
}

func (p QueryParams) window() string {
	var b strings.Builder

	if p.OrderBy != "" {
		b.WriteString(" ORDER BY " + p.OrderBy)
	}

	switch {
	case p.Limit > 0:
		fmt.Fprintf(&b, " LIMIT %d", p.Limit)
	case p.Offset > 0:
		b.WriteString(" LIMIT -1")
	}

	if p.Offset > 0 {
		fmt.Fprintf(&b, " OFFSET %d", p.Offset)
	}

	return b.String()
}

// DataReader reads back what a DataRecorder wrote into SQLite.
type DataReader interface {
	// MapTable tells the reader which entry type the rows of a table decode
	// into. Columns without a matching field are skipped.
	MapTable(tableName string, sampleEntry any)

	// ListTables returns the mapped tables, sorted by name.
	ListTables() []string

	// Query returns pointers to decoded entries and the number of rows that
	// match the condition, ignoring Limit and Offset.
	Query(ctx context.Context, tableName string, params QueryParams) (
		results []any,
		totalCount int,
		err error,
	)

	Close() error
}

type sqliteReader struct {
	db      *sql.DB
	ownsDB  bool
	entries map[string]reflect.Type
}

// NewReader opens an existing recording file.
func NewReader(dbFilename string) (DataReader, error) {
	if _, err := os.Stat(dbFilename); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbFilename)
	if err != nil {
		return nil, err
	}

	r := newSQLiteReader(db)
	r.ownsDB = true

	return r, nil
}

// NewReaderWithDB creates a DataReader over a database owned by the caller.
func NewReaderWithDB(db *sql.DB) DataReader {
	return newSQLiteReader(db)
}

func newSQLiteReader(db *sql.DB) *sqliteReader {
	return &sqliteReader{
		db:      db,
		entries: make(map[string]reflect.Type),
	}
}

func (r *sqliteReader) MapTable(tableName string, sampleEntry any) {
	if err := checkStructFields(sampleEntry); err != nil {
		panic(err)
	}

	r.entries[tableName] = reflect.TypeOf(sampleEntry)
}

func (r *sqliteReader) ListTables() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (r *sqliteReader) Query(
	ctx context.Context,
	tableName string,
	params QueryParams,
) ([]any, int, error) {
	entryType, mapped := r.entries[tableName]
	if !mapped {
		return nil, 0, fmt.Errorf("%w: %s", ErrUnmappedTable, tableName)
	}

	if err := params.validate(); err != nil {
		return nil, 0, err
	}

	var total int

	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+tableName+params.filter(),
		params.Args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT * FROM "+tableName+params.filter()+params.window(),
		params.Args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	results, err := decodeRows(rows, entryType)
	if err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

func (r *sqliteReader) Close() error {
	if !r.ownsDB {
		return nil
	}

	return r.db.Close()
}

// decodeRows fills one new entry per row, matching columns to fields by name.
func decodeRows(rows *sql.Rows, entryType reflect.Type) ([]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	fieldIndex := make([]int, len(columns))
	for i, column := range columns {
		fieldIndex[i] = -1

		if f, found := entryType.FieldByName(column); found {
			fieldIndex[i] = f.Index[0]
		}
	}

	results := []any{}

	for rows.Next() {
		entry := reflect.New(entryType)
		targets := make([]any, len(columns))

		for i, index := range fieldIndex {
			if index < 0 {
				targets[i] = new(sql.RawBytes)
				continue
			}

			targets[i] = entry.Elem().Field(index).Addr().Interface()
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}

		results = append(results, entry.Interface())
	}

	return results, rows.Err()
}
