package corpus

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB represents a database connection interface.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// SQLiteSource reads the corpus from a SQLite table. List-valued columns
// (category, sub_category, eligibility, benefits, references) are stored as
// JSON arrays.
type SQLiteSource struct {
	db    DB
	table string
}

// NewSQLiteSource creates a SQLite corpus source over an open connection.
func NewSQLiteSource(db DB, table string) *SQLiteSource {
	if table == "" {
		table = "schemes"
	}
	return &SQLiteSource{db: db, table: table}
}

// OpenSQLiteSource opens the database file and returns a source backed by it.
func OpenSQLiteSource(path, table string, maxOpenConns int) (*SQLiteSource, *sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: open %s: %v", ErrDataUnavailable, path, err)
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	return NewSQLiteSource(db, table), db, nil
}

// Load reads every scheme row. Any failure wraps ErrDataUnavailable;
// malformed list columns in individual rows degrade to empty defaults.
func (s *SQLiteSource) Load(ctx context.Context) ([]ProgramRecord, error) {
	query := fmt.Sprintf(`
		SELECT scheme_name, short_name, state, scheme_for, category,
			sub_category, brief_description, full_description,
			eligibility, benefits, refs
		FROM %s
	`, s.table)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %v", ErrDataUnavailable, s.table, err)
	}
	defer rows.Close()

	var records []ProgramRecord
	for rows.Next() {
		var rec ProgramRecord
		var categories, subCategories, eligibility, benefits, references sql.NullString

		err := rows.Scan(
			&rec.SchemeName, &rec.ShortName, &rec.State, &rec.SchemeFor,
			&categories, &subCategories, &rec.BriefDescription,
			&rec.FullDescription, &eligibility, &benefits, &references,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scan %s: %v", ErrDataUnavailable, s.table, err)
		}

		rec.Categories = decodeStringList(categories)
		rec.SubCategories = decodeStringList(subCategories)
		rec.Eligibility = decodeStringList(eligibility)
		rec.Benefits = decodeStringList(benefits)
		rec.References = decodeLinkList(references)

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate %s: %v", ErrDataUnavailable, s.table, err)
	}

	return records, nil
}

func decodeStringList(col sql.NullString) []string {
	if !col.Valid || col.String == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(col.String), &out); err != nil {
		return nil
	}
	return out
}

func decodeLinkList(col sql.NullString) []Link {
	if !col.Valid || col.String == "" {
		return nil
	}
	var out []Link
	if err := json.Unmarshal([]byte(col.String), &out); err != nil {
		return nil
	}
	return out
}
