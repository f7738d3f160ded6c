package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ExpectedTables lists the tables created by migrations.
var ExpectedTables = []string{"users", "posts", "replies", "reactions", "uploads"}

type tablesRepository struct {
	db *sqlx.DB
}

func NewTablesRepository(db *sqlx.DB) TablesRepository {
	return &tablesRepository{db: db}
}

// CountTablesDB counts how many of ExpectedTables exist in the public schema.
func (r *tablesRepository) CountTablesDB(ctx context.Context) (int, error) {
	query, args, err := sqlx.In(`
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name IN (?)
	`, ExpectedTables)
	if err != nil {
		return 0, fmt.Errorf("error building tables query: %w", err)
	}

	var count int
	err = r.db.GetContext(ctx, &count, r.db.Rebind(query), args...)
	if err != nil {
		return 0, upstream(err, "error counting database tables")
	}

	return count, nil
}
