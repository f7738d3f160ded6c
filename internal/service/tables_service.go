package service

import (
	"context"

	"jcbcommunity/internal/repository"
)

type TablesService interface {
	CountTables(ctx context.Context) (int, error)
	// Ready reports whether every table created by migrations exists.
	Ready(ctx context.Context) (bool, error)
}

type tablesService struct {
	tablesRepo repository.TablesRepository
}

func NewTablesService(tablesRepo repository.TablesRepository) TablesService {
	return &tablesService{tablesRepo: tablesRepo}
}

func (t *tablesService) CountTables(ctx context.Context) (int, error) {
	countTables, err := t.tablesRepo.CountTablesDB(ctx)
	if err != nil {
		return 0, err
	}

	return countTables, nil
}

func (t *tablesService) Ready(ctx context.Context) (bool, error) {
	count, err := t.CountTables(ctx)
	if err != nil {
		return false, err
	}
	return count == len(repository.ExpectedTables), nil
}
