package repository

import (
	"database/sql"
	"fmt"
	"time"

	"indexcap/internal/db/models/postgres/public/model"
	"indexcap/internal/db/models/postgres/public/table"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/google/uuid"
)

type RebalanceRunRepository interface {
	Add(tx *sql.Tx, rr model.RebalanceRun) (*model.RebalanceRun, error)
	Get(id uuid.UUID) (*model.RebalanceRun, error)
	GetLatest(indexID string) (*model.RebalanceRun, error)
	Update(tx *sql.Tx, rr *model.RebalanceRun, columns postgres.ColumnList) (*model.RebalanceRun, error)
	// DeleteSnapshot removes earlier runs for the same index, date and
	// method. Constituent and issuer rows go with them (on delete cascade).
	DeleteSnapshot(tx *sql.Tx, indexID string, asOf time.Time, method string) (int64, error)
}

type rebalanceRunRepositoryHandler struct {
	Db *sql.DB
}

func NewRebalanceRunRepository(db *sql.DB) RebalanceRunRepository {
	return rebalanceRunRepositoryHandler{Db: db}
}

func (h rebalanceRunRepositoryHandler) queryable(tx *sql.Tx) qrm.Queryable {
	if tx != nil {
		return tx
	}
	return h.Db
}

func (h rebalanceRunRepositoryHandler) Add(tx *sql.Tx, rr model.RebalanceRun) (*model.RebalanceRun, error) {
	rr.CreatedAt = time.Now().UTC()
	rr.ModifiedAt = time.Now().UTC()

	query := table.RebalanceRun.
		INSERT(
			table.RebalanceRun.MutableColumns,
		).
		MODEL(rr).
		RETURNING(table.RebalanceRun.AllColumns)

	out := model.RebalanceRun{}
	err := query.Query(h.queryable(tx), &out)
	if err != nil {
		return nil, fmt.Errorf("failed to insert rebalance run: %w", err)
	}

	return &out, nil
}

func (h rebalanceRunRepositoryHandler) Update(tx *sql.Tx, rr *model.RebalanceRun, columns postgres.ColumnList) (*model.RebalanceRun, error) {
	rr.ModifiedAt = time.Now().UTC()
	if rr.RebalanceRunID == uuid.Nil {
		return nil, fmt.Errorf("failed to update rebalance run - id not provided in inputted model")
	}
	query := table.RebalanceRun.
		UPDATE(columns).
		MODEL(rr).
		RETURNING(table.RebalanceRun.AllColumns).
		WHERE(table.RebalanceRun.RebalanceRunID.EQ(
			postgres.UUID(rr.RebalanceRunID),
		))

	out := model.RebalanceRun{}
	err := query.Query(h.queryable(tx), &out)
	if err != nil {
		return nil, fmt.Errorf("failed to update rebalance run %s: %w", rr.RebalanceRunID.String(), err)
	}

	return &out, nil
}

func (h rebalanceRunRepositoryHandler) Get(id uuid.UUID) (*model.RebalanceRun, error) {
	query := table.RebalanceRun.
		SELECT(table.RebalanceRun.AllColumns).
		WHERE(table.RebalanceRun.RebalanceRunID.EQ(postgres.UUID(id)))

	result := model.RebalanceRun{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to get rebalance run: %w", err)
	}

	return &result, nil
}

func (h rebalanceRunRepositoryHandler) GetLatest(indexID string) (*model.RebalanceRun, error) {
	query := table.RebalanceRun.
		SELECT(table.RebalanceRun.AllColumns).
		WHERE(table.RebalanceRun.IndexID.EQ(postgres.String(indexID))).
		ORDER_BY(
			table.RebalanceRun.AsOf.DESC(),
			table.RebalanceRun.CreatedAt.DESC(),
		).
		LIMIT(1)

	result := model.RebalanceRun{}
	err := query.Query(h.Db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest rebalance run for %s: %w", indexID, err)
	}

	return &result, nil
}

func (h rebalanceRunRepositoryHandler) DeleteSnapshot(tx *sql.Tx, indexID string, asOf time.Time, method string) (int64, error) {
	query := table.RebalanceRun.
		DELETE().
		WHERE(postgres.AND(
			table.RebalanceRun.IndexID.EQ(postgres.String(indexID)),
			table.RebalanceRun.AsOf.EQ(postgres.DateT(asOf)),
			table.RebalanceRun.Method.EQ(postgres.String(method)),
		))

	var db qrm.Executable = h.Db
	if tx != nil {
		db = tx
	}

	result, err := query.Exec(db)
	if err != nil {
		return 0, fmt.Errorf("failed to delete rebalance runs for %s on %s: %w", indexID, asOf.Format(time.DateOnly), err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted rebalance runs: %w", err)
	}

	return n, nil
}
