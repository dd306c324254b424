package history

import (
	"context"
	"database/sql"
	"slices"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/dionysus/internal/logger"
	"github.com/rxtech-lab/dionysus/internal/types"
	"github.com/rxtech-lab/dionysus/pkg/errors"
	"go.uber.org/zap"
)

const samplesTable = "samples"

// DuckDBStore is a Series persisted in a DuckDB database.
type DuckDBStore struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDuckDBStore opens the database at path and creates the samples table.
// An empty path opens an in-memory database.
func NewDuckDBStore(path string, log *logger.Logger) (*DuckDBStore, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS samples (
			token TEXT NOT NULL,
			resolution TEXT NOT NULL,
			time TIMESTAMP NOT NULL,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume UBIGINT
		)
	`)
	if err != nil {
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to create samples table", err)
	}

	log.Debug("Opened duckdb store", zap.String("path", path))

	return &DuckDBStore{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Close closes the database.
func (d *DuckDBStore) Close() error {
	return d.db.Close()
}

func (d *DuckDBStore) where(token types.Token, resolution types.Resolution) squirrel.Eq {
	return squirrel.Eq{"token": token.Key(), "resolution": resolution.Name()}
}

// Write implements Series. The batch is written in one transaction.
func (d *DuckDBStore) Write(ctx context.Context, token types.Token, resolution types.Resolution, samples []types.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	last, err := d.Last(ctx, token, resolution)
	if err != nil {
		return err
	}

	replace, err := checkBatch(last, samples)
	if err != nil {
		return err
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to begin transaction", err)
	}

	if replace {
		query, args, err := d.sq.Delete(samplesTable).
			Where(d.where(token, resolution)).
			Where(squirrel.Eq{"time": last.Unwrap().Time.UTC()}).
			ToSql()
		if err != nil {
			tx.Rollback()

			return errors.Wrap(errors.ErrCodeQueryFailed, "failed to build delete query", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			tx.Rollback()

			return errors.Wrap(errors.ErrCodeQueryFailed, "failed to replace last sample", err)
		}
	}

	insert := d.sq.Insert(samplesTable).
		Columns("token", "resolution", "time", "open", "high", "low", "close", "volume")

	for _, s := range samples {
		insert = insert.Values(token.Key(), resolution.Name(), s.Time.UTC(), s.Open, s.High, s.Low, s.Close, s.Volume)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		tx.Rollback()

		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to build insert query", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		tx.Rollback()

		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to insert samples", err)
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to commit samples", err)
	}

	d.logger.Debug("Wrote samples",
		zap.String("token", token.Name()),
		zap.String("resolution", resolution.Name()),
		zap.Int("count", len(samples)),
	)

	return nil
}

// Read implements Series.
func (d *DuckDBStore) Read(ctx context.Context, token types.Token, resolution types.Resolution, count int) ([]types.Sample, error) {
	ok, err := d.Contains(ctx, token, resolution)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, seriesNotFound(token, resolution)
	}

	samples, err := d.query(ctx, token, resolution, count)
	if err != nil {
		return nil, err
	}

	slices.Reverse(samples)

	return samples, nil
}

// Last implements Series.
func (d *DuckDBStore) Last(ctx context.Context, token types.Token, resolution types.Resolution) (optional.Option[types.Sample], error) {
	samples, err := d.query(ctx, token, resolution, 1)
	if err != nil {
		return optional.None[types.Sample](), err
	}

	if len(samples) == 0 {
		return optional.None[types.Sample](), nil
	}

	return optional.Some(samples[0]), nil
}

// Contains implements Series. A series exists once it holds a sample.
func (d *DuckDBStore) Contains(ctx context.Context, token types.Token, resolution types.Resolution) (bool, error) {
	query, args, err := d.sq.Select("COUNT(*)").
		From(samplesTable).
		Where(d.where(token, resolution)).
		ToSql()
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build count query", err)
	}

	var count int
	if err := d.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count samples", err)
	}

	return count > 0, nil
}

// query returns up to count samples, newest first.
func (d *DuckDBStore) query(ctx context.Context, token types.Token, resolution types.Resolution, count int) ([]types.Sample, error) {
	if count <= 0 {
		return nil, nil
	}

	query, args, err := d.sq.Select("time", "open", "high", "low", "close", "volume").
		From(samplesTable).
		Where(d.where(token, resolution)).
		OrderBy("time DESC").
		Limit(uint64(count)).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build select query", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query samples", err)
	}
	defer rows.Close()

	var samples []types.Sample

	for rows.Next() {
		var (
			at     time.Time
			sample types.Sample
		)

		if err := rows.Scan(&at, &sample.Open, &sample.High, &sample.Low, &sample.Close, &sample.Volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan sample", err)
		}

		sample.Resolution = resolution
		sample.Time = at.UTC()
		samples = append(samples, sample)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate samples", err)
	}

	return samples, nil
}
