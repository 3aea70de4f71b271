package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Law4Us/Law4Us-sub002/internal/utils"
	"github.com/Law4Us/Law4Us-sub002/pkg/types"
)

const documentTableName = "law4us.generated_documents"

var documentTableColumns = utils.StructTagValues(types.GeneratedDocument{})

type DocumentRepository struct {
	pool *pgxpool.Pool
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

// DocumentsBySubmission retrieves every document generated for a submission
func (r *DocumentRepository) DocumentsBySubmission(ctx context.Context, submissionID string) ([]*types.GeneratedDocument, error) {
	query, args, err := psql().
		Select(documentTableColumns...).
		From(documentTableName).
		Where(sq.Eq{"submission_id": submissionID}).
		OrderBy("generated_at DESC", "claim_type").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate documents query: %w", err)
	}

	var docs = make([]*types.GeneratedDocument, 0)
	err = pgxscan.Select(ctx, r.pool, &docs, query, args...)
	return docs, utils.ErrorWrapOrNil(err, "failed to list documents")
}

// LatestDocument returns the most recent document of one claim for a submission
func (r *DocumentRepository) LatestDocument(ctx context.Context, submissionID string, claim types.ClaimType) (*types.GeneratedDocument, error) {
	query, args, err := psql().
		Select(documentTableColumns...).
		From(documentTableName).
		Where(sq.Eq{"submission_id": submissionID, "claim_type": claim}).
		OrderBy("generated_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate document query: %w", err)
	}

	var doc = new(types.GeneratedDocument)
	err = pgxscan.Get(ctx, r.pool, doc, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}
	if err != nil {
		return nil, types.ErrDocumentNotFound
	}
	return doc, nil
}

// CreateDocument inserts a new document record
func (r *DocumentRepository) CreateDocument(ctx context.Context, doc *types.GeneratedDocument) error {
	query, args, err := psql().
		Insert(documentTableName).
		SetMap(utils.StructToMap(doc)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert document query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create document")
}

// DeleteDocumentsBySubmission removes the document records of a submission
func (r *DocumentRepository) DeleteDocumentsBySubmission(ctx context.Context, submissionID string) error {
	query, args, err := psql().
		Delete(documentTableName).
		Where(sq.Eq{"submission_id": submissionID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete documents query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to delete documents")
}
