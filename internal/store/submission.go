package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Law4Us/Law4Us-sub002/internal/utils"
	"github.com/Law4Us/Law4Us-sub002/pkg/types"
)

const submissionTableName = "law4us.submissions"

var submissionColumns = utils.StructTagValues(types.SubmissionRow{})

type SubmissionRepository struct {
	pool *pgxpool.Pool
}

func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// Submission loads and decodes the stored submission record.
func (r *SubmissionRepository) Submission(ctx context.Context, id string) (*types.Submission, error) {
	query, args, err := psql().Select(submissionColumns...).From(submissionTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate submission query: %w", err)
	}

	var row types.SubmissionRow
	err = pgxscan.Get(ctx, r.pool, &row, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}
	if err != nil {
		return nil, types.ErrSubmissionNotFound
	}

	return decodeSubmission(&row)
}

// RecentSubmissions lists the latest submissions without decoding their payloads.
func (r *SubmissionRepository) RecentSubmissions(ctx context.Context, limit uint64) ([]*types.SubmissionRow, error) {
	query, args, err := psql().Select("id", "applicant_name", "applicant_id_number", "selected_claims", "submitted_at", "created_at").
		From(submissionTableName).
		OrderBy("submitted_at desc").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate recent submissions query: %w", err)
	}

	var rows = make([]*types.SubmissionRow, 0)
	err = pgxscan.Select(ctx, r.pool, &rows, query, args...)
	return rows, utils.ErrorWrapOrNil(err, "failed to list submissions")
}

// SaveSubmission inserts the submission, or replaces it when the ID already exists.
func (r *SubmissionRepository) SaveSubmission(ctx context.Context, sub *types.Submission) error {
	row, err := encodeSubmission(sub, time.Now())
	if err != nil {
		return err
	}

	query, args, err := submissionUpsert(row)
	if err != nil {
		return fmt.Errorf("failed to generate upsert submission query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to save submission")
}

func (r *SubmissionRepository) DeleteSubmission(ctx context.Context, id string) error {
	query, args, err := psql().Delete(submissionTableName).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete submission query for %s: %w", id, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to delete submission")
}

func submissionUpsert(row *types.SubmissionRow) (string, []any, error) {
	return psql().Insert(submissionTableName).
		SetMap(utils.StructToMap(row)).
		Suffix("ON CONFLICT (id) DO UPDATE SET " + buildUpdateClause(utils.MutableMap(row))).
		ToSql()
}

func encodeSubmission(sub *types.Submission, now time.Time) (*types.SubmissionRow, error) {
	payload, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("failed to encode submission %s: %w", sub.ID, err)
	}

	claims := make([]string, len(sub.SelectedClaims))
	for i, c := range sub.SelectedClaims {
		claims[i] = c.String()
	}

	submittedAt := sub.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = now
	}

	return &types.SubmissionRow{
		ID:             sub.ID,
		ApplicantName:  sub.BasicInfo.Applicant.FullName,
		ApplicantID:    sub.BasicInfo.Applicant.IDNumber,
		SelectedClaims: claims,
		Payload:        payload,
		SubmittedAt:    submittedAt,
		CreatedAt:      now,
	}, nil
}

func decodeSubmission(row *types.SubmissionRow) (*types.Submission, error) {
	var sub types.Submission
	if err := json.Unmarshal(row.Payload, &sub); err != nil {
		return nil, fmt.Errorf("failed to decode submission %s: %w", row.ID, err)
	}
	sub.ID = row.ID
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = row.SubmittedAt
	}
	return &sub, nil
}
