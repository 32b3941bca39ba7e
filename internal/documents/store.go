// internal/documents/store.go

// Package documents implements the business-plan document store contract:
// read a record, shallow-merge section maps, track stage scores and
// completion. The pipeline never deletes or restructures documents.
package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"validation-workers/internal/common/errors"
	"validation-workers/internal/common/logger"
	"validation-workers/internal/models"
)

// Store is the document-store contract the engines depend on.
type Store interface {
	Get(ctx context.Context, ideaID string) (*models.Document, error)
	Create(ctx context.Context, doc *models.Document) error
	MergeSections(ctx context.Context, ideaID string, sections map[string]string) (*models.Document, error)
	SaveStageScore(ctx context.Context, ideaID string, score models.ValidationScore) error
	MarkStageCompleted(ctx context.Context, ideaID string, stage models.Stage) error
	CompletedStages(ctx context.Context, ideaID string) ([]models.Stage, error)
}

// PostgresStore persists documents in the business_plans table.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "documents"}),
	}
}

const getQuery = `
SELECT id, idea, customer_description, sections, stage_scores, completed_stages, updated_at
FROM business_plans
WHERE id = $1`

func (s *PostgresStore) Get(ctx context.Context, ideaID string) (*models.Document, error) {
	row := s.db.QueryRowContext(ctx, getQuery, ideaID)
	return scanDocument(row, ideaID)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDocument(row rowScanner, ideaID string) (*models.Document, error) {
	var (
		doc          models.Document
		sectionsJSON []byte
		scoresJSON   []byte
		completed    pq.Int64Array
	)

	err := row.Scan(&doc.ID, &doc.Idea, &doc.Customer, &sectionsJSON, &scoresJSON, &completed, &doc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NewDocumentNotFoundError(ideaID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get-document", err)
	}

	doc.Sections = map[string]string{}
	if len(sectionsJSON) > 0 {
		if err := json.Unmarshal(sectionsJSON, &doc.Sections); err != nil {
			return nil, errors.NewQueryExecutionFailedError("decode-sections", err)
		}
	}
	doc.StageScores = map[string]models.ValidationScore{}
	if len(scoresJSON) > 0 {
		if err := json.Unmarshal(scoresJSON, &doc.StageScores); err != nil {
			return nil, errors.NewQueryExecutionFailedError("decode-stage-scores", err)
		}
	}
	doc.CompletedStages = make([]int, len(completed))
	for i, idx := range completed {
		doc.CompletedStages[i] = int(idx)
	}

	return &doc, nil
}

const createQuery = `
INSERT INTO business_plans (id, idea, customer_description, sections, stage_scores, completed_stages, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

func (s *PostgresStore) Create(ctx context.Context, doc *models.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.Sections == nil {
		doc.Sections = map[string]string{}
	}
	if doc.StageScores == nil {
		doc.StageScores = map[string]models.ValidationScore{}
	}
	doc.UpdatedAt = time.Now().UTC()

	sectionsJSON, _ := json.Marshal(doc.Sections)
	scoresJSON, _ := json.Marshal(doc.StageScores)
	completed := make(pq.Int64Array, len(doc.CompletedStages))
	for i, idx := range doc.CompletedStages {
		completed[i] = int64(idx)
	}

	_, err := s.db.ExecContext(ctx, createQuery,
		doc.ID, doc.Idea, doc.Customer, sectionsJSON, scoresJSON, completed, doc.UpdatedAt)
	if err != nil {
		return errors.NewQueryExecutionFailedError("create-document", err)
	}
	return nil
}

const lockSectionsQuery = `
SELECT sections FROM business_plans WHERE id = $1 FOR UPDATE`

const updateSectionsQuery = `
UPDATE business_plans SET sections = $2, updated_at = $3 WHERE id = $1`

// MergeSections shallow-merges the partial section map into the document
// inside a transaction: keys present in partial overwrite, all other keys
// are preserved. Returns the merged document.
func (s *PostgresStore) MergeSections(ctx context.Context, ideaID string, sections map[string]string) (*models.Document, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.NewDatabaseConnectionFailedError(err)
	}
	defer tx.Rollback()

	var sectionsJSON []byte
	err = tx.QueryRowContext(ctx, lockSectionsQuery, ideaID).Scan(&sectionsJSON)
	if err == sql.ErrNoRows {
		return nil, errors.NewDocumentNotFoundError(ideaID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("lock-document", err)
	}

	existing := map[string]string{}
	if len(sectionsJSON) > 0 {
		if err := json.Unmarshal(sectionsJSON, &existing); err != nil {
			return nil, errors.NewQueryExecutionFailedError("decode-sections", err)
		}
	}
	for key, val := range sections {
		existing[key] = val
	}

	merged, _ := json.Marshal(existing)
	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, updateSectionsQuery, ideaID, merged, now); err != nil {
		return nil, errors.NewQueryExecutionFailedError("merge-sections", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("merge-sections-commit", err)
	}

	s.logger.Debug("sections merged", map[string]interface{}{
		"ideaId": ideaID, "mergedKeys": len(sections),
	})

	return s.Get(ctx, ideaID)
}

const lockScoresQuery = `
SELECT stage_scores FROM business_plans WHERE id = $1 FOR UPDATE`

const updateScoresQuery = `
UPDATE business_plans SET stage_scores = $2, updated_at = $3 WHERE id = $1`

// SaveStageScore stores the latest score for the stage, overwriting any
// previous evaluation. Concurrent re-evaluations race by design: last
// write wins.
func (s *PostgresStore) SaveStageScore(ctx context.Context, ideaID string, score models.ValidationScore) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewDatabaseConnectionFailedError(err)
	}
	defer tx.Rollback()

	var scoresJSON []byte
	err = tx.QueryRowContext(ctx, lockScoresQuery, ideaID).Scan(&scoresJSON)
	if err == sql.ErrNoRows {
		return errors.NewDocumentNotFoundError(ideaID)
	}
	if err != nil {
		return errors.NewQueryExecutionFailedError("lock-document", err)
	}

	scores := map[string]models.ValidationScore{}
	if len(scoresJSON) > 0 {
		if err := json.Unmarshal(scoresJSON, &scores); err != nil {
			return errors.NewQueryExecutionFailedError("decode-stage-scores", err)
		}
	}
	scores[score.Stage.String()] = score

	merged, _ := json.Marshal(scores)
	if _, err := tx.ExecContext(ctx, updateScoresQuery, ideaID, merged, time.Now().UTC()); err != nil {
		return errors.NewQueryExecutionFailedError("save-stage-score", err)
	}
	if err := tx.Commit(); err != nil {
		return errors.NewQueryExecutionFailedError("save-stage-score-commit", err)
	}
	return nil
}

const markCompletedQuery = `
UPDATE business_plans
SET completed_stages = (
  SELECT ARRAY(SELECT DISTINCT unnest(array_append(completed_stages, $2)) ORDER BY 1)
), updated_at = $3
WHERE id = $1`

// MarkStageCompleted records that the stage was evaluated at least once.
// Idempotent; completion is never rolled back.
func (s *PostgresStore) MarkStageCompleted(ctx context.Context, ideaID string, stage models.Stage) error {
	res, err := s.db.ExecContext(ctx, markCompletedQuery, ideaID, int(stage), time.Now().UTC())
	if err != nil {
		return errors.NewQueryExecutionFailedError("mark-stage-completed", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return errors.NewDocumentNotFoundError(ideaID)
	}
	return nil
}

const completedStagesQuery = `
SELECT completed_stages FROM business_plans WHERE id = $1`

func (s *PostgresStore) CompletedStages(ctx context.Context, ideaID string) ([]models.Stage, error) {
	var completed pq.Int64Array
	err := s.db.QueryRowContext(ctx, completedStagesQuery, ideaID).Scan(&completed)
	if err == sql.ErrNoRows {
		return nil, errors.NewDocumentNotFoundError(ideaID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("completed-stages", err)
	}

	stages := make([]models.Stage, 0, len(completed))
	for _, idx := range completed {
		stage := models.Stage(idx)
		if stage.Valid() {
			stages = append(stages, stage)
		}
	}
	return stages, nil
}
