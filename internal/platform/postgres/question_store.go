package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/parlato/parlato-api/internal/domain"
	"github.com/parlato/parlato-api/internal/platform/logger"
	"github.com/parlato/parlato-api/internal/store"
)

// PostgresQuestionStore implements the store.QuestionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresQuestionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresQuestionStore creates a new PostgreSQL implementation of
// the QuestionStore interface. It accepts a database connection or
// transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresQuestionStore(db store.DBTX, logger *slog.Logger) *PostgresQuestionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresQuestionStore{
		db:     db,
		logger: logger.With(slog.String("component", "question_store")),
	}
}

// Ensure PostgresQuestionStore implements store.QuestionStore interface
var _ store.QuestionStore = (*PostgresQuestionStore)(nil)

// GetQuestion implements store.QuestionStore.GetQuestion
// It retrieves a question with its teaching and both tag collections.
// Returns store.ErrQuestionNotFound if the question does not exist.
func (s *PostgresQuestionStore) GetQuestion(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Question, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT q.id, q.teaching_id, q.lesson_id, q.created_at, q.updated_at,
		       t.id, t.user_language_string, t.learning_language_string, t.tip,
		       t.created_at, t.updated_at
		FROM questions q
		JOIN teachings t ON t.id = q.teaching_id
		WHERE q.id = $1
	`

	var question domain.Question
	var teaching domain.Teaching
	var tip sql.NullString

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&question.ID,
		&question.TeachingID,
		&question.LessonID,
		&question.CreatedAt,
		&question.UpdatedAt,
		&teaching.ID,
		&teaching.UserLanguageString,
		&teaching.LearningLanguageString,
		&tip,
		&teaching.CreatedAt,
		&teaching.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("question not found", slog.String("question_id", id.String()))
			return nil, store.ErrQuestionNotFound
		}
		log.Error("failed to get question",
			slog.String("error", err.Error()),
			slog.String("question_id", id.String()))
		return nil, MapError(err)
	}

	teaching.Tip = tip.String
	question.Teaching = &teaching

	question.SkillTags, err = s.questionTags(ctx, question.ID)
	if err != nil {
		log.Error("failed to load question skill tags",
			slog.String("error", err.Error()),
			slog.String("question_id", id.String()))
		return nil, MapError(err)
	}

	teaching.SkillTags, err = s.teachingTags(ctx, teaching.ID)
	if err != nil {
		log.Error("failed to load teaching skill tags",
			slog.String("error", err.Error()),
			slog.String("teaching_id", teaching.ID.String()))
		return nil, MapError(err)
	}

	return &question, nil
}

// GetVariant implements store.QuestionStore.GetVariant
// Returns store.ErrVariantNotFound if the question has no variant for
// the requested delivery method.
func (s *PostgresQuestionStore) GetVariant(
	ctx context.Context,
	questionID uuid.UUID,
	method domain.DeliveryMethod,
) (*domain.QuestionVariant, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, question_id, method, prompt, answer, alternatives, why, hint,
		       correct_option_id, created_at, updated_at
		FROM question_variants
		WHERE question_id = $1 AND method = $2
	`

	var variant domain.QuestionVariant
	var prompt, answer, alternatives, why, hint, correctOptionID sql.NullString

	err := s.db.QueryRowContext(ctx, query, questionID, string(method)).Scan(
		&variant.ID,
		&variant.QuestionID,
		&variant.Method,
		&prompt,
		&answer,
		&alternatives,
		&why,
		&hint,
		&correctOptionID,
		&variant.CreatedAt,
		&variant.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("variant not found",
				slog.String("question_id", questionID.String()),
				slog.String("method", string(method)))
			return nil, store.ErrVariantNotFound
		}
		log.Error("failed to get question variant",
			slog.String("error", err.Error()),
			slog.String("question_id", questionID.String()),
			slog.String("method", string(method)))
		return nil, MapError(err)
	}

	variant.Prompt = prompt.String
	variant.Answer = answer.String
	variant.Alternatives = alternatives.String
	variant.Why = why.String
	variant.Hint = hint.String
	variant.CorrectOptionID = correctOptionID.String

	return &variant, nil
}

func (s *PostgresQuestionStore) questionTags(
	ctx context.Context,
	questionID uuid.UUID,
) ([]domain.SkillTag, error) {
	query := `
		SELECT st.id, st.name
		FROM skill_tags st
		JOIN question_skill_tags qst ON qst.skill_tag_id = st.id
		WHERE qst.question_id = $1
		ORDER BY st.name
	`
	return s.scanTags(ctx, query, questionID)
}

func (s *PostgresQuestionStore) teachingTags(
	ctx context.Context,
	teachingID uuid.UUID,
) ([]domain.SkillTag, error) {
	query := `
		SELECT st.id, st.name
		FROM skill_tags st
		JOIN teaching_skill_tags tst ON tst.skill_tag_id = st.id
		WHERE tst.teaching_id = $1
		ORDER BY st.name
	`
	return s.scanTags(ctx, query, teachingID)
}

func (s *PostgresQuestionStore) scanTags(
	ctx context.Context,
	query string,
	ownerID uuid.UUID,
) ([]domain.SkillTag, error) {
	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tags []domain.SkillTag
	for rows.Next() {
		var tag domain.SkillTag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}
