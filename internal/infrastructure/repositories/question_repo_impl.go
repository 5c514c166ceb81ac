package repositories

import (
	"context"
	"errors"

	"devqa.backend/internal/domain/entities"
	domainerrors "devqa.backend/internal/domain/errors"
	"devqa.backend/internal/infrastructure/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const creationOrder = "created_at ASC, id ASC"

// QuestionRepository implements question data operations
type QuestionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// Create creates a new question
func (r *QuestionRepository) Create(ctx context.Context, question *entities.Question) error {
	m := &models.Question{
		ID:        question.ID,
		Title:     question.Title,
		Content:   question.Content,
		AuthorID:  question.AuthorID,
		Votes:     question.Votes,
		MediaURLs: nonNilURLs(question.MediaURLs),
		CreatedAt: question.CreatedAt.UTC(),
	}
	return translateError(GetDB(ctx, r.db).WithContext(ctx).Create(m).Error)
}

// GetByID gets a question by ID
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Question, error) {
	var m models.Question
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// List lists questions oldest first with pagination
func (r *QuestionRepository) List(ctx context.Context, limit, offset int) ([]*entities.Question, int64, error) {
	var totalCount int64
	query := GetDB(ctx, r.db).WithContext(ctx).Model(&models.Question{})
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Question
	query = GetDB(ctx, r.db).WithContext(ctx).Order(creationOrder)
	if limit > 0 {
		query = query.Limit(limit).Offset(max(offset, 0))
	}
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	questions := make([]*entities.Question, 0, len(ms))
	for i := range ms {
		questions = append(questions, r.toEntity(&ms[i]))
	}
	return questions, totalCount, nil
}

// AddVotes increments the counter in the database and returns the updated row
func (r *QuestionRepository) AddVotes(ctx context.Context, id uuid.UUID, delta int) (*entities.Question, error) {
	var m models.Question
	err := GetDB(ctx, r.db).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return addVotes(tx, &m, id, delta)
	})
	if err != nil {
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *QuestionRepository) toEntity(m *models.Question) *entities.Question {
	return &entities.Question{
		ID:        m.ID,
		Title:     m.Title,
		Content:   m.Content,
		AuthorID:  m.AuthorID,
		Votes:     m.Votes,
		MediaURLs: nonNilURLs(m.MediaURLs),
		CreatedAt: m.CreatedAt,
	}
}

// addVotes issues "votes = votes + delta" and reloads the row inside tx.
// dest must be a pointer to the model whose table holds the counter.
func addVotes(tx *gorm.DB, dest interface{}, id uuid.UUID, delta int) error {
	result := tx.Model(dest).Where("id = ?", id).UpdateColumn("votes", gorm.Expr("votes + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return tx.Where("id = ?", id).First(dest).Error
}
