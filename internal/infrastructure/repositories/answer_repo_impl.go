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

// AnswerRepository implements answer data operations
type AnswerRepository struct {
	db *gorm.DB
}

// NewAnswerRepository creates a new answer repository
func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{db: db}
}

// Create creates a new answer
func (r *AnswerRepository) Create(ctx context.Context, answer *entities.Answer) error {
	m := &models.Answer{
		ID:         answer.ID,
		Content:    answer.Content,
		QuestionID: answer.QuestionID,
		AuthorID:   answer.AuthorID,
		Votes:      answer.Votes,
		MediaURLs:  nonNilURLs(answer.MediaURLs),
		CreatedAt:  answer.CreatedAt.UTC(),
	}
	return translateError(GetDB(ctx, r.db).WithContext(ctx).Create(m).Error)
}

// GetByID gets an answer by ID
func (r *AnswerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Answer, error) {
	var m models.Answer
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// ListByQuestion lists the answers of one question oldest first
func (r *AnswerRepository) ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]*entities.Answer, error) {
	var ms []models.Answer
	if err := GetDB(ctx, r.db).WithContext(ctx).
		Where("question_id = ?", questionID).
		Order(creationOrder).
		Find(&ms).Error; err != nil {
		return nil, err
	}

	answers := make([]*entities.Answer, 0, len(ms))
	for i := range ms {
		answers = append(answers, r.toEntity(&ms[i]))
	}
	return answers, nil
}

// AddVotes increments the counter in the database and returns the updated row
func (r *AnswerRepository) AddVotes(ctx context.Context, id uuid.UUID, delta int) (*entities.Answer, error) {
	var m models.Answer
	err := GetDB(ctx, r.db).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return addVotes(tx, &m, id, delta)
	})
	if err != nil {
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *AnswerRepository) toEntity(m *models.Answer) *entities.Answer {
	return &entities.Answer{
		ID:         m.ID,
		Content:    m.Content,
		QuestionID: m.QuestionID,
		AuthorID:   m.AuthorID,
		Votes:      m.Votes,
		MediaURLs:  nonNilURLs(m.MediaURLs),
		CreatedAt:  m.CreatedAt,
	}
}
