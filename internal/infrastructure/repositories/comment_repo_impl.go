package repositories

import (
	"context"
	"errors"

	"devqa.backend/internal/domain/entities"
	domainerrors "devqa.backend/internal/domain/errors"
	"devqa.backend/internal/infrastructure/models"
	"gorm.io/gorm"
)

// CommentRepository implements comment data operations
type CommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create creates a new comment
func (r *CommentRepository) Create(ctx context.Context, comment *entities.Comment) error {
	if err := comment.ValidateTarget(); err != nil {
		return errors.Join(domainerrors.ErrInvalidInput, err)
	}

	m := &models.Comment{
		ID:         comment.ID,
		Content:    comment.Content,
		AuthorID:   comment.AuthorID,
		QuestionID: comment.QuestionID,
		AnswerID:   comment.AnswerID,
		CreatedAt:  comment.CreatedAt.UTC(),
	}
	return translateError(GetDB(ctx, r.db).WithContext(ctx).Create(m).Error)
}

// List lists comments matching the filter oldest first
func (r *CommentRepository) List(ctx context.Context, filter entities.CommentFilter) ([]*entities.Comment, error) {
	query := GetDB(ctx, r.db).WithContext(ctx).Order(creationOrder)
	if filter.QuestionID != nil {
		query = query.Where("question_id = ?", *filter.QuestionID)
	}
	if filter.AnswerID != nil {
		query = query.Where("answer_id = ?", *filter.AnswerID)
	}

	var ms []models.Comment
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}

	comments := make([]*entities.Comment, 0, len(ms))
	for i := range ms {
		comments = append(comments, r.toEntity(&ms[i]))
	}
	return comments, nil
}

func (r *CommentRepository) toEntity(m *models.Comment) *entities.Comment {
	return &entities.Comment{
		ID:         m.ID,
		Content:    m.Content,
		AuthorID:   m.AuthorID,
		QuestionID: m.QuestionID,
		AnswerID:   m.AnswerID,
		CreatedAt:  m.CreatedAt,
	}
}
