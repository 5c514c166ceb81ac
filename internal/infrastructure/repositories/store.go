package repositories

import (
	domainRepos "devqa.backend/internal/domain/repositories"
	"gorm.io/gorm"
)

// Store is the relational backend
type Store struct {
	db        *gorm.DB
	users     *UserRepository
	questions *QuestionRepository
	answers   *AnswerRepository
	comments  *CommentRepository
	uow       domainRepos.UnitOfWork
}

var _ domainRepos.Store = (*Store)(nil)

// NewStore wires the gorm repositories over db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:        db,
		users:     NewUserRepository(db),
		questions: NewQuestionRepository(db),
		answers:   NewAnswerRepository(db),
		comments:  NewCommentRepository(db),
		uow:       NewUnitOfWork(db),
	}
}

func (s *Store) Users() domainRepos.UserRepository         { return s.users }
func (s *Store) Questions() domainRepos.QuestionRepository { return s.questions }
func (s *Store) Answers() domainRepos.AnswerRepository     { return s.answers }
func (s *Store) Comments() domainRepos.CommentRepository   { return s.comments }
func (s *Store) UnitOfWork() domainRepos.UnitOfWork        { return s.uow }

// Close closes the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
