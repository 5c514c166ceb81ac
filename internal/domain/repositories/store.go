package repositories

// Store bundles the entity repositories of one backend so callers can swap
// the relational and in-memory implementations wholesale.
type Store interface {
	Users() UserRepository
	Questions() QuestionRepository
	Answers() AnswerRepository
	Comments() CommentRepository
	UnitOfWork() UnitOfWork
	Close() error
}
