// Package memory is a process-local storage backend for development and
// tests. All state is lost on restart.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"devqa.backend/internal/domain/entities"
	domainerrors "devqa.backend/internal/domain/errors"
	"devqa.backend/internal/domain/repositories"
	"github.com/google/uuid"
)

// Store keeps every entity in maps guarded by one RWMutex. Vote updates
// happen under the write lock, so concurrent deltas are never lost.
type Store struct {
	mu        sync.RWMutex
	users     map[uuid.UUID]*entities.User
	questions map[uuid.UUID]*entities.Question
	answers   map[uuid.UUID]*entities.Answer
	comments  map[uuid.UUID]*entities.Comment
	now       func() time.Time
}

var _ repositories.Store = (*Store)(nil)

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		users:     make(map[uuid.UUID]*entities.User),
		questions: make(map[uuid.UUID]*entities.Question),
		answers:   make(map[uuid.UUID]*entities.Answer),
		comments:  make(map[uuid.UUID]*entities.Comment),
		now:       time.Now,
	}
}

func (s *Store) Users() repositories.UserRepository         { return userRepo{s} }
func (s *Store) Questions() repositories.QuestionRepository { return questionRepo{s} }
func (s *Store) Answers() repositories.AnswerRepository     { return answerRepo{s} }
func (s *Store) Comments() repositories.CommentRepository   { return commentRepo{s} }

// UnitOfWork runs fn directly. Each repository call is atomic on its own;
// multi-step rollback is not provided.
func (s *Store) UnitOfWork() repositories.UnitOfWork { return unitOfWork{} }

// Close is a no-op
func (s *Store) Close() error { return nil }

type unitOfWork struct{}

func (unitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// createdBefore orders by creation time, then id.
func createdBefore(at time.Time, aID uuid.UUID, bt time.Time, bID uuid.UUID) bool {
	if !at.Equal(bt) {
		return at.Before(bt)
	}
	return aID.String() < bID.String()
}

func copyURLs(urls []string) []string {
	out := make([]string, len(urls))
	copy(out, urls)
	return out
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *entities.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return domainerrors.ErrAlreadyExists
		}
	}
	if _, ok := r.s.users[user.ID]; ok {
		return domainerrors.ErrAlreadyExists
	}
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r userRepo) find(match func(u *entities.User) bool) (*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}

func (r userRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.User, error) {
	return r.find(func(u *entities.User) bool { return u.ID == id })
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entities.User, error) {
	return r.find(func(u *entities.User) bool { return u.Email == email })
}

func (r userRepo) GetByUsername(_ context.Context, username string) (*entities.User, error) {
	return r.find(func(u *entities.User) bool { return u.Username == username })
}

func (r userRepo) GetByVerificationToken(_ context.Context, token string) (*entities.User, error) {
	if token == "" {
		return nil, domainerrors.ErrNotFound
	}
	return r.find(func(u *entities.User) bool {
		return u.VerificationToken.Valid && u.VerificationToken.String == token
	})
}

func (r userRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return domainerrors.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

func (r userRepo) update(id uuid.UUID, fn func(u *entities.User)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	fn(u)
	u.UpdatedAt = r.s.now()
	return nil
}

func (r userRepo) MarkEmailVerified(_ context.Context, id uuid.UUID) error {
	return r.update(id, func(u *entities.User) {
		u.IsEmailVerified = true
		u.VerificationToken.Valid = false
		u.VerificationToken.String = ""
		u.VerificationTokenExpiry.Valid = false
		u.VerificationTokenExpiry.Time = time.Time{}
	})
}

func (r userRepo) UpdateVerificationToken(_ context.Context, id uuid.UUID, token string, expiry time.Time) error {
	return r.update(id, func(u *entities.User) {
		u.VerificationToken.SetValid(token)
		u.VerificationTokenExpiry.SetValid(expiry)
	})
}

func (r userRepo) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	return r.update(id, func(u *entities.User) {
		u.PasswordHash = passwordHash
	})
}

type questionRepo struct{ s *Store }

func cloneQuestion(q *entities.Question) *entities.Question {
	cp := *q
	cp.MediaURLs = copyURLs(q.MediaURLs)
	return &cp
}

func (r questionRepo) Create(_ context.Context, question *entities.Question) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.questions[question.ID]; ok {
		return domainerrors.ErrAlreadyExists
	}
	r.s.questions[question.ID] = cloneQuestion(question)
	return nil
}

func (r questionRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.Question, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	q, ok := r.s.questions[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return cloneQuestion(q), nil
}

func (r questionRepo) List(_ context.Context, limit, offset int) ([]*entities.Question, int64, error) {
	r.s.mu.RLock()
	all := make([]*entities.Question, 0, len(r.s.questions))
	for _, q := range r.s.questions {
		all = append(all, cloneQuestion(q))
	}
	r.s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return createdBefore(all[i].CreatedAt, all[i].ID, all[j].CreatedAt, all[j].ID)
	})

	total := int64(len(all))
	if limit <= 0 {
		return all, total, nil
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []*entities.Question{}, total, nil
	}
	end := offset + limit
	if end > len(all) || end < offset {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r questionRepo) AddVotes(_ context.Context, id uuid.UUID, delta int) (*entities.Question, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	q, ok := r.s.questions[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	q.Votes += delta
	return cloneQuestion(q), nil
}

type answerRepo struct{ s *Store }

func cloneAnswer(a *entities.Answer) *entities.Answer {
	cp := *a
	cp.MediaURLs = copyURLs(a.MediaURLs)
	return &cp
}

func (r answerRepo) Create(_ context.Context, answer *entities.Answer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.answers[answer.ID]; ok {
		return domainerrors.ErrAlreadyExists
	}
	r.s.answers[answer.ID] = cloneAnswer(answer)
	return nil
}

func (r answerRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.Answer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.answers[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return cloneAnswer(a), nil
}

func (r answerRepo) ListByQuestion(_ context.Context, questionID uuid.UUID) ([]*entities.Answer, error) {
	r.s.mu.RLock()
	out := []*entities.Answer{}
	for _, a := range r.s.answers {
		if a.QuestionID == questionID {
			out = append(out, cloneAnswer(a))
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return createdBefore(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID)
	})
	return out, nil
}

func (r answerRepo) AddVotes(_ context.Context, id uuid.UUID, delta int) (*entities.Answer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.answers[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	a.Votes += delta
	return cloneAnswer(a), nil
}

type commentRepo struct{ s *Store }

func (r commentRepo) Create(_ context.Context, comment *entities.Comment) error {
	if err := comment.ValidateTarget(); err != nil {
		return errors.Join(domainerrors.ErrInvalidInput, err)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.comments[comment.ID]; ok {
		return domainerrors.ErrAlreadyExists
	}
	cp := *comment
	r.s.comments[comment.ID] = &cp
	return nil
}

func (r commentRepo) List(_ context.Context, filter entities.CommentFilter) ([]*entities.Comment, error) {
	r.s.mu.RLock()
	out := []*entities.Comment{}
	for _, c := range r.s.comments {
		if filter.Matches(c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return createdBefore(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID)
	})
	return out, nil
}
