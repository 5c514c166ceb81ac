// Package storetest holds the behavioral contract every storage backend
// must satisfy. Backend packages call it from their own tests.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"devqa.backend/internal/domain/entities"
	domainerrors "devqa.backend/internal/domain/errors"
	"devqa.backend/internal/domain/repositories"
	"devqa.backend/pkg/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
)

// ConcurrentVoters is the number of parallel votes cast by the race test.
const ConcurrentVoters = 25

// RunStoreContract exercises s. newStore must return an empty store per call.
func RunStoreContract(t *testing.T, newStore func(t *testing.T) repositories.Store) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("UserUniqueness", func(t *testing.T) { testUserUniqueness(t, newStore(t)) })
	t.Run("Questions", func(t *testing.T) { testQuestions(t, newStore(t)) })
	t.Run("QuestionPagination", func(t *testing.T) { testQuestionPagination(t, newStore(t)) })
	t.Run("VoteRoundTrip", func(t *testing.T) { testVoteRoundTrip(t, newStore(t)) })
	t.Run("ConcurrentVotes", func(t *testing.T) { testConcurrentVotes(t, newStore(t)) })
	t.Run("Answers", func(t *testing.T) { testAnswers(t, newStore(t)) })
	t.Run("Comments", func(t *testing.T) { testComments(t, newStore(t)) })
	t.Run("UnitOfWork", func(t *testing.T) { testUnitOfWork(t, newStore(t)) })
}

// NewUser builds a valid unverified user
func NewUser(email, username string) *entities.User {
	now := time.Now()
	return &entities.User{
		ID:                      utils.GenerateUUIDv7(),
		Email:                   email,
		Username:                username,
		PasswordHash:            "hash",
		Qualifications:          null.StringFrom("PhD"),
		VerificationToken:       null.StringFrom("tok-" + username),
		VerificationTokenExpiry: null.TimeFrom(now.Add(24 * time.Hour)),
		CreatedAt:               now,
		UpdatedAt:               now,
	}
}

// NewQuestion builds a question authored by authorID
func NewQuestion(authorID uuid.UUID, title string) *entities.Question {
	return &entities.Question{
		ID:        utils.GenerateUUIDv7(),
		Title:     title,
		Content:   "content of " + title,
		AuthorID:  authorID,
		MediaURLs: []string{"https://img.example/1.png", "https://img.example/2.png"},
		CreatedAt: time.Now(),
	}
}

func testUsers(t *testing.T, s repositories.Store) {
	ctx := context.Background()
	users := s.Users()

	u := NewUser("alice@devqa.io", "alice")
	require.NoError(t, users.Create(ctx, u))

	byID, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, byID.Email)
	assert.Equal(t, "PhD", byID.Qualifications.String)
	assert.False(t, byID.Biography.Valid)
	assert.False(t, byID.IsEmailVerified)

	byEmail, err := users.GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byName, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	byToken, err := users.GetByVerificationToken(ctx, "tok-alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byToken.ID)
	assert.WithinDuration(t, u.VerificationTokenExpiry.Time, byToken.VerificationTokenExpiry.Time, time.Second)

	newExpiry := time.Now().Add(48 * time.Hour)
	require.NoError(t, users.UpdateVerificationToken(ctx, u.ID, "tok-2", newExpiry))
	_, err = users.GetByVerificationToken(ctx, "tok-alice")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	byToken, err = users.GetByVerificationToken(ctx, "tok-2")
	require.NoError(t, err)
	assert.WithinDuration(t, newExpiry, byToken.VerificationTokenExpiry.Time, time.Second)

	require.NoError(t, users.MarkEmailVerified(ctx, u.ID))
	verified, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, verified.IsEmailVerified)
	assert.False(t, verified.VerificationToken.Valid)
	assert.False(t, verified.VerificationTokenExpiry.Valid)
	_, err = users.GetByVerificationToken(ctx, "tok-2")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	require.NoError(t, users.UpdatePassword(ctx, u.ID, "hash-2"))
	updated, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash-2", updated.PasswordHash)

	require.NoError(t, users.Delete(ctx, u.ID))
	_, err = users.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	missing := uuid.New()
	assert.ErrorIs(t, users.Delete(ctx, missing), domainerrors.ErrNotFound)
	assert.ErrorIs(t, users.MarkEmailVerified(ctx, missing), domainerrors.ErrNotFound)
	assert.ErrorIs(t, users.UpdatePassword(ctx, missing, "x"), domainerrors.ErrNotFound)
	assert.ErrorIs(t, users.UpdateVerificationToken(ctx, missing, "x", time.Now()), domainerrors.ErrNotFound)
	_, err = users.GetByEmail(ctx, "nobody@devqa.io")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	_, err = users.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	_, err = users.GetByVerificationToken(ctx, "")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func testUserUniqueness(t *testing.T, s repositories.Store) {
	ctx := context.Background()
	users := s.Users()

	require.NoError(t, users.Create(ctx, NewUser("bob@devqa.io", "bob")))

	err := users.Create(ctx, NewUser("bob@devqa.io", "bobby"))
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)

	err = users.Create(ctx, NewUser("bobby@devqa.io", "bob"))
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)

	_, err = users.GetByUsername(ctx, "bobby")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound, "rejected insert must not leave a row")
}

func testQuestions(t *testing.T, s repositories.Store) {
	ctx := context.Background()
	author := uuid.New()

	first := NewQuestion(author, "first")
	second := NewQuestion(author, "second")
	second.MediaURLs = nil
	// Same timestamp: the id breaks the tie.
	second.CreatedAt = first.CreatedAt
	require.NoError(t, s.Questions().Create(ctx, first))
	require.NoError(t, s.Questions().Create(ctx, second))

	got, err := s.Questions().GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Title)
	assert.Equal(t, 0, got.Votes)
	assert.Equal(t, first.MediaURLs, got.MediaURLs)

	got, err = s.Questions().GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.MediaURLs)
	assert.Empty(t, got.MediaURLs)

	list, total, err := s.Questions().List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)

	_, err = s.Questions().GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func testQuestionPagination(t *testing.T, s repositories.Store) {
	ctx := context.Background()
	author := uuid.New()
	base := time.Now().Add(-time.Hour)

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		q := NewQuestion(author, "q")
		q.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.Questions().Create(ctx, q))
		ids = append(ids, q.ID)
	}

	page, total, err := s.Questions().List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	assert.Equal(t, ids[2], page[0].ID)
	assert.Equal(t, ids[3], page[1].ID)

	page, _, err = s.Questions().List(ctx, 2, 4)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[4], page[0].ID)

	page, _, err = s.Questions().List(ctx, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, page)

	page, _, err = s.Questions().List(ctx, 2, -9223372036854775716)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, ids[0], page[0].ID)

	far := utils.GetPaginationParams(92233720368547760, utils.MaxLimit)
	page, total, err = s.Questions().List(ctx, far.Limit, far.CalculateOffset())
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Empty(t, page)
}

func testVoteRoundTrip(t *testing.T, s repositories.Store) {
	ctx := context.Background()
	q := NewQuestion(uuid.New(), "vote me")
	require.NoError(t, s.Questions().Create(ctx, q))

	up, err := s.Questions().AddVotes(ctx, q.ID, entities.VoteUp.Delta())
	require.NoError(t, err)
	assert.Equal(t, 1, up.Votes)
	assert.Equal(t, q.Title, up.Title)

	down, err := s.Questions().AddVotes(ctx, q.ID, entities.VoteDown.Delta())
	require.NoError(t, err)
	assert.Equal(t, 0, down.Votes)

	down, err = s.Questions().AddVotes(ctx, q.ID, entities.VoteDown.Delta())
	require.NoError(t, err)
	assert.Equal(t, -1, down.Votes, "counter may go negative")

	_, err = s.Questions().AddVotes(ctx, uuid.New(), 1)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	_, err = s.Answers().AddVotes(ctx, uuid.New(), 1)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func testConcurrentVotes(t *testing.T, s repositories.Store) {
	ctx := context.Background()
	q := NewQuestion(uuid.New(), "popular")
	require.NoError(t, s.Questions().Create(ctx, q))
	a := &entities.Answer{ID: utils.GenerateUUIDv7(), Content: "a", QuestionID: q.ID, AuthorID: uuid.New(), CreatedAt: time.Now()}
	require.NoError(t, s.Answers().Create(ctx, a))

	var wg sync.WaitGroup
	errs := make(chan error, 2*ConcurrentVoters)
	for i := 0; i < ConcurrentVoters; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := s.Questions().AddVotes(ctx, q.ID, 1)
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := s.Answers().AddVotes(ctx, a.ID, 1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	gotQ, err := s.Questions().GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, ConcurrentVoters, gotQ.Votes)

	gotA, err := s.Answers().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, ConcurrentVoters, gotA.Votes)
}

func testAnswers(t *testing.T, s repositories.Store) {
	ctx := context.Background()
	q1 := NewQuestion(uuid.New(), "q1")
	q2 := NewQuestion(uuid.New(), "q2")
	require.NoError(t, s.Questions().Create(ctx, q1))
	require.NoError(t, s.Questions().Create(ctx, q2))

	base := time.Now()
	mk := func(q uuid.UUID, content string, offset time.Duration) *entities.Answer {
		a := &entities.Answer{
			ID:         utils.GenerateUUIDv7(),
			Content:    content,
			QuestionID: q,
			AuthorID:   uuid.New(),
			MediaURLs:  []string{"https://img.example/a.png"},
			CreatedAt:  base.Add(offset),
		}
		require.NoError(t, s.Answers().Create(ctx, a))
		return a
	}
	late := mk(q1.ID, "late", time.Minute)
	early := mk(q1.ID, "early", 0)
	mk(q2.ID, "other", 0)

	list, err := s.Answers().ListByQuestion(ctx, q1.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, early.ID, list[0].ID)
	assert.Equal(t, late.ID, list[1].ID)
	assert.Equal(t, []string{"https://img.example/a.png"}, list[0].MediaURLs)

	empty, err := s.Answers().ListByQuestion(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)

	voted, err := s.Answers().AddVotes(ctx, early.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, voted.Votes)
	assert.Equal(t, q1.ID, voted.QuestionID)

	_, err = s.Answers().GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func testComments(t *testing.T, s repositories.Store) {
	ctx := context.Background()
	q := NewQuestion(uuid.New(), "q")
	require.NoError(t, s.Questions().Create(ctx, q))
	a := &entities.Answer{ID: utils.GenerateUUIDv7(), Content: "a", QuestionID: q.ID, AuthorID: uuid.New(), CreatedAt: time.Now()}
	require.NoError(t, s.Answers().Create(ctx, a))

	base := time.Now()
	onQuestion := &entities.Comment{
		ID: utils.GenerateUUIDv7(), Content: "on q", AuthorID: uuid.New(),
		QuestionID: uuid.NullUUID{UUID: q.ID, Valid: true}, CreatedAt: base,
	}
	onAnswer := &entities.Comment{
		ID: utils.GenerateUUIDv7(), Content: "on a", AuthorID: uuid.New(),
		AnswerID: uuid.NullUUID{UUID: a.ID, Valid: true}, CreatedAt: base.Add(time.Second),
	}
	onQuestionLater := &entities.Comment{
		ID: utils.GenerateUUIDv7(), Content: "on q again", AuthorID: uuid.New(),
		QuestionID: uuid.NullUUID{UUID: q.ID, Valid: true}, CreatedAt: base.Add(2 * time.Second),
	}
	require.NoError(t, s.Comments().Create(ctx, onQuestionLater))
	require.NoError(t, s.Comments().Create(ctx, onQuestion))
	require.NoError(t, s.Comments().Create(ctx, onAnswer))

	both := &entities.Comment{
		ID: utils.GenerateUUIDv7(), Content: "both", AuthorID: uuid.New(),
		QuestionID: uuid.NullUUID{UUID: q.ID, Valid: true},
		AnswerID:   uuid.NullUUID{UUID: a.ID, Valid: true},
		CreatedAt:  base,
	}
	err := s.Comments().Create(ctx, both)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	assert.ErrorIs(t, err, entities.ErrCommentTarget)

	neither := &entities.Comment{ID: utils.GenerateUUIDv7(), Content: "neither", AuthorID: uuid.New(), CreatedAt: base}
	assert.ErrorIs(t, s.Comments().Create(ctx, neither), domainerrors.ErrInvalidInput)

	byQuestion, err := s.Comments().List(ctx, entities.CommentFilter{QuestionID: &q.ID})
	require.NoError(t, err)
	require.Len(t, byQuestion, 2)
	assert.Equal(t, onQuestion.ID, byQuestion[0].ID)
	assert.Equal(t, onQuestionLater.ID, byQuestion[1].ID)
	for _, c := range byQuestion {
		assert.True(t, c.QuestionID.Valid)
		assert.False(t, c.AnswerID.Valid)
	}

	byAnswer, err := s.Comments().List(ctx, entities.CommentFilter{AnswerID: &a.ID})
	require.NoError(t, err)
	require.Len(t, byAnswer, 1)
	assert.Equal(t, onAnswer.ID, byAnswer[0].ID)

	all, err := s.Comments().List(ctx, entities.CommentFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func testUnitOfWork(t *testing.T, s repositories.Store) {
	ctx := context.Background()
	q := NewQuestion(uuid.New(), "in tx")

	err := s.UnitOfWork().Do(ctx, func(ctx context.Context) error {
		return s.Questions().Create(ctx, q)
	})
	require.NoError(t, err)

	_, err = s.Questions().GetByID(ctx, q.ID)
	assert.NoError(t, err)
}

// RunSessionStoreContract exercises a session store. Expired sessions are
// created directly in the past, so the store must accept them.
func RunSessionStoreContract(t *testing.T, store repositories.SessionStore) {
	ctx := context.Background()
	require.NoError(t, store.Init(ctx))
	require.NoError(t, store.Init(ctx), "Init must be repeatable")

	now := time.Now()
	live := &entities.Session{ID: "live-" + uuid.NewString(), UserID: uuid.New(), CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	stale := &entities.Session{ID: "stale-" + uuid.NewString(), UserID: uuid.New(), CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}
	require.NoError(t, store.Create(ctx, live))
	require.NoError(t, store.Create(ctx, stale))

	got, err := store.Get(ctx, live.ID)
	require.NoError(t, err)
	assert.Equal(t, live.UserID, got.UserID)

	_, err = store.Get(ctx, stale.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	_, err = store.Get(ctx, "unknown")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	n, err := store.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, store.Delete(ctx, live.ID))
	_, err = store.Get(ctx, live.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	assert.NoError(t, store.Delete(ctx, live.ID), "deleting twice is not an error")
}
