package activity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dhukuti/internal/shared/session"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, a *Activity) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockRepository) List(ctx context.Context, q ListQuery) ([]Activity, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]Activity), args.Error(1)
}

type membership map[uuid.UUID]bool

func (m membership) IsMember(_ context.Context, groupID, _ uuid.UUID) (bool, error) {
	return m[groupID], nil
}

func TestRecordPersistsMessage(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, nil)

	groupID := uuid.New()
	msg := NewMessage(TypeGroupCreated, uuid.New(), "Group created", "Family Savings").ForGroup(groupID).With("cycleDuration", 30)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(a *Activity) bool {
		return a.MessageID == msg.ID && a.GroupID != nil && *a.GroupID == groupID && a.Metadata["cycleDuration"] == 30
	})).Return(nil).Once()

	require.NoError(t, svc.Record(context.Background(), msg))
	repo.AssertExpectations(t)
}

func TestRecordWrapsRepositoryError(t *testing.T) {
	repo := new(mockRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	err := NewService(repo, nil).Record(context.Background(), NewMessage(TypeMemberJoined, uuid.New(), "t", ""))
	assert.ErrorContains(t, err, "db down")
}

func TestFeedDefaultsToOwnActivities(t *testing.T) {
	repo := new(mockRepository)
	sess := session.Session{UserID: uuid.New()}

	repo.On("List", mock.Anything, mock.MatchedBy(func(q ListQuery) bool {
		return q.UserID != nil && *q.UserID == sess.UserID && q.Limit == 20
	})).Return([]Activity{{Title: "mine"}}, nil)

	got, err := NewService(repo, nil).Feed(context.Background(), sess, ListQuery{})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFeedClampsLimit(t *testing.T) {
	repo := new(mockRepository)
	repo.On("List", mock.Anything, mock.MatchedBy(func(q ListQuery) bool { return q.Limit == 100 })).
		Return([]Activity{}, nil)

	_, err := NewService(repo, nil).Feed(context.Background(), session.Session{UserID: uuid.New()}, ListQuery{Limit: 5000})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestFeedRequiresGroupMembership(t *testing.T) {
	member, outsider := uuid.New(), uuid.New()
	repo := new(mockRepository)
	repo.On("List", mock.Anything, mock.MatchedBy(func(q ListQuery) bool {
		return q.GroupID != nil && *q.GroupID == member && q.UserID == nil
	})).Return([]Activity{{}, {}}, nil)

	svc := NewService(repo, membership{member: true})
	sess := session.Session{UserID: uuid.New()}

	got, err := svc.Feed(context.Background(), sess, ListQuery{GroupID: &member})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = svc.Feed(context.Background(), sess, ListQuery{GroupID: &outsider})
	assert.ErrorIs(t, err, ErrNotGroupMember)
}

func TestPartitionKey(t *testing.T) {
	user, group, event := uuid.New(), uuid.New(), uuid.New()
	base := NewMessage(TypeTicketPurchased, user, "t", "")

	assert.Equal(t, user.String(), base.PartitionKey())
	assert.Equal(t, event.String(), base.ForEvent(event).PartitionKey())
	assert.Equal(t, group.String(), base.ForEvent(event).ForGroup(group).PartitionKey())
}

func TestWithDoesNotShareMetadata(t *testing.T) {
	a := NewMessage(TypeGroupCreated, uuid.New(), "t", "").With("k", 1)
	b := a.With("k", 2)
	assert.Equal(t, 1, a.Metadata["k"])
	assert.Equal(t, 2, b.Metadata["k"])
}
