package activity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"dhukuti/internal/shared/constants"
	"dhukuti/internal/shared/session"
	"dhukuti/pkg/logger"
)

var ErrNotGroupMember = errors.New("you are not a member of this group")

// MembershipChecker answers whether a user belongs to a group.
type MembershipChecker interface {
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
}

type Service interface {
	Recorder
	Feed(ctx context.Context, s session.Session, q ListQuery) ([]Activity, error)
}

type service struct {
	repo    Repository
	members MembershipChecker
	log     *logger.Logger
}

func NewService(repo Repository, members MembershipChecker) Service {
	return &service{repo: repo, members: members, log: logger.GetDefault()}
}

func (s *service) Record(ctx context.Context, msg Message) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	a := msg.ToActivity()
	if err := s.repo.Create(ctx, &a); err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	groupID := ""
	if msg.GroupID != nil {
		groupID = msg.GroupID.String()
	}
	s.log.LogActivityPublished(ctx, string(msg.Type), groupID)
	return nil
}

// Feed lists activities newest first. Without a group or event filter it returns the
// caller's own activities. A group feed is only visible to its members.
func (s *service) Feed(ctx context.Context, sess session.Session, q ListQuery) ([]Activity, error) {
	switch {
	case q.Limit < 1:
		q.Limit = constants.DEFAULT_ACTIVITY_LIMIT
	case q.Limit > constants.MAX_ACTIVITY_LIMIT:
		q.Limit = constants.MAX_ACTIVITY_LIMIT
	}

	if q.GroupID != nil && s.members != nil {
		ok, err := s.members.IsMember(ctx, *q.GroupID, sess.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to check membership: %w", err)
		}
		if !ok {
			return nil, ErrNotGroupMember
		}
	}
	if q.GroupID == nil && q.EventID == nil {
		q.UserID = &sess.UserID
	}

	activities, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}
