package contributions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"dhukuti/internal/activity"
	"dhukuti/internal/shared/clock"
	"dhukuti/internal/shared/money"
	"dhukuti/internal/shared/session"
	"dhukuti/pkg/logger"
	"dhukuti/pkg/metrics"
)

var (
	ErrNotGroupMember = errors.New("not a member of this group")
	ErrForbidden      = errors.New("only the contributing member can pay this contribution")
)

// MembershipChecker reports whether a user is an active member of a group.
type MembershipChecker interface {
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
}

type Service interface {
	Create(ctx context.Context, s session.Session, req CreateContributionRequest) (*Contribution, error)
	List(ctx context.Context, s session.Session, q ListContributionsQuery) ([]Contribution, error)
	Pay(ctx context.Context, s session.Session, id uuid.UUID) (*Contribution, error)

	// SweepOverdue marks up to batchSize late PENDING contributions as OVERDUE.
	SweepOverdue(ctx context.Context, batchSize int) (int, error)
}

type service struct {
	repo      Repository
	members   MembershipChecker
	publisher activity.Publisher
	clock     clock.Clock
	log       *logger.Logger
}

func NewService(repo Repository, members MembershipChecker, publisher activity.Publisher, clk clock.Clock) Service {
	if publisher == nil {
		publisher = activity.NopPublisher{}
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &service{
		repo:      repo,
		members:   members,
		publisher: publisher,
		clock:     clk,
		log:       logger.GetDefault(),
	}
}

func (s *service) requireMember(ctx context.Context, groupID, userID uuid.UUID) error {
	ok, err := s.members.IsMember(ctx, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !ok {
		return ErrNotGroupMember
	}
	return nil
}

func (s *service) Create(ctx context.Context, sess session.Session, req CreateContributionRequest) (*Contribution, error) {
	groupID, err := uuid.Parse(req.GroupID)
	if err != nil {
		return nil, fmt.Errorf("invalid group id: %w", err)
	}
	if req.Amount <= 0 {
		return nil, money.ErrInvalidAmount
	}
	if err := s.requireMember(ctx, groupID, sess.UserID); err != nil {
		return nil, err
	}

	c := &Contribution{
		GroupID:     groupID,
		UserID:      sess.UserID,
		CycleNumber: req.CycleNumber,
		Amount:      req.Amount,
		Currency:    money.DefaultCurrency,
		DueDate:     req.DueDate.UTC(),
		Status:      StatusPending,
		Notes:       strings.TrimSpace(req.Notes),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.log.LogContributionRecorded(ctx, c.ID.String(), groupID.String(), string(c.Status))
	return c, nil
}

// List returns a group's contributions to its members, or the caller's own contributions
// when no group is given.
func (s *service) List(ctx context.Context, sess session.Session, q ListContributionsQuery) ([]Contribution, error) {
	f := Filter{Status: Status(q.Status)}
	if q.GroupID != "" {
		groupID, err := uuid.Parse(q.GroupID)
		if err != nil {
			return nil, fmt.Errorf("invalid group id: %w", err)
		}
		if err := s.requireMember(ctx, groupID, sess.UserID); err != nil {
			return nil, err
		}
		f.GroupID = &groupID
	} else {
		userID := sess.UserID
		f.UserID = &userID
	}

	out, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	if out == nil {
		out = []Contribution{}
	}
	return out, nil
}

func (s *service) Pay(ctx context.Context, sess session.Session, id uuid.UUID) (*Contribution, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != sess.UserID && !sess.IsAdmin() {
		return nil, ErrForbidden
	}

	c, err := s.repo.MarkPaid(ctx, id, s.clock.Now())
	if err != nil {
		return nil, err
	}

	s.log.LogContributionRecorded(ctx, c.ID.String(), c.GroupID.String(), string(c.Status))
	s.publish(ctx, activity.NewMessage(activity.TypeContributionPaid, c.UserID,
		"Contribution paid",
		fmt.Sprintf("%s paid %s for cycle %d", sess.Email, c.Amount.Format(c.Currency), c.CycleNumber)).
		ForGroup(c.GroupID).
		With("contributionId", c.ID.String()).
		With("amount", c.Amount.String()).
		With("cycleNumber", c.CycleNumber))

	return c, nil
}

func (s *service) SweepOverdue(ctx context.Context, batchSize int) (int, error) {
	late, err := s.repo.MarkOverdue(ctx, s.clock.Now(), batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to mark contributions overdue: %w", err)
	}

	for _, c := range late {
		s.log.LogContributionRecorded(ctx, c.ID.String(), c.GroupID.String(), string(c.Status))
		s.publish(ctx, activity.NewMessage(activity.TypeContributionOverdue, c.UserID,
			"Contribution overdue",
			fmt.Sprintf("Cycle %d contribution of %s was due %s", c.CycleNumber, c.Amount.Format(c.Currency), c.DueDate.Format("2006-01-02"))).
			ForGroup(c.GroupID).
			With("contributionId", c.ID.String()))
	}
	metrics.ContributionsOverdue.Add(float64(len(late)))
	return len(late), nil
}

func (s *service) publish(ctx context.Context, msg activity.Message) {
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.log.WithError(err).Warn("Failed to publish activity", "type", string(msg.Type))
	}
}
