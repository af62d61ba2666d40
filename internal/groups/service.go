package groups

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"dhukuti/internal/activity"
	"dhukuti/internal/shared/clock"
	"dhukuti/internal/shared/constants"
	"dhukuti/internal/shared/money"
	"dhukuti/internal/shared/session"
	"dhukuti/internal/wizard"
	"dhukuti/pkg/cache"
	"dhukuti/pkg/logger"
)

type Service interface {
	Create(ctx context.Context, s session.Session, req CreateGroupRequest) (*Group, error)
	List(ctx context.Context, s session.Session, q ListGroupsQuery) (*GroupListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*Group, error)
	Join(ctx context.Context, s session.Session, id uuid.UUID) (*GroupMember, error)
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)

	// Submitter creates groups from completed wizard forms on behalf of s.
	Submitter(s session.Session) wizard.Submitter[FormData]
}

type service struct {
	repo      Repository
	cache     cache.Service
	publisher activity.Publisher
	clock     clock.Clock
	log       *logger.Logger
}

func NewService(repo Repository, cacheService cache.Service, publisher activity.Publisher, clk clock.Clock) Service {
	if cacheService == nil {
		cacheService = cache.NewService(nil)
	}
	if publisher == nil {
		publisher = activity.NopPublisher{}
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &service{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		clock:     clk,
		log:       logger.GetDefault(),
	}
}

var ErrInvalidGroup = errors.New("invalid group")

// checkGroupBounds applies the name and contribution limits shared with the wizard.
func checkGroupBounds(req CreateGroupRequest) error {
	if n := utf8.RuneCountInString(strings.TrimSpace(req.Name)); n < constants.MIN_GROUP_NAME_LENGTH || n > constants.MAX_GROUP_NAME_LENGTH {
		return fmt.Errorf("%w: group name must be between %d and %d characters", ErrInvalidGroup,
			constants.MIN_GROUP_NAME_LENGTH, constants.MAX_GROUP_NAME_LENGTH)
	}
	if req.ContributionAmount < constants.MIN_CONTRIBUTION_AMOUNT || req.ContributionAmount > constants.MAX_CONTRIBUTION_AMOUNT {
		return fmt.Errorf("%w: contribution amount must be between %s and %s", ErrInvalidGroup,
			money.Amount(constants.MIN_CONTRIBUTION_AMOUNT), money.Amount(constants.MAX_CONTRIBUTION_AMOUNT))
	}
	if req.MaxMembers < constants.MIN_GROUP_MEMBERS {
		return fmt.Errorf("%w: minimum %d members required", ErrInvalidGroup, constants.MIN_GROUP_MEMBERS)
	}
	return nil
}

func (s *service) Create(ctx context.Context, sess session.Session, req CreateGroupRequest) (*Group, error) {
	if err := checkGroupBounds(req); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	group := &Group{
		Name:               req.Name,
		Description:        req.Description,
		ContributionAmount: req.ContributionAmount,
		Currency:           money.DefaultCurrency,
		CycleDuration:      req.CycleDuration,
		MaxMembers:         req.MaxMembers,
		StartDate:          req.StartDate,
		IsActive:           true,
		Metadata:           req.Metadata,
		CreatedBy:          sess.UserID,
	}
	owner := &GroupMember{
		UserID:   sess.UserID,
		Role:     RoleOwner,
		Status:   MemberActive,
		JoinedAt: now,
	}

	if err := s.repo.CreateWithOwner(ctx, group, owner); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	s.invalidate(ctx, group.ID, sess.UserID)
	s.log.LogGroupCreated(ctx, group.ID.String(), sess.UserID.String(), group.CycleDuration)

	msg := activity.NewMessage(activity.TypeGroupCreated, sess.UserID,
		fmt.Sprintf("New group %q created", group.Name),
		fmt.Sprintf("Group created by %s", sess.Email)).
		ForGroup(group.ID).
		With("groupName", group.Name).
		With("maxMembers", group.MaxMembers).
		With("contributionAmount", group.ContributionAmount.String())
	s.publish(ctx, msg)

	return group, nil
}

func (s *service) List(ctx context.Context, sess session.Session, q ListGroupsQuery) (*GroupListResponse, error) {
	page, limit := constants.ClampPage(q.Page, q.Limit)

	var resp GroupListResponse
	err := s.cache.GetOrSet(ctx, constants.BuildUserGroupsKey(sess.UserID.String(), page, limit), constants.TTL_USER_GROUPS,
		func() (interface{}, error) {
			groups, total, err := s.repo.ListForUser(ctx, sess.UserID, page, limit)
			if err != nil {
				return nil, err
			}
			if groups == nil {
				groups = []Group{}
			}
			return &GroupListResponse{
				Groups:     groups,
				TotalCount: total,
				Page:       page,
				Limit:      limit,
				TotalPages: int(math.Ceil(float64(total) / float64(limit))),
			}, nil
		}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return &resp, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Group, error) {
	var group Group
	err := s.cache.GetOrSet(ctx, constants.BuildGroupDetailKey(id.String()), constants.TTL_GROUP_DETAIL,
		func() (interface{}, error) {
			return s.repo.GetByID(ctx, id)
		}, &group)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (s *service) Join(ctx context.Context, sess session.Session, id uuid.UUID) (*GroupMember, error) {
	member := &GroupMember{
		GroupID:  id,
		UserID:   sess.UserID,
		Role:     RoleMember,
		Status:   MemberActive,
		JoinedAt: s.clock.Now(),
	}
	if err := s.repo.AddMember(ctx, member); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id, sess.UserID)
	s.log.LogMemberJoined(ctx, id.String(), sess.UserID.String())
	s.publish(ctx, activity.NewMessage(activity.TypeMemberJoined, sess.UserID, "New member joined",
		fmt.Sprintf("%s joined the group", sess.Email)).ForGroup(id))

	return member, nil
}

func (s *service) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	return s.repo.IsMember(ctx, groupID, userID)
}

func (s *service) Submitter(sess session.Session) wizard.Submitter[FormData] {
	return wizard.SubmitFunc[FormData](func(ctx context.Context, form FormData) (wizard.Result, error) {
		group, err := s.Create(ctx, sess, ToCreateRequest(form))
		if errors.Is(err, ErrInvalidGroup) {
			return wizard.Result{}, wizard.NewUserError(strings.TrimPrefix(err.Error(), ErrInvalidGroup.Error()+": "), err)
		}
		if err != nil {
			return wizard.Result{}, err
		}
		return wizard.Result{
			ID:       group.ID.String(),
			Redirect: "/groups/" + group.ID.String(),
			Data:     group,
		}, nil
	})
}

// invalidate drops the group detail and every cached page of the user's group list.
func (s *service) invalidate(ctx context.Context, groupID, userID uuid.UUID) {
	if err := s.cache.Delete(ctx, constants.BuildGroupDetailKey(groupID.String())); err != nil {
		s.log.WithError(err).Warn("Failed to invalidate group cache", "group_id", groupID.String())
	}
	if err := s.cache.DeletePattern(ctx, constants.BuildUserGroupsPattern(userID.String())); err != nil {
		s.log.WithError(err).Warn("Failed to invalidate user groups cache", "user_id", userID.String())
	}
}

func (s *service) publish(ctx context.Context, msg activity.Message) {
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.log.WithError(err).Warn("Failed to publish activity", "type", string(msg.Type))
	}
}
