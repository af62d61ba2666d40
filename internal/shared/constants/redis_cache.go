package constants

import (
	"fmt"
	"time"
)

// Redis key layout: dhukuti:{module}:{operation}:{identifier}

// ================== CACHE TTL DURATIONS ==================

const (
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour    // event details
	TTL_SEMI_STATIC_QUICK  = 15 * time.Minute // event and group listings
	TTL_DYNAMIC_SHORT      = 5 * time.Minute  // group detail with members
	TTL_REALTIME_SHORT     = 30 * time.Second // ticket availability
	TTL_STOCK_COUNTER      = 24 * time.Hour   // ticket stock guard counters
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "dhukuti"
)

// ================== EVENTS MODULE ==================

const (
	CACHE_KEY_EVENTS_LIST  = CACHE_PREFIX + ":events:list"         // + :page:X:limit:Y:category:Z
	CACHE_KEY_EVENT_DETAIL = CACHE_PREFIX + ":events:detail:uuid:" // + event-id
)

const (
	TTL_EVENT_LIST   = TTL_SEMI_STATIC_QUICK
	TTL_EVENT_DETAIL = TTL_SEMI_STATIC_MEDIUM
)

// ================== TICKETS MODULE ==================

const (
	CACHE_KEY_TICKETS_BY_EVENT = CACHE_PREFIX + ":tickets:event:uuid:" // + event-id
	CACHE_KEY_TICKET_STOCK     = CACHE_PREFIX + ":tickets:stock:uuid:" // + ticket-type-id
)

const (
	TTL_TICKETS_BY_EVENT = TTL_REALTIME_SHORT
)

// ================== GROUPS MODULE ==================

const (
	CACHE_KEY_GROUP_DETAIL = CACHE_PREFIX + ":groups:detail:uuid:" // + group-id
	CACHE_KEY_USER_GROUPS  = CACHE_PREFIX + ":groups:user:uuid:"   // + user-id:page:X:limit:Y
)

const (
	TTL_GROUP_DETAIL = TTL_DYNAMIC_SHORT
	TTL_USER_GROUPS  = TTL_DYNAMIC_SHORT
)

// ================== TAGS MODULE ==================

const (
	CACHE_KEY_TAGS_ACTIVE = CACHE_PREFIX + ":tags:active:all"
)

const (
	TTL_TAGS_ACTIVE = TTL_SEMI_STATIC_MEDIUM
)

// ================== WIZARD DRAFTS ==================

const (
	CACHE_KEY_WIZARD_DRAFT = CACHE_PREFIX + ":wizards:" // + kind:draft-id
)

// ================== RATE LIMITING ==================

const (
	CACHE_KEY_RATE_LIMIT = CACHE_PREFIX + ":ratelimit:" // + type:identifier
)

// ================== KEY BUILDERS ==================

func BuildEventListKey(page, limit int, category string) string {
	key := fmt.Sprintf("%s:page:%d:limit:%d", CACHE_KEY_EVENTS_LIST, page, limit)
	if category != "" {
		key += ":category:" + category
	}
	return key
}

// BuildEventListPattern matches every cached page of the event list.
func BuildEventListPattern() string {
	return CACHE_KEY_EVENTS_LIST + ":*"
}

func BuildEventDetailKey(eventID string) string {
	return CACHE_KEY_EVENT_DETAIL + eventID
}

func BuildTicketsByEventKey(eventID string) string {
	return CACHE_KEY_TICKETS_BY_EVENT + eventID
}

func BuildTicketStockKey(ticketTypeID string) string {
	return CACHE_KEY_TICKET_STOCK + ticketTypeID
}

func BuildGroupDetailKey(groupID string) string {
	return CACHE_KEY_GROUP_DETAIL + groupID
}

func BuildUserGroupsKey(userID string, page, limit int) string {
	return fmt.Sprintf("%s%s:page:%d:limit:%d", CACHE_KEY_USER_GROUPS, userID, page, limit)
}

// BuildUserGroupsPattern matches every cached page of a user's groups.
func BuildUserGroupsPattern(userID string) string {
	return CACHE_KEY_USER_GROUPS + userID + ":*"
}

func BuildWizardDraftKey(kind, draftID string) string {
	return CACHE_KEY_WIZARD_DRAFT + kind + ":" + draftID
}

func BuildRateLimitKey(limitType, identifier string) string {
	return CACHE_KEY_RATE_LIMIT + limitType + ":" + identifier
}
