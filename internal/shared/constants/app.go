package constants

// Group rules
const (
	MIN_GROUP_NAME_LENGTH = 3
	MAX_GROUP_NAME_LENGTH = 100
	MIN_GROUP_MEMBERS     = 2

	// Contribution bounds in minor units
	MIN_CONTRIBUTION_AMOUNT = 1 * 100
	MAX_CONTRIBUTION_AMOUNT = 100000 * 100
)

// Pagination
const (
	DEFAULT_PAGE_SIZE = 10
	MAX_PAGE_SIZE     = 100
)

// Activity feed
const (
	DEFAULT_ACTIVITY_LIMIT = 20
	MAX_ACTIVITY_LIMIT     = 100
)

// ClampPage normalizes page and limit query values.
func ClampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DEFAULT_PAGE_SIZE
	}
	if limit > MAX_PAGE_SIZE {
		limit = MAX_PAGE_SIZE
	}
	return page, limit
}
