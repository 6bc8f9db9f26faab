package models

// GroupStatus is the lifecycle state of a group.
type GroupStatus string

const (
	// GroupActive groups accept joins and leaves.
	GroupActive GroupStatus = "active"
	// GroupDisbanded is terminal: the leader left and every member was evicted.
	GroupDisbanded GroupStatus = "disbanded"
)

// Group represents a dining party.
//
// While a group is active, Members is never empty. When the last member of a
// leaderless group leaves, the group is deleted instead of being kept empty.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the optional display name of the group (e.g., "Friday Tacos").
	Name string

	// LeaderID is the distinguished member whose departure disbands the group.
	// Empty when the group has no leader.
	LeaderID string

	// Members is the set of user IDs in this group. No duplicates.
	Members []string

	// Status is the lifecycle state of the group.
	Status GroupStatus

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// IsActive reports whether the group still accepts membership changes.
func (g *Group) IsActive() bool {
	return g.Status == GroupActive
}

// HasMember reports whether userID is one of the group's members.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}
