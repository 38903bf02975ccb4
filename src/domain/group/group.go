package group

// MaxMembers caps the size of a recipient group.
const MaxMembers = 500

// Group is a named, creator-owned recipient list. Groups are never deleted;
// Active is set at creation and no current operation clears it.
type Group struct {
	ID        uint64
	Name      string
	Members   []string
	Creator   string
	CreatedAt uint64
	Active    bool
}

// IGroupService defines the group registry operations. Membership edits are
// restricted to the group's creator.
type IGroupService interface {
	CreateGroup(creator, name string, members []string) (*Group, error)
	AddMember(caller string, groupID uint64, member string) (*Group, error)
	RemoveMember(caller string, groupID uint64, member string) (*Group, error)
}
