package group

type CreateGroupRequest struct {
	Name    string   `json:"name" binding:"required"`
	Members []string `json:"members"`
}

type AddMemberRequest struct {
	Member string `json:"member" binding:"required"`
}

type GroupURIRequest struct {
	ID uint64 `uri:"id" binding:"required"`
}

type MemberURIRequest struct {
	ID     uint64 `uri:"id" binding:"required"`
	Member string `uri:"member" binding:"required"`
}

type GroupResponse struct {
	ID        uint64   `json:"id"`
	Name      string   `json:"name"`
	Members   []string `json:"members"`
	Creator   string   `json:"creator"`
	CreatedAt uint64   `json:"createdAt"`
	Active    bool     `json:"active"`
}
