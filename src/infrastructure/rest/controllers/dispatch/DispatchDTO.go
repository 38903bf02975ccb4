package dispatch

type DirectDispatchRequest struct {
	Recipients  []string `json:"recipients" binding:"required"`
	Content     string   `json:"content" binding:"required"`
	MessageType string   `json:"messageType" binding:"required"`
	Paid        uint64   `json:"paid"`
}

type GroupDispatchRequest struct {
	GroupID     uint64 `json:"groupId" binding:"required"`
	Content     string `json:"content" binding:"required"`
	MessageType string `json:"messageType" binding:"required"`
	Paid        uint64 `json:"paid"`
}

type TemplateDispatchRequest struct {
	TemplateID  uint64   `json:"templateId" binding:"required"`
	Recipients  []string `json:"recipients" binding:"required"`
	MessageType string   `json:"messageType" binding:"required"`
	Paid        uint64   `json:"paid"`
}

type BatchResponse struct {
	ID           uint64   `json:"id"`
	Sender       string   `json:"sender"`
	Recipients   []string `json:"recipients"`
	Content      string   `json:"content"`
	Timestamp    uint64   `json:"timestamp"`
	MessageType  string   `json:"messageType"`
	Completed    bool     `json:"completed"`
	ResourceUsed uint64   `json:"resourceUsed"`
}
