package query

type IDURIRequest struct {
	ID uint64 `uri:"id" binding:"required"`
}

type UserURIRequest struct {
	Address string `uri:"address" binding:"required"`
}

type PageRequest struct {
	Offset int `form:"offset"`
	Limit  int `form:"limit,default=50"`
}

type BatchDetailsResponse struct {
	ID             uint64          `json:"id"`
	Sender         string          `json:"sender"`
	Recipients     []string        `json:"recipients"`
	Content        string          `json:"content"`
	Timestamp      uint64          `json:"timestamp"`
	MessageType    string          `json:"messageType"`
	Completed      bool            `json:"completed"`
	ResourceUsed   uint64          `json:"resourceUsed"`
	DeliveryStatus map[string]bool `json:"deliveryStatus"`
}

type IDListResponse struct {
	IDs []uint64 `json:"ids"`
}

type CountResponse struct {
	Count uint64 `json:"count"`
}

type NotificationResponse struct {
	ID        uint64 `json:"id"`
	Kind      string `json:"kind"`
	Payload   string `json:"payload"`
	CreatedAt string `json:"createdAt"`
}
