package template

type CreateTemplateRequest struct {
	Name    string `json:"name" binding:"required"`
	Content string `json:"content" binding:"required"`
	Public  bool   `json:"public"`
}

type TemplateResponse struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Content   string `json:"content"`
	Creator   string `json:"creator"`
	CreatedAt uint64 `json:"createdAt"`
	Public    bool   `json:"public"`
}
