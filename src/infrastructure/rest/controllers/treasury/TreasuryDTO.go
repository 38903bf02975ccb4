package treasury

type WithdrawalResponse struct {
	ID        uint64 `json:"id"`
	Reference string `json:"reference"`
	Admin     string `json:"admin"`
	Amount    uint64 `json:"amount"`
	CreatedAt string `json:"createdAt"`
}

type BalanceResponse struct {
	Balance uint64 `json:"balance"`
}
