package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	logger "dispatch-ledger-api/src/infrastructure/logger"

	"go.uber.org/zap"
)

// SettlementClient moves withdrawn fees to an external settlement endpoint.
// It is the only outbound call in the system and always runs after all
// internal state for the withdrawal has been written.
type SettlementClient struct {
	URL    string
	Client *http.Client
	Logger *logger.Logger
}

func NewSettlementClient(url string, loggerInstance *logger.Logger) *SettlementClient {
	return &SettlementClient{
		URL: url,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
		Logger: loggerInstance,
	}
}

type transferRequest struct {
	To        string `json:"to"`
	Amount    uint64 `json:"amount"`
	Reference string `json:"reference"`
}

func (c *SettlementClient) Transfer(to string, amount uint64, reference string) error {
	if c.URL == "" {
		return errors.New("settlement endpoint not configured")
	}

	body, err := json.Marshal(transferRequest{
		To:        to,
		Amount:    amount,
		Reference: reference,
	})
	if err != nil {
		return err
	}

	resp, err := c.Client.Post(c.URL, "application/json", bytes.NewReader(body))
	if err != nil {
		c.Logger.Error("Settlement transfer request failed", zap.Error(err), zap.String("reference", reference))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.Logger.Error("Settlement endpoint rejected transfer",
			zap.Int("status", resp.StatusCode),
			zap.String("reference", reference))
		return fmt.Errorf("settlement endpoint returned status %d", resp.StatusCode)
	}

	c.Logger.Info("Settlement transfer completed",
		zap.String("to", to),
		zap.Uint64("amount", amount),
		zap.String("reference", reference))
	return nil
}
