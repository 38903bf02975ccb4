package config

import (
	"fmt"
	"os"
	"strconv"

	domainTreasury "dispatch-ledger-api/src/domain/treasury"
	"dispatch-ledger-api/src/infrastructure/utils"

	"gopkg.in/yaml.v2"
)

// LedgerConfig holds the tunable ledger parameters. Values come from an
// optional YAML file (LEDGER_CONFIG_FILE) with environment variables as
// fallback; the fee defaults to the fixed constant when neither is set.
type LedgerConfig struct {
	DispatchFee   uint64 `yaml:"dispatch_fee"`
	AdminAddress  string `yaml:"admin_address"`
	SettlementURL string `yaml:"settlement_url"`
}

// LoadLedgerConfig builds the ledger configuration.
func LoadLedgerConfig() (*LedgerConfig, error) {
	cfg := &LedgerConfig{
		DispatchFee:   domainTreasury.DefaultDispatchFee,
		AdminAddress:  utils.GetEnv("ADMIN_ADDRESS", ""),
		SettlementURL: utils.GetEnv("SETTLEMENT_URL", ""),
	}

	if feeEnv := utils.GetEnv("DISPATCH_FEE", ""); feeEnv != "" {
		fee, err := strconv.ParseUint(feeEnv, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid DISPATCH_FEE value %q: %w", feeEnv, err)
		}
		cfg.DispatchFee = fee
	}

	path := utils.GetEnv("LEDGER_CONFIG_FILE", "")
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading ledger config file %s: %w", path, err)
	}

	var fileCfg LedgerConfig
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return nil, fmt.Errorf("error parsing ledger config file %s: %w", path, err)
	}

	if fileCfg.DispatchFee != 0 {
		cfg.DispatchFee = fileCfg.DispatchFee
	}
	if fileCfg.AdminAddress != "" {
		cfg.AdminAddress = fileCfg.AdminAddress
	}
	if fileCfg.SettlementURL != "" {
		cfg.SettlementURL = fileCfg.SettlementURL
	}

	return cfg, nil
}
