package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	defaultListenAddr    = ":8080"
	defaultMaxWithdrawal = "10000"
)

type SeedAccount struct {
	AccountID string
	Balance   decimal.Decimal
	Frozen    bool
}

type Config struct {
	ListenAddr string
	// MaxWithdrawal caps the amount of a single withdraw or transfer.
	MaxWithdrawal decimal.Decimal
	SeedAccounts  []SeedAccount
}

// fileConfig keeps amounts as strings so the YAML layer never touches
// binary floats; they are parsed into decimals after loading.
type fileConfig struct {
	ListenAddr    string `yaml:"listen_addr"`
	MaxWithdrawal string `yaml:"max_withdrawal"`
	SeedAccounts  []struct {
		AccountID string `yaml:"account_id"`
		Balance   string `yaml:"balance"`
		Frozen    bool   `yaml:"frozen"`
	} `yaml:"seed_accounts"`
}

// Load builds the configuration from an optional YAML file (CONFIG_FILE)
// overridden by environment variables (LISTEN_ADDR, MAX_WITHDRAWAL).
func Load() (Config, error) {
	cfg := Config{ListenAddr: defaultListenAddr}
	maxWithdrawal := defaultMaxWithdrawal

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		fc, err := loadFile(path)
		if err != nil {
			return Config{}, err
		}
		if addr := strings.TrimSpace(fc.ListenAddr); addr != "" {
			cfg.ListenAddr = addr
		}
		if raw := strings.TrimSpace(fc.MaxWithdrawal); raw != "" {
			maxWithdrawal = raw
		}
		for _, seed := range fc.SeedAccounts {
			parsed, err := parseSeed(seed.AccountID, seed.Balance, seed.Frozen)
			if err != nil {
				return Config{}, err
			}
			cfg.SeedAccounts = append(cfg.SeedAccounts, parsed)
		}
	}

	if addr := strings.TrimSpace(os.Getenv("LISTEN_ADDR")); addr != "" {
		cfg.ListenAddr = addr
	}
	if raw := strings.TrimSpace(os.Getenv("MAX_WITHDRAWAL")); raw != "" {
		maxWithdrawal = raw
	}

	parsed, err := decimal.NewFromString(maxWithdrawal)
	if err != nil {
		return Config{}, fmt.Errorf("parse max withdrawal %q: %w", maxWithdrawal, err)
	}
	if parsed.LessThanOrEqual(decimal.Zero) {
		return Config{}, fmt.Errorf("max withdrawal must be greater than zero, got %s", parsed)
	}
	cfg.MaxWithdrawal = parsed

	return cfg, nil
}

func loadFile(path string) (fileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fileConfig{}, fmt.Errorf("parse config file: %w", err)
	}
	return fc, nil
}

func parseSeed(accountID string, balance string, frozen bool) (SeedAccount, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return SeedAccount{}, fmt.Errorf("seed account is missing account_id")
	}

	amount := decimal.Zero
	if raw := strings.TrimSpace(balance); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			return SeedAccount{}, fmt.Errorf("parse seed balance for %s: %w", accountID, err)
		}
		if parsed.IsNegative() {
			return SeedAccount{}, fmt.Errorf("seed balance for %s cannot be negative", accountID)
		}
		amount = parsed
	}

	return SeedAccount{AccountID: accountID, Balance: amount, Frozen: frozen}, nil
}
