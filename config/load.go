package config

import (
	"github.com/fox-one/pkg/config"
	"github.com/shopspring/decimal"
)

// Load load config file
func Load(cfgFile string, cfg *Config) error {
	config.AutomaticLoadEnv("VAULT")
	if err := config.LoadYaml(cfgFile, cfg); err != nil {
		return err
	}

	defaultAuction(cfg)
	defaultApp(cfg)
	return nil
}

func defaultAuction(cfg *Config) {
	if cfg.Auction.TimeToClose <= 0 {
		cfg.Auction.TimeToClose = 600
	}

	if cfg.Auction.MaxDuration <= 0 {
		cfg.Auction.MaxDuration = 3600
	}

	if !cfg.Auction.MinIncrementSize.IsPositive() {
		cfg.Auction.MinIncrementSize = decimal.New(2, -2)
	}

	if cfg.Auction.SoftCap <= 0 {
		cfg.Auction.SoftCap = 1800
	}

	if !cfg.Auction.DebitLot.IsPositive() {
		cfg.Auction.DebitLot = decimal.New(250, 0)
	}
}

func defaultApp(cfg *Config) {
	if !cfg.App.MinimumDebitValue.IsPositive() {
		cfg.App.MinimumDebitValue = decimal.New(1, 0)
	}

	if !cfg.App.MaxSwapSlippage.IsPositive() {
		cfg.App.MaxSwapSlippage = decimal.New(5, -2)
	}

	if cfg.PriceOracle.PriceThreshold <= 0 {
		cfg.PriceOracle.PriceThreshold = 1
	}
}
