package config

import "time"

// ChainConfig points the proof minter at a thirdweb Engine instance
type ChainConfig struct {
	EngineURL       string        `env:"THIRDWEB_ENGINE_URL"`
	AccessToken     string        `json:"-" env:"THIRDWEB_SECRET_KEY"`
	BackendWallet   string        `env:"THIRDWEB_BACKEND_WALLET"`
	ContractAddress string        `env:"THIRDWEB_CONTRACT_ADDRESS"`
	Chain           string        `env:"THIRDWEB_CHAIN" envDefault:"sepolia"`
	ImageURL        string        `env:"PROOF_IMAGE_URL" envDefault:"https://i.imgur.com/L13s80m.png"`
	PollInterval    time.Duration `env:"MINT_POLL_INTERVAL" envDefault:"2s"`
	PollAttempts    int           `env:"MINT_POLL_ATTEMPTS" envDefault:"60"`
	ExplorerTxURL   string        `env:"PROOF_EXPLORER_TX_URL" envDefault:"https://sepolia.etherscan.io/tx/"`
}

// IsConfigured reports whether every value needed to mint is present
func (c *ChainConfig) IsConfigured() bool {
	return c.EngineURL != "" && c.AccessToken != "" && c.BackendWallet != "" && c.ContractAddress != ""
}
