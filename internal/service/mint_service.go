package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"nishtha/internal/config"
	"nishtha/internal/logger"
	"nishtha/internal/model"
)

var (
	ErrMintNotConfigured = errors.New("Server is not configured for minting.")
	ErrMintTimeout       = errors.New("transaction was not mined in time")
)

// proof token metadata
type nftMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// MintService mints ERC-721 proof tokens through a thirdweb Engine backend
// wallet and waits for the transaction to be mined
type MintService struct {
	config *config.ChainConfig
	client *http.Client
	log    *logger.Logger
}

// NewMintService creates a new mint service
func NewMintService(cfg *config.ChainConfig, log *logger.Logger) *MintService {
	return &MintService{
		config: cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With("service", "mint"),
	}
}

// Mint sends the token to the learner's wallet. The token id is the
// collection's total supply after the mint, minus one.
func (s *MintService) Mint(ctx context.Context, req model.MintRequest) (*model.MintResult, error) {
	if req.UserWalletAddress == "" || req.ProjectName == "" || req.CourseName == "" {
		return nil, invalidInput("Missing required fields")
	}
	if err := ValidateWalletAddress(req.UserWalletAddress); err != nil {
		return nil, err
	}
	if !s.config.IsConfigured() {
		return nil, ErrMintNotConfigured
	}

	meta := nftMetadata{
		Name:        fmt.Sprintf("Verified Skill: %s", req.ProjectName),
		Description: fmt.Sprintf("This developer successfully completed the %s project for the course \"%s\", as verified by Nishtha AI.", req.ProjectName, req.CourseName),
		Image:       s.config.ImageURL,
	}
	queueID, err := s.enqueueMint(ctx, req.UserWalletAddress, meta)
	if err != nil {
		return nil, err
	}
	s.log.Info("mint queued", "queueId", queueID, "wallet", req.UserWalletAddress)

	txHash, err := s.waitMined(ctx, queueID)
	if err != nil {
		return nil, err
	}

	supply, err := s.totalSupply(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading total supply: %w", err)
	}
	tokenID := new(big.Int).Sub(supply, big.NewInt(1)).String()

	s.log.Info("proof minted", "tx", txHash, "tokenId", tokenID)
	return &model.MintResult{
		Success:         true,
		TransactionHash: txHash,
		TokenID:         tokenID,
		Message:         fmt.Sprintf("NFT (ID: %s) minted successfully to %s", tokenID, req.UserWalletAddress),
	}, nil
}

func (s *MintService) contractPath(suffix string) string {
	return fmt.Sprintf("%s/contract/%s/%s/erc721/%s",
		strings.TrimRight(s.config.EngineURL, "/"), s.config.Chain, s.config.ContractAddress, suffix)
}

func (s *MintService) enqueueMint(ctx context.Context, receiver string, meta nftMetadata) (string, error) {
	body := map[string]interface{}{
		"receiver": receiver,
		"metadata": meta,
	}
	var resp struct {
		Result struct {
			QueueID string `json:"queueId"`
		} `json:"result"`
	}
	if err := s.do(ctx, http.MethodPost, s.contractPath("mint-to"), body, &resp); err != nil {
		return "", err
	}
	if resp.Result.QueueID == "" {
		return "", fmt.Errorf("engine returned no queue id")
	}
	return resp.Result.QueueID, nil
}

// waitMined polls the queued transaction until it is mined or fails
func (s *MintService) waitMined(ctx context.Context, queueID string) (string, error) {
	endpoint := fmt.Sprintf("%s/transaction/status/%s", strings.TrimRight(s.config.EngineURL, "/"), queueID)
	interval := s.config.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for attempt := 0; attempt < s.config.PollAttempts; attempt++ {
		var resp struct {
			Result struct {
				Status          string `json:"status"`
				TransactionHash string `json:"transactionHash"`
				ErrorMessage    string `json:"errorMessage"`
			} `json:"result"`
		}
		if err := s.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
			return "", err
		}

		switch resp.Result.Status {
		case "mined":
			if resp.Result.TransactionHash == "" {
				return "", fmt.Errorf("mined transaction has no hash")
			}
			return resp.Result.TransactionHash, nil
		case "errored", "cancelled":
			reason := resp.Result.ErrorMessage
			if reason == "" {
				reason = "transaction " + resp.Result.Status
			}
			return "", errors.New(reason)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
	return "", ErrMintTimeout
}

func (s *MintService) totalSupply(ctx context.Context) (*big.Int, error) {
	var resp struct {
		Result string `json:"result"`
	}
	if err := s.do(ctx, http.MethodGet, s.contractPath("total-count"), nil, &resp); err != nil {
		return nil, err
	}
	supply, ok := new(big.Int).SetString(resp.Result, 10)
	if !ok || supply.Sign() <= 0 {
		return nil, fmt.Errorf("unexpected total supply %q", resp.Result)
	}
	return supply, nil
}

func (s *MintService) do(ctx context.Context, method, endpoint string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.config.AccessToken)
	req.Header.Set("x-backend-wallet-address", s.config.BackendWallet)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(data, &e) == nil && e.Error.Message != "" {
			return errors.New(e.Error.Message)
		}
		return fmt.Errorf("engine returned %d: %s", resp.StatusCode, truncate(string(data), 300))
	}
	return json.Unmarshal(data, out)
}
