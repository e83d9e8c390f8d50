package qrcode

import (
	"encoding/json"
	"fmt"

	"marketpin/config"
	"marketpin/internal/domain/service"

	"github.com/skip2/go-qrcode"
)

const defaultSize = 256

type shareCodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// ShareCodeData represents the share code data structure
type ShareCodeData struct {
	MarketID string `json:"market_id"`
	Type     string `json:"type"`
}

// NewShareCodeService creates a new share code service instance
func NewShareCodeService(cfg *config.Config) service.ShareCodeService {
	size := defaultSize
	levelName := ""
	if cfg.ShareCode != nil {
		if cfg.ShareCode.Size > 0 {
			size = cfg.ShareCode.Size
		}
		levelName = cfg.ShareCode.ErrorCorrectionLevel
	}

	// Set error correction level
	var level qrcode.RecoveryLevel
	switch levelName {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &shareCodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// GenerateMarketCode generates a scannable share code for a market listing
func (s *shareCodeService) GenerateMarketCode(marketID string) ([]byte, error) {
	if marketID == "" {
		return nil, fmt.Errorf("market ID is required")
	}

	data := ShareCodeData{
		MarketID: marketID,
		Type:     "market",
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal share code data: %w", err)
	}

	qrCode, err := qrcode.New(string(jsonData), s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create share code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}

// ParseMarketCode parses scanned code data and returns the market ID
func (s *shareCodeService) ParseMarketCode(codeData string) (string, error) {
	var data ShareCodeData
	if err := json.Unmarshal([]byte(codeData), &data); err != nil {
		return "", fmt.Errorf("failed to unmarshal share code data: %w", err)
	}

	// Validate type
	if data.Type != "market" {
		return "", fmt.Errorf("invalid share code type: %s", data.Type)
	}

	if data.MarketID == "" {
		return "", fmt.Errorf("share code carries no market ID")
	}

	return data.MarketID, nil
}
