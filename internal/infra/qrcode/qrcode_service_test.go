package qrcode

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketpin/config"
)

func newService(size int, level string) *shareCodeService {
	cfg := &config.Config{
		ShareCode: &config.ShareCodeConfig{
			Size:                 size,
			ErrorCorrectionLevel: level,
		},
	}

	return NewShareCodeService(cfg).(*shareCodeService)
}

func TestNewShareCodeService(t *testing.T) {
	tests := []struct {
		name                 string
		size                 int
		errorCorrectionLevel string
	}{
		{"Low error correction", 256, "L"},
		{"Medium error correction", 256, "M"},
		{"High error correction", 256, "Q"},
		{"Highest error correction", 256, "H"},
		{"Default error correction", 256, "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newService(tt.size, tt.errorCorrectionLevel)
			assert.NotNil(t, service)
		})
	}
}

func TestShareCodeService_DefaultsWithoutConfig(t *testing.T) {
	service := NewShareCodeService(&config.Config{}).(*shareCodeService)
	assert.Equal(t, defaultSize, service.size)
}

func TestShareCodeService_GenerateMarketCode(t *testing.T) {
	service := newService(256, "M")

	qrBytes, err := service.GenerateMarketCode("market-123")
	require.NoError(t, err)
	assert.NotEmpty(t, qrBytes)

	// Verify it's a valid PNG (starts with PNG magic number)
	assert.Equal(t, byte(0x89), qrBytes[0])
	assert.Equal(t, byte(0x50), qrBytes[1])
	assert.Equal(t, byte(0x4E), qrBytes[2])
	assert.Equal(t, byte(0x47), qrBytes[3])
}

func TestShareCodeService_GenerateMarketCode_EmptyID(t *testing.T) {
	service := newService(256, "M")

	_, err := service.GenerateMarketCode("")
	assert.Error(t, err)
}

func TestShareCodeService_GenerateMarketCode_DifferentSizes(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"Small code", 128},
		{"Medium code", 256},
		{"Large code", 512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newService(tt.size, "M")

			qrBytes, err := service.GenerateMarketCode("market-123")
			require.NoError(t, err)
			assert.NotEmpty(t, qrBytes)
		})
	}
}

func TestShareCodeService_ParseMarketCode(t *testing.T) {
	service := newService(256, "M")

	data := ShareCodeData{
		MarketID: "market-123",
		Type:     "market",
	}
	jsonData, err := json.Marshal(data)
	require.NoError(t, err)

	parsedID, err := service.ParseMarketCode(string(jsonData))
	require.NoError(t, err)
	assert.Equal(t, "market-123", parsedID)
}

func TestShareCodeService_ParseMarketCode_InvalidJSON(t *testing.T) {
	service := newService(256, "M")

	_, err := service.ParseMarketCode("invalid json")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal share code data")
}

func TestShareCodeService_ParseMarketCode_InvalidType(t *testing.T) {
	service := newService(256, "M")

	data := ShareCodeData{
		MarketID: "market-123",
		Type:     "invalid_type",
	}
	jsonData, err := json.Marshal(data)
	require.NoError(t, err)

	_, err = service.ParseMarketCode(string(jsonData))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid share code type")
}

func TestShareCodeService_ParseMarketCode_MissingID(t *testing.T) {
	service := newService(256, "M")

	data := ShareCodeData{
		MarketID: "",
		Type:     "market",
	}
	jsonData, err := json.Marshal(data)
	require.NoError(t, err)

	_, err = service.ParseMarketCode(string(jsonData))
	assert.Error(t, err)
}
