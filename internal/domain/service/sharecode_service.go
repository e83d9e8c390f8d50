package service

// ShareCodeService generates and parses scannable share codes pointing at a
// market listing.
type ShareCodeService interface {
	// GenerateMarketCode renders a PNG QR code for the given market ID.
	GenerateMarketCode(marketID string) ([]byte, error)

	// ParseMarketCode extracts the market ID from scanned code data.
	ParseMarketCode(data string) (string, error)
}
