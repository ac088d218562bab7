package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yarno/alpacabot/internal/domain"
)

// AssetLister fetches the active assets of one class from the brokerage.
type AssetLister interface {
	ListAssets(ctx context.Context, class domain.AssetClass) ([]domain.Asset, error)
}

// LoadUniverse fetches both asset classes once and builds the point-in-time
// trading universe used for classification throughout the run.
func LoadUniverse(ctx context.Context, client AssetLister, logger *slog.Logger) (*domain.Universe, error) {
	equities, err := client.ListAssets(ctx, domain.AssetClassEquity)
	if err != nil {
		return nil, fmt.Errorf("asset_service: list equities: %w", err)
	}

	cryptos, err := client.ListAssets(ctx, domain.AssetClassCrypto)
	if err != nil {
		return nil, fmt.Errorf("asset_service: list crypto pairs: %w", err)
	}

	universe := domain.NewUniverse(equities, cryptos)
	nEquities, nCryptos := universe.Size()
	logger.InfoContext(ctx, "asset universe loaded",
		slog.Int("equities", nEquities),
		slog.Int("crypto_pairs", nCryptos),
	)

	return universe, nil
}
