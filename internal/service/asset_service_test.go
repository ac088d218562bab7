package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yarno/alpacabot/internal/domain"
)

type stubAssetLister struct {
	byClass map[domain.AssetClass][]domain.Asset
	err     error
}

func (l *stubAssetLister) ListAssets(_ context.Context, class domain.AssetClass) ([]domain.Asset, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.byClass[class], nil
}

func TestLoadUniverse(t *testing.T) {
	lister := &stubAssetLister{byClass: map[domain.AssetClass][]domain.Asset{
		domain.AssetClassEquity: {
			{Symbol: "AAPL", Class: domain.AssetClassEquity, Tradable: true},
			{Symbol: "HALT", Class: domain.AssetClassEquity, Tradable: false},
		},
		domain.AssetClassCrypto: {
			{Symbol: "BTC/USD", Class: domain.AssetClassCrypto, Tradable: true},
		},
	}}

	universe, err := LoadUniverse(context.Background(), lister, testLogger())
	require.NoError(t, err)

	equities, cryptos := universe.Size()
	assert.Equal(t, 1, equities, "non-tradable assets are excluded")
	assert.Equal(t, 1, cryptos)
	assert.True(t, universe.IsEquity("AAPL"))
	assert.False(t, universe.IsTradable("HALT"))
}

func TestLoadUniversePropagatesListError(t *testing.T) {
	lister := &stubAssetLister{err: errors.New("boom")}

	_, err := LoadUniverse(context.Background(), lister, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list equities")
}
