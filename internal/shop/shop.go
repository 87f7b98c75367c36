// Package shop provides the monetization collaborator used by the host:
// rewarded ads for continuing a round, interstitials between rounds and
// in-app purchases that grant power-ups.
package shop

import (
	"context"
	"errors"

	"github.com/vovakirdan/mathrush/internal/engine"
)

// KeyAdsRemoved is the store key set once the player bought ad removal.
const KeyAdsRemoved = "ads_removed"

// ErrUnknownProduct is returned by Purchase for product IDs not in the catalog.
var ErrUnknownProduct = errors.New("shop: unknown product")

// Monetization is implemented by ad/purchase providers.
type Monetization interface {
	// ShowRewardedAd reports whether the player watched the ad to completion.
	ShowRewardedAd(ctx context.Context) bool
	// ShowInterstitialAd shows an ad between rounds and calls onDismiss when it is gone.
	ShowInterstitialAd(onDismiss func())
	// Purchase buys a product and returns what it grants.
	Purchase(productID string) (Grant, error)
}

// Product is a purchasable catalog entry.
type Product struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Price      string `yaml:"price"`
	Hints      int    `yaml:"hints"`
	SlowTimers int    `yaml:"slow_timers"`
	RemoveAds  bool   `yaml:"remove_ads"`
}

// DefaultProducts is the catalog used when none is configured.
func DefaultProducts() []Product {
	return []Product{
		{ID: "hints_5", Name: "5 Hints", Price: "$0.99", Hints: 5},
		{ID: "slow_3", Name: "3 Slow Timers", Price: "$0.99", SlowTimers: 3},
		{ID: "bundle", Name: "Power Bundle", Price: "$2.99", Hints: 15, SlowTimers: 10},
		{ID: "remove_ads", Name: "Remove Ads", Price: "$3.99", RemoveAds: true},
	}
}

// Inventory is the part of the engine a Grant is applied to.
type Inventory interface {
	AddHints(n int) []engine.Event
	AddSlowTimers(n int) []engine.Event
}

// Grant is what a completed purchase gives the player.
type Grant struct {
	ProductID  string
	Hints      int
	SlowTimers int
	RemoveAds  bool
}

// Apply adds the granted power-ups to inv.
func (g Grant) Apply(inv Inventory) []engine.Event {
	var events []engine.Event
	events = append(events, inv.AddHints(g.Hints)...)
	events = append(events, inv.AddSlowTimers(g.SlowTimers)...)
	return events
}

// Ensure Engine implements Inventory
var _ Inventory = (*engine.Engine)(nil)
