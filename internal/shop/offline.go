package shop

import (
	"context"
	"fmt"
	"sync"

	"github.com/vovakirdan/mathrush/internal/engine"
)

// Offline is a Monetization for terminal play. There is no ad network:
// rewarded ads complete immediately and purchases always succeed.
type Offline struct {
	mu       sync.Mutex
	store    engine.Store
	products []Product
	byID     map[string]Product

	interstitials int // Interstitials actually shown
}

// NewOffline creates an offline shop over products, persisting ad removal in store.
// An empty product list uses DefaultProducts.
func NewOffline(store engine.Store, products []Product) *Offline {
	if len(products) == 0 {
		products = DefaultProducts()
	}

	o := &Offline{
		store:    store,
		products: append([]Product(nil), products...),
		byID:     make(map[string]Product, len(products)),
	}
	for _, p := range products {
		o.byID[p.ID] = p
	}
	return o
}

// Products returns the catalog in configured order.
func (o *Offline) Products() []Product {
	return append([]Product(nil), o.products...)
}

// AdsRemoved reports whether the player bought ad removal.
func (o *Offline) AdsRemoved() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.adsRemoved()
}

// InterstitialsShown returns how many interstitials were displayed.
func (o *Offline) InterstitialsShown() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.interstitials
}

// ShowRewardedAd completes immediately unless ctx is already done.
func (o *Offline) ShowRewardedAd(ctx context.Context) bool {
	return ctx.Err() == nil
}

// ShowInterstitialAd dismisses immediately. It is skipped once ads are removed.
func (o *Offline) ShowInterstitialAd(onDismiss func()) {
	o.mu.Lock()
	if !o.adsRemoved() {
		o.interstitials++
	}
	o.mu.Unlock()

	if onDismiss != nil {
		onDismiss()
	}
}

// Purchase grants the product's contents.
func (o *Offline) Purchase(productID string) (Grant, error) {
	p, ok := o.byID[productID]
	if !ok {
		return Grant{}, fmt.Errorf("%w: %q", ErrUnknownProduct, productID)
	}

	if p.RemoveAds {
		o.mu.Lock()
		err := o.store.Set(KeyAdsRemoved, 1)
		o.mu.Unlock()
		if err != nil {
			return Grant{}, fmt.Errorf("shop: cannot persist ad removal: %w", err)
		}
	}

	return Grant{
		ProductID:  p.ID,
		Hints:      p.Hints,
		SlowTimers: p.SlowTimers,
		RemoveAds:  p.RemoveAds,
	}, nil
}

func (o *Offline) adsRemoved() bool {
	v, ok := o.store.Get(KeyAdsRemoved)
	return ok && v != 0
}

// Ensure Offline implements Monetization
var _ Monetization = (*Offline)(nil)
