package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mathrush/internal/engine"
	"github.com/vovakirdan/mathrush/internal/shop"
)

var shopCmd = &cobra.Command{
	Use:   "shop",
	Short: "Buy hints and slow timers",
	Long: `Browse and buy power-ups for the current player.

Purchases are granted immediately and persist in the database.

Examples:
  mathrush shop list
  mathrush shop buy hints_5
  mathrush shop buy remove_ads --player alice`,
}

var shopListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	Args:  cobra.NoArgs,
	RunE:  runShopList,
}

var shopBuyCmd = &cobra.Command{
	Use:   "buy <product>",
	Short: "Buy a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runShopBuy,
}

func init() {
	shopCmd.AddCommand(shopListCmd)
	shopCmd.AddCommand(shopBuyCmd)
}

func runShopList(_ *cobra.Command, _ []string) error {
	svc, closeAll, err := openServices(newLogger())
	if err != nil {
		return err
	}
	defer closeAll()

	store := svc.PlayerStore(flagPlayer)
	offline := shop.NewOffline(store, svc.Config.Shop.Products)

	fmt.Printf("  %-12s  %-16s  %-7s  %s\n", "ID", "Product", "Price", "Contents")
	fmt.Printf("  %-12s  %-16s  %-7s  %s\n", "--", "-------", "-----", "--------")
	for _, p := range offline.Products() {
		fmt.Printf("  %-12s  %-16s  %-7s  %s\n", p.ID, p.Name, p.Price, describe(p))
	}

	hints, _ := store.Get(engine.KeyHints)
	slow, _ := store.Get(engine.KeySlowTimers)
	fmt.Println()
	fmt.Printf("You have %d hints and %d slow timers.", hints, slow)
	if offline.AdsRemoved() {
		fmt.Print(" Ads are removed.")
	}
	fmt.Println()
	return nil
}

func runShopBuy(_ *cobra.Command, args []string) error {
	svc, closeAll, err := openServices(newLogger())
	if err != nil {
		return err
	}
	defer closeAll()
	if svc.Store == nil {
		return errors.New("purchases need a database")
	}

	store := svc.PlayerStore(flagPlayer)
	if _, err := svc.Config.SeedInventory(store); err != nil {
		return err
	}

	grant, err := shop.NewOffline(store, svc.Config.Shop.Products).Purchase(args[0])
	if errors.Is(err, shop.ErrUnknownProduct) {
		return fmt.Errorf("unknown product %q, run 'mathrush shop list'", args[0])
	}
	if err != nil {
		return err
	}

	// The engine writes the new inventory through to the store.
	var storeErr error
	e := engine.New(store, engine.Config{
		OnStoreError: func(_ string, err error) { storeErr = err },
	})
	grant.Apply(e)
	if storeErr != nil {
		return fmt.Errorf("purchase not saved: %w", storeErr)
	}

	s := e.State()
	fmt.Printf("Bought %s. You now have %d hints and %d slow timers.\n",
		grant.ProductID, s.HintsAvailable, s.SlowTimersAvailable)
	if grant.RemoveAds {
		fmt.Println("Ads removed.")
	}
	return nil
}

func describe(p shop.Product) string {
	switch {
	case p.RemoveAds:
		return "no more ads"
	case p.Hints > 0 && p.SlowTimers > 0:
		return fmt.Sprintf("%d hints, %d slow timers", p.Hints, p.SlowTimers)
	case p.Hints > 0:
		return fmt.Sprintf("%d hints", p.Hints)
	case p.SlowTimers > 0:
		return fmt.Sprintf("%d slow timers", p.SlowTimers)
	}
	return "-"
}
