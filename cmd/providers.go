package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/truemediaorg/mediagateway/fallback"
	"github.com/truemediaorg/mediagateway/provider"
	"github.com/truemediaorg/mediagateway/service"
	"golang.org/x/exp/maps"
)

func init() {
	rootCmd.AddCommand(providersCmd)
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Lists the configured provider chains",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd.Context())
		if err != nil {
			return err
		}
		registry := service.NewRegistry(cmd.Context(), cfg, provider.NewHTTPClient())

		mediaChain, err := registry.MediaChain(cfg.Resolve.ProviderOrder)
		if err != nil {
			return err
		}
		profileChain, err := registry.ProfileChain(cfg.Resolve.ProfileProviderOrder)
		if err != nil {
			return err
		}

		fmt.Println("media chain:")
		for i, adapter := range mediaChain {
			fmt.Printf("  %d. %s\n", i+1, adapter.Name())
		}
		fmt.Println("profile chain:")
		for i, adapter := range profileChain {
			fmt.Printf("  %d. %s\n", i+1, adapter.Name())
		}

		disabled := registry.Disabled()
		names := maps.Keys(disabled)
		sort.Strings(names)
		if len(names) > 0 {
			fmt.Println("disabled:")
			for _, name := range names {
				fmt.Printf("  %s (%s)\n", name, disabled[name])
			}
		}
		strategy, err := fallback.ParseStrategy(cfg.Resolve.Strategy)
		if err != nil {
			return err
		}
		fmt.Printf("per-provider timeout %s, strategy %s\n", cfg.Resolve.ProviderTimeout, strategy)
		return nil
	},
}
