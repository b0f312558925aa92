package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"github.com/truemediaorg/mediagateway/model"
	"github.com/truemediaorg/mediagateway/service"
)

var kindHint string

func init() {
	resolveCmd.Flags().StringVar(&kindHint, "kind", "", "kind hint (\"reel\" marks an instagram /p/ link as a reel)")
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(profileCmd)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <url>",
	Short: "Resolves one URL and prints the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gateway, err := buildGateway(cmd)
		if err != nil {
			return err
		}
		var hint model.Kind
		if kindHint != "" {
			if hint, err = model.ParseKind(kindHint); err != nil {
				return err
			}
		}
		result, err := gateway.ResolveMedia(cmd.Context(), model.MediaRequest{SourceURL: args[0], RequestedKind: hint})
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile <username>",
	Short: "Looks up one instagram profile and prints the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gateway, err := buildGateway(cmd)
		if err != nil {
			return err
		}
		profile, err := gateway.ResolveProfile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(profile)
	},
}

func buildGateway(cmd *cobra.Command) (*service.Gateway, error) {
	cfg, err := loadConfig(cmd.Context())
	if err != nil {
		return nil, err
	}
	gateway, _, err := service.Build(cmd.Context(), cfg, nil)
	return gateway, err
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
