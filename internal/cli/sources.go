package cli

import (
	"fmt"
	"os"

	"github.com/outbreakwatch/episcan/internal/cache"
	"github.com/outbreakwatch/episcan/internal/feed"
	"github.com/outbreakwatch/episcan/internal/fetch"
	"github.com/spf13/cobra"
)

// sourcesCmd represents the sources command
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured source adapters",
	Long: `Display every source adapter the ingest command would fetch,
with its priority tier and language. Useful for verifying config
changes before a run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cfg.Sources.MediaAPI.APIKey = os.Getenv("EPISCAN_MEDIA_API_KEY")

		var responseCache cache.Cache
		client := fetch.NewClient(cfg.HTTP, responseCache)
		registry := feed.BuildRegistry(cfg.Sources, cfg.Dedup.PriorityOverrides, client)

		adapters := registry.All()
		if len(adapters) == 0 {
			fmt.Println("No sources configured.")
			return nil
		}

		fmt.Printf("%-28s %-10s %s\n", "SOURCE", "PRIORITY", "LANGUAGE")
		for _, a := range adapters {
			lang := a.Language()
			if lang == "" {
				lang = "-"
			}
			fmt.Printf("%-28s %-10s %s\n", a.Name(), a.Priority(), lang)
		}
		fmt.Printf("\n%d source(s) configured\n", len(adapters))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
