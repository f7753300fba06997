package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kr4wiec/aud-crisis/internal/cluster"
	"github.com/kr4wiec/aud-crisis/internal/lexicon"
	"github.com/kr4wiec/aud-crisis/internal/store"
)

var (
	clustersDB          string
	clustersMinSeverity float64
	clustersJSON        bool
	clustersAll         bool
)

// clustersCmd represents the clusters command
var clustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "Group stored reports into same-event clusters",
	Long: `Clusters runs the same-event heuristic over a snapshot of the stored
reports and prints one summary per cluster.

Assignment is first-fit over clusters in creation order, so the result
depends on report order; it is a heuristic grouping, not a canonical
partition.

Example:
  aud-crisis clusters
  aud-crisis clusters --min-severity 7 --json
  aud-crisis clusters --all`,
	Args: cobra.NoArgs,
	RunE: runClusters,
}

func init() {
	rootCmd.AddCommand(clustersCmd)

	clustersCmd.Flags().StringVar(&clustersDB, "db", "", "sqlite database path (overrides config)")
	clustersCmd.Flags().Float64Var(&clustersMinSeverity, "min-severity", -1, "only cluster reports at or above this severity (overrides config)")
	clustersCmd.Flags().BoolVar(&clustersJSON, "json", false, "emit clusters as JSON")
	clustersCmd.Flags().BoolVar(&clustersAll, "all", false, "include single-report clusters in the output")
}

func runClusters(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if clustersDB != "" {
		cfg.Storage.Path = clustersDB
	}
	minSeverity := cfg.Cluster.MinSeverity
	if clustersMinSeverity >= 0 {
		minSeverity = clustersMinSeverity
	}

	db, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	reports, err := db.Reports(ctx)
	if err != nil {
		return err
	}

	filtered := reports[:0]
	for _, r := range reports {
		if r.Severity >= minSeverity {
			filtered = append(filtered, r)
		}
	}

	clusterer := cluster.New(cluster.Config{
		MinKeywordSim: cfg.Cluster.MinKeywordSim,
		TimeWindow:    cfg.Cluster.TimeWindow,
	}, lexicon.Default().CorePhrases())

	clusters := clusterer.Cluster(filtered)
	if !clustersAll {
		multi := clusters[:0]
		for _, c := range clusters {
			if c.MemberCount > 1 {
				multi = append(multi, c)
			}
		}
		clusters = multi
	}
	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].MaxSeverity > clusters[j].MaxSeverity
	})

	if clustersJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(clusters)
	}

	if len(clusters) == 0 {
		fmt.Println("No clusters.")
		return nil
	}
	for _, c := range clusters {
		fmt.Printf("[%s] %s\n", c.Category, c.Title)
		fmt.Printf("  location=%s severity=%.2f reports=%d window=%s..%s\n",
			c.Location, c.MaxSeverity, c.MemberCount,
			c.FirstSeen.Format(time.RFC3339), c.LastSeen.Format(time.RFC3339))
		if len(c.Keywords) > 0 {
			fmt.Printf("  keywords: %s\n", strings.Join(c.Keywords, ", "))
		}
		fmt.Println()
	}
	return nil
}
