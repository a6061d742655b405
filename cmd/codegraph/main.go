package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"codegraph/internal/analysis"
	"codegraph/internal/config"
	"codegraph/internal/git"
	"codegraph/internal/graph"
	"codegraph/internal/pipeline"
	"codegraph/internal/query"
	"codegraph/internal/server"
)

const version = "0.1.0"

var (
	rootCmd = &cobra.Command{
		Use:   "codegraph",
		Short: "Cross-language code dependency graph builder",
	}
	cfgPath   string
	outDir    string
	dbPath    string
	languages []string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o", "", "Output directory for fdep JSON and graph artifacts")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the graph database (SQLite)")

	scanCmd.Flags().StringSliceVarP(&languages, "lang", "l", nil, "Languages to scan (default: all supported)")
	queryTraverseCmd.Flags().IntVar(&traverseDepth, "depth", 2, "Maximum hop distance")
	queryTraverseCmd.Flags().StringVar(&traverseDir, "dir", "out", "Edge direction: out, in, or both")

	queryCmd.AddCommand(queryNeighborsCmd)
	queryCmd.AddCommand(queryPathCmd)
	queryCmd.AddCommand(queryTraverseCmd)
	queryCmd.AddCommand(queryImpactCmd)
	queryCmd.AddCommand(queryRootsCmd)

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig layers CLI flags over the config file.
func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if outDir != "" {
		cfg.Output.Dir = outDir
		cfg.Output.DBPath = filepath.Join(outDir, "codegraph.db")
	}
	if dbPath != "" {
		cfg.Output.DBPath = dbPath
	}
	if len(languages) > 0 {
		cfg.Project.Languages = languages
	}
	return cfg
}

func loadGraph(ctx context.Context) *graph.Graph {
	g, err := pipeline.LoadGraph(ctx, loadConfig())
	if err != nil {
		log.Fatalf("Failed to load graph (run 'codegraph scan' first): %v", err)
	}
	return g
}

func printReport(report *pipeline.Report) {
	fmt.Printf("📊 Nodes: %d, Edges: %d, Stubs: %d\n",
		report.Graph.Nodes, report.Graph.Edges, report.Graph.Stubs)
	for _, lang := range report.Languages {
		fmt.Printf("  -> %s\n", lang)
	}
	if report.Dropped > 0 {
		fmt.Printf("⚠️  %d component records had unrecognized file extensions.\n", report.Dropped)
	}
}

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Extract components from a repository and build the dependency graph",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if len(args) > 0 {
			cfg.Project.Root = args[0]
		} else if cfg.Project.Root == "." {
			cfg.Project.Root = git.FindRepoRoot(".")
		}

		fmt.Printf("📂 Scanning directory: %s\n", cfg.Project.Root)
		report, err := pipeline.NewScanner(cfg).Run(context.Background())
		if err != nil {
			log.Fatalf("Scan failed: %v", err)
		}

		fmt.Printf("✅ Extracted %d of %d files in %v (%d failures).\n",
			report.FilesExtracted, report.FilesScanned, report.Duration, report.ExtractErrors)
		printReport(report)
		fmt.Printf("🎉 Scan complete! Artifacts in %s\n", cfg.Output.Dir)
	},
}

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Rebuild the graph from previously extracted component JSON",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		fmt.Println("🚀 Building dependency graph from fdep output...")
		report, _, err := pipeline.NewScanner(cfg).Build(context.Background())
		if err != nil {
			log.Fatalf("Build failed: %v", err)
		}
		printReport(report)
	},
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query the persisted graph",
}

var queryNeighborsCmd = &cobra.Command{
	Use:   "neighbors <node-id>",
	Short: "List a node's incoming and outgoing edges",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		g := loadGraph(cmd.Context())
		n, err := query.Neighbors(g, args[0])
		if err != nil {
			log.Fatalf("Query failed: %v", err)
		}
		for _, out := range n.Out {
			fmt.Printf("  -> %s (%s)\n", out.ID, out.Relation)
		}
		for _, in := range n.In {
			fmt.Printf("  <- %s (%s)\n", in.ID, in.Relation)
		}
	},
}

var queryPathCmd = &cobra.Command{
	Use:   "path <from> <to>",
	Short: "Find one shortest dependency path between two nodes",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		g := loadGraph(cmd.Context())
		path, err := query.ShortestPath(g, args[0], args[1])
		if err != nil {
			log.Fatalf("Query failed: %v", err)
		}
		if path == nil {
			fmt.Println("No path found.")
			return
		}
		for i, id := range path {
			if i > 0 {
				fmt.Print(" -> ")
			}
			fmt.Print(id)
		}
		fmt.Println()
	},
}

var (
	traverseDepth int
	traverseDir   string
)

var queryTraverseCmd = &cobra.Command{
	Use:   "traverse <node-id>",
	Short: "List every node within a bounded distance",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		g := loadGraph(cmd.Context())
		visits, err := query.Traverse(g, args[0], traverseDepth, query.Direction(traverseDir))
		if err != nil {
			log.Fatalf("Query failed: %v", err)
		}
		for _, v := range visits {
			fmt.Printf("  [%d] %s\n", v.Depth, v.ID)
		}
	},
}

var queryRootsCmd = &cobra.Command{
	Use:   "roots",
	Short: "List nodes nothing depends on, with their reachable-node counts",
	Run: func(cmd *cobra.Command, args []string) {
		g := loadGraph(cmd.Context())
		for _, id := range g.Roots() {
			fmt.Printf("  %s (%d reachable)\n", id, g.DescendantCount(id))
		}
	},
}

var queryImpactCmd = &cobra.Command{
	Use:   "impact [file...]",
	Short: "Show the nodes affected if the given files change (default: git diff vs HEAD)",
	Run: func(cmd *cobra.Command, args []string) {
		files := args
		if len(files) == 0 {
			var err error
			files, err = git.ChangedFiles(".", "HEAD")
			if err != nil {
				log.Fatalf("Failed to get git changes: %v", err)
			}
			if len(files) == 0 {
				fmt.Println("✅ No changes detected.")
				return
			}
		}

		g := loadGraph(cmd.Context())
		report := analysis.NewAnalyzer(g).AnalyzeImpact(files)

		fmt.Printf("  -> %d symbols directly affected\n", len(report.DirectlyAffected))
		for _, id := range report.DirectlyAffected {
			fmt.Printf("     %s\n", id)
		}
		fmt.Printf("  -> %d symbols indirectly affected (dependents)\n", len(report.IndirectlyAffected))
		for _, id := range report.IndirectlyAffected {
			fmt.Printf("     %s\n", id)
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the graph's query surface as MCP tools over stdio",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		ctx := context.Background()

		g, err := pipeline.LoadGraph(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to load graph (run 'codegraph scan' first): %v", err)
		}

		if err := server.New(cfg.Server.Name, version, g).Run(ctx); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	},
}
