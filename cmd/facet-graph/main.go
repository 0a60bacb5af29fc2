package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dot-matrix-labs/facet/pkg/facet"
	"github.com/dot-matrix-labs/facet/pkg/graph"
	"github.com/dot-matrix-labs/facet/pkg/sqlite"
)

var (
	dbPath     string
	configPath string
	partition  string
	verbose    bool
)

// fileConfig is the optional YAML config file. Flags win over file values.
type fileConfig struct {
	Path             string `yaml:"path"`
	DefaultPartition string `yaml:"default_partition"`
	LogLevel         string `yaml:"log_level"`
}

var rootCmd = &cobra.Command{
	Use:   "facet-graph",
	Short: "CLI for the facet graph store",
	Long:  `A command-line interface for managing nodes, edges, partitions, and vector search in the facet graph database.`,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new graph database",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		fmt.Printf("Graph database initialized at %s\n", dbPath)
		return nil
	},
}

var nodeCmd = &cobra.Command{
	Use:   "node",
	Short: "Manage graph nodes",
}

var nodeAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Add or overwrite a node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		label, _ := cmd.Flags().GetString("label")
		propsStr, _ := cmd.Flags().GetString("properties")

		var props map[string]any
		if propsStr != "" {
			if err := json.Unmarshal([]byte(propsStr), &props); err != nil {
				return fmt.Errorf("invalid properties JSON: %w", err)
			}
		}

		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		node := graph.Node{
			ID:          args[0],
			Label:       label,
			Properties:  props,
			PartitionID: partition,
		}
		if err := db.Graph().AddNode(cmd.Context(), node); err != nil {
			return err
		}

		fmt.Printf("Node %s added\n", node.ID)
		return nil
	},
}

var nodeGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print a node as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		node, err := db.Graph().GetNode(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(node)
	},
}

var edgeCmd = &cobra.Command{
	Use:   "edge",
	Short: "Manage graph edges",
}

var edgeAddCmd = &cobra.Command{
	Use:   "add <source> <relation> <target>",
	Short: "Add a directed edge",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		weight, _ := cmd.Flags().GetFloat64("weight")

		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		edge := graph.Edge{
			Source:      args[0],
			Relation:    args[1],
			Target:      args[2],
			Weight:      weight,
			PartitionID: partition,
		}
		if err := db.Graph().AddEdge(cmd.Context(), edge); err != nil {
			return err
		}

		fmt.Printf("Edge %s -%s-> %s added\n", edge.Source, edge.Relation, edge.Target)
		return nil
	},
}

var neighborsCmd = &cobra.Command{
	Use:   "neighbors <id>",
	Short: "List outgoing neighbors of a node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inPartition, _ := cmd.Flags().GetString("in-partition")

		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		var neighbors []graph.Neighbor
		if inPartition != "" {
			neighbors, err = db.Graph().GetNeighborsInPartition(cmd.Context(), args[0], inPartition)
		} else {
			neighbors, err = db.Graph().GetNeighbors(cmd.Context(), args[0])
		}
		if err != nil {
			return err
		}

		for _, n := range neighbors {
			fmt.Printf("-%s-> %s (weight %.2f, partition %s)\n",
				n.Edge.Relation, n.Node.ID, n.Edge.Weight, n.Edge.PartitionID)
		}
		if len(neighbors) == 0 {
			fmt.Println("no neighbors")
		}
		return nil
	},
}

var partitionCmd = &cobra.Command{
	Use:   "partition <id>",
	Short: "List all nodes in a partition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		nodes, err := db.Graph().QueryByPartition(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(nodes)
	},
}

var embedCmd = &cobra.Command{
	Use:   "embed <id>",
	Short: "Attach an embedding vector to a node",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vectorStr, _ := cmd.Flags().GetString("vector")
		vector, err := parseVector(vectorStr)
		if err != nil {
			return err
		}

		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		if err := db.Vector().AddEmbedding(cmd.Context(), args[0], vector); err != nil {
			return err
		}

		fmt.Printf("Embedding attached to %s (%d dims)\n", args[0], len(vector))
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Top-k cosine similarity search over embedded nodes",
	RunE: func(cmd *cobra.Command, args []string) error {
		vectorStr, _ := cmd.Flags().GetString("vector")
		limit, _ := cmd.Flags().GetInt("limit")

		vector, err := parseVector(vectorStr)
		if err != nil {
			return err
		}

		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		results, err := db.Vector().Search(cmd.Context(), vector, limit)
		if err != nil {
			return err
		}

		for i, r := range results {
			fmt.Printf("%d. %s (score %.4f)\n", i+1, r.NodeID, r.Score)
		}
		if len(results) == 0 {
			fmt.Println("no results")
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Bulk load nodes from a JSON array",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		var nodes []graph.Node
		if err := json.Unmarshal(data, &nodes); err != nil {
			return fmt.Errorf("invalid import file: %w", err)
		}

		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		if err := db.Store().AddNodes(cmd.Context(), nodes); err != nil {
			return err
		}

		fmt.Printf("Imported %d nodes\n", len(nodes))
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		st, err := db.Store().Stats(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Nodes:          %d\n", st.Nodes)
		fmt.Printf("Edges:          %d\n", st.Edges)
		fmt.Printf("Embedded nodes: %d\n", st.EmbeddedNodes)
		return nil
	},
}

// openDB resolves the config file and flags, then opens the database.
func openDB(ctx context.Context) (*facet.DB, error) {
	level := sqlite.LevelWarn
	if verbose {
		level = sqlite.LevelDebug
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("invalid config file: %w", err)
		}
		if dbPath == defaultDBPath && fc.Path != "" {
			dbPath = fc.Path
		}
		if partition == graph.DefaultPartition && fc.DefaultPartition != "" {
			partition = fc.DefaultPartition
		}
		if !verbose {
			switch strings.ToLower(fc.LogLevel) {
			case "debug":
				level = sqlite.LevelDebug
			case "info":
				level = sqlite.LevelInfo
			case "error":
				level = sqlite.LevelError
			}
		}
	}

	return facet.Open(ctx, facet.Config{
		Path:   dbPath,
		Logger: sqlite.NewStdLogger(level),
	})
}

func parseVector(s string) ([]float32, error) {
	if s == "" {
		return nil, fmt.Errorf("missing --vector")
	}
	parts := strings.Split(s, ",")
	vector := make([]float32, 0, len(parts))
	for _, part := range parts {
		val, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid vector format: %w", err)
		}
		vector = append(vector, float32(val))
	}
	return vector, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

const defaultDBPath = "facet.db"

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath, "database file path")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&partition, "partition", graph.DefaultPartition, "partition for new records")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	nodeAddCmd.Flags().String("label", "", "node label, e.g. Person")
	nodeAddCmd.Flags().String("properties", "", "node properties as JSON")
	edgeAddCmd.Flags().Float64("weight", 0, "edge weight (default 1.0)")
	neighborsCmd.Flags().String("in-partition", "", "restrict to a partition")
	embedCmd.Flags().String("vector", "", "comma-separated floats")
	searchCmd.Flags().String("vector", "", "comma-separated floats")
	searchCmd.Flags().Int("limit", 10, "maximum results")

	nodeCmd.AddCommand(nodeAddCmd, nodeGetCmd)
	edgeCmd.AddCommand(edgeAddCmd)
	rootCmd.AddCommand(initCmd, nodeCmd, edgeCmd, neighborsCmd, partitionCmd, embedCmd, searchCmd, importCmd, statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
