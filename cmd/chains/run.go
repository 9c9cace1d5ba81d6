package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"

	"github.com/ConchFeng/gmsh-fork/chain"
	"github.com/ConchFeng/gmsh-fork/homology"
	"github.com/ConchFeng/gmsh-fork/model"
	"github.com/ConchFeng/gmsh-fork/partitions"
	"github.com/ConchFeng/gmsh-fork/post"
	"github.com/ConchFeng/gmsh-fork/utils"
)

// Config holds chains command configuration.
type Config struct {
	MeshFile   string `env:"CHAINS_MESH_FILE"`
	Group      int    `env:"CHAINS_GROUP" envDefault:"1"`
	ViewsFile  string `env:"CHAINS_VIEWS"`
	LogLevel   string `env:"CHAINS_LOG_LEVEL" envDefault:"info"`
	Partitions int    `env:"CHAINS_PARTITIONS"`
	Strategy   string `env:"CHAINS_PARTITION_STRATEGY" envDefault:"graph"`
}

// ParseConfig reads CHAINS_* environment variables, then flags.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&cfg.MeshFile, "mesh", cfg.MeshFile, "volume mesh file (default: CHAINS_MESH_FILE)")
	fs.IntVar(&cfg.Group, "group", cfg.Group, "physical group to build the chain from")
	fs.StringVar(&cfg.ViewsFile, "views", cfg.ViewsFile, "write element data views as YAML to this file (- for stdout)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug|info|warn|error)")
	fs.IntVar(&cfg.Partitions, "partitions", cfg.Partitions, "split the chain into this many partitions (0 = no split)")
	fs.StringVar(&cfg.Strategy, "strategy", cfg.Strategy, "partition strategy (block|roundrobin|graph|morton)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.MeshFile == "" && fs.NArg() > 0 {
		cfg.MeshFile = fs.Arg(0)
	}
	if cfg.MeshFile == "" {
		return Config{}, errors.New("a mesh file is required")
	}
	if cfg.Partitions < 0 {
		return Config{}, fmt.Errorf("invalid partition count %d", cfg.Partitions)
	}
	if _, err := partitions.ParseStrategy(cfg.Strategy); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the chains command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	logger := logrus.New()
	logger.SetOutput(errOut)
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logger.SetLevel(level)
	chain.SetLogger(logger)
	homology.SetLogger(logger)
	defer chain.SetLogger(nil)
	defer homology.SetLogger(nil)

	m, err := model.ReadMeshFile(cfg.MeshFile)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"file":     cfg.MeshFile,
		"vertices": m.NumVertices(),
		"elements": m.MaxElementNumber(),
	}).Info("mesh imported")

	c, err := chain.NewChainFromPhysicalGroup[int](m, cfg.Group)
	if err != nil {
		return err
	}
	bd := c.Boundary()
	bd.SetName("boundary of " + c.Name())
	fmt.Fprintf(out, "chain %q: %d-chain with %d elements\n", c.Name(), c.Dim(), c.Len())
	fmt.Fprintf(out, "boundary: %d-chain with %d elements, cycle %t\n", bd.Dim(), bd.Len(), homology.IsCycle(bd))

	cx := homology.FromChain(c)
	betti := cx.Betti()
	fmt.Fprintf(out, "betti numbers: %v, euler characteristic %d\n", betti, cx.EulerCharacteristic())
	fmt.Fprintf(out, "connected components: %d\n", len(cx.Components()))

	registry := post.NewRegistry()
	pnum, err := bd.AddToModel(m, registry)
	if err != nil {
		return err
	}
	if pnum >= 0 {
		fmt.Fprintf(out, "boundary stored as physical group %d\n", pnum)
	}

	if cfg.Partitions > 0 {
		if err = ctx.Err(); err != nil {
			return err
		}
		if err = partition(c, cfg, m, registry, out); err != nil {
			return err
		}
	}

	return writeViews(cfg.ViewsFile, registry, out)
}

func partition(c *chain.Chain[int], cfg Config, m *model.GModel, registry *post.Registry, out io.Writer) error {
	strategy, err := partitions.ParseStrategy(cfg.Strategy)
	if err != nil {
		return err
	}
	fc, err := utils.NewFaceConnectorFromChain(c)
	if err != nil {
		return err
	}
	pb := &partitions.PartitionBuilder{Mesh: fc, NumPartitions: cfg.Partitions, Strategy: strategy}
	layout, err := pb.BuildPartitions()
	if err != nil {
		return err
	}
	stats := layout.PartitionStatistics()
	fmt.Fprintf(out, "partitions: %d (%s), elements min %d max %d, imbalance %.3f\n",
		stats.NumPartitions, strategy, stats.MinElements, stats.MaxElements, stats.Imbalance)

	parts, err := partitions.Split(c, fc, layout)
	if err != nil {
		return err
	}
	for _, part := range parts {
		if _, err = part.AddToModel(m, registry); err != nil {
			return err
		}
	}
	ifaces := partitions.Interfaces(c, fc)
	for p := 0; p < layout.NumPartitions; p++ {
		for q := p + 1; q < layout.NumPartitions; q++ {
			if iface, ok := ifaces[[2]int{p, q}]; ok {
				fmt.Fprintf(out, "interface %d|%d: %d facets\n", p, q, iface.Len())
			}
		}
	}
	return nil
}

func writeViews(path string, registry *post.Registry, out io.Writer) error {
	switch path {
	case "":
		return nil
	case "-":
		return registry.WriteYAML(out)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create views file: %w", err)
	}
	if err = registry.WriteYAML(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
