package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ConchFeng/gmsh-fork/post"
)

const twoTets = "testdata/two_tets.neu"

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("chains", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{twoTets})
	require.NoError(t, err)
	assert.Equal(t, twoTets, cfg.MeshFile)
	assert.Equal(t, 1, cfg.Group)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "graph", cfg.Strategy)
	assert.Zero(t, cfg.Partitions)
}

func TestParseConfigEnvAndFlags(t *testing.T) {
	t.Setenv("CHAINS_MESH_FILE", "env.neu")
	t.Setenv("CHAINS_GROUP", "7")
	t.Setenv("CHAINS_PARTITIONS", "3")
	fs := flag.NewFlagSet("chains", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-group", "2", "-strategy", "morton"})
	require.NoError(t, err)
	assert.Equal(t, "env.neu", cfg.MeshFile)
	assert.Equal(t, 2, cfg.Group)
	assert.Equal(t, 3, cfg.Partitions)
	assert.Equal(t, "morton", cfg.Strategy)
}

func TestParseConfigErrors(t *testing.T) {
	newFS := func() *flag.FlagSet {
		fs := flag.NewFlagSet("chains", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		return fs
	}
	_, err := ParseConfig(newFS(), nil)
	assert.Error(t, err)
	_, err = ParseConfig(newFS(), []string{"-strategy", "metis", twoTets})
	assert.Error(t, err)
	_, err = ParseConfig(newFS(), []string{"-partitions", "-1", twoTets})
	assert.Error(t, err)
	t.Setenv("CHAINS_GROUP", "one")
	_, err = ParseConfig(newFS(), []string{twoTets})
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	views := filepath.Join(t.TempDir(), "views.yaml")
	cfg := Config{
		MeshFile:   twoTets,
		Group:      1,
		ViewsFile:  views,
		LogLevel:   "warn",
		Partitions: 2,
		Strategy:   "graph",
	}
	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), cfg, &out, io.Discard))

	s := out.String()
	assert.Contains(t, s, `chain "domain": 3-chain with 2 elements`)
	assert.Contains(t, s, "boundary: 2-chain with 8 elements, cycle true")
	assert.Contains(t, s, "betti numbers: [1 0 0 0]")
	assert.Contains(t, s, "boundary stored as physical group 2")
	assert.Contains(t, s, "partitions: 2 (graph)")
	// the tetrahedra only share a vertex
	assert.NotContains(t, s, "interface")

	f, err := os.Open(views)
	require.NoError(t, err)
	defer f.Close()
	var names []string
	dec := yaml.NewDecoder(f)
	for {
		var v post.View
		if err := dec.Decode(&v); err != nil {
			require.True(t, errors.Is(err, io.EOF), "decode: %v", err)
			break
		}
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"2: boundary of domain", "3: domain/0", "4: domain/1"}, names)
}

func TestRunErrors(t *testing.T) {
	cfg := Config{MeshFile: twoTets, Group: 42, LogLevel: "info"}
	assert.Error(t, Run(context.Background(), cfg, nil, nil))

	cfg.Group = 1
	cfg.LogLevel = "loud"
	assert.Error(t, Run(context.Background(), cfg, nil, nil))

	cfg.LogLevel = "info"
	cfg.MeshFile = filepath.Join(t.TempDir(), "absent.neu")
	assert.Error(t, Run(context.Background(), cfg, nil, nil))
}
