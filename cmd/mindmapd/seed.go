package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bluesky-social/mindmap/mindmap"

	"github.com/brianvoe/gofakeit/v6"
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/urfave/cli/v2"
)

var cmdSeed = &cli.Command{
	Name:  "seed",
	Usage: "write synthetic mind maps directly into the store",
	Flags: append([]cli.Flag{
		&cli.IntFlag{
			Name:  "maps",
			Usage: "number of maps to create",
			Value: 10,
		},
		&cli.IntFlag{
			Name:  "leafs",
			Usage: "number of leafs to add to each map",
			Value: 20,
		},
		&cli.IntFlag{
			Name:  "max-depth",
			Usage: "maximum number of segments in a generated path",
			Value: 4,
		},
		&cli.Int64Flag{
			Name:  "seed",
			Usage: "random seed for generated paths and text (0 picks one)",
		},
	}, storeFlags...),
	Action: runSeed,
}

func runSeed(cctx *cli.Context) error {
	logger, err := configLogger(cctx, os.Stderr)
	if err != nil {
		return err
	}

	st, closeStore, err := openStore(cctx, logger)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("failed to close store", "err", err)
		}
	}()

	seed := cctx.Int64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	faker := gofakeit.New(seed)
	maxDepth := cctx.Int("max-depth")
	if maxDepth < 1 {
		maxDepth = 1
	}
	if maxDepth >= mindmap.MaxDepth {
		return fmt.Errorf("max-depth must be below %d", mindmap.MaxDepth)
	}

	svc := mindmap.NewService(st, logger)
	ctx := cctx.Context
	start := time.Now()
	for i := 0; i < cctx.Int("maps"); i++ {
		name := petname.Generate(2, "-")
		if err := svc.CreateMap(ctx, name); err != nil {
			return err
		}
		for j := 0; j < cctx.Int("leafs"); j++ {
			segs := make([]string, faker.Number(1, maxDepth))
			for k := range segs {
				segs[k] = strings.ToLower(faker.Noun())
			}
			if err := svc.AddLeaf(ctx, name, strings.Join(segs, mindmap.PathSeparator), faker.Sentence(8)); err != nil {
				return err
			}
		}
		root, err := svc.GetMap(ctx, name)
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%d nodes\n", name, root.Count())
	}
	logger.Info("seeding complete", "maps", cctx.Int("maps"), "duration", time.Since(start), "seed", seed)
	return nil
}
