package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bluesky-social/mindmap/mindmap"
	"github.com/bluesky-social/mindmap/mindmap/client"

	"github.com/urfave/cli/v2"
	"github.com/xlab/treeprint"
)

func newClient(cctx *cli.Context) (*client.Client, error) {
	logger, err := configLogger(cctx, os.Stderr)
	if err != nil {
		return nil, err
	}
	return client.New(cctx.String("host"), client.WithLogger(logger)), nil
}

var cmdCreateMap = &cli.Command{
	Name:      "create-map",
	Usage:     "create an empty mind map",
	ArgsUsage: `<map>`,
	Action: func(cctx *cli.Context) error {
		if cctx.Args().Len() != 1 {
			return fmt.Errorf("expected exactly one argument: map name")
		}
		c, err := newClient(cctx)
		if err != nil {
			return err
		}
		return c.CreateMap(cctx.Context, cctx.Args().First())
	},
}

var cmdAddLeaf = &cli.Command{
	Name:      "add-leaf",
	Usage:     "insert a slash-separated path into a mind map",
	ArgsUsage: `<map> <path> <text>`,
	Action: func(cctx *cli.Context) error {
		if cctx.Args().Len() != 3 {
			return fmt.Errorf("expected three arguments: map, path, text")
		}
		c, err := newClient(cctx)
		if err != nil {
			return err
		}
		args := cctx.Args()
		return c.AddLeaf(cctx.Context, args.Get(0), args.Get(1), args.Get(2))
	},
}

var cmdGetLeaf = &cli.Command{
	Name:      "get-leaf",
	Usage:     "resolve a node by name and print its path and text as JSON",
	ArgsUsage: `<map> <leaf>`,
	Action: func(cctx *cli.Context) error {
		if cctx.Args().Len() != 2 {
			return fmt.Errorf("expected two arguments: map, leaf")
		}
		c, err := newClient(cctx)
		if err != nil {
			return err
		}
		leaf, err := c.ReadLeaf(cctx.Context, cctx.Args().Get(0), cctx.Args().Get(1))
		if err != nil {
			return err
		}
		b, err := json.MarshalIndent(leaf, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	},
}

var cmdPrettyPrint = &cli.Command{
	Name:      "pretty-print",
	Usage:     "print the server-side text rendering of a mind map",
	ArgsUsage: `<map>`,
	Action: func(cctx *cli.Context) error {
		if cctx.Args().Len() != 1 {
			return fmt.Errorf("expected exactly one argument: map name")
		}
		c, err := newClient(cctx)
		if err != nil {
			return err
		}
		out, err := c.PrettyPrint(cctx.Context, cctx.Args().First())
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

var cmdShow = &cli.Command{
	Name:      "show",
	Usage:     "fetch a mind map document and display it as a tree",
	ArgsUsage: `<map>`,
	Action: func(cctx *cli.Context) error {
		if cctx.Args().Len() != 1 {
			return fmt.Errorf("expected exactly one argument: map name")
		}
		c, err := newClient(cctx)
		if err != nil {
			return err
		}
		root, err := c.GetMap(cctx.Context, cctx.Args().First())
		if err != nil {
			return err
		}
		fmt.Println(treeView(root).String())
		return nil
	},
}

func displayNode(n *mindmap.Node) string {
	if n.Text == nil || *n.Text == "" {
		return n.Name
	}
	return fmt.Sprintf("%s: %s", n.Name, *n.Text)
}

// builds a treeprint view with children in stored order
func treeView(root *mindmap.Node) treeprint.Tree {
	tree := treeprint.NewWithRoot(displayNode(root))
	addChildren(tree, root)
	return tree
}

func addChildren(tree treeprint.Tree, n *mindmap.Node) {
	for _, child := range n.Children {
		if len(child.Children) == 0 {
			tree.AddNode(displayNode(child))
			continue
		}
		addChildren(tree.AddBranch(displayNode(child)), child)
	}
}
