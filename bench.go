package main

import (
	"fmt"
	"io"
	"math/rand"
	"text/tabwriter"
	"time"

	"binpack/rectpack"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const sizeLimit = 1024

// benchOptions 是 bench 命令的参数
type benchOptions struct {
	count   int
	minSize int
	maxSize int
	padding int
	seed    int64
}

func newBenchCommand() *cobra.Command {
	opts := benchOptions{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Compare algorithms and sort orders on random rectangles.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBench(cmd.OutOrStdout(), &opts)
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&opts.count, "count", 100, "生成的矩形数量")
	flags.IntVar(&opts.minSize, "minsize", 1, "矩形的最小边长")
	flags.IntVar(&opts.maxSize, "maxsize", 32, "矩形的最大边长")
	flags.IntVar(&opts.padding, "padding", rectpack.DefaultPadding, "间距")
	flags.Int64Var(&opts.seed, "seed", 0x1234, "随机数种子")
	return cmd
}

// randomNodes 生成随机节点，标识符是由同一个随机源生成的短 UUID
func randomNodes(r *rand.Rand, opts *benchOptions) ([]*rectpack.Node, error) {
	nodes := make([]*rectpack.Node, opts.count)
	n := opts.maxSize - opts.minSize + 1
	for i := range nodes {
		u, err := uuid.NewRandomFromReader(r)
		if err != nil {
			return nil, err
		}
		w := opts.minSize + r.Intn(n)
		h := opts.minSize + r.Intn(n)
		nodes[i] = rectpack.NewNode(rectpack.StringID(u.String()[:8]), w, h)
	}
	return nodes, nil
}

func cloneNodes(nodes []*rectpack.Node) []*rectpack.Node {
	out := make([]*rectpack.Node, len(nodes))
	for i, n := range nodes {
		c := *n
		out[i] = &c
	}
	return out
}

func runBench(w io.Writer, opts *benchOptions) error {
	if opts.count < 0 {
		return fmt.Errorf("count %d is negative", opts.count)
	}
	if opts.minSize < 1 || sizeLimit < opts.minSize {
		return fmt.Errorf("minsize %d is not between 1 and %d", opts.minSize, sizeLimit)
	}
	if opts.maxSize < opts.minSize || sizeLimit < opts.maxSize {
		return fmt.Errorf("maxsize %d is not between %d and %d", opts.maxSize, opts.minSize, sizeLimit)
	}

	nodes, err := randomNodes(rand.New(rand.NewSource(opts.seed)), opts)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "algorithm\tsort\tsize\tutilization\tok\ttime")
	for _, algorithm := range []rectpack.Algorithm{rectpack.Simple, rectpack.Tree, rectpack.MaxRect} {
		packer, err := rectpack.NewPacker(algorithm)
		if err != nil {
			return err
		}
		packer.Padding = opts.padding
		for _, by := range []rectpack.SortBy{rectpack.SortByArea, rectpack.SortByWidth, rectpack.SortByHeight, rectpack.SortByID} {
			trial := rectpack.Sort(cloneNodes(nodes), by, rectpack.Descending, packer.AllowRotate)
			start := time.Now()
			size, err := packer.PackAutoResize(trial, 0, 0)
			elapsed := time.Since(start)
			fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f%%\t%v\t%v\n",
				algorithm, by, size, rectpack.Utilization(trial, size)*100, err == nil, elapsed)
		}
	}
	return tw.Flush()
}
