package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordbank/pkg/pipeline"
	"github.com/matzehuels/wordbank/pkg/wordbank"
)

// layoutOptions holds the flags of the layout command.
type layoutOptions struct {
	output  string
	noCache bool
	asJSON  bool
	words   string
	orders  string
	width   float64
	rtl     bool
}

// layoutCommand creates the layout command for computing word positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var opts layoutOptions

	cmd := &cobra.Command{
		Use:   "layout [request.json]",
		Short: "Compute word positions for a snapshot",
		Long: `Compute word positions for a snapshot.

The layout command reads a request with the order and width of every word
and wraps the answered words into lines. The request is a JSON file (or -
for stdin):

  {"words": ["el", "gato"], "orders": [1, 0], "params": {"container_width": 320}}

Alternatively pass --words and --orders; widths are then estimated from the
display width of each word.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			return c.runLayout(cmd.Context(), input, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the JSON result to a file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the JSON result instead of a table")
	cmd.Flags().StringVarP(&opts.words, "words", "w", "", "space-separated words (instead of a request file)")
	cmd.Flags().StringVar(&opts.orders, "orders", "", "comma-separated orders, -1 for the bank (default: all answered in word order)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "container width (default: request value or 320)")
	cmd.Flags().BoolVar(&opts.rtl, "rtl", false, "lay out right to left")

	return cmd
}

// runLayout builds the request, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts layoutOptions) error {
	req, err := buildLayoutRequest(input, opts)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	res, err := runner.Layout(ctx, req)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done("Laid out words", "words", len(req.Orders), "lines", res.Lines, "cached", res.Cached)

	if opts.asJSON {
		return writeResult(os.Stdout, res)
	}
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("create %s: %w", opts.output, err)
		}
		if err := writeResult(f, res); err != nil {
			f.Close()
			return fmt.Errorf("write output %s: %w", opts.output, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("write output %s: %w", opts.output, err)
		}
	}

	printSuccess("Layout complete")
	if opts.output != "" {
		printFile(opts.output)
	}
	printLayoutStats(len(req.Orders), res.Lines, res.Cached)
	printNewline()
	fmt.Println(layoutTable(req, res.Result))
	return nil
}

// buildLayoutRequest reads the request from input, or from the word flags
// when no input is given, and applies flag overrides.
func buildLayoutRequest(input string, opts layoutOptions) (pipeline.Request, error) {
	var req pipeline.Request
	switch {
	case input != "":
		rd, closeFn, err := openInput(input)
		if err != nil {
			return req, err
		}
		defer closeFn()
		if req, err = pipeline.ReadRequest(rd); err != nil {
			return req, err
		}
	case opts.words != "":
		req.Words = strings.Fields(opts.words)
		orders, err := parseOrders(opts.orders, len(req.Words))
		if err != nil {
			return req, err
		}
		req.Orders = orders
	default:
		return req, fmt.Errorf("provide a request file or --words")
	}

	if opts.width > 0 {
		req.Params.ContainerWidth = opts.width
	}
	if req.Params.ContainerWidth == 0 {
		req.Params.ContainerWidth = pipeline.DefaultContainerWidth
	}
	if opts.rtl {
		req.Params.RTL = true
	}
	return req, nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}

// parseOrders parses a comma-separated order list. An empty list answers
// all n words in word order.
func parseOrders(s string, n int) ([]int, error) {
	if s == "" {
		orders := make([]int, n)
		for i := range orders {
			orders[i] = i
		}
		return orders, nil
	}
	parts := strings.Split(s, ",")
	orders := make([]int, len(parts))
	for i, p := range parts {
		o, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid order %q: %w", p, err)
		}
		orders[i] = o
	}
	return orders, nil
}

func writeResult(w io.Writer, res *pipeline.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// wordLabel returns the display name of word i.
func wordLabel(req pipeline.Request, i int) string {
	if i < len(req.Words) {
		return req.Words[i]
	}
	return "#" + strconv.Itoa(i)
}

// orderLabel formats an order for display.
func orderLabel(o int) string {
	if o == wordbank.Bank {
		return "bank"
	}
	return strconv.Itoa(o)
}
