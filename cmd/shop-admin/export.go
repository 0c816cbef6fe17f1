package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Sternrassler/shop-admin/pkg/admin"
	"github.com/Sternrassler/shop-admin/pkg/fetch"
	"github.com/Sternrassler/shop-admin/pkg/grid"
	"github.com/Sternrassler/shop-admin/pkg/query"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var errUnknownScreen = errors.New("unknown screen")

type exportOptions struct {
	screen  string
	page    int
	limit   int
	search  string
	filters map[string]string
	output  string
}

func newExportCmd(v *viper.Viper) *cobra.Command {
	opts := exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one list page as CSV",
		Long: "export fetches a single page of the orders or users list with the same " +
			"rules as the dashboard and writes its rows as CSV. Use --output - for stdout.",
		Example: "  shop-admin export --screen orders --filter status=Pending --limit 50",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, api, err := setup(v)
			if err != nil {
				return err
			}
			return runExport(cmd.Context(), api, opts, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.screen, "screen", "orders", "screen to export: orders or users")
	flags.IntVar(&opts.page, "page", 1, "page number")
	flags.IntVar(&opts.limit, "limit", query.DefaultPageSize, "rows per page: 10, 25, 50 or 100")
	flags.StringVar(&opts.search, "search", "", "search text")
	flags.StringToStringVar(&opts.filters, "filter", nil, "filter as key=value, repeatable")
	flags.StringVarP(&opts.output, "output", "o", "", "output file (default: the screen's export file name, - for stdout)")

	return cmd
}

func runExport(ctx context.Context, api fetch.Getter, opts exportOptions, stdout io.Writer) error {
	switch opts.screen {
	case admin.Orders.Name:
		return exportScreen(ctx, api, admin.Orders, opts, stdout)
	case admin.Users.Name:
		return exportScreen(ctx, api, admin.Users, opts, stdout)
	default:
		return fmt.Errorf("%w %q (want %s or %s)", errUnknownScreen, opts.screen, admin.Orders.Name, admin.Users.Name)
	}
}

func exportScreen[T any](ctx context.Context, api fetch.Getter, screen grid.Screen[T], opts exportOptions, stdout io.Writer) error {
	q, err := buildQuery(screen, opts)
	if err != nil {
		return err
	}

	fetcher := fetch.NewFetcher[T](api, screen.Name, screen.Endpoint, nil)
	ctrl := grid.NewController(screen, grid.Source[T](fetcher))
	defer ctrl.Close()

	ctrl.Restore(q)
	if err := ctrl.Wait(ctx); err != nil {
		return err
	}

	st := ctrl.State()
	if st.Status == fetch.StatusFailure {
		return fmt.Errorf("%s: %w", st.Message, st.Err)
	}

	path := opts.output
	if path == "" {
		path = screen.ExportFile
	}
	if err := writeOutput(path, stdout, ctrl.Export); err != nil {
		return err
	}

	log.Info().
		Str("screen", screen.Name).
		Str("output", path).
		Int("rows", len(st.Items)).
		Str("range", st.Range.String()).
		Msg("Export written")
	return nil
}

// createFile opens export files.
var createFile = func(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

// writeOutput runs write against stdout for "-" and against the file path
// otherwise. The file's close error is returned, since it may carry the
// final flush.
func writeOutput(path string, stdout io.Writer, write func(io.Writer) error) (err error) {
	if path == "-" {
		return write(stdout)
	}

	f, err := createFile(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	return write(f)
}

// buildQuery validates the flags against the screen and query rules.
func buildQuery[T any](screen grid.Screen[T], opts exportOptions) (query.ListQuery, error) {
	q := query.New().WithSearch(opts.search)

	for key, value := range opts.filters {
		if !screen.HasFilter(key) {
			return query.ListQuery{}, fmt.Errorf("%w: %q (screen %s has %v)", grid.ErrUnknownFilter, key, screen.Name, screen.FilterKeys())
		}
		q = q.WithFilter(key, value)
	}

	q, err := q.WithPageSize(opts.limit)
	if err != nil {
		return query.ListQuery{}, fmt.Errorf("--limit %d: %w (want one of %v)", opts.limit, err, query.PageSizes)
	}

	q, err = q.WithPage(opts.page)
	if err != nil {
		return query.ListQuery{}, fmt.Errorf("--page %d: %w", opts.page, err)
	}

	return q, nil
}
