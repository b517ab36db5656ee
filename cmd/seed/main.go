package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/santu/marketplace/internal/repo"
	"github.com/santu/marketplace/internal/search"
	"github.com/santu/marketplace/internal/seed"
	"github.com/santu/marketplace/internal/service"
	"github.com/santu/marketplace/pkg/config"
	pkgdb "github.com/santu/marketplace/pkg/db"
	"github.com/santu/marketplace/pkg/logging"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	databaseURL   string
	ownerEmail    string
	ownerPassword string
}

func newRootCmd() *cobra.Command {
	cfg := config.Load()
	opts := &options{databaseURL: cfg.DatabaseURL}

	root := &cobra.Command{
		Use:           "seed",
		Short:         "Load reference categories and bootstrap the owner account",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), cmd.OutOrStdout(), cfg, opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.databaseURL, "database-url", opts.databaseURL, "database DSN (postgres URL or sqlite://<path>)")
	root.Flags().StringVar(&opts.ownerEmail, "owner-email", "", "create or promote this account to OWNER")
	root.Flags().StringVar(&opts.ownerPassword, "owner-password", "", "password for a newly created owner account")
	root.MarkFlagsRequiredTogether("owner-email", "owner-password")

	root.AddCommand(newReindexCmd(cfg, opts))
	return root
}

func openDB(ctx context.Context, cfg config.Config, dsn string) (*gorm.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return pkgdb.Open(ctx, dsn, cfg.IsProduction())
}

func runSeed(ctx context.Context, out io.Writer, cfg config.Config, opts *options) error {
	db, err := openDB(ctx, cfg, opts.databaseURL)
	if err != nil {
		return err
	}
	defer pkgdb.Close(db)

	report, err := (&seed.Seeder{DB: db}).Run(ctx)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Label", "Slug"})
	for _, c := range report.Inserted {
		t.AppendRow(table.Row{c.ID, c.Label, c.Slug})
	}
	cleared := fmt.Sprintf("%d removed", report.Cleared)
	if report.TableMissing {
		cleared = "table created"
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d inserted", len(report.Inserted)), cleared})
	t.Render()

	if opts.ownerEmail == "" {
		return nil
	}
	auth := &service.AuthService{Store: repo.New(db)}
	owner, err := auth.EnsureOwner(ctx, opts.ownerEmail, opts.ownerPassword)
	if err != nil {
		return fmt.Errorf("ensure owner: %w", err)
	}
	fmt.Fprintf(out, "owner ready: %s (%s)\n", owner.Email, owner.ID)
	return nil
}

func newReindexCmd(cfg config.Config, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Copy every product into the Elasticsearch product index",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.ESURL == "" {
				return fmt.Errorf("ES_URL is not set")
			}
			ctx := cmd.Context()
			logger := logging.New(cfg.LogLevel)
			slog.SetDefault(logger)

			db, err := openDB(ctx, cfg, opts.databaseURL)
			if err != nil {
				return err
			}
			defer pkgdb.Close(db)

			es, err := search.NewClient(ctx, search.Config{URL: cfg.ESURL, Username: cfg.ESUser, Password: cfg.ESPassword}, logger)
			if err != nil {
				return err
			}

			store := repo.New(db)
			products, err := store.ListProducts(ctx, repo.ProductFilter{})
			if err != nil {
				return fmt.Errorf("list products: %w", err)
			}
			svc := &search.Service{ES: es, Index: cfg.ProductIndex, Products: store}
			n, err := svc.IndexProducts(ctx, products)
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d/%d products into %q\n", n, len(products), cfg.ProductIndex)
			return err
		},
	}
}
