// cmd/storefront/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"cookie-storefront/internal/catalog"
	"cookie-storefront/internal/concierge"
	"cookie-storefront/internal/config"
	"cookie-storefront/internal/logging"
	"cookie-storefront/internal/models"
	"cookie-storefront/internal/server"
	"cookie-storefront/internal/storage"
	"cookie-storefront/internal/storefront"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Serve flags
	host   string
	port   int
	dbPath string

	// Catalog flags
	sortOrder   string
	catalogPath string

	// Init flags
	outputPath string
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Cookie storefront: catalog, cart, boxes and a mood concierge",
	Long: `storefront serves a small cookie shop over REST and MCP tool calls.

Customers browse the catalog, fill a cart with single cookies or hand-picked
boxes of six, ask the concierge for a cookie that matches their mood, and
run a simulated checkout. Completed orders are archived in SQLite.`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and MCP server",
	RunE:  runServe,
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the product catalog",
	RunE:  runCatalog,
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write the default configuration to a YAML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.DefaultConfig().Save(outputPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outputPath)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "cookie-storefront version %s\n", server.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "storefront.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	serveCmd.Flags().StringVar(&host, "host", "", "Host address (overrides config)")
	serveCmd.Flags().IntVar(&port, "port", 0, "Port (overrides config)")
	serveCmd.Flags().StringVar(&dbPath, "db-path", "", "Order archive database path (overrides config)")

	catalogCmd.Flags().StringVar(&sortOrder, "sort", "default", "Sort order: default, price-asc, price-desc")
	catalogCmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog YAML file (default: built-in collection)")

	initConfigCmd.Flags().StringVarP(&outputPath, "output", "o", "storefront.yaml", "Where to write the config")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(initConfigCmd)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Server.Host = host
	}
	if flags.Changed("port") {
		cfg.Server.Port = port
	}
	if flags.Changed("db-path") {
		cfg.Storage.DBPath = dbPath
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, cfg.Validate()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logging.New(cfg.Logging.Mode, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	var gateway concierge.Gateway
	if cfg.Gemini.APIKey != "" {
		gemini, err := concierge.NewGeminiGateway(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return fmt.Errorf("failed to create recommendation gateway: %w", err)
		}
		gateway = gemini
		log.Info("Recommendation gateway enabled", "model", gemini.Model())
	} else {
		log.Warn("No Gemini API key configured, recommendations use the fallback")
	}

	orders, err := storage.NewSQLiteStorage(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer orders.Close()

	store := storefront.New(storefront.Options{
		Catalog:        cat,
		Gateway:        gateway,
		GatewayTimeout: cfg.GeminiTimeout(),
		CheckoutDelay:  cfg.CheckoutDelay(),
		Orders:         orders,
		Logger:         log,
	})

	srv, err := server.NewStorefrontServer(cfg.Server, store, log.With("component", "server"))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Stop(shutdownCtx)
	})

	return g.Wait()
}

func runCatalog(cmd *cobra.Command, args []string) error {
	order, err := catalog.ParseSortOrder(sortOrder)
	if err != nil {
		return err
	}
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return err
	}
	return printCatalog(cmd.OutOrStdout(), cat.Sorted(order))
}

func printCatalog(w io.Writer, products []models.Product) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tTAGLINE")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Price, p.Tagline)
	}
	return tw.Flush()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
