package main

import (
	"bufio"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ajaypar09/Projects/internal/models"
	"github.com/ajaypar09/Projects/internal/services"
)

func newInitDBCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create or migrate the SQLite database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.openStore(); err != nil {
				return err
			}
			path, err := filepath.Abs(a.cfg.DBPath)
			if err != nil {
				path = a.cfg.DBPath
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database initialized at %s\n", path)
			return nil
		},
	}
}

func newImportJSONCmd(a *app) *cobra.Command {
	var continueOnError bool

	cmd := &cobra.Command{
		Use:   "import-json FILE",
		Short: "Import card records from a JSON (or YAML) export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}

			importer := services.NewImporter(store, services.ImportOptions{ContinueOnError: continueOnError})
			result, err := importer.ImportFile(cmd.Context(), args[0])
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d cards from %s", result.Processed, args[0])
			if result.Skipped > 0 || len(result.Failed) > 0 {
				fmt.Fprintf(out, " (%d skipped, %d failed)", result.Skipped, len(result.Failed))
			}
			fmt.Fprintln(out)
			for _, failure := range result.Failed {
				fmt.Fprintf(out, "  %s\n", failure.Error())
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "keep importing after a record fails")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var (
		serialNumber string
		name         string
		limit        int
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search stored cards by serial number and/or name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.cardService()
			if err != nil {
				return err
			}
			results, err := svc.SearchCards(cmd.Context(), serialNumber, name, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, results)
			}
			if len(results) == 0 {
				fmt.Fprintln(out, "No matching cards found.")
				return nil
			}
			for _, entry := range results {
				fmt.Fprintln(out, cardHeader(entry.Card))
				fmt.Fprintf(out, "  Estimated value: %s\n", formatEstimate(entry.EstimatedValue))
				printPrices(out, entry.Prices)
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&serialNumber, "serial-number", "", "serial number filter (substring)")
	cmd.Flags().StringVar(&name, "name", "", "card name filter (case-insensitive substring)")
	cmd.Flags().IntVar(&limit, "limit", services.DefaultCardSearchLimit, "maximum number of results")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show prices and sales for a stored card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid card id %q", args[0])
			}
			svc, err := a.cardService()
			if err != nil {
				return err
			}
			detail, err := svc.GetCardDetails(cmd.Context(), uint(id))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if detail == nil {
				fmt.Fprintf(out, "Card with ID %d was not found.\n", id)
				return nil
			}

			card := detail.Card
			fmt.Fprintf(out, "%s (%s)\n", card.Name, card.SerialNumber)
			if card.SetName != nil {
				fmt.Fprintf(out, "Set: %s\n", *card.SetName)
			}
			if card.Rarity != nil {
				fmt.Fprintf(out, "Rarity: %s\n", *card.Rarity)
			}
			fmt.Fprintf(out, "Estimated value: %s\n", formatEstimate(detail.EstimatedValue))
			fmt.Fprintln(out, "Prices:")
			printPrices(out, detail.Prices)
			fmt.Fprintln(out, "Sales:")
			if len(detail.Sales) == 0 {
				fmt.Fprintln(out, "  No recent sales recorded.")
			}
			for _, source := range slices.Sorted(maps.Keys(detail.Sales)) {
				sales := detail.Sales[source]
				if len(sales) == 0 {
					continue
				}
				fmt.Fprintf(out, "  %s sales:\n", source)
				for _, sale := range sales {
					fmt.Fprintf(out, "    %s\n", saleLine(sale))
				}
			}
			return nil
		},
	}
}

func newLookupCmd(a *app) *cobra.Command {
	var (
		hint       models.CardHint
		salesLimit int
	)

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Find the best matching card and its recent sales",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hint.SerialNumber = strings.TrimSpace(hint.SerialNumber)
			hint.Name = strings.TrimSpace(hint.Name)
			if hint.IsEmpty() {
				return errors.New("--serial-number or --name is required")
			}
			svc, err := a.cardService()
			if err != nil {
				return err
			}
			result, err := svc.LookupCard(cmd.Context(), hint, salesLimit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result == nil {
				fmt.Fprintln(out, "No matching cards found.")
				return nil
			}
			fmt.Fprintf(out, "%s (%s)\n", result.Card.Name, result.Card.SerialNumber)
			fmt.Fprintf(out, "Match: %s\n", result.MatchTier)
			fmt.Fprintf(out, "Estimated value: %s\n", formatEstimate(result.EstimatedValue))
			fmt.Fprintln(out, "Recent sales:")
			if len(result.Sales) == 0 {
				fmt.Fprintln(out, "No recent sales found.")
			}
			for _, sale := range result.Sales {
				fmt.Fprintf(out, "- %s (%s)\n", saleLine(sale), sale.Source)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&hint.SerialNumber, "serial-number", "", "serial number of the card")
	cmd.Flags().StringVar(&hint.Name, "name", "", "card name")
	cmd.Flags().IntVar(&salesLimit, "sales-limit", services.DefaultLookupSalesLimit, "number of recent sales to display")
	return cmd
}

func newEstimateCmd(a *app) *cobra.Command {
	var (
		inputFile string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "estimate [CARD...]",
		Short: "Estimate live prices for cards given as Name or Name#Number",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := args
			if inputFile != "" {
				lines, err := readLines(inputFile)
				if err != nil {
					return err
				}
				entries = append(entries, lines...)
			}
			if len(entries) == 0 {
				return errors.New("provide card names as arguments or with --input")
			}

			queries := make([]services.CardQuery, 0, len(entries))
			for _, entry := range entries {
				queries = append(queries, services.ParseCardQuery(entry))
			}

			providers := services.NewProviders(a.cfg.ProviderSettings())
			estimates := services.NewEstimator(providers...).EstimatePrices(cmd.Context(), queries)
			summaries := make([]services.EstimateSummary, 0, len(estimates))
			for _, e := range estimates {
				summaries = append(summaries, e.Summary())
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, summaries)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "QUERY\tMEDIAN PRICE\tTCGPLAYER MATCHES\tPRICECHARTING MATCH")
			for _, s := range summaries {
				price := "-"
				if s.MedianPrice != nil {
					price = formatUSD(*s.MedianPrice)
				}
				found := "No"
				if s.ProviderFound[models.SourcePriceCharting] {
					found = "Yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", s.Query, price, s.ProductMatches[models.SourceTCGplayer], found)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&inputFile, "input", "", "file with one card per line")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print summaries as JSON")
	return cmd
}

// readLines returns the non-blank, trimmed lines of path
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	return lines, nil
}
