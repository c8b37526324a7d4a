package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/martillo-dev/martillo/internal/cli/client"
)

// NewAuctionsCmd creates the auctions command group
func NewAuctionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auctions",
		Short: "Browse and create auctions",
	}

	cmd.AddCommand(newAuctionsListCmd())
	cmd.AddCommand(newAuctionsShowCmd())
	cmd.AddCommand(newAuctionsCreateCmd())

	return cmd
}

func newAuctionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List all auctions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuctionsList()
		},
	}
}

func runAuctionsList() error {
	api, err := openAPI()
	if err != nil {
		return err
	}

	auctions, err := api.ListAuctions()
	if err != nil {
		return err
	}

	if len(auctions) == 0 {
		fmt.Println("No auctions found.")
		fmt.Println("\nCreate one with: martillo auctions create -f auction.yaml")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCURRENT PRICE\tENDS\tSTATUS")
	fmt.Fprintln(w, "──\t─────\t─────────────\t────\t──────")

	for _, auction := range auctions {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\t%s\n",
			auction.ID,
			auction.Title,
			auction.CurrentPrice,
			auction.EndDate,
			auction.Status,
		)
	}

	w.Flush()

	return nil
}

func newAuctionsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <auction-id>",
		Short: "Show one auction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuctionsShow(args[0])
		},
	}
}

func runAuctionsShow(auctionID string) error {
	api, err := openAPI()
	if err != nil {
		return err
	}

	auction, err := api.GetAuction(auctionID)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", auction.Title)
	fmt.Printf("  %s\n\n", auction.Description)
	fmt.Printf("  Starting price: %.2f\n", auction.StartingPrice)
	fmt.Printf("  Current price:  %.2f\n", auction.CurrentPrice)
	fmt.Printf("  Ends:           %s\n", auction.EndDate)
	fmt.Printf("  Status:         %s\n", auction.Status)
	if len(auction.Categories) > 0 {
		fmt.Printf("  Categories:     %v\n", auction.Categories)
	}
	fmt.Printf("  ID:             %s\n", auction.ID)

	return nil
}

func newAuctionsCreateCmd() *cobra.Command {
	var file string
	var data client.AuctionData

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new auction",
		Long: `Create a new auction, either from flags or from a YAML file:

  title: Vintage typewriter
  description: 1950s Olivetti, working condition
  startingPrice: 120.00
  endDate: 2026-09-30T18:00:00Z
  categories: [collectibles]
  imageUrl: https://example.com/typewriter.jpg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuctionsCreate(file, data)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML file describing the auction")
	cmd.Flags().StringVar(&data.Title, "title", "", "Auction title")
	cmd.Flags().StringVar(&data.Description, "description", "", "Auction description")
	cmd.Flags().Float64Var(&data.StartingPrice, "starting-price", 0, "Starting price")
	cmd.Flags().StringVar(&data.EndDate, "end-date", "", "End date (RFC 3339)")
	cmd.Flags().StringSliceVar(&data.Categories, "category", nil, "Category (repeatable)")
	cmd.Flags().StringVar(&data.ImageURL, "image-url", "", "Image URL")

	return cmd
}

func runAuctionsCreate(file string, data client.AuctionData) error {
	if file != "" {
		loaded, err := loadAuctionFile(file)
		if err != nil {
			return err
		}
		data = *loaded
	}

	if data.Title == "" {
		return fmt.Errorf("a title is required (use --title or -f)")
	}
	if data.StartingPrice <= 0 {
		return fmt.Errorf("a positive starting price is required")
	}
	if data.EndDate == "" {
		return fmt.Errorf("an end date is required")
	}

	_, api, err := openSession()
	if err != nil {
		return err
	}
	if _, err := currentUser(); err != nil {
		return err
	}

	auction, err := api.CreateAuction(data)
	if err != nil {
		return fmt.Errorf("failed to create auction: %w", err)
	}

	fmt.Println("✓ Auction created!")
	fmt.Printf("  %s (ID: %s)\n", auction.Title, auction.ID)

	return nil
}

// auctionFile mirrors AuctionData with YAML field names
type auctionFile struct {
	Title         string   `yaml:"title"`
	Description   string   `yaml:"description"`
	StartingPrice float64  `yaml:"startingPrice"`
	EndDate       string   `yaml:"endDate"`
	Categories    []string `yaml:"categories"`
	ImageURL      string   `yaml:"imageUrl"`
}

// loadAuctionFile parses an auction description from a YAML file
func loadAuctionFile(path string) (*client.AuctionData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var file auctionFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &client.AuctionData{
		Title:         file.Title,
		Description:   file.Description,
		StartingPrice: file.StartingPrice,
		EndDate:       file.EndDate,
		Categories:    file.Categories,
		ImageURL:      file.ImageURL,
	}, nil
}
