package commands

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/martillo-dev/martillo/internal/cli/client"
)

// NewBidCmd creates the bid command
func NewBidCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bid [auction-id] <amount>",
		Short: "Place a bid on an auction",
		Long: `Place a bid on an auction.

With one argument the amount is bid on an auction chosen interactively;
with two arguments the first is the auction ID.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runBid("", args[0])
			}
			return runBid(args[0], args[1])
		},
	}
}

func runBid(auctionID, amountArg string) error {
	amount, err := strconv.ParseFloat(amountArg, 64)
	if err != nil || amount <= 0 {
		return fmt.Errorf("invalid bid amount %q", amountArg)
	}

	_, api, err := openSession()
	if err != nil {
		return err
	}
	if _, err := currentUser(); err != nil {
		return err
	}

	if auctionID == "" {
		auctionID, err = promptAuctionSelection(api)
		if err != nil {
			return err
		}
	}

	resp, err := api.PlaceBid(auctionID, amount)
	if err != nil {
		return fmt.Errorf("failed to place bid: %w", err)
	}

	if resp.Message != "" && !resp.Success {
		return fmt.Errorf("bid rejected: %s", resp.Message)
	}

	fmt.Printf("✓ Bid of %.2f placed on auction %s\n", amount, auctionID)

	return nil
}

// promptAuctionSelection lists open auctions and lets the user pick one
func promptAuctionSelection(api *client.Client) (string, error) {
	auctions, err := api.ListAuctions()
	if err != nil {
		return "", err
	}

	open := make([]client.Auction, 0, len(auctions))
	for _, auction := range auctions {
		if auction.Status == "" || auction.Status == "open" {
			open = append(open, auction)
		}
	}

	if len(open) == 0 {
		return "", fmt.Errorf("no open auctions to bid on")
	}

	items := make([]string, len(open))
	for i, auction := range open {
		items[i] = fmt.Sprintf("%s (current %.2f, ends %s)", auction.Title, auction.CurrentPrice, auction.EndDate)
	}

	prompt := promptui.Select{
		Label: "Select an auction",
		Items: items,
		Size:  10,
	}

	index, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("auction selection cancelled: %w", err)
	}

	return open[index].ID, nil
}
