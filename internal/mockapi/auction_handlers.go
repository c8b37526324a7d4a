package mockapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// AuctionView is the auction representation the API returns
type AuctionView struct {
	ID            string   `json:"id"`
	SellerID      string   `json:"sellerId"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	StartingPrice float64  `json:"startingPrice"`
	CurrentPrice  float64  `json:"currentPrice"`
	EndDate       string   `json:"endDate"`
	Categories    []string `json:"categories"`
	ImageURL      string   `json:"imageUrl"`
	Status        string   `json:"status"`
}

func auctionOf(auction *Auction) AuctionView {
	var categories []string
	if auction.Categories != "" {
		categories = strings.Split(auction.Categories, ",")
	}

	return AuctionView{
		ID:            auction.ID,
		SellerID:      auction.SellerID,
		Title:         auction.Title,
		Description:   auction.Description,
		StartingPrice: auction.StartingPrice,
		CurrentPrice:  auction.CurrentPrice,
		EndDate:       auction.EndDate,
		Categories:    categories,
		ImageURL:      auction.ImageURL,
		Status:        auction.Status,
	}
}

// closeIfExpired flips an open auction to closed once its end date has
// passed. There is no scheduler; auctions close lazily when read.
func (s *Server) closeIfExpired(auction *Auction) {
	if auction.Status != AuctionOpen || !auction.Expired(time.Now()) {
		return
	}

	auction.Status = AuctionClosed
	if err := s.db.Save(auction).Error; err != nil {
		s.logger.Warn().Err(err).Str("auction", auction.ID).Msg("Failed to close expired auction")
	}
}

func (s *Server) listAuctions(c *gin.Context) {
	var auctions []Auction
	if err := s.db.Order("created_at desc").Find(&auctions).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list auctions")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list auctions"})
		return
	}

	out := make([]AuctionView, 0, len(auctions))
	for i := range auctions {
		s.closeIfExpired(&auctions[i])
		out = append(out, auctionOf(&auctions[i]))
	}

	c.JSON(http.StatusOK, out)
}

func (s *Server) getAuction(c *gin.Context) {
	var auction Auction
	if err := s.db.First(&auction, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "auction not found"})
		return
	}

	s.closeIfExpired(&auction)

	c.JSON(http.StatusOK, auctionOf(&auction))
}

// CreateAuctionRequest is the auction creation body
type CreateAuctionRequest struct {
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description"`
	StartingPrice float64  `json:"startingPrice" binding:"required,gt=0"`
	EndDate       string   `json:"endDate" binding:"required,rfc3339"`
	Categories    []string `json:"categories"`
	ImageURL      string   `json:"imageUrl"`
}

func (s *Server) createAuction(c *gin.Context) {
	var req CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	endDate, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must be RFC 3339"})
		return
	}
	if endDate.Before(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endDate is in the past"})
		return
	}

	auction := Auction{
		SellerID:      accountID(c),
		Title:         req.Title,
		Description:   req.Description,
		StartingPrice: req.StartingPrice,
		CurrentPrice:  req.StartingPrice,
		EndDate:       endDate.UTC().Format(time.RFC3339),
		Categories:    strings.Join(req.Categories, ","),
		ImageURL:      req.ImageURL,
		Status:        AuctionOpen,
	}

	if err := s.db.Create(&auction).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create auction")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create auction"})
		return
	}

	s.recordActivity(auction.SellerID, "auction", fmt.Sprintf("Created auction %q", auction.Title))

	c.JSON(http.StatusCreated, auctionOf(&auction))
}

type placeBidRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

func (s *Server) placeBid(c *gin.Context) {
	var req placeBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var auction Auction
	if err := s.db.First(&auction, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "auction not found"})
		return
	}

	s.closeIfExpired(&auction)

	bidder := accountID(c)

	switch {
	case auction.Status != AuctionOpen:
		c.JSON(http.StatusOK, StatusResponse{Success: false, Message: "auction is closed"})
		return
	case auction.SellerID == bidder:
		c.JSON(http.StatusOK, StatusResponse{Success: false, Message: "cannot bid on your own auction"})
		return
	case req.Amount <= auction.CurrentPrice:
		c.JSON(http.StatusOK, StatusResponse{
			Success: false,
			Message: fmt.Sprintf("bid must exceed the current price of %.2f", auction.CurrentPrice),
		})
		return
	}

	bid := Bid{
		AuctionID: auction.ID,
		BidderID:  bidder,
		Amount:    req.Amount,
	}
	if err := s.db.Create(&bid).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to record bid")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to place bid"})
		return
	}

	auction.CurrentPrice = req.Amount
	if err := s.db.Save(&auction).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update auction price")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to place bid"})
		return
	}

	s.recordActivity(bidder, "bid", fmt.Sprintf("Bid %.2f on %q", req.Amount, auction.Title))

	c.JSON(http.StatusOK, StatusResponse{Success: true})
}
