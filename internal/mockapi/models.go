package mockapi

import (
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// Account is a platform user. Confirmation and recovery codes are
// stored in the clear: this backend exists for demos and tests, the
// "emails" it sends are log lines.
type Account struct {
	BaseModel
	Email            string `gorm:"uniqueIndex;not null"`
	PasswordHash     string `gorm:"not null"`
	FirstName        string
	LastName         string
	PhoneNumber      string
	Address          string
	Confirmed        bool   `gorm:"not null;default:false"`
	ConfirmationCode string `gorm:"index"`
	RecoveryCode     string `gorm:"index"`
}

// DisplayName is the name the login response reports
func (a *Account) DisplayName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// Auction statuses
const (
	AuctionOpen   = "open"
	AuctionClosed = "closed"
)

// Auction is an auction listing. EndDate is kept as the RFC 3339 string
// the API trades in.
type Auction struct {
	BaseModel
	SellerID      string `gorm:"index;not null"`
	Title         string `gorm:"not null"`
	Description   string
	StartingPrice float64 `gorm:"not null"`
	CurrentPrice  float64 `gorm:"not null"`
	EndDate       string  `gorm:"not null"`
	Categories    string  // comma-joined
	ImageURL      string
	Status        string `gorm:"not null;default:open"`
}

// Expired reports whether the auction's end date has passed
func (a *Auction) Expired(now time.Time) bool {
	endDate, err := time.Parse(time.RFC3339, a.EndDate)
	if err != nil {
		return false
	}
	return now.After(endDate)
}

// Bid is a single bid on an auction
type Bid struct {
	BaseModel
	AuctionID string  `gorm:"index;not null"`
	BidderID  string  `gorm:"index;not null"`
	Amount    float64 `gorm:"not null"`
}

// Activity is one entry in a user's activity history
type Activity struct {
	BaseModel
	AccountID   string `gorm:"index;not null"`
	Type        string `gorm:"not null"`
	Description string
}

// AutoMigrate creates or updates the database schema
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Account{},
		&Auction{},
		&Bid{},
		&Activity{},
	)
}
