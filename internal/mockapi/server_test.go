package mockapi

import (
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martillo-dev/martillo/internal/cli/auth"
	"github.com/martillo-dev/martillo/internal/cli/client"
	"github.com/martillo-dev/martillo/internal/cli/session"
)

// testUser is one CLI user with their own session store, wired against
// the mock backend the way the real CLI is
type testUser struct {
	store *auth.Store
	api   *client.Client
	ctx   *session.Context
}

func newBackend(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	server, err := New(Options{DBPath: ":memory:"}, zerolog.Nop())
	require.NoError(t, err)

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	return server, ts
}

func newTestUser(t *testing.T, ts *httptest.Server) *testUser {
	t.Helper()

	store := auth.NewStore(filepath.Join(t.TempDir(), "session.json"))
	api := client.New(ts.URL, store)

	return &testUser{
		store: store,
		api:   api,
		ctx:   session.New(api, store),
	}
}

// confirmationCode digs the pending code out of the database, standing
// in for reading the email
func confirmationCode(t *testing.T, s *Server, email string) string {
	t.Helper()

	var account Account
	require.NoError(t, s.db.Where("email = ?", email).First(&account).Error)
	require.NotEmpty(t, account.ConfirmationCode)

	return account.ConfirmationCode
}

func recoveryCode(t *testing.T, s *Server, email string) string {
	t.Helper()

	var account Account
	require.NoError(t, s.db.Where("email = ?", email).First(&account).Error)
	require.NotEmpty(t, account.RecoveryCode)

	return account.RecoveryCode
}

func TestRegisterConfirmLoginFlow(t *testing.T) {
	backend, ts := newBackend(t)
	ada := newTestUser(t, ts)

	// register chains straight into login; confirmation comes later
	require.True(t, ada.ctx.Register("Ada Lovelace", "ada@x.com", "secret1"))

	sess := ada.ctx.Session()
	assert.True(t, sess.IsAuthenticated)
	require.NotNil(t, sess.User)
	assert.Equal(t, "Ada Lovelace", sess.User.Name)
	assert.Equal(t, "ada@x.com", sess.User.Email)

	resp, err := ada.api.ConfirmAccount(confirmationCode(t, backend, "ada@x.com"))
	require.NoError(t, err)
	assert.True(t, resp.Success)

	// the code is single-use
	resp, err = ada.api.ConfirmAccount("000000")
	require.NoError(t, err)
	assert.False(t, resp.Success)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	_, ts := newBackend(t)
	ada := newTestUser(t, ts)

	require.True(t, ada.ctx.Register("Ada Lovelace", "ada@x.com", "secret1"))

	again := newTestUser(t, ts)
	assert.False(t, again.ctx.Register("Ada Again", "ada@x.com", "secret2"))
	assert.False(t, again.ctx.Session().IsAuthenticated)
}

func TestLogin_BadCredentials(t *testing.T) {
	_, ts := newBackend(t)
	ada := newTestUser(t, ts)

	require.True(t, ada.ctx.Register("Ada Lovelace", "ada@x.com", "secret1"))
	ada.ctx.Logout()

	assert.False(t, ada.ctx.Login("ada@x.com", "wrong"))
	assert.True(t, ada.ctx.Login("ada@x.com", "secret1"))
}

func TestPasswordRecoveryFlow(t *testing.T) {
	backend, ts := newBackend(t)
	ada := newTestUser(t, ts)

	require.True(t, ada.ctx.Register("Ada Lovelace", "ada@x.com", "secret1"))
	_, err := ada.api.ConfirmAccount(confirmationCode(t, backend, "ada@x.com"))
	require.NoError(t, err)

	resp, err := ada.api.RequestPasswordRecovery("ada@x.com")
	require.NoError(t, err)
	assert.True(t, resp.Success)

	resp, err = ada.api.ResetPassword(recoveryCode(t, backend, "ada@x.com"), "newsecret")
	require.NoError(t, err)
	assert.True(t, resp.Success)

	ada.ctx.Logout()
	assert.False(t, ada.ctx.Login("ada@x.com", "secret1"), "old password must no longer work")
	assert.True(t, ada.ctx.Login("ada@x.com", "newsecret"))
}

func TestRecoveryRequest_ResendsConfirmationForUnconfirmed(t *testing.T) {
	backend, ts := newBackend(t)
	ada := newTestUser(t, ts)

	require.True(t, ada.ctx.Register("Ada Lovelace", "ada@x.com", "secret1"))
	first := confirmationCode(t, backend, "ada@x.com")

	// the confirm page re-sends codes through the recovery endpoint
	resp, err := ada.api.RequestPasswordRecovery("ada@x.com")
	require.NoError(t, err)
	assert.True(t, resp.Success)

	second := confirmationCode(t, backend, "ada@x.com")
	assert.NotEqual(t, first, second, "a fresh confirmation code must be issued")

	confirmResp, err := ada.api.ConfirmAccount(second)
	require.NoError(t, err)
	assert.True(t, confirmResp.Success)
}

func TestRecoveryRequest_UnknownEmailDoesNotLeak(t *testing.T) {
	_, ts := newBackend(t)
	user := newTestUser(t, ts)

	resp, err := user.api.RequestPasswordRecovery("nobody@x.com")
	require.NoError(t, err)
	assert.True(t, resp.Success, "unknown addresses get the same answer")
}

func TestChangePassword(t *testing.T) {
	_, ts := newBackend(t)
	ada := newTestUser(t, ts)

	require.True(t, ada.ctx.Register("Ada Lovelace", "ada@x.com", "secret1"))

	resp, err := ada.api.ChangePassword("wrong", "newsecret")
	require.NoError(t, err)
	assert.False(t, resp.Success)

	resp, err = ada.api.ChangePassword("secret1", "newsecret")
	require.NoError(t, err)
	assert.True(t, resp.Success)

	ada.ctx.Logout()
	assert.True(t, ada.ctx.Login("ada@x.com", "newsecret"))
}

func TestProfileUpdateAndHistory(t *testing.T) {
	_, ts := newBackend(t)
	ada := newTestUser(t, ts)

	require.True(t, ada.ctx.Register("Ada Lovelace", "ada@x.com", "secret1"))
	userID := ada.ctx.Session().User.ID

	_, err := ada.api.UpdateProfile(userID, client.ProfileUpdate{PhoneNumber: "555-0100", Address: "12 Crunch St"})
	require.NoError(t, err)

	profile, err := ada.api.GetProfile(userID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.FirstName)
	assert.Equal(t, "Lovelace", profile.LastName)
	assert.Equal(t, "ada@x.com", profile.Email)
	assert.Equal(t, "555-0100", profile.PhoneNumber)
	assert.Equal(t, "12 Crunch St", profile.Address)

	history, err := ada.api.GetUserHistory(userID)
	require.NoError(t, err)
	require.NotEmpty(t, history)

	types := make(map[string]bool)
	for _, activity := range history {
		assert.Equal(t, userID, activity.UserID)
		types[activity.Type] = true
	}
	assert.True(t, types["register"])
	assert.True(t, types["login"])
	assert.True(t, types["profile"])
}

func TestProfileUpdate_OtherUserForbidden(t *testing.T) {
	_, ts := newBackend(t)
	ada := newTestUser(t, ts)
	bob := newTestUser(t, ts)

	require.True(t, ada.ctx.Register("Ada Lovelace", "ada@x.com", "secret1"))
	require.True(t, bob.ctx.Register("Bob Marley", "bob@x.com", "secret2"))

	adaID := ada.ctx.Session().User.ID
	_, err := bob.api.UpdateProfile(adaID, client.ProfileUpdate{Address: "hijacked"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestAuctionAndBidFlow(t *testing.T) {
	_, ts := newBackend(t)
	ada := newTestUser(t, ts)
	bob := newTestUser(t, ts)

	require.True(t, ada.ctx.Register("Ada Lovelace", "ada@x.com", "secret1"))
	require.True(t, bob.ctx.Register("Bob Marley", "bob@x.com", "secret2"))

	endDate := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)
	created, err := ada.api.CreateAuction(client.AuctionData{
		Title:         "Vintage typewriter",
		Description:   "1950s Olivetti",
		StartingPrice: 120,
		EndDate:       endDate,
		Categories:    []string{"collectibles", "office"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 120.0, created.CurrentPrice)
	assert.Equal(t, "open", created.Status)

	auctions, err := bob.api.ListAuctions()
	require.NoError(t, err)
	require.Len(t, auctions, 1)

	// the seller cannot bid on their own auction
	resp, err := ada.api.PlaceBid(created.ID, 130)
	require.NoError(t, err)
	assert.False(t, resp.Success)

	// a bid must exceed the current price
	resp, err = bob.api.PlaceBid(created.ID, 100)
	require.NoError(t, err)
	assert.False(t, resp.Success)

	resp, err = bob.api.PlaceBid(created.ID, 130)
	require.NoError(t, err)
	assert.True(t, resp.Success)

	auction, err := bob.api.GetAuction(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 130.0, auction.CurrentPrice)
	assert.Equal(t, []string{"collectibles", "office"}, auction.Categories)
}

func TestAuction_ClosesAfterEndDate(t *testing.T) {
	backend, ts := newBackend(t)
	ada := newTestUser(t, ts)
	bob := newTestUser(t, ts)

	require.True(t, ada.ctx.Register("Ada Lovelace", "ada@x.com", "secret1"))
	require.True(t, bob.ctx.Register("Bob Marley", "bob@x.com", "secret2"))

	// seed an auction whose end date has already passed
	expired := Auction{
		SellerID:      ada.ctx.Session().User.ID,
		Title:         "Expired lot",
		StartingPrice: 10,
		CurrentPrice:  10,
		EndDate:       time.Now().Add(-time.Hour).UTC().Format(time.RFC3339),
		Status:        AuctionOpen,
	}
	require.NoError(t, backend.db.Create(&expired).Error)

	auction, err := bob.api.GetAuction(expired.ID)
	require.NoError(t, err)
	assert.Equal(t, "closed", auction.Status)

	resp, err := bob.api.PlaceBid(expired.ID, 20)
	require.NoError(t, err)
	assert.False(t, resp.Success)
}

func TestUnauthenticatedWritesRejected(t *testing.T) {
	_, ts := newBackend(t)
	anon := newTestUser(t, ts)

	_, err := anon.api.CreateAuction(client.AuctionData{
		Title:         "No login",
		StartingPrice: 10,
		EndDate:       time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")

	_, err = anon.api.PlaceBid("whatever", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
