package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martillo-dev/martillo/internal/cli/client"
)

func TestLoadAuctionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auction.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
title: Vintage typewriter
description: 1950s Olivetti, working condition
startingPrice: 120.50
endDate: 2026-09-30T18:00:00Z
categories: [collectibles, office]
imageUrl: https://example.com/typewriter.jpg
`), 0644))

	data, err := loadAuctionFile(path)
	require.NoError(t, err)

	assert.Equal(t, &client.AuctionData{
		Title:         "Vintage typewriter",
		Description:   "1950s Olivetti, working condition",
		StartingPrice: 120.50,
		EndDate:       "2026-09-30T18:00:00Z",
		Categories:    []string{"collectibles", "office"},
		ImageURL:      "https://example.com/typewriter.jpg",
	}, data)
}

func TestLoadAuctionFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auction.yaml")
	require.NoError(t, os.WriteFile(path, []byte("title: [unclosed"), 0644))

	_, err := loadAuctionFile(path)
	assert.Error(t, err)
}

func TestLoadAuctionFile_Missing(t *testing.T) {
	_, err := loadAuctionFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestAuctionsCreate_Validation(t *testing.T) {
	setupTestEnvironment(t, "http://unused")

	err := runAuctionsCreate("", client.AuctionData{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")

	err = runAuctionsCreate("", client.AuctionData{Title: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "starting price")

	err = runAuctionsCreate("", client.AuctionData{Title: "x", StartingPrice: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end date")
}
