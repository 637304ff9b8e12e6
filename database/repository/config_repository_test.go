package repository

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/Phechr2025/Bio-Shop-VPN-information/database"
	"github.com/Phechr2025/Bio-Shop-VPN-information/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	err := database.InitDB(filepath.Join(t.TempDir(), "repo.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = database.CloseDB()
	})
}

func TestPanelConfigRepository_SeededDefaults(t *testing.T) {
	setupTestDB(t)
	repo := NewPanelConfigRepository(database.GetDB())

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	cfg, err := repo.Find()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPanelBaseURL, cfg.PanelBaseURL)
	assert.Equal(t, model.DefaultSubTemplate, cfg.SubTemplate)
}

func TestPanelConfigRepository_ReplaceKeepsSingleRow(t *testing.T) {
	setupTestDB(t)
	repo := NewPanelConfigRepository(database.GetDB())

	for i, base := range []string{"http://a:2053", "http://b:2053", "http://c:2053"} {
		err := repo.Replace(&model.PanelConfig{
			PanelBaseURL:  base,
			PanelUsername: "admin",
			PanelPassword: "pw",
			SubTemplate:   "http://c:2096/sub/{id}",
		})
		require.NoError(t, err, "replace #%d", i)

		count, err := repo.Count()
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	}

	cfg, err := repo.Find()
	require.NoError(t, err)
	assert.Equal(t, "http://c:2053", cfg.PanelBaseURL)
	assert.Equal(t, "http://c:2096/sub/{id}", cfg.SubTemplate)
}

func TestPanelConfigRepository_ReplaceIgnoresIncomingID(t *testing.T) {
	setupTestDB(t)
	repo := NewPanelConfigRepository(database.GetDB())

	cfg := &model.PanelConfig{Id: 42, PanelBaseURL: "http://x", PanelUsername: "u", PanelPassword: "p"}
	require.NoError(t, repo.Replace(cfg))
	assert.NotZero(t, cfg.Id)

	stored, err := repo.Find()
	require.NoError(t, err)
	assert.Equal(t, cfg.Id, stored.Id)
}

func TestPanelConfigRepository_FindEmptyTable(t *testing.T) {
	setupTestDB(t)
	db := database.GetDB()
	require.NoError(t, db.Where("1 = 1").Delete(&model.PanelConfig{}).Error)

	_, err := NewPanelConfigRepository(db).Find()
	assert.True(t, database.IsNotFound(err))
}

func TestPanelConfigRepository_ConcurrentReplace(t *testing.T) {
	setupTestDB(t)
	repo := NewPanelConfigRepository(database.GetDB())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Replace(&model.PanelConfig{PanelBaseURL: "http://race", PanelUsername: "u", PanelPassword: "p"})
		}()
	}
	wg.Wait()

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestScrapeConfigRepository_Replace(t *testing.T) {
	setupTestDB(t)
	repo := NewScrapeConfigRepository(database.GetDB())

	cfg, err := repo.Find()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultScrapeBaseURL, cfg.URL)

	require.NoError(t, repo.Replace(&model.ScrapeConfig{URL: "https://sub.example.com/sub"}))
	require.NoError(t, repo.Replace(&model.ScrapeConfig{URL: "https://sub2.example.com/sub"}))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	cfg, err = repo.Find()
	require.NoError(t, err)
	assert.Equal(t, "https://sub2.example.com/sub", cfg.URL)
}
