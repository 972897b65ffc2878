package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajaypar09/Projects/internal/database"
	"github.com/ajaypar09/Projects/internal/models"
)

const sampleExport = `[
	{
		"serial_number": "SWSH-001",
		"name": "Charizard",
		"set_name": "Darkness Ablaze",
		"rarity": "Rare Holo",
		"pricecharting": {
			"loose_price": 100,
			"cib_price": 110,
			"last_updated": "2024-06-01",
			"recent_sales": [{"date": "2024-01-01", "price": 95, "condition": "NM"}]
		},
		"tcgplayer": {
			"market_price": 1234.5,
			"recent_sales": [{"date": "2024-02-01", "price": 120, "listing_url": "https://tcgplayer.example/1"}]
		}
	},
	{"serial_number": "BS-058", "name": "Pikachu"}
]`

// run executes the CLI in an isolated working directory with its own database
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--db", filepath.Join(dir, "cards.db"), "--log-level", "error"}, args...))
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func setupCLI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("PRICECHARTING_TOKEN", "")
	t.Setenv("TCGPLAYER_PUBLIC_KEY", "")
	t.Setenv("TCGPLAYER_PRIVATE_KEY", "")
	return dir
}

func importSample(t *testing.T, dir string) {
	t.Helper()
	path := filepath.Join(dir, "export.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleExport), 0o600))
	out, err := run(t, dir, "import-json", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 cards")
}

func TestInitDB(t *testing.T) {
	dir := setupCLI(t)
	out, err := run(t, dir, "init-db")
	require.NoError(t, err)
	assert.Contains(t, out, "Database initialized at")
	assert.FileExists(t, filepath.Join(dir, "cards.db"))
}

func TestSearchAndShow(t *testing.T) {
	dir := setupCLI(t)
	importSample(t, dir)

	out, err := run(t, dir, "search", "--name", "char")
	require.NoError(t, err)
	assert.Contains(t, out, "Charizard (SWSH-001) - Darkness Ablaze [Rare Holo]")
	assert.Contains(t, out, "Estimated value: $481.50")
	assert.Contains(t, out, "market_price: $1,234.50 (updated n/a)")
	assert.Contains(t, out, "loose_price: $100.00 (updated 2024-06-01)")

	out, err = run(t, dir, "search", "--name", "mewtwo")
	require.NoError(t, err)
	assert.Contains(t, out, "No matching cards found.")

	out, err = run(t, dir, "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Set: Darkness Ablaze")
	assert.Contains(t, out, "PriceCharting sales:\n    2024-01-01: $95.00 | Condition: NM")
	assert.Contains(t, out, "TCGplayer sales:\n    2024-02-01: $120.00 | Listing: https://tcgplayer.example/1")

	out, err = run(t, dir, "show", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Estimated value: n/a")
	assert.Contains(t, out, "No recent sales recorded.")

	out, err = run(t, dir, "show", "99")
	require.NoError(t, err)
	assert.Contains(t, out, "Card with ID 99 was not found.")

	_, err = run(t, dir, "show", "abc")
	assert.Error(t, err)
}

func TestShowListsEverySalesSource(t *testing.T) {
	dir := setupCLI(t)
	importSample(t, dir)

	db, err := database.Open(database.Options{Path: filepath.Join(dir, "cards.db")})
	require.NoError(t, err)
	date, condition := "2024-03-01", "LP"
	err = database.NewStore(db).ReplaceSales(t.Context(), 1, "eBay", []models.SaleItem{
		{Date: &date, Price: 80, Condition: &condition},
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	out, err := run(t, dir, "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "eBay sales:\n    2024-03-01: $80.00 | Condition: LP")

	pc := strings.Index(out, "PriceCharting sales:")
	tcg := strings.Index(out, "TCGplayer sales:")
	ebay := strings.Index(out, "eBay sales:")
	require.NotEqual(t, -1, pc)
	assert.Less(t, pc, tcg)
	assert.Less(t, tcg, ebay)
}

func TestSearchJSON(t *testing.T) {
	dir := setupCLI(t)
	importSample(t, dir)

	out, err := run(t, dir, "search", "--serial-number", "BS", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"serial_number": "BS-058"`)
	assert.Contains(t, out, `"estimated_value": null`)
}

func TestLookup(t *testing.T) {
	dir := setupCLI(t)
	importSample(t, dir)

	out, err := run(t, dir, "lookup", "--serial-number", "SWSH-001", "--name", "charizard", "--sales-limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Match: exact_serial_and_name")
	assert.Contains(t, out, "- 2024-02-01: $120.00 | Listing: https://tcgplayer.example/1 (TCGplayer)")
	assert.NotContains(t, out, "2024-01-01")

	out, err = run(t, dir, "lookup", "--name", "Mewtwo")
	require.NoError(t, err)
	assert.Contains(t, out, "No matching cards found.")

	_, err = run(t, dir, "lookup")
	assert.Error(t, err)
}

func TestImportContinueOnError(t *testing.T) {
	dir := setupCLI(t)
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"serial_number":"A-1"},{"serial_number":"A-2","name":"Oddish"}]`), 0o600))

	out, err := run(t, dir, "import-json", path)
	assert.Error(t, err)
	assert.Contains(t, out, "Imported 0 cards")

	out, err = run(t, dir, "import-json", "--continue-on-error", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 cards from "+path+" (0 skipped, 1 failed)")
	assert.Contains(t, out, "record 0 (serial A-1)")
}

func TestEstimateWithoutProviders(t *testing.T) {
	dir := setupCLI(t)
	input := filepath.Join(dir, "cards.txt")
	require.NoError(t, os.WriteFile(input, []byte("Mew#151\n\n  Eevee  \n"), 0o600))

	out, err := run(t, dir, "estimate", "Pikachu#58", "--input", input)
	require.NoError(t, err)
	assert.Contains(t, out, "QUERY")
	assert.Contains(t, out, "pikachu#58")
	assert.Contains(t, out, "mew#151")
	assert.Contains(t, out, "eevee")

	out, err = run(t, dir, "estimate", "Pikachu", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"median_price": null`)

	_, err = run(t, dir, "estimate")
	assert.Error(t, err)
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$0.05", formatUSD(0.05))
	assert.Equal(t, "$12.50", formatUSD(12.5))
	assert.Equal(t, "$1,234.57", formatUSD(1234.567))
	assert.Equal(t, "n/a", formatEstimate(nil))
}
