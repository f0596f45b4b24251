package holdings

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver for per-ticker history files
	"github.com/rs/zerolog"
)

// HistoryDB provides access to per-ticker price history databases. Each
// ticker lives in its own SQLite file under the history directory, written
// by the market-data sync that runs outside this engine.
type HistoryDB struct {
	historyDir string
	log        zerolog.Logger
}

// NewHistoryDB creates a new history database accessor
func NewHistoryDB(historyDir string, log zerolog.Logger) *HistoryDB {
	return &HistoryDB{
		historyDir: historyDir,
		log:        log.With().Str("component", "history_db").Logger(),
	}
}

// GetClosePrices fetches up to limit daily closing prices for a ticker in
// chronological order (oldest first). Returns an empty slice when no history
// file exists for the ticker.
func (h *HistoryDB) GetClosePrices(ticker string, limit int) ([]float64, error) {
	path := h.historyPath(ticker)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		h.log.Debug().Str("ticker", ticker).Msg("No price history file")
		return nil, nil
	}

	db, err := sql.Open("sqlite3", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database for %s: %w", ticker, err)
	}
	defer db.Close()

	query := `
		SELECT close_price
		FROM daily_prices
		ORDER BY date DESC
		LIMIT ?
	`

	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily prices for %s: %w", ticker, err)
	}
	defer rows.Close()

	var prices []float64
	for rows.Next() {
		var close float64
		if err := rows.Scan(&close); err != nil {
			return nil, fmt.Errorf("failed to scan daily price: %w", err)
		}
		prices = append(prices, close)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily prices: %w", err)
	}

	// Reverse to chronological order
	for i, j := 0, len(prices)-1; i < j; i, j = i+1, j-1 {
		prices[i], prices[j] = prices[j], prices[i]
	}

	return prices, nil
}

// historyPath builds the per-ticker file path, sanitizing the ticker so a
// symbol like "BRK.B" maps to a safe filename.
func (h *HistoryDB) historyPath(ticker string) string {
	safe := strings.ReplaceAll(strings.ToUpper(ticker), ".", "_")
	safe = strings.ReplaceAll(safe, "/", "_")
	return filepath.Join(h.historyDir, safe+".db")
}
