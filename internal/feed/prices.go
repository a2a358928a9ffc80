package feed

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/fintide/internal/model"
	"github.com/sells-group/fintide/internal/store"
)

const priceBatchSize = 1000

// PriceIngestor loads daily price bars from vendor files into the store.
type PriceIngestor struct {
	store   store.Store
	limiter *rate.Limiter
}

// NewPriceIngestor builds a PriceIngestor. perSecond bounds batch writes.
func NewPriceIngestor(s store.Store, perSecond float64, burst int) *PriceIngestor {
	if perSecond <= 0 {
		perSecond = 25
	}
	if burst <= 0 {
		burst = 5
	}
	return &PriceIngestor{
		store:   s,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// IngestFile parses one price file (CSV or JSON by extension) and upserts the
// bars in batches. Returns the number of rows written.
func (p *PriceIngestor) IngestFile(ctx context.Context, path string, companyID int64) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, eris.Wrapf(err, "feed: open price file %s", path)
	}
	defer f.Close()

	var points []model.PricePoint
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		points, err = ParsePricesCSV(f, companyID)
	case ".json":
		points, err = ParsePricesJSON(f, companyID)
	default:
		return 0, eris.Errorf("feed: unsupported price file extension %q", filepath.Ext(path))
	}
	if err != nil {
		return 0, err
	}

	var total int64
	for start := 0; start < len(points); start += priceBatchSize {
		end := start + priceBatchSize
		if end > len(points) {
			end = len(points)
		}
		if err := p.limiter.Wait(ctx); err != nil {
			return total, err
		}
		n, err := p.store.UpsertPrices(ctx, points[start:end])
		if err != nil {
			return total, eris.Wrap(err, "feed: upsert prices")
		}
		total += n
	}

	zap.L().Info("price file ingested",
		zap.String("path", path),
		zap.Int64("company_id", companyID),
		zap.Int64("rows", total),
	)
	return total, nil
}

// ParsePricesCSV reads daily bars from CSV. The header names the columns;
// date and close are required, the rest default to zero. Malformed rows are
// skipped.
func ParsePricesCSV(r io.Reader, companyID int64) ([]model.PricePoint, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "feed: read CSV header")
	}
	colIdx := mapColumns(header)
	if _, ok := colIdx["date"]; !ok {
		return nil, eris.New("feed: CSV missing date column")
	}

	var points []model.PricePoint
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}

		tradeDate, err := time.Parse("2006-01-02", getCol(record, colIdx, "date"))
		if err != nil {
			continue
		}
		closePrice := parseFloatOr(getCol(record, colIdx, "close"), 0)
		if closePrice <= 0 {
			continue
		}

		adjusted := parseFloatOr(getCol(record, colIdx, "adjusted_close"), 0)
		if adjusted == 0 {
			adjusted = parseFloatOr(getCol(record, colIdx, "adj_close"), closePrice)
		}

		points = append(points, model.PricePoint{
			CompanyID:     companyID,
			TradeDate:     tradeDate,
			Open:          parseFloatOr(getCol(record, colIdx, "open"), 0),
			High:          parseFloatOr(getCol(record, colIdx, "high"), 0),
			Low:           parseFloatOr(getCol(record, colIdx, "low"), 0),
			Close:         closePrice,
			AdjustedClose: adjusted,
			Volume:        parseInt64Or(getCol(record, colIdx, "volume"), 0),
		})
	}
	return points, nil
}

// priceRow is the JSON shape of one bar.
type priceRow struct {
	Date          string  `json:"date"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"`
	AdjustedClose float64 `json:"adjusted_close"`
	Volume        int64   `json:"volume"`
}

// ParsePricesJSON reads an array of daily bars.
func ParsePricesJSON(r io.Reader, companyID int64) ([]model.PricePoint, error) {
	var rows []priceRow
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, eris.Wrap(err, "feed: decode price JSON")
	}

	points := make([]model.PricePoint, 0, len(rows))
	for _, row := range rows {
		tradeDate, err := time.Parse("2006-01-02", row.Date)
		if err != nil || row.Close <= 0 {
			continue
		}
		adjusted := row.AdjustedClose
		if adjusted == 0 {
			adjusted = row.Close
		}
		points = append(points, model.PricePoint{
			CompanyID:     companyID,
			TradeDate:     tradeDate,
			Open:          row.Open,
			High:          row.High,
			Low:           row.Low,
			Close:         row.Close,
			AdjustedClose: adjusted,
			Volume:        row.Volume,
		})
	}
	return points, nil
}

func mapColumns(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return idx
}

func getCol(record []string, colIdx map[string]int, name string) string {
	i, ok := colIdx[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseFloatOr(s string, fallback float64) float64 {
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}

func parseInt64Or(s string, fallback int64) int64 {
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fallback
	}
	return v
}
