package crawler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Ruscigno/StockPulse/model"
	"github.com/Ruscigno/StockPulse/pkg/retry"
	"github.com/gocolly/colly"
	"go.uber.org/zap"
)

const (
	quoteURL       = "https://finviz.com/quote.ashx?t=%s"
	ratingsTable   = "table.js-table-ratings"
	finvizDateFmt  = "Jan-02-06"
	crawlUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/91.0.4472.124"
)

// RatingsCrawler scrapes analyst recommendations for a symbol.
type RatingsCrawler interface {
	Scrape(ctx context.Context, symbol string) ([]model.Recommendation, error)
}

type finvizCrawler struct {
	baseURL string
	logger  *zap.Logger
}

// NewFinvizCrawler creates the production crawler.
func NewFinvizCrawler(logger *zap.Logger) RatingsCrawler {
	return &finvizCrawler{baseURL: quoteURL, logger: logger}
}

// NewFinvizCrawlerWithBaseURL allows pointing the crawler at a test server.
// baseURL must contain a %s placeholder for the symbol.
func NewFinvizCrawlerWithBaseURL(baseURL string, logger *zap.Logger) RatingsCrawler {
	return &finvizCrawler{baseURL: baseURL, logger: logger}
}

func (c *finvizCrawler) Scrape(ctx context.Context, symbol string) ([]model.Recommendation, error) {
	collector := colly.NewCollector(colly.UserAgent(crawlUserAgent))
	collector.SetRequestTimeout(15 * time.Second)

	var recs []model.Recommendation
	collector.OnHTML(ratingsTable, func(e *colly.HTMLElement) {
		e.ForEach("tr", func(i int, row *colly.HTMLElement) {
			rec, ok := c.parseRow(symbol, row)
			if !ok {
				return
			}
			recs = append(recs, rec)
		})
	})

	collector.OnScraped(func(r *colly.Response) {
		c.logger.Info("Scraping completed",
			zap.String("symbol", symbol),
			zap.Int("recommendations", len(recs)))
	})

	pageURL := fmt.Sprintf(c.baseURL, symbol)
	err := retry.Retry(ctx, retry.DefaultRetryConfig(), func() error {
		return collector.Visit(pageURL)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scrape ratings for %s: %w", symbol, err)
	}
	return recs, nil
}

// parseRow decodes one ratings row: date, action, firm, grade change.
// Header rows and malformed rows are skipped.
func (c *finvizCrawler) parseRow(symbol string, row *colly.HTMLElement) (model.Recommendation, bool) {
	var cells []string
	row.ForEach("td", func(_ int, cell *colly.HTMLElement) {
		cells = append(cells, strings.TrimSpace(cell.Text))
	})
	if len(cells) < 4 {
		return model.Recommendation{}, false
	}

	date, err := time.ParseInLocation(finvizDateFmt, cells[0], time.UTC)
	if err != nil {
		return model.Recommendation{}, false
	}

	rec := model.Recommendation{
		Symbol: symbol,
		Date:   date,
		Action: cells[1],
		Firm:   cells[2],
	}

	// Grade cell is either "Buy" or "Hold → Buy".
	grades := strings.Split(cells[3], "→")
	if len(grades) == 2 {
		rec.FromGrade = strings.TrimSpace(grades[0])
		rec.ToGrade = strings.TrimSpace(grades[1])
	} else {
		rec.ToGrade = strings.TrimSpace(cells[3])
	}
	if rec.ToGrade == "" {
		return model.Recommendation{}, false
	}

	return rec, true
}
