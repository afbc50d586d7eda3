package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const ratingsPage = `<html><body>
<table class="js-table-ratings">
  <tr><th>Date</th><th>Action</th><th>Firm</th><th>Rating</th><th>Price Target</th></tr>
  <tr><td>Dec-16-24</td><td>Upgrade</td><td>UBS</td><td>Hold &rarr; Buy</td><td>$150 &rarr; $200</td></tr>
  <tr><td>Nov-02-24</td><td>Initiated</td><td>Morgan Stanley</td><td>Overweight</td><td>$180</td></tr>
  <tr><td>not-a-date</td><td>Upgrade</td><td>Broken Row</td><td>Buy</td><td></td></tr>
</table>
</body></html>`

func TestFinvizCrawlerScrape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "AAPL", r.URL.Query().Get("t"))
		w.Write([]byte(ratingsPage))
	}))
	defer server.Close()

	c := NewFinvizCrawlerWithBaseURL(server.URL+"/quote.ashx?t=%s", zap.NewNop())
	recs, err := c.Scrape(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, recs, 2, "header and malformed rows are skipped")

	assert.Equal(t, "AAPL", recs[0].Symbol)
	assert.Equal(t, time.Date(2024, 12, 16, 0, 0, 0, 0, time.UTC), recs[0].Date)
	assert.Equal(t, "Upgrade", recs[0].Action)
	assert.Equal(t, "UBS", recs[0].Firm)
	assert.Equal(t, "Hold", recs[0].FromGrade)
	assert.Equal(t, "Buy", recs[0].ToGrade)

	assert.Equal(t, "Morgan Stanley", recs[1].Firm)
	assert.Empty(t, recs[1].FromGrade)
	assert.Equal(t, "Overweight", recs[1].ToGrade)
}

func TestFinvizCrawlerNoRatingsTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>quote page without ratings</p></body></html>`))
	}))
	defer server.Close()

	c := NewFinvizCrawlerWithBaseURL(server.URL+"/quote.ashx?t=%s", zap.NewNop())
	recs, err := c.Scrape(context.Background(), "NEWCO")
	require.NoError(t, err)
	assert.Empty(t, recs)
}
