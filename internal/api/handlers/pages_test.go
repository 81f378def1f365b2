package handlers_test

import (
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/brfrastenen/brfweb/internal/domain"
	"github.com/brfrastenen/brfweb/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestPageHandler_PublicPages(t *testing.T) {
	ts := testutil.NewTestServer(t)

	tests := []struct {
		path       string
		wantStatus int
		wantText   string
	}{
		{path: "/", wantStatus: http.StatusOK},
		{path: "/nyheter", wantStatus: http.StatusOK, wantText: "Nyheter"},
		{path: "/om-oss", wantStatus: http.StatusOK},
		{path: "/om-oss/styrelse", wantStatus: http.StatusOK},
		{path: "/dokument/stadgar", wantStatus: http.StatusOK},
		{path: "/dokument", wantStatus: http.StatusOK},
		{path: "/kontakt", wantStatus: http.StatusOK, wantText: "Kontakt"},
		{path: "/om-oss/finns-inte", wantStatus: http.StatusNotFound},
		{path: "/helt-okand-sida", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(ts.URL(tt.path))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantText != "" {
				assert.Contains(t, readBody(t, resp), tt.wantText)
			}
		})
	}
}

func TestPageHandler_NewsFeedFiltering(t *testing.T) {
	ts := testutil.NewTestServer(t)

	now := time.Now()
	ts.News.Items = []domain.NewsItem{
		testutil.NewNewsBuilder().WithTitle("Synlig nyhet").Item(),
		testutil.NewNewsBuilder().WithTitle("Opublicerat utkast").Draft().Item(),
		testutil.NewNewsBuilder().WithTitle("Utgången nyhet").
			WithPublishDate(now.Add(-60 * 24 * time.Hour)).
			WithVisibleUntil(now.Add(-24 * time.Hour)).Item(),
		testutil.NewNewsBuilder().WithTitle("Framtida nyhet").
			WithPublishDate(now.Add(24 * time.Hour)).Item(),
	}

	resp, err := http.Get(ts.URL("/nyheter"))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "Synlig nyhet")
	assert.NotContains(t, body, "Opublicerat utkast")
	assert.NotContains(t, body, "Utgången nyhet")
	assert.NotContains(t, body, "Framtida nyhet")
}

func TestPageHandler_HomeShowsTopThree(t *testing.T) {
	ts := testutil.NewTestServer(t)

	now := time.Now()
	for i := 0; i < 5; i++ {
		item := testutil.NewNewsBuilder().
			WithTitle("Nyhet nummer " + string(rune('A'+i))).
			WithPublishDate(now.Add(-time.Duration(i+1) * time.Hour)).
			Item()
		ts.News.Items = append(ts.News.Items, item)
	}

	resp, err := http.Get(ts.URL("/"))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "Nyhet nummer A")
	assert.Contains(t, body, "Nyhet nummer C")
	assert.NotContains(t, body, "Nyhet nummer D")
}

func TestPageHandler_NewsRSS(t *testing.T) {
	ts := testutil.NewTestServer(t)

	ts.News.Items = []domain.NewsItem{
		testutil.NewNewsBuilder().WithTitle("RSS-nyhet").Item(),
		testutil.NewNewsBuilder().WithTitle("Dolt utkast").Draft().Item(),
	}

	resp, err := http.Get(ts.URL("/nyheter/rss"))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/rss+xml")

	body := readBody(t, resp)
	assert.Contains(t, body, "<rss")
	assert.Contains(t, body, "RSS-nyhet")
	assert.NotContains(t, body, "Dolt utkast")
}

func TestPageHandler_HealthAndMetrics(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp, err := http.Get(ts.URL("/health"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL("/metrics"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
