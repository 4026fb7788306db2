package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-satire/config"
)

const testFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example News</title>
    <link>https://example.com</link>
    <item>
      <title>First headline</title>
      <link>https://example.com/first</link>
      <description><![CDATA[<p>Rich <b>HTML</b> description</p>]]></description>
    </item>
    <item>
      <title></title>
      <link>https://example.com/untitled</link>
    </item>
    <item>
      <title>Second headline</title>
      <link>https://example.com/second</link>
      <description>Plain description</description>
    </item>
  </channel>
</rss>`

func newFeedServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(body))
	}))
}

func TestFetchArticlesFromFeed(t *testing.T) {
	server := newFeedServer(t, http.StatusOK, testFeedXML)
	defer server.Close()

	svc := NewNewsService(config.NewsConfig{Feeds: []string{server.URL}, MaxArticles: 5})
	articles, err := svc.FetchArticles(context.Background())
	require.NoError(t, err)

	// 无标题条目被丢弃
	require.Len(t, articles, 2)
	assert.Equal(t, "First headline", articles[0].Title)
	assert.Equal(t, "https://example.com/first", articles[0].URL)
	assert.Equal(t, "Example News", articles[0].Source)
	// HTML描述转为纯文本
	assert.Equal(t, "Rich HTML description", articles[0].Description)
	assert.Equal(t, "Plain description", articles[1].Description)
}

func TestFetchArticlesRespectsMax(t *testing.T) {
	server := newFeedServer(t, http.StatusOK, testFeedXML)
	defer server.Close()

	svc := NewNewsService(config.NewsConfig{Feeds: []string{server.URL}, MaxArticles: 1})
	articles, err := svc.FetchArticles(context.Background())
	require.NoError(t, err)
	assert.Len(t, articles, 1)
}

func TestFetchArticlesSkipsBrokenFeed(t *testing.T) {
	broken := newFeedServer(t, http.StatusInternalServerError, "")
	defer broken.Close()
	healthy := newFeedServer(t, http.StatusOK, testFeedXML)
	defer healthy.Close()

	// 单个订阅源失败不影响其他源
	svc := NewNewsService(config.NewsConfig{Feeds: []string{broken.URL, healthy.URL}, MaxArticles: 5})
	articles, err := svc.FetchArticles(context.Background())
	require.NoError(t, err)
	assert.Len(t, articles, 2)
}

func TestFetchArticlesAllFeedsDown(t *testing.T) {
	broken := newFeedServer(t, http.StatusInternalServerError, "")
	defer broken.Close()

	svc := NewNewsService(config.NewsConfig{Feeds: []string{broken.URL}})
	articles, err := svc.FetchArticles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, articles)
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "plain", stripHTML("plain"))
	assert.Equal(t, "bold text", stripHTML("<b>bold</b> text"))
	assert.Equal(t, "", stripHTML(""))
}

func TestFallbackArticlesAreValid(t *testing.T) {
	articles := FallbackArticles()
	require.NotEmpty(t, articles)
	for _, a := range articles {
		assert.True(t, a.Valid())
		assert.NotEmpty(t, a.Source)
	}
}
