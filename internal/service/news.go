package service

import (
	"context"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"go-satire/config"
	"go-satire/internal/model"
)

// NewsFetcher 新闻源协作方
type NewsFetcher interface {
	FetchArticles(ctx context.Context) ([]model.Article, error)
}

// NewsService 从RSS订阅源抓取候选新闻
type NewsService struct {
	feeds       []string
	maxArticles int
	parser      *gofeed.Parser
}

func NewNewsService(cfg config.NewsConfig) *NewsService {
	maxArticles := cfg.MaxArticles
	if maxArticles <= 0 {
		maxArticles = 5
	}
	return &NewsService{
		feeds:       cfg.Feeds,
		maxArticles: maxArticles,
		parser:      gofeed.NewParser(),
	}
}

// FetchArticles 抓取所有订阅源并返回前几条有效文章
// 缺少标题或链接的条目在进入流水线前丢弃
func (s *NewsService) FetchArticles(ctx context.Context) ([]model.Article, error) {
	var articles []model.Article

	for _, url := range s.feeds {
		parsed, err := s.parser.ParseURLWithContext(url, ctx)
		if err != nil {
			log.Printf("[News] Failed to fetch feed %s: %v", url, err)
			continue
		}

		source := parsed.Title
		for _, item := range parsed.Items {
			article := model.Article{
				Title:       strings.TrimSpace(item.Title),
				URL:         item.Link,
				Source:      source,
				Description: stripHTML(item.Description),
				Content:     stripHTML(item.Content),
				PublishedAt: item.PublishedParsed,
			}
			if item.Author != nil {
				article.Author = item.Author.Name
			}
			if item.Image != nil {
				article.ImageURL = item.Image.URL
			}

			if !article.Valid() {
				continue
			}

			articles = append(articles, article)
			if len(articles) >= s.maxArticles {
				return articles, nil
			}
		}
	}

	return articles, nil
}

// stripHTML 把RSS描述里的HTML转为纯文本
func stripHTML(raw string) string {
	if raw == "" || !strings.Contains(raw, "<") {
		return strings.TrimSpace(raw)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return strings.TrimSpace(doc.Text())
}

// FallbackArticles 新闻源不可用时使用的固定候选集
func FallbackArticles() []model.Article {
	return []model.Article{
		{
			Title:  "Global leaders gather for climate summit as environmental concerns intensify",
			URL:    "https://www.bbc.com/news/world",
			Source: "BBC News",
		},
		{
			Title:  "Technology sector experiences major innovation breakthrough in artificial intelligence",
			URL:    "https://www.reuters.com/technology",
			Source: "Reuters",
		},
		{
			Title:  "International markets show resilience amid economic policy changes",
			URL:    "https://www.ft.com/markets",
			Source: "Financial Times",
		},
		{
			Title:  "Healthcare advances bring hope to millions of patients worldwide",
			URL:    "https://www.cnn.com/health",
			Source: "CNN",
		},
	}
}
