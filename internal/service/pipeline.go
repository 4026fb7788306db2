package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"go-satire/internal/model"
)

// Publisher 发布平台协作方
type Publisher interface {
	PostTweetWithImage(ctx context.Context, tenant *model.TenantConfig, tweetText, imageURL, sourceNewsURL string) PostResult
}

// 图像生成失败时的占位图
const PlaceholderImageURL = "https://via.placeholder.com/800x600?text=Satirical+News+Image"

// 文本生成失败时使用的固定图像提示词
const fallbackImagePrompt = "A professional news broadcast studio with reporters discussing current events"

// 摘要长度上限
const maxSummaryLength = 500

const contentSystemPrompt = `You are a witty news commentator who creates satirical social media content.
Your tweets should be clever, humorous, and insightful - pointing out the irony or absurdity in news stories.
Keep tweets under 140 characters. Be creative and entertaining while maintaining journalistic integrity.
Generate content in JSON format with the following structure:
{
  "tweetText": "A satirical tweet about the news (max 140 characters)",
  "comment": "A short satirical comment (1-2 sentences)",
  "imagePrompt": "An English prompt for generating a satirical/relevant image (detailed and creative)"
}`

// 严格JSON schema,三个字段均为必填
var contentSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "tweetText": {
      "type": "string",
      "description": "A satirical tweet about the news (max 140 characters)"
    },
    "comment": {
      "type": "string",
      "description": "A short satirical comment (1-2 sentences)"
    },
    "imagePrompt": {
      "type": "string",
      "description": "An English prompt for generating a satirical/relevant image"
    }
  },
  "required": ["tweetText", "comment", "imagePrompt"],
  "additionalProperties": false
}`)

// Engine 五段式内容流水线:抓取、摘要、文本生成、图像生成、发布
// 每一段失败都降级为兜底值,单次tick绝不因为某一段失败而中断
type Engine struct {
	news      NewsFetcher
	llm       LLMClient
	image     ImageClient
	publisher Publisher
}

func NewEngine(news NewsFetcher, llm LLMClient, image ImageClient, publisher Publisher) *Engine {
	return &Engine{
		news:      news,
		llm:       llm,
		image:     image,
		publisher: publisher,
	}
}

// FetchArticles 获取候选文章,失败或为空时回退到固定候选集
func (e *Engine) FetchArticles(ctx context.Context) []model.Article {
	articles, err := e.news.FetchArticles(ctx)
	if err != nil {
		log.Printf("[Pipeline] Error fetching news: %v, returning fallback articles", err)
		return FallbackArticles()
	}

	valid := articles[:0]
	for _, a := range articles {
		if a.Valid() {
			valid = append(valid, a)
		}
	}

	if len(valid) == 0 {
		log.Printf("[Pipeline] No articles found, returning fallback articles")
		return FallbackArticles()
	}

	return valid
}

// Summarize 生成文章摘要:优先正文,其次描述,否则由标题和来源合成一句
func (e *Engine) Summarize(article *model.Article) string {
	if article.Content != "" {
		return truncateRunes(article.Content, maxSummaryLength)
	}
	if article.Description != "" {
		return truncateRunes(article.Description, maxSummaryLength)
	}
	return fmt.Sprintf("%q - Latest report from %s. This news story highlights important developments in the global landscape.",
		article.Title, article.Source)
}

// GenerateContent 调用LLM生成推文、评论和图像提示词
// 调用失败、JSON解析失败或字段缺失时统一降级为确定性兜底内容
func (e *Engine) GenerateContent(ctx context.Context, article *model.Article, summary string) model.GeneratedContent {
	user := fmt.Sprintf(`Create satirical content for this news article:
Title: %s
Summary: %s
Source: %s

Make the tweet witty and engaging, highlighting the irony or humor in the situation.`,
		article.Title, summary, article.Source)

	format := &ResponseFormat{
		Type: "json_schema",
		JSONSchema: &JSONSchema{
			Name:   "satirical_content",
			Strict: true,
			Schema: contentSchema,
		},
	}

	raw, err := e.llm.ChatStructured(ctx, contentSystemPrompt, user, format)
	if err != nil {
		log.Printf("[Pipeline] Error generating content: %v", err)
		return fallbackContent(article)
	}

	var parsed model.GeneratedContent
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		log.Printf("[Pipeline] Invalid JSON from LLM: %v", err)
		return fallbackContent(article)
	}
	if parsed.TweetText == "" || parsed.Comment == "" || parsed.ImagePrompt == "" {
		log.Printf("[Pipeline] LLM response missing required fields")
		return fallbackContent(article)
	}

	parsed.TweetText = TruncateTweet(parsed.TweetText)
	return parsed
}

// GenerateImage 生成配图,失败时使用占位图
func (e *Engine) GenerateImage(ctx context.Context, imagePrompt string) string {
	url, err := e.image.Generate(ctx, imagePrompt)
	if err != nil || url == "" {
		log.Printf("[Pipeline] Error generating image: %v", err)
		return PlaceholderImageURL
	}
	return url
}

// ProcessArticle 依次执行摘要、文本生成、图像生成,输出随时可发布的内容
func (e *Engine) ProcessArticle(ctx context.Context, article *model.Article) model.GeneratedContent {
	log.Printf("[Pipeline] Processing article: %s", article.Title)

	summary := e.Summarize(article)
	content := e.GenerateContent(ctx, article, summary)
	content.ImageURL = e.GenerateImage(ctx, content.ImagePrompt)

	return content
}

// RunCycle 单个租户的一次完整投稿周期,tick边界:任何错误到此为止
func (e *Engine) RunCycle(ctx context.Context, tenant *model.TenantConfig) {
	log.Printf("[Pipeline] Starting automated posting cycle for config %d...", tenant.ID)

	if !tenant.IsActive {
		log.Printf("[Pipeline] Config %d is not active, skipping", tenant.ID)
		return
	}

	articles := e.FetchArticles(ctx)
	log.Printf("[Pipeline] Fetched %d news articles for config %d", len(articles), tenant.ID)

	if len(articles) == 0 {
		log.Printf("[Pipeline] No articles found for config %d, skipping", tenant.ID)
		return
	}

	// 只处理第一篇
	article := articles[0]
	content := e.ProcessArticle(ctx, &article)

	// 无图则跳过发布,宁可不发也不发纯文本兜底
	if content.ImageURL == "" {
		log.Printf("[Pipeline] No image available for config %d, skipping post", tenant.ID)
		return
	}

	result := e.publisher.PostTweetWithImage(ctx, tenant, content.TweetText, content.ImageURL, article.URL)
	if result.Success {
		log.Printf("[Pipeline] Successfully posted to config %d: %s", tenant.ID, result.TweetID)
	} else {
		log.Printf("[Pipeline] Failed to post for config %d: %s", tenant.ID, result.Error)
	}

	log.Printf("[Pipeline] Automated posting cycle completed for config %d", tenant.ID)
}

// fallbackContent 由标题和来源合成的确定性兜底内容
func fallbackContent(article *model.Article) model.GeneratedContent {
	return model.GeneratedContent{
		TweetText:   "Breaking: " + truncateRunes(article.Title, 100) + "...",
		Comment:     "Check out this news from " + article.Source,
		ImagePrompt: fallbackImagePrompt,
	}
}

// TruncateTweet 超过平台上限时右截断并补省略号
func TruncateTweet(text string) string {
	runes := []rune(text)
	if len(runes) <= model.MaxTweetLength {
		return text
	}
	return string(runes[:model.MaxTweetLength-3]) + "..."
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
