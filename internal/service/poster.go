package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"go-satire/config"
	"go-satire/internal/crypto"
	"go-satire/internal/model"
)

// PostRecorder 投稿历史写入方
type PostRecorder interface {
	AppendPostRecord(record *model.PostRecord) error
}

// PostResult 发布结果,失败以结构化值返回,不向上抛错
type PostResult struct {
	Success bool   `json:"success"`
	TweetID string `json:"tweet_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ValidationResult 凭证校验结果
type ValidationResult struct {
	Valid    bool   `json:"valid"`
	Username string `json:"username,omitempty"`
	Error    string `json:"error,omitempty"`
}

// PosterService 把生成内容变成平台投稿:即时解密凭证、取图、上传媒体、发推、记录历史
type PosterService struct {
	recorder      PostRecorder
	twitterCfg    config.TwitterConfig
	encryptionKey string
	httpClient    *http.Client
}

func NewPosterService(recorder PostRecorder, twitterCfg config.TwitterConfig, encryptionKey string) *PosterService {
	return &PosterService{
		recorder:      recorder,
		twitterCfg:    twitterCfg,
		encryptionKey: encryptionKey,
		httpClient:    &http.Client{Timeout: 60 * time.Second},
	}
}

// newClientFor 即时解密四个凭证字段并构造已鉴权客户端,明文不落地
func (p *PosterService) newClientFor(tenant *model.TenantConfig) (*TwitterClient, error) {
	apiKey, err := crypto.DecryptReversible(tenant.XApiKey, p.encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("decrypt api key: %w", err)
	}
	apiKeySecret, err := crypto.DecryptReversible(tenant.XApiKeySecret, p.encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("decrypt api key secret: %w", err)
	}
	accessToken, err := crypto.DecryptReversible(tenant.XAccessToken, p.encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("decrypt access token: %w", err)
	}
	accessTokenSecret, err := crypto.DecryptReversible(tenant.XAccessTokenSecret, p.encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("decrypt access token secret: %w", err)
	}

	return NewTwitterClient(p.twitterCfg, apiKey, apiKeySecret, accessToken, accessTokenSecret), nil
}

// PostTweetWithImage 发布带图推文
// 任一步骤失败都返回失败结果且不写任何投稿记录
func (p *PosterService) PostTweetWithImage(ctx context.Context, tenant *model.TenantConfig, tweetText, imageURL, sourceNewsURL string) PostResult {
	log.Printf("[Poster] Posting tweet with image for config %d...", tenant.ID)

	client, err := p.newClientFor(tenant)
	if err != nil {
		return p.failure(tenant.ID, err)
	}

	imageData, err := p.fetchImage(ctx, imageURL)
	if err != nil {
		return p.failure(tenant.ID, err)
	}
	log.Printf("[Poster] Image fetched, size: %d bytes", len(imageData))

	mediaID, err := client.UploadMedia(ctx, imageData)
	if err != nil {
		return p.failure(tenant.ID, fmt.Errorf("failed to upload media: %w", err))
	}
	log.Printf("[Poster] Media uploaded, ID: %s", mediaID)

	fullText := appendSource(tweetText, sourceNewsURL)

	tweetID, err := client.PostTweet(ctx, fullText, []string{mediaID})
	if err != nil {
		return p.failure(tenant.ID, fmt.Errorf("failed to post tweet: %w", err))
	}
	log.Printf("[Poster] Tweet posted successfully: %s", tweetID)

	p.record(&model.PostRecord{
		ConfigID:      tenant.ID,
		TweetText:     fullText,
		ImageURL:      imageURL,
		SourceNewsURL: sourceNewsURL,
	})

	return PostResult{Success: true, TweetID: tweetID}
}

// PostTweet 发布纯文本推文
func (p *PosterService) PostTweet(ctx context.Context, tenant *model.TenantConfig, tweetText, sourceNewsURL string) PostResult {
	log.Printf("[Poster] Posting text tweet for config %d...", tenant.ID)

	client, err := p.newClientFor(tenant)
	if err != nil {
		return p.failure(tenant.ID, err)
	}

	fullText := appendSource(tweetText, sourceNewsURL)

	tweetID, err := client.PostTweet(ctx, fullText, nil)
	if err != nil {
		return p.failure(tenant.ID, fmt.Errorf("failed to post tweet: %w", err))
	}
	log.Printf("[Poster] Tweet posted successfully: %s", tweetID)

	p.record(&model.PostRecord{
		ConfigID:      tenant.ID,
		TweetText:     fullText,
		SourceNewsURL: sourceNewsURL,
	})

	return PostResult{Success: true, TweetID: tweetID}
}

// ValidateCredentials 仅做鉴权身份校验,无任何副作用
func (p *PosterService) ValidateCredentials(ctx context.Context, tenant *model.TenantConfig) ValidationResult {
	client, err := p.newClientFor(tenant)
	if err != nil {
		return ValidationResult{Valid: false, Error: err.Error()}
	}

	username, err := client.Me(ctx)
	if err != nil {
		log.Printf("[Poster] Credentials validation failed for config %d: %v", tenant.ID, err)
		return ValidationResult{Valid: false, Error: err.Error()}
	}

	log.Printf("[Poster] Credentials valid for user: %s", username)
	return ValidationResult{Valid: true, Username: username}
}

// fetchImage 拉取图片字节,非2xx视为本次发布硬失败,不重试
func (p *PosterService) fetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("failed to fetch image: %s (%d)", resp.Status, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func (p *PosterService) failure(configID uint, err error) PostResult {
	log.Printf("[Poster] Failed to post tweet for config %d: %v", configID, err)
	return PostResult{Success: false, Error: err.Error()}
}

func (p *PosterService) record(record *model.PostRecord) {
	if err := p.recorder.AppendPostRecord(record); err != nil {
		// 推文已发出,历史写入失败只记日志
		log.Printf("[Poster] Failed to record posted tweet for config %d: %v", record.ConfigID, err)
	}
}

// appendSource 在正文后追加来源链接
func appendSource(text, sourceNewsURL string) string {
	if sourceNewsURL == "" {
		return text
	}
	return text + "\n\nSource: " + sourceNewsURL
}
