package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/dghubble/oauth1"

	"go-satire/config"
)

// TwitterClient 以用户上下文OAuth1签名访问发布平台
// 媒体上传走v1.1接口,发推和身份校验走v2接口
type TwitterClient struct {
	client        *http.Client
	apiBaseURL    string
	uploadBaseURL string
}

type mediaUploadResponse struct {
	MediaIDString string `json:"media_id_string"`
	MediaID       int64  `json:"media_id"`
}

type tweetRequest struct {
	Text  string      `json:"text"`
	Media *tweetMedia `json:"media,omitempty"`
}

type tweetMedia struct {
	MediaIDs []string `json:"media_ids"`
}

type tweetResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type meResponse struct {
	Data struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"data"`
}

// NewTwitterClient 用明文凭证构造已签名的HTTP客户端
func NewTwitterClient(cfg config.TwitterConfig, apiKey, apiKeySecret, accessToken, accessTokenSecret string) *TwitterClient {
	oauthConfig := oauth1.NewConfig(apiKey, apiKeySecret)
	token := oauth1.NewToken(accessToken, accessTokenSecret)

	client := oauthConfig.Client(oauth1.NoContext, token)
	client.Timeout = 60 * time.Second

	return &TwitterClient{
		client:        client,
		apiBaseURL:    cfg.ApiBaseURL,
		uploadBaseURL: cfg.UploadBaseURL,
	}
}

// UploadMedia 上传图片字节并返回媒体ID
func (c *TwitterClient) UploadMedia(ctx context.Context, data []byte) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("media", "image.jpg")
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		c.uploadBaseURL+"/1.1/media/upload.json", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("media upload returned %d: %s", resp.StatusCode, string(body))
	}

	var uploadResp mediaUploadResponse
	if err := json.Unmarshal(body, &uploadResp); err != nil {
		return "", fmt.Errorf("parse media upload response: %w", err)
	}

	if uploadResp.MediaIDString != "" {
		return uploadResp.MediaIDString, nil
	}
	if uploadResp.MediaID != 0 {
		return fmt.Sprintf("%d", uploadResp.MediaID), nil
	}

	return "", fmt.Errorf("invalid media response: %s", string(body))
}

// PostTweet 发布推文,mediaIDs可为空
func (c *TwitterClient) PostTweet(ctx context.Context, text string, mediaIDs []string) (string, error) {
	reqBody := tweetRequest{Text: text}
	if len(mediaIDs) > 0 {
		reqBody.Media = &tweetMedia{MediaIDs: mediaIDs}
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		c.apiBaseURL+"/2/tweets", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("tweet returned %d: %s", resp.StatusCode, string(body))
	}

	var twResp tweetResponse
	if err := json.Unmarshal(body, &twResp); err != nil {
		return "", fmt.Errorf("parse tweet response: %w", err)
	}
	if twResp.Data.ID == "" {
		return "", fmt.Errorf("no tweet id in response: %s", string(body))
	}

	return twResp.Data.ID, nil
}

// Me 鉴权身份校验,返回当前用户名
func (c *TwitterClient) Me(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.apiBaseURL+"/2/users/me", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("identity check returned %d: %s", resp.StatusCode, string(body))
	}

	var me meResponse
	if err := json.Unmarshal(body, &me); err != nil {
		return "", fmt.Errorf("parse identity response: %w", err)
	}

	return me.Data.Username, nil
}
