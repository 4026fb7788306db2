package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go-satire/config"
)

// ImageClient 图像生成协作方
type ImageClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ImageService 调用图像生成接口的HTTP客户端
type ImageService struct {
	cfg    config.ImageConfig
	client *http.Client
}

type imageRequest struct {
	Prompt string `json:"prompt"`
}

type imageResponse struct {
	URL  string `json:"url"`
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

func NewImageService(cfg config.ImageConfig) *ImageService {
	return &ImageService{
		cfg:    cfg,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

// Generate 按提示词生成图片并返回其URL
func (s *ImageService) Generate(ctx context.Context, prompt string) (string, error) {
	jsonBody, err := json.Marshal(imageRequest{Prompt: prompt})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		s.cfg.ApiURL+"/images/generations", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.ApiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image API returned %d: %s", resp.StatusCode, string(body))
	}

	var imgResp imageResponse
	if err := json.Unmarshal(body, &imgResp); err != nil {
		return "", err
	}

	if imgResp.URL != "" {
		return imgResp.URL, nil
	}
	if len(imgResp.Data) > 0 && imgResp.Data[0].URL != "" {
		return imgResp.Data[0].URL, nil
	}

	return "", fmt.Errorf("no image URL in response")
}
