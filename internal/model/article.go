package model

import "time"

// Article 进入流水线的候选新闻,Title和URL为必填
type Article struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Source      string     `json:"source"`
	Content     string     `json:"content,omitempty"`
	Description string     `json:"description,omitempty"`
	Author      string     `json:"author,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// Valid 校验文章是否具备进入流水线的必填字段
func (a *Article) Valid() bool {
	return a.Title != "" && a.URL != ""
}
