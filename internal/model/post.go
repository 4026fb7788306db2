package model

import "time"

// PostRecord 已发布推文的历史记录,只追加,不更新不删除
type PostRecord struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ConfigID      uint      `gorm:"index;not null" json:"config_id"`
	TweetText     string    `gorm:"type:text;not null" json:"tweet_text"`
	ImageURL      string    `gorm:"size:1000" json:"image_url,omitempty"`
	SourceNewsURL string    `gorm:"size:1000" json:"source_news_url,omitempty"`
	PostedAt      time.Time `gorm:"autoCreateTime" json:"posted_at"`
}

func (PostRecord) TableName() string {
	return "posted_tweets"
}
