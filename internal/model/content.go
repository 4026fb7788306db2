package model

// 推文长度上限(含截断省略号)
const MaxTweetLength = 140

// GeneratedContent AI为单篇文章生成的投稿内容,随用随生成,不单独落库
type GeneratedContent struct {
	TweetText   string `json:"tweetText"`
	Comment     string `json:"comment"`
	ImagePrompt string `json:"imagePrompt"`
	ImageURL    string `json:"imageUrl,omitempty"`
}
