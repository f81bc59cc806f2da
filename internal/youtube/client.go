package youtube

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/kkdai/youtube/v2"
)

// InvalidURLError は対応していないURLを表すエラー
type InvalidURLError struct {
	URL string
	Err error
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid youtube url %q: %v", e.URL, e.Err)
}

func (e *InvalidURLError) Unwrap() error { return e.Err }

// DownloadError はダウンロード中の失敗を表すエラー
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download audio from %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// Client はYouTube API操作を抽象化するクライアント
type Client struct {
	client youtube.Client
}

// NewClient は新しいYouTubeクライアントを作成
func NewClient() *Client {
	return &Client{
		client: youtube.Client{},
	}
}

// VideoInfo は動画のメタ情報
type VideoInfo struct {
	ID       string
	Title    string
	Author   string
	Duration time.Duration
}

// 許可するホスト名
var allowedHosts = map[string]bool{
	"youtube.com":       true,
	"www.youtube.com":   true,
	"m.youtube.com":     true,
	"music.youtube.com": true,
	"youtu.be":          true,
}

// ValidateURL は対応プロバイダの動画URLかどうかを検証する。
// ネットワークI/Oは行わない。
func ValidateURL(rawURL string) (string, error) {
	if strings.Contains(rawURL, "://") {
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", &InvalidURLError{URL: rawURL, Err: err}
		}
		if !allowedHosts[strings.ToLower(u.Hostname())] {
			return "", &InvalidURLError{URL: rawURL, Err: fmt.Errorf("unsupported host: %s", u.Hostname())}
		}
	}

	id, err := youtube.ExtractVideoID(rawURL)
	if err != nil {
		return "", &InvalidURLError{URL: rawURL, Err: err}
	}
	if !videoIDPattern.MatchString(id) {
		return "", &InvalidURLError{URL: rawURL, Err: fmt.Errorf("malformed video id: %s", id)}
	}
	return id, nil
}

// 動画IDは11文字の英数字とハイフン・アンダースコア
var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// GetVideo は動画情報を取得
func (c *Client) GetVideo(url string) (*VideoInfo, error) {
	video, err := c.client.GetVideo(url)
	if err != nil {
		return nil, &DownloadError{URL: url, Err: err}
	}

	return &VideoInfo{
		ID:       video.ID,
		Title:    video.Title,
		Author:   video.Author,
		Duration: video.Duration,
	}, nil
}
