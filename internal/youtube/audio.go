package youtube

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	ytdl "github.com/kkdai/youtube/v2"
)

// ExtensionForMime はMIMEタイプから拡張子を返す
func ExtensionForMime(mimeType string) string {
	if strings.Contains(mimeType, "mp4") {
		return ".m4a"
	}
	if strings.Contains(mimeType, "webm") {
		return ".webm"
	}
	return ".audio"
}

// audioFormats は音声のみのフォーマットをビットレート降順で返す
func audioFormats(video *ytdl.Video) []ytdl.Format {
	var formats []ytdl.Format
	for _, f := range video.Formats {
		if strings.HasPrefix(f.MimeType, "audio/") {
			formats = append(formats, f)
		}
	}

	sort.Slice(formats, func(i, j int) bool {
		return formats[i].Bitrate > formats[j].Bitrate
	})

	return formats
}

// DownloadAudio は動画の音声トラックのみをローカルファイルへ保存する。
// 最高ビットレートの音声フォーマットを選択し、失敗時は部分ファイルを削除する。
func (c *Client) DownloadAudio(ctx context.Context, videoURL, outputPath string) error {
	if _, err := ValidateURL(videoURL); err != nil {
		return err
	}

	video, err := c.client.GetVideoContext(ctx, videoURL)
	if err != nil {
		return &DownloadError{URL: videoURL, Err: fmt.Errorf("failed to get video: %w", err)}
	}

	formats := audioFormats(video)
	if len(formats) == 0 {
		return &DownloadError{URL: videoURL, Err: fmt.Errorf("no audio formats available")}
	}
	target := &formats[0]

	stream, _, err := c.client.GetStreamContext(ctx, video, target)
	if err != nil {
		return &DownloadError{URL: videoURL, Err: fmt.Errorf("failed to get stream: %w", err)}
	}
	defer stream.Close()

	file, err := os.Create(outputPath)
	if err != nil {
		return &DownloadError{URL: videoURL, Err: fmt.Errorf("failed to create file: %w", err)}
	}
	defer file.Close()

	if _, err := io.Copy(file, stream); err != nil {
		os.Remove(outputPath) // 失敗時はファイルを削除
		return &DownloadError{URL: videoURL, Err: fmt.Errorf("failed to download: %w", err)}
	}

	return nil
}

// BestAudioExtension はダウンロードされる音声の拡張子を返す（取得できない場合は .m4a）
func (c *Client) BestAudioExtension(ctx context.Context, videoURL string) string {
	video, err := c.client.GetVideoContext(ctx, videoURL)
	if err != nil {
		return ".m4a"
	}
	formats := audioFormats(video)
	if len(formats) == 0 {
		return ".m4a"
	}
	return ExtensionForMime(formats[0].MimeType)
}
