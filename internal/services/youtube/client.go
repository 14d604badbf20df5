// Package youtube wraps the YouTube Data API videos endpoint used to enrich
// watch-history entries with title, channel and duration metadata.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/watchtally/watchtally/internal/config"
	"github.com/watchtally/watchtally/internal/models"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// videosResponse represents the JSON response of the videos.list endpoint
type videosResponse struct {
	Items []videoItem `json:"items"`
}

type videoItem struct {
	ID      string `json:"id"`
	Snippet struct {
		Title        string `json:"title"`
		ChannelTitle string `json:"channelTitle"`
	} `json:"snippet"`
	ContentDetails struct {
		Duration string `json:"duration"`
	} `json:"contentDetails"`
}

// Client calls the YouTube Data API with direct HTTP requests
type Client struct {
	baseURL     string
	apiKey      string
	concurrency int
	httpClient  *http.Client
	logger      *logrus.Logger
}

// NewClient creates a new YouTube API client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.YouTubeAPIKey == "" {
		return nil, fmt.Errorf("youtube API key is required")
	}

	concurrency := cfg.EnrichConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	return &Client{
		baseURL:     defaultBaseURL,
		apiKey:      cfg.YouTubeAPIKey,
		concurrency: concurrency,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}, nil
}

// FetchBatch fetches metadata for one batch of video IDs with a single
// videos.list call. IDs absent from the response (deleted or private videos)
// are simply missing from the result.
func (c *Client) FetchBatch(ctx context.Context, ids []string) ([]models.VideoInfo, error) {
	apiURL, err := url.Parse(c.baseURL + "/videos")
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}

	params := url.Values{}
	params.Add("part", "snippet,contentDetails")
	params.Add("id", strings.Join(ids, ","))
	params.Add("key", c.apiKey)
	apiURL.RawQuery = params.Encode()

	c.logger.WithField("batch_size", len(ids)).Debug("Fetching video metadata")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("videos request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"body":        string(body),
		}).Error("YouTube API returned non-OK status")
		return nil, fmt.Errorf("youtube API returned status %d", resp.StatusCode)
	}

	var decoded videosResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to parse videos response: %w", err)
	}

	infos := make([]models.VideoInfo, 0, len(decoded.Items))
	for _, item := range decoded.Items {
		infos = append(infos, models.VideoInfo{
			ID:       item.ID,
			Title:    item.Snippet.Title,
			Channel:  item.Snippet.ChannelTitle,
			Duration: item.ContentDetails.Duration,
		})
	}

	c.logger.WithField("count", len(infos)).Debug("Video metadata batch fetched")

	return infos, nil
}
