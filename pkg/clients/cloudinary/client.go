package cloudinary

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/ganado/internal/config"
)

// Uploader stores media files and returns their public URLs.
type Uploader interface {
	Upload(ctx context.Context, file File) (*UploadResult, error)
}

// File is one media file to upload.
type File struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

// UploadResult mirrors the fields of a successful upload response.
type UploadResult struct {
	URL          string `json:"secure_url"`
	PublicID     string `json:"public_id"`
	ResourceType string `json:"resource_type"`
	Format       string `json:"format"`
	Bytes        int64  `json:"bytes"`
}

// APIClient is a resty-backed implementation of Uploader.
type APIClient struct {
	httpClient *resty.Client
	cloudName  string
	apiKey     string
	apiSecret  string
	folder     string
	now        func() time.Time
}

// NewClient builds an upload client from the media configuration.
func NewClient(cfg config.MediaConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(60 * time.Second)

	return &APIClient{
		httpClient: restyClient,
		cloudName:  cfg.CloudName,
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		folder:     cfg.Folder,
		now:        time.Now,
	}
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the file as a signed multipart request. The resource type is
// detected by the media host.
func (c *APIClient) Upload(ctx context.Context, file File) (*UploadResult, error) {
	params := map[string]string{
		"folder":    c.folder,
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	}
	params["signature"] = Sign(params, c.apiSecret)
	params["api_key"] = c.apiKey

	result := new(UploadResult)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFormData(params).
		SetMultipartField("file", file.Name, file.ContentType, file.Reader).
		SetResult(result).
		SetError(apiErr).
		Post(fmt.Sprintf("%s/auto/upload", c.cloudName))
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", file.Name, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, fmt.Errorf("media api error: code=%d, message=%s", resp.StatusCode(), apiErr.Error.Message)
	}

	return result, nil
}

// Sign computes the request signature: the sorted key=value pairs joined by
// '&', followed by the secret, hashed with SHA-1.
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
