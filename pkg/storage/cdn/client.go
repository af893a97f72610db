package cdn

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rmoralesdev/mediavault-backend/pkg/config"
	"github.com/rmoralesdev/mediavault-backend/pkg/logger"
)

// ErrNotConfigured is returned when the CDN credentials are absent.
var ErrNotConfigured = errors.New("cdn client not configured")

// Client talks to the media CDN's signed upload API over plain HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	account    string
	apiKey     string
	apiSecret  string
}

// Uploader is the surface the upload service depends on.
type Uploader interface {
	Upload(ctx context.Context, data []byte, fileName string, params UploadParams) (*UploadResult, error)
}

// UploadParams steer where and how the CDN stores one file.
type UploadParams struct {
	// Folder is the CDN-side folder path, e.g. "gallery/neko".
	Folder string
	// PublicID overrides the derived object name when set.
	PublicID string
	// Format forces the delivery format; "gif" keeps animations intact.
	Format string
}

// UploadResult is the subset of the CDN response the gallery needs.
type UploadResult struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
	Format    string `json:"format"`
	Bytes     int64  `json:"bytes"`
}

type uploadErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient builds a CDN client from the configured account credentials.
func NewClient(ctx context.Context, cfg config.CDNConfig, logg *logger.Logger) (*Client, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}

	timeout := cfg.UploadTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		account:    cfg.AccountName,
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
	}

	if logg != nil {
		logg.Info(ctx, "cdn client initialized")
	}
	return client, nil
}

// Upload streams one file buffer to the CDN and returns the hosted URL.
func (c *Client) Upload(ctx context.Context, data []byte, fileName string, params UploadParams) (*UploadResult, error) {
	if c == nil {
		return nil, ErrNotConfigured
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty file buffer")
	}

	fields := map[string]string{
		"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
	}
	if params.Folder != "" {
		fields["folder"] = params.Folder
	}
	if params.PublicID != "" {
		fields["public_id"] = params.PublicID
	}
	if params.Format != "" {
		fields["format"] = params.Format
	}
	fields["signature"] = signParams(fields, c.apiSecret)
	fields["api_key"] = c.apiKey

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("write form field %s: %w", key, err)
		}
	}
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("write file buffer: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/upload", c.baseURL, c.account)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cdn upload request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read cdn response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var parsed uploadErrorBody
		if json.Unmarshal(raw, &parsed) == nil && parsed.Error.Message != "" {
			return nil, fmt.Errorf("cdn upload failed: %s: %s", resp.Status, parsed.Error.Message)
		}
		return nil, fmt.Errorf("cdn upload failed: %s", resp.Status)
	}

	var result UploadResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode cdn response: %w", err)
	}
	if result.SecureURL == "" && result.URL == "" {
		return nil, fmt.Errorf("cdn response missing delivery url")
	}
	return &result, nil
}

// DeliveryURL prefers the TLS URL the CDN returned.
func (r *UploadResult) DeliveryURL() string {
	if r == nil {
		return ""
	}
	if r.SecureURL != "" {
		return r.SecureURL
	}
	return r.URL
}

// signParams produces the CDN request signature: the sorted key=value pairs
// joined by '&', concatenated with the API secret, hashed with SHA-1.
func signParams(fields map[string]string, secret string) string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+fields[key])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
