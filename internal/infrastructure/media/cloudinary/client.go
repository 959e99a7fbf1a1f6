package cloudinary

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
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/travelops/traveler-registry/internal/core/domain"
	"github.com/travelops/traveler-registry/internal/infrastructure/resilience"
)

const defaultBaseURL = "https://api.cloudinary.com"

// uploadPathRe captures everything after /upload/, minus an optional
// version segment, in a delivery URL.
var uploadPathRe = regexp.MustCompile(`/upload/(?:v\d+/)?(.+)$`)

// Client talks to the Cloudinary upload API with signed requests.
type Client struct {
	baseURL   string
	cloudName string
	apiKey    string
	apiSecret string
	httpc     *http.Client
	exec      *resilience.Executor
	now       func() time.Time
}

type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	// BaseURL overrides the public API endpoint, used in tests.
	BaseURL string
	Timeout time.Duration
}

func NewClient(cfg Config, exec *resilience.Executor) (*Client, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, errors.New("cloudinary cloud name, api key and api secret are required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		cloudName: cfg.CloudName,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		httpc:     &http.Client{Timeout: timeout},
		exec:      exec,
		now:       time.Now,
	}, nil
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
}

type destroyResponse struct {
	Result string `json:"result"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Put uploads the file into the folder derived from category and returns
// the stored reference. The whole payload is buffered up front so a retry
// can resend it.
func (c *Client) Put(ctx context.Context, data io.Reader, filename, category string) (domain.BlobRef, error) {
	payload, err := io.ReadAll(data)
	if err != nil {
		return domain.BlobRef{}, fmt.Errorf("read upload payload: %w", err)
	}
	if len(payload) == 0 {
		return domain.BlobRef{}, errors.New("upload payload is empty")
	}

	publicID := uploadPublicID(filename)
	folder := folderFor(category)

	var ref domain.BlobRef
	err = c.exec.Execute(ctx, "cloudinary.upload", func(ctx context.Context) error {
		resp, err := c.upload(ctx, payload, filename, publicID, folder)
		if err != nil {
			return err
		}
		ref = domain.BlobRef{ID: resp.PublicID, URL: resp.SecureURL}
		return nil
	}, classify)
	if err != nil {
		return domain.BlobRef{}, err
	}
	return ref, nil
}

// Delete destroys the asset behind a delivery URL or a bare public id.
// A "not found" result is treated as success so deletes are idempotent.
func (c *Client) Delete(ctx context.Context, refOrURL string) error {
	publicID := refOrURL
	if strings.Contains(refOrURL, "/upload/") {
		id, err := PublicIDFromURL(refOrURL)
		if err != nil {
			return err
		}
		publicID = id
	}
	if publicID == "" {
		return errors.New("empty public id")
	}

	return c.exec.Execute(ctx, "cloudinary.destroy", func(ctx context.Context) error {
		return c.destroy(ctx, publicID)
	}, classify)
}

func (c *Client) upload(ctx context.Context, payload []byte, filename, publicID, folder string) (*uploadResponse, error) {
	ts := strconv.FormatInt(c.now().Unix(), 10)
	sig := c.sign(map[string]string{
		"folder":    folder,
		"overwrite": "true",
		"public_id": publicID,
		"timestamp": ts,
	})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fields := map[string]string{
		"api_key":   c.apiKey,
		"timestamp": ts,
		"signature": sig,
		"folder":    folder,
		"public_id": publicID,
		"overwrite": "true",
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("build form: %w", err)
		}
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}
	if _, err := fw.Write(payload); err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build form: %w", err)
	}

	url := fmt.Sprintf("%s/v1_1/%s/auto/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeError("upload", resp)
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if out.SecureURL == "" {
		return nil, errors.New("upload response missing secure_url")
	}
	return &out, nil
}

func (c *Client) destroy(ctx context.Context, publicID string) error {
	ts := strconv.FormatInt(c.now().Unix(), 10)
	sig := c.sign(map[string]string{
		"public_id": publicID,
		"timestamp": ts,
	})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range map[string]string{
		"api_key":   c.apiKey,
		"timestamp": ts,
		"signature": sig,
		"public_id": publicID,
	} {
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("build form: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("build form: %w", err)
	}

	url := fmt.Sprintf("%s/v1_1/%s/image/destroy", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("destroy request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError("destroy", resp)
	}

	var out destroyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode destroy response: %w", err)
	}
	switch out.Result {
	case "ok", "not found":
		return nil
	default:
		return fmt.Errorf("destroy result %q", out.Result)
	}
}

// sign builds the SHA-1 request signature over the sorted parameter
// string plus the API secret.
func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.apiSecret))
	return hex.EncodeToString(sum[:])
}

func decodeError(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	var e apiError
	if json.Unmarshal(raw, &e) == nil && e.Error.Message != "" {
		return fmt.Errorf("%s: status %d: %s", op, resp.StatusCode, e.Error.Message)
	}
	return fmt.Errorf("%s: status %d", op, resp.StatusCode)
}

// uploadPublicID derives the stored public id from the upload filename.
// PDFs keep their extension so delivery URLs stay openable; images are
// stored without one.
func uploadPublicID(filename string) string {
	if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return filename
	}
	if i := strings.LastIndex(filename, "."); i > 0 {
		return filename[:i]
	}
	return filename
}

// PublicIDFromURL extracts the public id from a delivery URL, applying
// the same extension convention as uploadPublicID.
func PublicIDFromURL(url string) (string, error) {
	m := uploadPathRe.FindStringSubmatch(url)
	if m == nil {
		return "", fmt.Errorf("no public id in url %q", url)
	}
	path := m[1]
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return path, nil
	}
	if i := strings.LastIndex(path, "."); i > strings.LastIndex(path, "/") {
		return path[:i], nil
	}
	return path, nil
}

// folderFor maps a slot folder tag to its remote directory.
func folderFor(category string) string {
	switch category {
	case "photo":
		return "passports/photos"
	case "copy":
		return "passports/copies"
	case "adhar":
		return "passports/adhar"
	case "pancard":
		return "passports/pancard"
	case "passbook":
		return "passports/passbook"
	case "medical":
		return "passports/medical"
	default:
		return "passports"
	}
}

// classify treats transport errors and 5xx-shaped failures as retryable
// breaker failures; anything that looks like a 4xx is neither.
func classify(err error) (bool, bool) {
	msg := err.Error()
	if strings.Contains(msg, "status 4") {
		return false, false
	}
	return true, true
}
