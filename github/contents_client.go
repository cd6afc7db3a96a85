package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tessellated-io/feeband-go/log"
	"github.com/tessellated-io/feeband-go/registry"
)

const (
	DefaultBaseURL = "https://api.github.com"

	acceptHeader = "application/vnd.github.v3+json"
)

var (
	ErrMissingToken = errors.New("no github token provided")

	// ErrStaleSha is returned when the file changed since it was read. The write is rejected.
	ErrStaleSha = errors.New("file was modified since it was read")
)

// Sha identifies the exact version of a file. It must be passed back on write.
type Sha string

// StatusError is a non-2xx response from the contents API.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: received non-OK HTTP status: %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: received non-OK HTTP status: %d (%s)", e.Method, e.Path, e.StatusCode, e.Message)
}

type contentsResponse struct {
	Type     string `json:"type"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
	Sha      string `json:"sha"`
}

type updateRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Sha     string `json:"sha"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// ContentsClient reads and writes chain info files through the GitHub contents API.
type ContentsClient struct {
	baseURL    string
	repository string
	token      string

	httpClient *http.Client
	logger     *log.Logger
}

// NewContentsClient makes a client for repository ("owner/name"). An empty token is an error.
func NewContentsClient(baseURL, repository, token string, httpClient *http.Client, logger *log.Logger) (*ContentsClient, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	if repository == "" {
		return nil, fmt.Errorf("no repository provided")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &ContentsClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		repository: repository,
		token:      token,

		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Read fetches the file at path and returns it along with its sha.
func (c *ContentsClient) Read(ctx context.Context, path string) (*registry.Document, Sha, error) {
	request, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, "", err
	}

	body, err := c.do(request, path)
	if err != nil {
		return nil, "", err
	}

	var contents contentsResponse
	err = json.Unmarshal(body, &contents)
	if err != nil {
		return nil, "", fmt.Errorf("unable to parse contents response for %s: %w", path, err)
	}
	if contents.Encoding != "" && contents.Encoding != "base64" {
		return nil, "", fmt.Errorf("unsupported content encoding %q for %s", contents.Encoding, path)
	}
	if contents.Sha == "" {
		return nil, "", fmt.Errorf("contents response for %s has no sha", path)
	}

	// GitHub wraps base64 content at 60 columns. The decoder skips the newlines.
	decoded, err := base64.StdEncoding.DecodeString(contents.Content)
	if err != nil {
		return nil, "", fmt.Errorf("unable to decode content of %s: %w", path, err)
	}

	document, err := registry.ParseDocument(decoded)
	if err != nil {
		return nil, "", err
	}

	c.logger.Debug().Str("path", path).Str("sha", contents.Sha).Msg("read file from github")
	return document, Sha(contents.Sha), nil
}

// Write replaces the file at path with document. The write fails with ErrStaleSha if sha is not the current version.
func (c *ContentsClient) Write(ctx context.Context, path string, document *registry.Document, sha Sha, message string) error {
	if sha == "" {
		return fmt.Errorf("refusing to write %s without a sha", path)
	}

	encoded, err := document.Encode()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(updateRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(encoded),
		Sha:     string(sha),
	})
	if err != nil {
		return err
	}

	request, err := c.newRequest(ctx, http.MethodPut, path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")

	_, err = c.do(request, path)
	if err != nil {
		return err
	}

	c.logger.Debug().Str("path", path).Str("sha", string(sha)).Msg("wrote file to github")
	return nil
}

func (c *ContentsClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	url := fmt.Sprintf("%s/repos/%s/contents/%s", c.baseURL, c.repository, strings.TrimPrefix(path, "/"))

	request, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	request.Header.Set("Accept", acceptHeader)

	return request, nil
}

func (c *ContentsClient) do(request *http.Request, path string) ([]byte, error) {
	resp, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, nil
	}

	var ghErr errorResponse
	_ = json.Unmarshal(data, &ghErr)

	statusErr := &StatusError{
		Method:     request.Method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Message:    ghErr.Message,
	}
	if request.Method == http.MethodPut && isStaleShaStatus(resp.StatusCode, ghErr.Message) {
		return nil, fmt.Errorf("%w: %w", ErrStaleSha, statusErr)
	}
	return nil, statusErr
}

// GitHub answers 409 on a sha mismatch, and 422 when the sha is not one it recognizes.
func isStaleShaStatus(statusCode int, message string) bool {
	if statusCode == http.StatusConflict {
		return true
	}
	return statusCode == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(message), "sha")
}
