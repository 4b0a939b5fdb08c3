package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// BlobService uploads files to backend storage
type BlobService struct {
	client *Client
}

func NewBlobService(c *Client) *BlobService {
	return &BlobService{client: c}
}

// Upload posts the file as multipart field "file" and returns the hosted URL
func (s *BlobService) Upload(ctx context.Context, filename string, file io.Reader) (string, error) {
	if filename == "" {
		return "", &ValidationError{Message: "file name is required"}
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("copy upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.client.baseURL+"/api/Blob/upload", &buf)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	data, err := s.client.send(req)
	if err != nil {
		return "", err
	}

	url := uploadedURL(data)
	if err := s.client.validate.Var(url, "required,url"); err != nil {
		return "", fmt.Errorf("%w: upload returned %q", ErrInvalidResponse, url)
	}
	return url, nil
}

// uploadedURL accepts a JSON string, an object with a url field, or plain text
func uploadedURL(data []byte) string {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && obj.URL != "" {
		return obj.URL
	}
	return strings.TrimSpace(string(data))
}
