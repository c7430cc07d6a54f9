package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/sngm3741/facts-finders/api/internal/config"
	"github.com/sngm3741/facts-finders/api/internal/factsfinder/domain"
)

// CloudinaryUploader posts images to an unsigned upload preset.
type CloudinaryUploader struct {
	httpClient *http.Client
	endpoint   string
	preset     string
}

type cloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewCloudinaryUploader は cloud 名と preset から upload エンドポイントを組み立てる。
func NewCloudinaryUploader(cfg config.CloudinaryConfig, httpClient *http.Client) (*CloudinaryUploader, error) {
	if cfg.CloudName == "" || cfg.UploadPreset == "" {
		return nil, fmt.Errorf("CLOUDINARY_CLOUD_NAME and CLOUDINARY_UPLOAD_PRESET must be configured")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	return &CloudinaryUploader{
		httpClient: httpClient,
		endpoint:   fmt.Sprintf("%s/v1_1/%s/image/upload", base, cfg.CloudName),
		preset:     cfg.UploadPreset,
	}, nil
}

// Upload sends the image as multipart form data and returns secure_url.
func (u *CloudinaryUploader) Upload(ctx context.Context, image domain.Image) (string, error) {
	if len(image.Data) == 0 {
		return "", fmt.Errorf("%w: empty image", domain.ErrUpload)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", fileNameOf(image))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpload, err)
	}
	if _, err := part.Write(image.Data); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpload, err)
	}
	if err := writer.WriteField("upload_preset", u.preset); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpload, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpload, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUpload, err)
	}
	defer resp.Body.Close()

	var payload cloudinaryResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && payload.Error != nil {
			return "", fmt.Errorf("%w: status %d: %s", domain.ErrUpload, resp.StatusCode, payload.Error.Message)
		}
		return "", fmt.Errorf("%w: status %d", domain.ErrUpload, resp.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrUpload, decodeErr)
	}
	if payload.SecureURL == "" {
		return "", fmt.Errorf("%w: response has no secure_url", domain.ErrUpload)
	}
	return payload.SecureURL, nil
}
