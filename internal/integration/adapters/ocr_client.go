package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/finly/backend/internal/application/adapter"
	"github.com/finly/backend/internal/domain/entity"
	domainerror "github.com/finly/backend/internal/domain/error"
)

const (
	// defaultOCRTimeout bounds a single OCR call.
	defaultOCRTimeout = 30 * time.Second

	ocrOutcomeSuccess     = "success"
	ocrOutcomeRejected    = "rejected"
	ocrOutcomeUnavailable = "unavailable"

	// maxOCRResponseBytes caps how much of a response body is read.
	maxOCRResponseBytes = 1 << 20
)

var ocrRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "finly_ocr_requests_total",
	Help: "Calls to the receipt OCR service by outcome.",
}, []string{"operation", "outcome"})

// ocrEnvelope is the response shape shared by every OCR endpoint.
type ocrEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    *entity.OCRData `json:"data"`
}

// ocrClient implements adapter.OCRService over HTTP. Each method makes a
// single request; failures are never retried.
type ocrClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewOCRClient creates an OCR client for the service at baseURL.
// A non-positive timeout falls back to 30 seconds.
func NewOCRClient(baseURL string, timeout time.Duration) adapter.OCRService {
	if timeout <= 0 {
		timeout = defaultOCRTimeout
	}
	return NewOCRClientWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

// NewOCRClientWithHTTPClient creates an OCR client with a custom HTTP client.
func NewOCRClientWithHTTPClient(baseURL string, httpClient *http.Client) adapter.OCRService {
	return &ocrClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// ProcessReceipt uploads the file as the multipart field "file".
func (c *ocrClient) ProcessReceipt(ctx context.Context, filename, mimeType string, content io.Reader) (*entity.OCRData, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	header.Set("Content-Type", mimeType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to build receipt upload: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("failed to read receipt: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build receipt upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/process-receipt", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create OCR request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req, "process_receipt")
}

// ProcessText sends already-extracted receipt text as {"text": ...}.
func (c *ocrClient) ProcessText(ctx context.Context, text string) (*entity.OCRData, error) {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode OCR request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/process-text", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create OCR request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	data, err := c.do(req, "process_text")
	if err != nil {
		return nil, err
	}
	if data.ExtractedText == "" {
		data.ExtractedText = text
	}
	return data, nil
}

// HealthCheck calls GET /health.
func (c *ocrClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create OCR request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domainerror.ErrOCRServiceUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxOCRResponseBytes))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health check returned status %d", domainerror.ErrOCRServiceUnavailable, resp.StatusCode)
	}
	return nil
}

// do executes the request and decodes the envelope. Transport failures and
// 5xx responses are unavailability; 4xx or unsuccessful envelopes are rejections.
func (c *ocrClient) do(req *http.Request, operation string) (*entity.OCRData, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		ocrRequests.WithLabelValues(operation, ocrOutcomeUnavailable).Inc()
		return nil, fmt.Errorf("%w: %v", domainerror.ErrOCRServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		ocrRequests.WithLabelValues(operation, ocrOutcomeUnavailable).Inc()
		return nil, fmt.Errorf("%w: status %d", domainerror.ErrOCRServiceUnavailable, resp.StatusCode)
	}

	var envelope ocrEnvelope
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxOCRResponseBytes)).Decode(&envelope)

	if resp.StatusCode >= http.StatusBadRequest || (decodeErr == nil && !envelope.Success) {
		ocrRequests.WithLabelValues(operation, ocrOutcomeRejected).Inc()
		message := envelope.Message
		if message == "" {
			message = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: %s", domainerror.ErrOCRRejected, message)
	}

	if decodeErr != nil || envelope.Data == nil {
		ocrRequests.WithLabelValues(operation, ocrOutcomeUnavailable).Inc()
		return nil, fmt.Errorf("%w: malformed response", domainerror.ErrOCRServiceUnavailable)
	}

	ocrRequests.WithLabelValues(operation, ocrOutcomeSuccess).Inc()
	return envelope.Data, nil
}
