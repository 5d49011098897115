package detector

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gocv.io/x/gocv"
)

// maxResponseSize bounds the landmark service reply.
const maxResponseSize = 1 << 20

// HTTPDetector implements Detector by forwarding frames to a remote landmark service.
// It holds no per-call state and is safe for concurrent use.
type HTTPDetector struct {
	baseURL string
	client  *http.Client
}

// NewHTTPDetector creates a detector that talks to the landmark service at baseURL.
func NewHTTPDetector(baseURL string, timeout time.Duration) (*HTTPDetector, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse landmark service url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("landmark service url must be absolute, got %q", baseURL)
	}

	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &HTTPDetector{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// Detect posts the raw RGB pixels to <baseURL>/detect and parses the returned hands.
func (d *HTTPDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	raw, err := newRawFrame(frame)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("width", strconv.Itoa(raw.Cols))
	query.Set("height", strconv.Itoa(raw.Rows))
	query.Set("channels", strconv.Itoa(raw.Channels))

	req, err := http.NewRequest(http.MethodPost, d.baseURL+"/detect?"+query.Encode(), bytes.NewReader(raw.Data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("landmark service returned status %d", resp.StatusCode)
	}

	return parseDetectResponse(body)
}

// Health checks that the landmark service is reachable.
func (d *HTTPDetector) Health() error {
	resp, err := d.client.Get(d.baseURL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("landmark service unhealthy: %d", resp.StatusCode)
	}

	return nil
}

// Close releases idle connections.
func (d *HTTPDetector) Close() error {
	d.client.CloseIdleConnections()
	return nil
}
