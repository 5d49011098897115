package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/testdata"
)

func newIntegrationServer(t *testing.T, hands ...detector.HandLandmarks) (*Server, *httptest.Server, *Hub) {
	t.Helper()

	s, err := store.New(store.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	mock := detector.NewMockDetector()
	mock.SetHands(hands)
	svc := app.NewService(app.NewPipeline(mock, gesture.NewClassifier(gesture.DefaultThresholds())), s.Readings())

	hub := NewHub()
	svc.SetPublisher(hub)
	t.Cleanup(hub.Close)

	srv := New(Config{
		Service:            svc,
		Hub:                hub,
		RequestTimeout:     5 * time.Second,
		MaxRequestBodySize: 1 << 20,
	})
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	return srv, ts, hub
}

func postImage(t *testing.T, ts *httptest.Server, payload string) *http.Response {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"image": payload})
	resp, err := ts.Client().Post(ts.URL+"/api/process", "application/json", strings.NewReader(string(body)))
	if err != nil {
		t.Fatalf("POST /api/process error = %v", err)
	}
	return resp
}

func TestAPI_ProcessAndList(t *testing.T) {
	_, ts, _ := newIntegrationServer(t, detector.OpenPalmLandmarks())

	// 1. Process an image
	resp := postImage(t, ts, testdata.PNGPayload(8, 8))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var created app.Result
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	if created.Gesture != gesture.OpenHand {
		t.Errorf("gesture = %s, want %s", created.Gesture, gesture.OpenHand)
	}
	if created.ImagePath != "/static/gestures/open_hand.png" {
		t.Errorf("image_path = %s", created.ImagePath)
	}

	// 2. Read it back
	resp, _ = ts.Client().Get(ts.URL + "/api/results/" + created.ID)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/results/:id status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var fetched app.Result
	json.NewDecoder(resp.Body).Decode(&fetched)
	resp.Body.Close()
	if fetched.ID != created.ID || fetched.Gesture != created.Gesture {
		t.Errorf("fetched %+v, want %+v", fetched, created)
	}

	// 3. It shows up in the listing
	resp, _ = ts.Client().Get(ts.URL + "/api/results")
	var listed struct {
		Results []app.Result `json:"results"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()
	if len(listed.Results) != 1 || listed.Results[0].ID != created.ID {
		t.Errorf("listing = %+v", listed.Results)
	}

	// 4. Bad payload is a client error and is not recorded
	resp = postImage(t, ts, testdata.InvalidBase64Payload)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid payload status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}

	resp, _ = ts.Client().Get(ts.URL + "/api/results")
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()
	if len(listed.Results) != 1 {
		t.Errorf("decode failure should not be recorded, got %d results", len(listed.Results))
	}
}

func TestAPI_BodyLimit(t *testing.T) {
	srv, _, _ := newIntegrationServer(t)

	body := `{"image":"` + strings.Repeat("A", 2<<20) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/process", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusRequestEntityTooLarge)
	}
}

func TestAPI_LiveFeed(t *testing.T) {
	_, ts, hub := newIntegrationServer(t, detector.ThumbsUpLandmarks())

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", wsURL, err)
	}
	defer conn.Close()

	// Registration happens in the handler goroutine after the upgrade.
	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.Clients() != 1 {
		t.Fatalf("expected 1 feed client, got %d", hub.Clients())
	}

	resp := postImage(t, ts, testdata.PNGPayload(8, 8))
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST status = %d", resp.StatusCode)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read feed message: %v", err)
	}

	var msg feedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode feed message: %v", err)
	}
	if msg.Type != "reading" || msg.Result.Gesture != gesture.ThumbsUp {
		t.Errorf("unexpected feed message %+v", msg)
	}
}
