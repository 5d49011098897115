package archive

import (
	"net/http"
	"testing"

	"github.com/ayusman/mudra/testdata"
)

func TestNewAzureArchiver_Validation(t *testing.T) {
	tests := []struct {
		name      string
		account   string
		key       string
		container string
		wantErr   bool
	}{
		{"valid", "mudra", "a2V5LWJ5dGVz", "readings", false},
		{"missing account", "", "a2V5LWJ5dGVz", "readings", true},
		{"missing container", "mudra", "a2V5LWJ5dGVz", "", true},
		{"key not base64", "mudra", "not base64!!", "readings", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAzureArchiver(tt.account, tt.key, tt.container)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if a.Container() != tt.container {
				t.Errorf("expected container %q, got %q", tt.container, a.Container())
			}
		})
	}
}

func TestBlobName(t *testing.T) {
	tests := []struct {
		data []byte
		want string
	}{
		{testdata.PNG(2, 2), "readings/abc.png"},
		{testdata.JPEG(2, 2), "readings/abc.jpg"},
		{[]byte("plain text"), "readings/abc.bin"},
	}

	for _, tt := range tests {
		if got := BlobName("abc", http.DetectContentType(tt.data)); got != tt.want {
			t.Errorf("BlobName = %q, want %q", got, tt.want)
		}
	}
}
