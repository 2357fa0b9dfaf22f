package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/speakturbo/speakturbo/internal/voice"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	return &Cache{
		baseDir: t.TempDir(),
		expiry:  DefaultExpiry,
	}
}

func TestSaveAndGetVoices(t *testing.T) {
	c := newTestCache(t)

	catalog := &voice.Catalog{Voices: []string{"alba", "marius", "javert"}}
	if err := c.SaveVoices(catalog); err != nil {
		t.Fatalf("SaveVoices() error = %v", err)
	}

	got := c.GetVoices()
	if got == nil {
		t.Fatal("GetVoices() = nil, want cached catalog")
	}

	if len(got.Voices) != len(catalog.Voices) {
		t.Fatalf("GetVoices() returned %d voices, want %d", len(got.Voices), len(catalog.Voices))
	}
	for i, v := range got.Voices {
		if v != catalog.Voices[i] {
			t.Errorf("voices[%d] = %q, want %q", i, v, catalog.Voices[i])
		}
	}
}

func TestGetVoicesMissing(t *testing.T) {
	c := newTestCache(t)

	if got := c.GetVoices(); got != nil {
		t.Errorf("GetVoices() = %v, want nil for empty cache", got)
	}
}

func TestGetVoicesExpired(t *testing.T) {
	c := newTestCache(t)

	catalog := &voice.Catalog{Voices: []string{"alba"}}
	if err := c.SaveVoices(catalog); err != nil {
		t.Fatalf("SaveVoices() error = %v", err)
	}

	voicesPath := filepath.Join(c.baseDir, VoicesFileName)
	oldTime := time.Now().Add(-2 * DefaultExpiry)
	if err := os.Chtimes(voicesPath, oldTime, oldTime); err != nil {
		t.Fatalf("Chtimes() error = %v", err)
	}

	if got := c.GetVoices(); got != nil {
		t.Error("GetVoices() should return nil for expired cache")
	}

	if _, err := os.Stat(voicesPath); !os.IsNotExist(err) {
		t.Error("Expired cache file should be removed")
	}
}

func TestGetVoicesCorruptFile(t *testing.T) {
	c := newTestCache(t)

	voicesPath := filepath.Join(c.baseDir, VoicesFileName)
	if err := os.WriteFile(voicesPath, []byte("not json"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if got := c.GetVoices(); got != nil {
		t.Error("GetVoices() should return nil for a corrupt cache file")
	}
}

func TestSaveVoicesCreatesDirectory(t *testing.T) {
	c := &Cache{
		baseDir: filepath.Join(t.TempDir(), "nested", "dir"),
		expiry:  DefaultExpiry,
	}

	if err := c.SaveVoices(&voice.Catalog{Voices: []string{"alba"}}); err != nil {
		t.Fatalf("SaveVoices() error = %v", err)
	}

	if got := c.GetVoices(); got == nil {
		t.Error("GetVoices() = nil after SaveVoices into nested directory")
	}
}
