package chart

import (
	"bytes"
	"os"
	"testing"

	"github.com/suggestbot/go-suggest-backend/internal/stats"
)

// pngMagic is the 8-byte PNG file signature.
var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestRenderHistogram_ProducesPNG(t *testing.T) {
	r := &PNGRenderer{}
	path, err := r.RenderHistogram([]stats.DayCount{
		{Date: "2025-06-13", Count: 2},
		{Date: "2025-06-14", Count: 5},
		{Date: "2025-06-15", Count: 1},
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	if len(data) < len(pngMagic) || !bytes.Equal(data[:len(pngMagic)], pngMagic) {
		t.Fatalf("artifact is not a PNG")
	}
}

func TestRenderHistogram_SingleZeroBucket(t *testing.T) {
	r := &PNGRenderer{Title: "empty week"}
	path, err := r.RenderHistogram([]stats.DayCount{{Date: "2025-06-15", Count: 0}})
	if err != nil {
		t.Fatalf("zero-count histogram must still render: %v", err)
	}
	os.Remove(path)
}

func TestRenderHistogram_EmptyInputRejected(t *testing.T) {
	r := &PNGRenderer{}
	if _, err := r.RenderHistogram(nil); err == nil {
		t.Fatalf("expected error for empty histogram")
	}
}
