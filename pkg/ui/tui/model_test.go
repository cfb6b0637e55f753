package tui

import (
	"errors"
	"testing"
)

func TestModel(t *testing.T) {
	model := NewModel("golang", 100)

	// Test recording passes
	model.RecordPass(1, 25, 25)
	model.RecordPass(2, 25, 50)

	if model.pass != 2 {
		t.Errorf("Expected pass 2, got %d", model.pass)
	}
	if model.collectedCount != 50 {
		t.Errorf("Expected 50 collected, got %d", model.collectedCount)
	}
	if p := model.CollectionProgress(); p != 0.5 {
		t.Errorf("Expected progress 0.5, got %f", p)
	}

	// Test starting downloads
	model.StartDownload("id1", "t3_a", "cat.jpg")
	model.StartDownload("id2", "t3_b", "dog.jpg")
	if model.activeDownloads != 2 {
		t.Errorf("Expected 2 active downloads, got %d", model.activeDownloads)
	}

	// Test completing download
	model.CompleteDownload("id1", 1024*1024)
	if model.activeDownloads != 1 {
		t.Errorf("Expected 1 active download, got %d", model.activeDownloads)
	}
	if model.totalDownloaded != 1 {
		t.Errorf("Expected 1 total downloaded, got %d", model.totalDownloaded)
	}
	if model.totalSize != 1024*1024 {
		t.Errorf("Expected total size %d, got %d", 1024*1024, model.totalSize)
	}

	// Test failing download
	model.FailDownload("id2", errors.New("timeout"))
	if model.activeDownloads != 0 {
		t.Errorf("Expected 0 active downloads, got %d", model.activeDownloads)
	}
	if model.failedDownloads != 1 {
		t.Errorf("Expected 1 failed download, got %d", model.failedDownloads)
	}

	// Test log messages
	model.AddLogMessage("INFO", "Test message")
	if len(model.logMessages) != 1 {
		t.Errorf("Expected 1 log message, got %d", len(model.logMessages))
	}

	// Test download slices
	if got := len(model.GetCompletedDownloads()); got != 1 {
		t.Errorf("Expected 1 completed download, got %d", got)
	}
	if got := len(model.GetFailedDownloads()); got != 1 {
		t.Errorf("Expected 1 failed download, got %d", got)
	}
	if got := len(model.GetActiveDownloads()); got != 0 {
		t.Errorf("Expected 0 active downloads, got %d", got)
	}
}

func TestModelUnboundedProgress(t *testing.T) {
	model := NewModel("pics", 0)

	model.RecordPass(1, 25, 25)
	if p := model.CollectionProgress(); p != -1 {
		t.Errorf("Expected -1 for unbounded collection, got %f", p)
	}
}

func TestModelProgressCapped(t *testing.T) {
	model := NewModel("pics", 10)

	// A pass can overshoot the limit before the cap is applied upstream.
	model.RecordPass(1, 15, 15)
	if p := model.CollectionProgress(); p != 1.0 {
		t.Errorf("Expected progress capped at 1.0, got %f", p)
	}
}

func TestModelLogTrimming(t *testing.T) {
	model := NewModel("golang", 0)
	model.maxLogMessages = 5

	for i := 0; i < 10; i++ {
		model.AddLogMessage("INFO", "message")
	}

	if len(model.logMessages) != 5 {
		t.Errorf("Expected 5 log messages after trimming, got %d", len(model.logMessages))
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{100, "100 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1024 * 1024, "1.0 MB"},
		{5 * 1024 * 1024 * 1024, "5.0 GB"},
	}

	for _, tt := range tests {
		if got := FormatBytes(tt.bytes); got != tt.expected {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.expected)
		}
	}
}
