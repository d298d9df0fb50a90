package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/thenoetrevino/relabel/internal/client"
	"github.com/thenoetrevino/relabel/internal/models"
)

// ============================================================================
// Mock Types for Testing
// ============================================================================

type mockDataWithID struct {
	ID   int
	Name string
}

func (m mockDataWithID) GetID() int {
	return m.ID
}

type mockDataWithoutID struct {
	Name  string
	Value int
}

func newFormatter(jsonOutput, quiet bool) (*OutputFormatter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &OutputFormatter{JSON: jsonOutput, Quiet: quiet, Out: &out, Err: &errOut}, &out, &errOut
}

func sampleLabels() []*models.Label {
	return []*models.Label{
		{ID: 1, Key: "about_title", Value: "About Us", Page: "about"},
		{ID: 2, Key: "nav_home", Value: "Home", Page: "navbar"},
		{ID: 3, Key: "nav_about", Value: "About", Page: "navbar"},
	}
}

// ============================================================================
// Success - JSON Mode
// ============================================================================

func TestOutputFormatter_Success_JSON(t *testing.T) {
	tests := []struct {
		name     string
		data     interface{}
		validate func(t *testing.T, data interface{})
	}{
		{
			name: "map data",
			data: map[string]interface{}{"test": "value"},
			validate: func(t *testing.T, data interface{}) {
				if data.(map[string]interface{})["test"] != "value" {
					t.Errorf("Expected data.test to be 'value', got %v", data)
				}
			},
		},
		{
			name: "label uses wire field names",
			data: &models.Label{ID: 7, Key: "nav_home", Value: "Home"},
			validate: func(t *testing.T, data interface{}) {
				m := data.(map[string]interface{})
				if m["label_key"] != "nav_home" || m["label_value"] != "Home" {
					t.Errorf("Unexpected label JSON: %v", m)
				}
			},
		},
		{
			name: "nil data",
			data: nil,
			validate: func(t *testing.T, data interface{}) {
				if data != nil {
					t.Errorf("Expected data to be nil, got %v", data)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter, out, _ := newFormatter(true, false)
			if err := formatter.Success(tt.data); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			var result map[string]interface{}
			if err := json.Unmarshal(out.Bytes(), &result); err != nil {
				t.Fatalf("Failed to parse JSON: %v\nOutput: %s", err, out.String())
			}
			if result["success"] != true {
				t.Error("Expected success to be true")
			}
			tt.validate(t, result["data"])
		})
	}
}

// ============================================================================
// Success - Quiet Mode
// ============================================================================

func TestOutputFormatter_Success_Quiet(t *testing.T) {
	tests := []struct {
		name       string
		data       interface{}
		wantOutput string
	}{
		{"value receiver with ID", mockDataWithID{ID: 42}, "42\n"},
		{"single label", &models.Label{ID: 9}, "9\n"},
		{"label list", sampleLabels(), "1\n2\n3\n"},
		{"history list", []*models.HistoryEntry{{ID: 5}, {ID: 4}}, "5\n4\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter, out, _ := newFormatter(false, true)
			if err := formatter.Success(tt.data); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if out.String() != tt.wantOutput {
				t.Errorf("Expected %q, got %q", tt.wantOutput, out.String())
			}
		})
	}
}

func TestOutputFormatter_Success_Quiet_WithoutID(t *testing.T) {
	// Without an ID the quiet formatter falls through to human output
	formatter, out, _ := newFormatter(false, true)
	if err := formatter.Success(mockDataWithoutID{Name: "x", Value: 1}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(out.String(), "Name:x") {
		t.Errorf("Expected struct dump, got %q", out.String())
	}
}

// ============================================================================
// Success - Human Mode
// ============================================================================

func TestOutputFormatter_Success_Human(t *testing.T) {
	t.Run("labels grouped by page", func(t *testing.T) {
		formatter, out, _ := newFormatter(false, false)
		if err := formatter.Success(sampleLabels()); err != nil {
			t.Fatal(err)
		}
		got := out.String()
		if strings.Count(got, "navbar") != 1 {
			t.Errorf("Expected one navbar header, got:\n%s", got)
		}
		if !strings.Contains(got, "nav_home") || !strings.Contains(got, `"About Us"`) {
			t.Errorf("Missing label rows:\n%s", got)
		}
	})

	t.Run("empty labels", func(t *testing.T) {
		formatter, out, _ := newFormatter(false, false)
		_ = formatter.Success([]*models.Label{})
		if !strings.Contains(out.String(), "No labels found") {
			t.Errorf("Got %q", out.String())
		}
	})

	t.Run("history", func(t *testing.T) {
		formatter, out, _ := newFormatter(false, false)
		_ = formatter.Success([]*models.HistoryEntry{{
			LabelKey: "nav_home", OldValue: "Home", NewValue: "Start",
			ChangedBy: "alice", ChangeType: models.ChangeCommand, CreatedAt: time.Now(),
		}})
		got := out.String()
		for _, want := range []string{"nav_home", `"Home"`, `"Start"`, "by alice (chatbot)"} {
			if !strings.Contains(got, want) {
				t.Errorf("Expected %q in %q", want, got)
			}
		}
	})

	t.Run("update", func(t *testing.T) {
		formatter, out, _ := newFormatter(false, false)
		_ = formatter.Success(&client.UpdateResponse{
			Label:         &models.Label{Key: "nav_home", Value: "Start"},
			PreviousValue: "Home",
		})
		if !strings.Contains(out.String(), "✓ Label nav_home updated") {
			t.Errorf("Got %q", out.String())
		}
	})
}

// ============================================================================
// Error Output
// ============================================================================

func TestOutputFormatter_Error_JSON(t *testing.T) {
	formatter, out, errOut := newFormatter(true, false)
	if err := formatter.ErrorWithSuggestion("LABEL_NOT_FOUND", "no such label", "try search"); err != nil {
		t.Fatal(err)
	}
	if errOut.Len() != 0 {
		t.Errorf("JSON errors go to stdout, stderr got %q", errOut.String())
	}

	var result struct {
		Success bool              `json:"success"`
		Error   map[string]string `json:"error"`
	}
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if result.Success {
		t.Error("Expected success to be false")
	}
	if result.Error["code"] != "LABEL_NOT_FOUND" || result.Error["suggestion"] != "try search" {
		t.Errorf("Unexpected error payload: %v", result.Error)
	}
}

func TestOutputFormatter_Error_Human(t *testing.T) {
	formatter, out, errOut := newFormatter(false, false)
	_ = formatter.Error("X", "boom")

	if out.Len() != 0 {
		t.Errorf("Human errors go to stderr, stdout got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "Error: boom") {
		t.Errorf("Got %q", errOut.String())
	}
	if strings.Contains(errOut.String(), "Suggestion") {
		t.Error("Empty suggestion should not be printed")
	}
}
