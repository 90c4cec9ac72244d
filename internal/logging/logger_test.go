package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// resetLogging clears the package state so each test initializes from
// scratch.
func resetLogging() {
	CloseAll()
	loggers = make(map[Category]*Logger)
	logsDir = ""
	opts = Options{}
	logLevel = LevelInfo
}

func allCategories() []Category {
	return []Category{
		CategoryBoot,
		CategoryFormalism,
		CategoryGrounding,
		CategoryAxioms,
		CategoryMatchTree,
		CategorySearch,
		CategoryStats,
	}
}

// TestAllCategoriesLog tests that all categories create log files when
// debug mode is on.
func TestAllCategoriesLog(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	resetLogging()
	if err := Initialize(tempDir, Options{DebugMode: true, Level: "debug"}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	for _, cat := range allCategories() {
		if !IsCategoryEnabled(cat) {
			t.Errorf("Category %s should be enabled", cat)
		}

		logger := Get(cat)
		logger.Info("Test info message for %s", cat)
		logger.Debug("Test debug message for %s", cat)
		logger.Warn("Test warn message for %s", cat)
		logger.Error("Test error message for %s", cat)
	}

	// Also test convenience functions
	Search("Convenience search log")
	SearchDebug("Convenience search debug log")
	Grounding("Convenience grounding log")
	Stats("Convenience stats log")

	// Close all loggers to flush
	CloseAll()

	logsPath := filepath.Join(tempDir, ".symplan", "logs")
	entries, err := os.ReadDir(logsPath)
	if err != nil {
		t.Fatalf("Failed to read logs dir: %v", err)
	}
	t.Logf("Created %d log files in %s", len(entries), logsPath)

	for _, cat := range allCategories() {
		found := false
		for _, entry := range entries {
			if strings.Contains(entry.Name(), string(cat)+".log") {
				found = true
				content, err := os.ReadFile(filepath.Join(logsPath, entry.Name()))
				if err != nil {
					t.Errorf("Failed to read log file for %s: %v", cat, err)
					continue
				}
				if len(content) == 0 {
					t.Errorf("Log file for %s is empty", cat)
				}
				break
			}
		}
		if !found {
			t.Errorf("No log file found for category: %s", cat)
		}
	}
}

// TestDebugModeDisabled tests that no logs are created when debug mode
// is off.
func TestDebugModeDisabled(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test_disabled")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	resetLogging()
	if err := Initialize(tempDir, Options{DebugMode: false, Level: "debug"}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	for _, cat := range allCategories() {
		if IsCategoryEnabled(cat) {
			t.Errorf("Category %s should be disabled when debug mode is off", cat)
		}
	}

	// Try to log - should be no-ops
	Search("This should NOT be logged")
	Grounding("This should NOT be logged")

	logger := Get(CategoryBoot)
	logger.Info("This should NOT be logged")
	logger.Error("This should NOT be logged")

	CloseAll()

	logsPath := filepath.Join(tempDir, ".symplan", "logs")
	if _, err := os.Stat(logsPath); err == nil {
		entries, _ := os.ReadDir(logsPath)
		if len(entries) > 0 {
			t.Errorf("Expected no log files in production mode, found %d", len(entries))
		}
	} else if !os.IsNotExist(err) {
		t.Fatalf("Failed to stat logs dir: %v", err)
	}
}

// TestCategoryToggle tests individual category enable/disable.
func TestCategoryToggle(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test_category")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	resetLogging()
	err = Initialize(tempDir, Options{
		DebugMode: true,
		Level:     "debug",
		Categories: map[string]bool{
			"search":    true,
			"grounding": false,
		},
	})
	if err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	if !IsCategoryEnabled(CategorySearch) {
		t.Error("search category should be enabled")
	}
	if IsCategoryEnabled(CategoryGrounding) {
		t.Error("grounding category should be disabled")
	}
	// Unlisted categories default to enabled in debug mode.
	if !IsCategoryEnabled(CategoryAxioms) {
		t.Error("unlisted category should default to enabled")
	}

	Search("logged")
	Grounding("not logged")
	CloseAll()

	logsPath := filepath.Join(tempDir, ".symplan", "logs")
	entries, err := os.ReadDir(logsPath)
	if err != nil {
		t.Fatalf("Failed to read logs dir: %v", err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), "grounding.log") {
			t.Errorf("Disabled category produced a log file: %s", entry.Name())
		}
	}
}

// TestLevelFiltering tests that messages below the configured level are
// suppressed.
func TestLevelFiltering(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "logging_test_level")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	resetLogging()
	if err := Initialize(tempDir, Options{DebugMode: true, Level: "warn"}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	logger := Get(CategorySearch)
	logger.Debug("suppressed debug")
	logger.Info("suppressed info")
	logger.Warn("visible warn")
	logger.Error("visible error")
	CloseAll()

	content := readCategoryLog(t, tempDir, CategorySearch)
	if strings.Contains(content, "suppressed") {
		t.Error("messages below the warn level must be suppressed")
	}
	if !strings.Contains(content, "visible warn") || !strings.Contains(content, "visible error") {
		t.Error("warn and error messages must be written")
	}
}

// TestTextAndJSONFormats tests both output formats of a log line.
func TestTextAndJSONFormats(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		tempDir, err := os.MkdirTemp("", "logging_test_text")
		if err != nil {
			t.Fatalf("Failed to create temp dir: %v", err)
		}
		defer os.RemoveAll(tempDir)

		resetLogging()
		if err := Initialize(tempDir, Options{DebugMode: true, Level: "info"}); err != nil {
			t.Fatalf("Failed to initialize logging: %v", err)
		}
		Get(CategorySearch).Info("plain text line")
		CloseAll()

		content := readCategoryLog(t, tempDir, CategorySearch)
		if !strings.Contains(content, "[INFO] plain text line") {
			t.Errorf("expected a tagged text line, got:\n%s", content)
		}
	})

	t.Run("json", func(t *testing.T) {
		tempDir, err := os.MkdirTemp("", "logging_test_json")
		if err != nil {
			t.Fatalf("Failed to create temp dir: %v", err)
		}
		defer os.RemoveAll(tempDir)

		resetLogging()
		if err := Initialize(tempDir, Options{DebugMode: true, Level: "info", JSONFormat: true}); err != nil {
			t.Fatalf("Failed to initialize logging: %v", err)
		}
		Get(CategorySearch).Info("structured line")
		CloseAll()

		content := readCategoryLog(t, tempDir, CategorySearch)
		line := ""
		for _, l := range strings.Split(content, "\n") {
			if strings.Contains(l, "structured line") {
				line = l
				break
			}
		}
		if line == "" {
			t.Fatalf("log line not found in:\n%s", content)
		}
		// The logger prefixes each line with date/time; the payload
		// starts at the first brace.
		idx := strings.Index(line, "{")
		if idx < 0 {
			t.Fatalf("no JSON payload in line %q", line)
		}
		var entry StructuredEntry
		if err := json.Unmarshal([]byte(line[idx:]), &entry); err != nil {
			t.Fatalf("Failed to parse JSON entry: %v", err)
		}
		if entry.Category != string(CategorySearch) || entry.Level != "INFO" || entry.Message != "structured line" {
			t.Errorf("unexpected entry %+v", entry)
		}
		if entry.Timestamp == 0 {
			t.Error("entry must carry a timestamp")
		}
	})
}

// TestTimer tests the duration helpers.
func TestTimer(t *testing.T) {
	resetLogging()

	timer := StartTimer(CategorySearch, "op")
	if d := timer.Stop(); d < 0 {
		t.Errorf("expected a non-negative duration, got %v", d)
	}
	timer = StartTimer(CategorySearch, "op2")
	if d := timer.StopWithInfo(); d < 0 {
		t.Errorf("expected a non-negative duration, got %v", d)
	}
}

func readCategoryLog(t *testing.T, workspace string, cat Category) string {
	t.Helper()
	logsPath := filepath.Join(workspace, ".symplan", "logs")
	entries, err := os.ReadDir(logsPath)
	if err != nil {
		t.Fatalf("Failed to read logs dir: %v", err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), string(cat)+".log") {
			content, err := os.ReadFile(filepath.Join(logsPath, entry.Name()))
			if err != nil {
				t.Fatalf("Failed to read log file: %v", err)
			}
			return string(content)
		}
	}
	t.Fatalf("No log file for category %s", cat)
	return ""
}
