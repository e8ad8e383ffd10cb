package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFAQ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faq.json")
	content := `[
		{"question": "what are your office hours", "answer": "9am to 6pm"},
		{"question": "where is your office", "answer": "Business Bay"}
	]`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	faq, err := LoadFAQ(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(faq.Questions) != 2 || len(faq.Answers) != 2 {
		t.Fatalf("loaded %d/%d entries, want 2/2", len(faq.Questions), len(faq.Answers))
	}
	if answer, ok := faq.AnswerFor("where is your office"); !ok || answer != "Business Bay" {
		t.Fatalf("AnswerFor = %q, %v", answer, ok)
	}
}

func TestLoadFAQRejectsEmptyFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faq.json")
	if err := os.WriteFile(path, []byte(`[{"question": "", "answer": "x"}]`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFAQ(path); err == nil {
		t.Fatal("expected error for empty question")
	}
}

func TestLoadFAQMissingFile(t *testing.T) {
	if _, err := LoadFAQ(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSplitList(t *testing.T) {
	got := splitList("http://a:9090, http://b:9090 ,")
	if len(got) != 2 || got[0] != "http://a:9090" || got[1] != "http://b:9090" {
		t.Fatalf("splitList = %v", got)
	}
}
