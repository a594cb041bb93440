package capfile

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	caperrors "github.com/FocuswithJustin/capgen/core/errors"
)

func TestOutputName(t *testing.T) {
	tests := []struct {
		id      string
		want    string
		wantErr bool
	}{
		{"OM", "OM.cap", false},
		{" KSU ", "KSU.cap", false},
		{"A/B", "A_B.cap", false},
		{"", "", true},
		{"..", "", true},
	}
	for _, tt := range tests {
		got, err := OutputName(tt.id)
		if (err != nil) != tt.wantErr {
			t.Errorf("OutputName(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("OutputName(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestDigest(t *testing.T) {
	a := Digest([]byte("cap"))
	if len(a) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(a))
	}
	if a != Digest([]byte("cap")) {
		t.Error("digest is not deterministic")
	}
	if a == Digest([]byte("cap2")) {
		t.Error("different inputs share a digest")
	}
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	data := []byte("header and records")

	path, err := WriteFile(dir, "OM", data)
	if err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if path != filepath.Join(dir, "OM.cap") {
		t.Errorf("path = %q", path)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(data) {
		t.Errorf("content = %q", got)
	}

	// Overwrites in place and leaves no temp files behind.
	if _, err := WriteFile(dir, "OM", []byte("second")); err != nil {
		t.Fatalf("second WriteFile failed: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want 1", len(entries))
	}
	got, _ = os.ReadFile(path)
	if string(got) != "second" {
		t.Errorf("content after overwrite = %q", got)
	}
}

func TestWriteFileBadTeamID(t *testing.T) {
	_, err := WriteFile(t.TempDir(), "", []byte("x"))
	if caperrors.KindOf(err) != caperrors.KindWriteFailed {
		t.Errorf("err = %v, want write failure", err)
	}
}

func TestWriteFileRenameError(t *testing.T) {
	orig := osRename
	defer func() { osRename = orig }()
	osRename = func(string, string) error { return errors.New("rename refused") }

	dir := t.TempDir()
	_, err := WriteFile(dir, "OM", []byte("x"))
	if caperrors.KindOf(err) != caperrors.KindWriteFailed {
		t.Fatalf("err = %v, want write failure", err)
	}
	if !strings.Contains(err.Error(), "rename refused") {
		t.Errorf("err = %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("temp file left behind: %v", entries)
	}
}

func TestWriteFileWriteError(t *testing.T) {
	orig := tempFileWrite
	defer func() { tempFileWrite = orig }()
	tempFileWrite = func(*os.File, []byte) (int, error) { return 0, errors.New("disk full") }

	dir := t.TempDir()
	_, err := WriteFile(dir, "OM", []byte("x"))
	if caperrors.KindOf(err) != caperrors.KindWriteFailed {
		t.Fatalf("err = %v, want write failure", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "OM.cap")); !os.IsNotExist(statErr) {
		t.Error("no output should exist after a failed write")
	}
}

func TestWriteFileCloseError(t *testing.T) {
	orig := tempFileClose
	defer func() { tempFileClose = orig }()
	tempFileClose = func(c io.Closer) error {
		c.Close()
		return errors.New("close failed")
	}

	if _, err := WriteFile(t.TempDir(), "OM", []byte("x")); caperrors.KindOf(err) != caperrors.KindWriteFailed {
		t.Errorf("err = %v, want write failure", err)
	}
}
