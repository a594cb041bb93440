package capfile

import (
	"encoding/hex"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"

	caperrors "github.com/FocuswithJustin/capgen/core/errors"
	"github.com/FocuswithJustin/capgen/internal/validation"
)

// Extension is the output file suffix.
const Extension = ".cap"

// osRename is a variable to allow testing of rename errors.
var osRename = os.Rename

// tempFileWrite is a function variable for writing to temp files (for testing).
var tempFileWrite = func(f *os.File, data []byte) (int, error) {
	return f.Write(data)
}

// tempFileClose is a function variable for closing temp files (for testing).
var tempFileClose = func(f io.Closer) error {
	return f.Close()
}

// OutputName returns "<teamId>.cap" with the id made safe for a file name.
func OutputName(teamID string) (string, error) {
	name, err := validation.SanitizeFilename(teamID)
	if err != nil {
		return "", caperrors.Wrapf(err, "team id %q", teamID)
	}
	return name + Extension, nil
}

// Digest returns the hex BLAKE3-256 digest of an encoded file.
func Digest(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}

// WriteFile writes data to dir/<teamId>.cap through a temp file and rename,
// so readers never see a partial file. It returns the final path.
func WriteFile(dir, teamID string, data []byte) (string, error) {
	name, err := OutputName(teamID)
	if err != nil {
		return "", caperrors.NewIO("create", filepath.Join(dir, teamID+Extension), err)
	}
	path := filepath.Join(dir, name)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", caperrors.NewIO("create", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, ".cap-*")
	if err != nil {
		return "", caperrors.NewIO("create", path, err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFileWrite(tempFile, data); err != nil {
		tempFileClose(tempFile)
		os.Remove(tempPath)
		return "", caperrors.NewIO("write", path, err)
	}

	if err := tempFileClose(tempFile); err != nil {
		os.Remove(tempPath)
		return "", caperrors.NewIO("write", path, err)
	}

	if err := os.Chmod(tempPath, 0o644); err != nil {
		os.Remove(tempPath)
		return "", caperrors.NewIO("write", path, err)
	}

	if err := osRename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return "", caperrors.NewIO("rename", path, err)
	}

	return path, nil
}
