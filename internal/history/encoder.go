package history

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Encode writes the session to w as TOML
func Encode(w io.Writer, session *Session) error {
	if session == nil {
		return fmt.Errorf("history: session is nil")
	}

	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(session)
}

// Decode reads a session written by Encode
func Decode(r io.Reader) (*Session, error) {
	var session Session
	if _, err := toml.NewDecoder(r).Decode(&session); err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return &session, nil
}

// Save encodes the session and writes it to filename atomically
func Save(filename string, session *Session) error {
	var buf bytes.Buffer
	if err := Encode(&buf, session); err != nil {
		return err
	}
	return writeFileAtomic(filename, buf.Bytes(), 0o644)
}

// writeFileAtomic writes to a temporary file in the same directory and renames
// it into place, so readers see either the old file or the complete new one.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	ok := false
	defer func() {
		if !ok {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	ok = true
	return nil
}
