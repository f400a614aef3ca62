package sim

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"splatwatch/internal/status"
)

// StatusWriter is an interface to support different status outputs.
type StatusWriter interface {
	WriteStatus(status.Document) error
}

// Optional: writers that can place raw bytes at the artifact path,
// used by chaos mode to simulate torn writes.
type rawWriter interface {
	WriteRaw([]byte) error
}

// FileWriter overwrites a status artifact on every write. By default
// it writes to a temp file in the same directory and renames it over
// the target, so readers never observe a partial document.
type FileWriter struct {
	path   string
	atomic bool
}

// NewFileWriter creates a FileWriter targeting path. atomic selects
// temp-and-rename replacement over in-place writes.
func NewFileWriter(path string, atomic bool) *FileWriter {
	return &FileWriter{path: path, atomic: atomic}
}

// WriteStatus replaces the artifact with doc.
func (w *FileWriter) WriteStatus(doc status.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if !w.atomic {
		return os.WriteFile(w.path, data, 0o644)
	}
	tmp, err := os.CreateTemp(filepath.Dir(w.path), ".status-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), w.path)
}

// WriteRaw places bytes at the artifact path without the atomic
// replacement, deliberately exposing readers to partial content.
func (w *FileWriter) WriteRaw(data []byte) error {
	return os.WriteFile(w.path, data, 0o644)
}

// StdoutWriter prints status documents as JSON lines to STDOUT.
type StdoutWriter struct{}

// WriteStatus outputs a single status document.
func (w *StdoutWriter) WriteStatus(doc status.Document) error {
	data, _ := json.Marshal(doc)
	fmt.Println(string(data))
	return nil
}

// MultiWriter fans status documents out to several writers.
type MultiWriter struct {
	writers []StatusWriter
}

// NewMultiWriter combines writers into one.
func NewMultiWriter(writers ...StatusWriter) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteStatus writes doc to all writers, returning the first error.
func (m *MultiWriter) WriteStatus(doc status.Document) error {
	for _, w := range m.writers {
		if err := w.WriteStatus(doc); err != nil {
			return err
		}
	}
	return nil
}

// WriteRaw forwards raw bytes to the writers that support them.
func (m *MultiWriter) WriteRaw(data []byte) error {
	for _, w := range m.writers {
		if rw, ok := w.(rawWriter); ok {
			if err := rw.WriteRaw(data); err != nil {
				return err
			}
		}
	}
	return nil
}
