package fsutil

import (
	"io"
	"os"
	"path/filepath"
)

func Copy(input string, output string) error {
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return err
	}
	src, err := os.Open(input)
	if err != nil {
		return err
	}
	defer src.Close()
	dest, err := NewOutputFile(output)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dest, src); err != nil {
		dest.Close()
		return err
	}
	return dest.Close()
}

func NewOutputFile(dest string) (*os.File, error) {
	return os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0o644)
}

// WriteFile creates any missing parent directories before writing.
func WriteFile(dest string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	f, err := NewOutputFile(dest)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
