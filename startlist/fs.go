package startlist

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileStore abstracts the folders the vendor files live in.
type FileStore interface {
	// ReadText returns the contents of folder/name, failing with a
	// descriptive error when the file is absent or unreadable.
	ReadText(folder, name string) (string, error)
	// CopyFile copies srcFolder/name over dstFolder/name, replacing any
	// existing file.
	CopyFile(srcFolder, dstFolder, name string) error
}

// LocalFileStore reads meet folders straight off the local filesystem.
type LocalFileStore struct{}

func NewLocalFileStore() LocalFileStore {
	return LocalFileStore{}
}

func (LocalFileStore) ReadText(folder, name string) (string, error) {
	path := filepath.Join(folder, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read start list file %s: %w", path, err)
	}
	return string(data), nil
}

func (LocalFileStore) CopyFile(srcFolder, dstFolder, name string) error {
	srcPath := filepath.Join(srcFolder, name)
	dstPath := filepath.Join(dstFolder, name)

	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open interface file %s: %w", srcPath, err)
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dstPath, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", srcPath, dstPath, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("failed to finish copy to %s: %w", dstPath, err)
	}
	return nil
}
