package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

type Storer interface {
	Store(in io.Reader, path ...string) (StoredFile, error)
	Load(path ...string) (io.ReadCloser, error)
	Exists(path ...string) (bool, error)
}

type StoredFile struct {
	Path         string
	AbsolutePath string
}

func NewLocalStorage(location string) (Storer, error) {
	if err := os.MkdirAll(location, 0750); err != nil {
		return nil, fmt.Errorf("failed to create storage dir %s %w", location, err)
	}

	return &localStorage{
		location: location,
	}, nil
}

type localStorage struct {
	location string
}

func (s *localStorage) fromBasePath(path ...string) (string, error) {
	baseDir := s.location
	targetDir := filepath.Join(baseDir, filepath.Join(path...))
	targetDir = filepath.Clean(targetDir)

	if !strings.HasPrefix(targetDir, baseDir) {
		return "", fmt.Errorf("path is not within base path, %s", baseDir)
	}

	return targetDir, nil
}

// Store writes the content into a temporary sibling file first and moves it
// over the target afterwards. A crash mid-write never leaves a half written
// file behind under the target name.
func (s *localStorage) Store(r io.Reader, path ...string) (StoredFile, error) {
	filePath, err := s.fromBasePath(path...)
	if err != nil {
		return StoredFile{}, err
	}

	if len(path) > 1 {
		if err := os.MkdirAll(filepath.Dir(filePath), 0750); err != nil {
			return StoredFile{}, fmt.Errorf("failed to create sub dirs for %s %w", filePath, err)
		}
	}

	tmpPath := filePath + ".tmp"
	if err = s.writeFile(tmpPath, r); err != nil {
		_ = os.Remove(tmpPath)

		return StoredFile{}, err
	}

	if err = os.Rename(tmpPath, filePath); err != nil {
		_ = os.Remove(tmpPath)

		return StoredFile{}, fmt.Errorf("failed to move %s into place %w", tmpPath, err)
	}

	return StoredFile{
		AbsolutePath: filePath,
		Path:         s.removeBasePath(filePath),
	}, nil
}

func (s *localStorage) writeFile(filePath string, r io.Reader) (err error) {
	// #nosec G304 fromBasePath does already a path cleanup
	target, err := os.OpenFile(filePath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create empty file %s %w", filePath, err)
	}
	defer func(toClose *os.File) {
		cErr := toClose.Close()
		if cErr != nil {
			// report close errors
			if err == nil {
				err = cErr
			} else {
				err = errors.Wrap(err, cErr.Error())
			}
		}
	}(target)

	if _, err = io.Copy(target, r); err != nil {
		return fmt.Errorf("failed to copy file %w", err)
	}

	if err = target.Sync(); err != nil {
		return fmt.Errorf("failed to sync file %w", err)
	}

	return err
}

func (s *localStorage) removeBasePath(path string) string {
	noBasePath := strings.TrimPrefix(path, s.location)
	noBasePath = strings.TrimPrefix(noBasePath, "/")

	return noBasePath
}

func (s *localStorage) Load(path ...string) (io.ReadCloser, error) {
	filePath, err := s.fromBasePath(path...)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get file info %s %w", filePath, err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("loading a directory is not supported")
	}

	// #nosec G304 fromBasePath does already a path cleanup
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s %w", filePath, err)
	}

	return file, nil
}

func (s *localStorage) Exists(path ...string) (bool, error) {
	filePath, err := s.fromBasePath(path...)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, fmt.Errorf("failed to get file info %s %w", filePath, err)
	}

	return !info.IsDir(), nil
}
