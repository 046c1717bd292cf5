package fileutil

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ErrFileExists is returned by WriteFile when the target exists and
// overwriting was not requested.
var ErrFileExists = errors.New("file already exists")

// FileExists reports whether a regular file exists at path.
func FileExists(fs afero.Fs, path string) (bool, error) {
	info, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check if file exists: %w", err)
	}
	return !info.IsDir(), nil
}

// DirExists reports whether a directory exists at path.
func DirExists(fs afero.Fs, path string) (bool, error) {
	info, err := fs.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat directory: %w", err)
	}
	return info.IsDir(), nil
}

// EnsureDirExists creates path and its parents when missing.
func EnsureDirExists(fs afero.Fs, path string) error {
	exists, err := DirExists(fs, path)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := fs.MkdirAll(path, ReadWriteExecuteUserReadExecuteOthers); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// WriteFile writes data to path, creating the parent directory. An existing
// file is only replaced when overwrite is true.
func WriteFile(fs afero.Fs, path string, data []byte, overwrite bool) error {
	if path == "" {
		return errors.New("output file path cannot be empty")
	}
	if isDir, err := DirExists(fs, path); err != nil {
		return err
	} else if isDir {
		return fmt.Errorf("output path %s is a directory", path)
	}
	if !overwrite {
		exists, err := FileExists(fs, path)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrFileExists, path)
		}
	}
	if err := EnsureDirExists(fs, filepath.Dir(path)); err != nil {
		return err
	}
	if err := afero.WriteFile(fs, path, data, ReadWriteUserReadOthers); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

// ReadLines reads path and returns its lines with surrounding whitespace
// trimmed. Blank lines are kept as empty strings; a trailing newline does not
// add an extra entry.
func ReadLines(fs afero.Fs, path string) ([]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()
	lines, err := ScanLines(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return lines, nil
}

// ScanLines is ReadLines over an arbitrary reader.
func ScanLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
