package utils

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoURL is returned by ReadURLFile when the shortcut has no URL= entry.
var ErrNoURL = errors.New("no URL entry")

// Supported audio file extensions
var audioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
}

// IsAudioFile reports whether path has a supported audio extension.
func IsAudioFile(path string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}

// CheckDependencies verifies that the given external commands are installed
func CheckDependencies(commands ...string) error {
	var missing []string
	for _, name := range commands {
		if _, err := exec.LookPath(name); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required commands not found in PATH: %s", strings.Join(missing, ", "))
	}
	return nil
}

// CreateTempDir creates a temporary folder for staged artwork
func CreateTempDir() (string, error) {
	dir, err := os.MkdirTemp("", "bear-tunes-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary directory: %w", err)
	}
	return dir, nil
}

// Cleanup removes the temporary folder.
// Safety check: only deletes directories in /tmp
func Cleanup(dir string) error {
	if dir == "" {
		return nil
	}

	if !strings.HasPrefix(filepath.Clean(dir), filepath.Clean(os.TempDir())) {
		return fmt.Errorf("refusing to delete directory outside temp folder: %s", dir)
	}

	return os.RemoveAll(dir)
}

// FindAudioFiles recursively finds all MP3 and FLAC files in a directory,
// sorted by path.
func FindAudioFiles(dir string) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("directory path cannot be empty")
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("directory does not exist: %s", dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && IsAudioFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", dir, err)
	}

	sort.Strings(files)
	return files, nil
}

// ReplaceExtension swaps the extension of path for ext (which includes the dot).
func ReplaceExtension(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// SecondsToTimeFormat renders a duration as m:ss, or h:mm:ss from one hour up.
func SecondsToTimeFormat(seconds float64) string {
	total := int(seconds + 0.5)
	h, m, s := total/3600, total%3600/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FirstLine returns s up to its first line break.
func FirstLine(s string) string {
	s = strings.TrimLeft(s, "\r\n")
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}

// ReadURLFile reads an internet shortcut file and returns the value of its
// first URL= line.
func ReadURLFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if value, ok := strings.CutPrefix(line, "URL="); ok && value != "" {
			return value, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return "", fmt.Errorf("%s: %w", path, ErrNoURL)
}
