package utils

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestFindAudioFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.mp3", "a.FLAC", "cover.jpg", "sub/c.mp3", "notes.txt"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := FindAudioFiles(dir)
	if err != nil {
		t.Fatalf("FindAudioFiles() error: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.FLAC"),
		filepath.Join(dir, "b.mp3"),
		filepath.Join(dir, "sub", "c.mp3"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindAudioFiles() = %v, want %v", got, want)
	}

	if _, err := FindAudioFiles(filepath.Join(dir, "b.mp3")); err == nil {
		t.Error("FindAudioFiles() on a file should fail")
	}
}

func TestSecondsToTimeFormat(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{59.4, "0:59"},
		{61, "1:01"},
		{421.52, "7:02"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
	}
	for _, tt := range tests {
		if got := SecondsToTimeFormat(tt.seconds); got != tt.want {
			t.Errorf("SecondsToTimeFormat(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"single", "single"},
		{"eyeD3: error\nTraceback (most recent call last):\n  File", "eyeD3: error"},
		{"\nleading newline\nsecond", "leading newline"},
		{"crlf\r\nnext", "crlf"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FirstLine(tt.in); got != tt.want {
			t.Errorf("FirstLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReplaceExtension(t *testing.T) {
	if got := ReplaceExtension("/music/01 - Track.flac", ".mp3"); got != "/music/01 - Track.mp3" {
		t.Errorf("ReplaceExtension() = %q", got)
	}
	if got := ReplaceExtension("/music/Track", ".url"); got != "/music/Track.url" {
		t.Errorf("ReplaceExtension() = %q", got)
	}
}

func TestReadURLFile(t *testing.T) {
	dir := t.TempDir()

	withURL := filepath.Join(dir, "track.url")
	content := "[InternetShortcut]\r\nURL=https://www.beatport.com/track/strobe/1234\r\n"
	if err := os.WriteFile(withURL, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadURLFile(withURL)
	if err != nil {
		t.Fatalf("ReadURLFile() error: %v", err)
	}
	if got != "https://www.beatport.com/track/strobe/1234" {
		t.Errorf("ReadURLFile() = %q", got)
	}

	empty := filepath.Join(dir, "empty.url")
	if err := os.WriteFile(empty, []byte("[InternetShortcut]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadURLFile(empty); !errors.Is(err, ErrNoURL) {
		t.Errorf("ReadURLFile() error = %v, want ErrNoURL", err)
	}

	if _, err := ReadURLFile(filepath.Join(dir, "missing.url")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadURLFile() error = %v, want not exist", err)
	}
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.mp3")
	if err := os.WriteFile(src, []byte("audio"), 0644); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dir, "Techno", "Artist", "Artist - Song.mp3")
	if err := MoveFile(src, dst); err != nil {
		t.Fatalf("MoveFile() error: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source should be gone after move")
	}
	if data, err := os.ReadFile(dst); err != nil || string(data) != "audio" {
		t.Errorf("destination content = %q, err = %v", data, err)
	}

	other := filepath.Join(dir, "other.mp3")
	if err := os.WriteFile(other, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := MoveFile(other, dst); err == nil {
		t.Error("MoveFile() should refuse to overwrite an existing file")
	}
	if err := MoveFile(dst, dst); err != nil {
		t.Errorf("MoveFile() onto itself error: %v", err)
	}
}

func TestCleanupRefusesOutsideTemp(t *testing.T) {
	if err := Cleanup("/home/someone/music"); err == nil {
		t.Error("Cleanup() should refuse directories outside the temp folder")
	}
	if err := Cleanup(""); err != nil {
		t.Errorf("Cleanup(\"\") error: %v", err)
	}
}
