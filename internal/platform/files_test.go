package platform

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// recordCommands replaces command execution for the duration of the test.
func recordCommands(t *testing.T, fail map[string]bool) *[][]string {
	t.Helper()
	var calls [][]string

	origRun, origLook := runCommand, lookPath
	runCommand = func(name string, args ...string) error {
		calls = append(calls, append([]string{name}, args...))
		if fail[name] {
			return errors.New("command failed")
		}
		return nil
	}
	lookPath = func(file string) (string, error) {
		if file == "thunar" {
			return "/usr/bin/thunar", nil
		}
		return "", errors.New("not found")
	}
	t.Cleanup(func() {
		runCommand, lookPath = origRun, origLook
	})
	return &calls
}

func writeTempImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photo.png")
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	return path
}

func TestCreateDirectoryIfNotExists(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "test_dir")

	if _, err := os.Stat(testDir); !os.IsNotExist(err) {
		t.Fatalf("Test directory already exists: %s", testDir)
	}

	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	if _, err := os.Stat(testDir); os.IsNotExist(err) {
		t.Fatalf("Directory was not created: %s", testDir)
	}

	// Second call should not fail
	if err := CreateDirectoryIfNotExists(testDir); err != nil {
		t.Fatalf("Failed to handle existing directory: %v", err)
	}
}

func TestGetHomePicturesDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	dir, err := GetHomePicturesDir()
	if err != nil {
		t.Fatalf("Failed to get pictures directory: %v", err)
	}
	if dir != filepath.Join(home, "Pictures") {
		t.Errorf("Expected default Pictures dir, got: %s", dir)
	}

	photos := filepath.Join(home, "Photos")
	if err := os.Mkdir(photos, 0o755); err != nil {
		t.Fatal(err)
	}
	dir, err = GetHomePicturesDir()
	if err != nil {
		t.Fatalf("Failed to get pictures directory: %v", err)
	}
	if dir != photos {
		t.Errorf("Expected existing Photos dir, got: %s", dir)
	}
}

func TestResolveImagePath(t *testing.T) {
	path := writeTempImage(t)

	got, err := ResolveImagePath(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("Expected absolute path, got: %s", got)
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"empty", "", "empty"},
		{"missing", filepath.Join(t.TempDir(), "nope.png"), "does not exist"},
		{"directory", t.TempDir(), "not a file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveImagePath(tt.path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got: %v", tt.want, err)
			}
		})
	}
}

func TestOpenWithDefaultApp(t *testing.T) {
	calls := recordCommands(t, nil)
	path := writeTempImage(t)

	err := OpenWithDefaultApp(path)
	switch runtime.GOOS {
	case OSDarwin, OSWindows, OSLinux:
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	default:
		t.Skipf("unsupported OS %s", runtime.GOOS)
	}

	if len(*calls) != 1 {
		t.Fatalf("Expected one command, got %v", *calls)
	}
	call := (*calls)[0]
	if call[len(call)-1] != path {
		t.Errorf("Expected file as last argument, got %v", call)
	}
}

func TestOpenFileInManager_LinuxFallback(t *testing.T) {
	if runtime.GOOS != OSLinux {
		t.Skip("linux only")
	}
	calls := recordCommands(t, map[string]bool{XDGOpenCommand: true})
	path := writeTempImage(t)

	if err := OpenFileInManager(path); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := [][]string{
		{XDGOpenCommand, filepath.Dir(path)},
		{"thunar", filepath.Dir(path)},
	}
	if len(*calls) != len(want) {
		t.Fatalf("Expected %v, got %v", want, *calls)
	}
	for i := range want {
		if strings.Join((*calls)[i], " ") != strings.Join(want[i], " ") {
			t.Errorf("Call %d: expected %v, got %v", i, want[i], (*calls)[i])
		}
	}
}

func TestOpenFileInManager_NonExistentFile(t *testing.T) {
	calls := recordCommands(t, nil)
	nonExistentFile := filepath.Join(t.TempDir(), "nonexistent.png")

	if err := OpenFileInManager(nonExistentFile); err == nil {
		t.Error("Expected error for non-existent file")
	}
	if len(*calls) != 0 {
		t.Errorf("No command should run for a missing file, got %v", *calls)
	}
}
