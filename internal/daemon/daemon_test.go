package daemon

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPIDFileLifecycle(t *testing.T) {
	d := New(filepath.Join(t.TempDir(), "niribar.pid"))

	pid, err := d.ReadPID()
	if err != nil || pid != 0 {
		t.Fatalf("ReadPID() on missing file = %d, %v, want 0, nil", pid, err)
	}

	if err := d.WritePID(); err != nil {
		t.Fatalf("WritePID() error: %v", err)
	}

	running, pid, err := d.IsRunning()
	if err != nil || !running || pid != os.Getpid() {
		t.Errorf("IsRunning() = %v, %d, %v, want true, %d", running, pid, err, os.Getpid())
	}

	if err := d.RemovePID(); err != nil {
		t.Fatalf("RemovePID() error: %v", err)
	}
	if err := d.RemovePID(); err != nil {
		t.Errorf("second RemovePID() error: %v", err)
	}
}

func TestStalePIDFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "niribar.pid")
	// PIDs are capped well below this on Linux
	if err := os.WriteFile(path, []byte("99999999\n"), 0644); err != nil {
		t.Fatal(err)
	}
	d := New(path)

	running, _, err := d.IsRunning()
	if err != nil || running {
		t.Errorf("IsRunning() = %v, %v, want false, nil", running, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("stale PID file should be removed")
	}

	if err := d.Stop(time.Second); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Stop() error = %v, want ErrNotRunning", err)
	}
}

func TestInvalidPIDFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "niribar.pid")
	os.WriteFile(path, []byte("garbage"), 0644)

	if _, err := New(path).ReadPID(); err == nil {
		t.Error("ReadPID() expected error for garbage content")
	}
}
