//go:build !windows

package testutil

import (
	"net"
	"os"
	"path/filepath"
	"testing"
)

// ListenUnixSocket serves socketName in a fresh directory and returns both.
// Every connection gets a line of garbage and is closed, so a driver that
// dials the socket fails with a protocol error rather than ECONNREFUSED.
// The listener and directory are removed when the test ends.
func ListenUnixSocket(t *testing.T, socketName string) (dir, path string) {
	t.Helper()

	// t.TempDir paths can exceed the sun_path limit on macOS.
	dir, err := os.MkdirTemp("", "migrator-sock")
	if err != nil {
		t.Fatal(err)
	}
	path = filepath.Join(dir, socketName)
	listener, err := net.Listen("unix", path)
	if err != nil {
		os.RemoveAll(dir)
		t.Fatal(err)
	}
	t.Cleanup(func() {
		listener.Close()
		os.RemoveAll(dir)
	})

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			conn.Write([]byte("not a database\n"))
			conn.Close()
		}
	}()
	return dir, path
}
