//go:build smoke

package smoke

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/codr1/Arena/internal/api/auth"
)

const ownerPassword = "smoke-owner-pass"

// arena is a server binary running against a scratch database.
type arena struct {
	baseURL string
	stdout  bytes.Buffer
	stderr  bytes.Buffer
	exited  chan struct{}
	exitErr error
}

func (a *arena) url(path string) string { return a.baseURL + path }

func (a *arena) failf(t *testing.T, format string, args ...any) {
	t.Helper()
	t.Fatalf("%s\nstdout:\n%s\nstderr:\n%s", fmt.Sprintf(format, args...), a.stdout.String(), a.stderr.String())
}

func startArena(t *testing.T) *arena {
	t.Helper()

	workDir := t.TempDir()
	binPath := filepath.Join(workDir, "arena-server")
	build := exec.Command("go", "build", "-o", binPath, "./cmd/server")
	build.Dir = repoRoot(t)
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("build server: %v\n%s", err, out)
	}

	port := freePort(t)
	configPath := filepath.Join(workDir, "app.yaml")
	writeConfig(t, configPath, port, workDir)

	hash, err := auth.HashPassword(ownerPassword)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	a := &arena{
		baseURL: fmt.Sprintf("http://127.0.0.1:%d", port),
		exited:  make(chan struct{}),
	}
	cmd := exec.Command(binPath, "-config", configPath)
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(),
		"APP_SECRET_KEY=smoke-secret-key-0123456789",
		"OWNER_PASSWORD_HASH="+hash,
	)
	cmd.Stdout = &a.stdout
	cmd.Stderr = &a.stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	go func() {
		a.exitErr = cmd.Wait()
		close(a.exited)
	}()

	t.Cleanup(func() {
		_ = cmd.Process.Signal(os.Interrupt)
		select {
		case <-a.exited:
		case <-time.After(5 * time.Second):
			_ = cmd.Process.Kill()
			<-a.exited
		}
	})

	a.waitHealthy(t)
	return a
}

func writeConfig(t *testing.T, path string, port int, dir string) {
	t.Helper()

	body := fmt.Sprintf(`app:
  name: "Arena"
  environment: "development"
  port: %d
  base_url: "http://127.0.0.1:%d"

database:
  driver: "sqlite"
  filename: %q

storage:
  driver: "local"
  local_dir: %q

scheduler:
  kickoff_cron: "* * * * *"
`, port, port,
		filepath.ToSlash(filepath.Join(dir, "db", "arena.db")),
		filepath.ToSlash(filepath.Join(dir, "uploads")))

	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func (a *arena) waitHealthy(t *testing.T) {
	t.Helper()

	client := &http.Client{Timeout: 500 * time.Millisecond}
	deadline := time.Now().Add(10 * time.Second)
	for {
		select {
		case <-a.exited:
			a.failf(t, "server exited before becoming healthy: %v", a.exitErr)
		default:
		}

		if resp, err := client.Get(a.url("/health")); err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		if time.Now().After(deadline) {
			a.failf(t, "timed out waiting for /health")
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func TestPublicPages(t *testing.T) {
	a := startArena(t)
	client := &http.Client{Timeout: 2 * time.Second}

	for _, path := range []string{"/", "/sports", "/players", "/register", "/api/v1/sports", "/api/v1/players"} {
		resp, err := client.Get(a.url(path))
		if err != nil {
			a.failf(t, "GET %s: %v", path, err)
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			a.failf(t, "GET %s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}

func TestOwnerLogin(t *testing.T) {
	a := startArena(t)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	client := &http.Client{
		Timeout: 2 * time.Second,
		Jar:     jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	status := func(resp *http.Response, err error) int {
		t.Helper()
		if err != nil {
			a.failf(t, "request: %v", err)
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return resp.StatusCode
	}

	if got := status(client.Get(a.url("/owner/sports"))); got != http.StatusSeeOther {
		a.failf(t, "anonymous owner page: expected 303, got %d", got)
	}
	if got := status(client.PostForm(a.url("/owner/login"), url.Values{"password": {"wrong-password"}})); got != http.StatusUnauthorized {
		a.failf(t, "bad password: expected 401, got %d", got)
	}
	if got := status(client.PostForm(a.url("/owner/login"), url.Values{"password": {ownerPassword}})); got != http.StatusSeeOther {
		a.failf(t, "login: expected 303, got %d", got)
	}
	if got := status(client.Get(a.url("/owner/sports"))); got != http.StatusOK {
		a.failf(t, "owner page after login: expected 200, got %d", got)
	}
	if got := status(client.Get(a.url("/api/v1/codes"))); got != http.StatusOK {
		a.failf(t, "owner api after login: expected 200, got %d", got)
	}
}

func freePort(t *testing.T) int {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func repoRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("go.mod not found above working directory")
		}
		dir = parent
	}
}
