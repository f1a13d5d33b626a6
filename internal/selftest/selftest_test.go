package selftest

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/goosewin/nestprop/internal/model"
	"github.com/goosewin/nestprop/internal/proposal"
)

func TestRunReportsAndCleansUp(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	if err := Run(&out, logger); err != nil {
		t.Fatalf("run selftest: %v", err)
	}

	match := regexp.MustCompile(`Output directory set to: (\S+)`).FindStringSubmatch(out.String())
	if match == nil {
		t.Fatalf("expected output directory in report, got %q", out.String())
	}
	if filepath.Base(match[1]) != OutputName {
		t.Fatalf("expected %s directory, got %s", OutputName, match[1])
	}
	if _, err := os.Stat(filepath.Dir(match[1])); !os.IsNotExist(err) {
		t.Fatalf("expected temp root to be removed, stat err: %v", err)
	}
	if !strings.Contains(out.String(), "Directory exists: true") {
		t.Fatalf("expected existence line, got %q", out.String())
	}
}

func TestVerifyDetectsMismatch(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	p := proposal.NewIdentity(model.Mock{})
	if err := p.SetOutputDirectory(dir); err != nil {
		t.Fatalf("set output directory: %v", err)
	}

	if err := Verify(p, dir); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := Verify(p, dir+"-other"); err == nil {
		t.Fatalf("expected mismatch error")
	}

	if err := os.Remove(dir); err != nil {
		t.Fatalf("remove dir: %v", err)
	}
	if err := Verify(p, dir); err == nil {
		t.Fatalf("expected missing directory error")
	}
}
