// Package selftest checks that a proposal records and creates its output
// directory inside a throwaway temporary directory.
package selftest

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/goosewin/nestprop/internal/model"
	"github.com/goosewin/nestprop/internal/proposal"
)

// OutputName is the directory created below the temporary root.
const OutputName = "test_output"

// Run performs the check and writes a short report to out. The temporary
// root is removed on every return path.
func Run(out io.Writer, logger *slog.Logger) (err error) {
	root, err := os.MkdirTemp("", "nestprop-selftest-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer func() {
		if removeErr := os.RemoveAll(root); removeErr != nil && err == nil {
			err = fmt.Errorf("remove temp dir: %w", removeErr)
		}
	}()

	dir := filepath.Join(root, OutputName)
	p := proposal.NewIdentity(model.Mock{}, proposal.WithLogger(logger))

	if err := p.SetOutputDirectory(dir); err != nil {
		return err
	}
	if err := Verify(p, dir); err != nil {
		return err
	}

	fmt.Fprintf(out, "Test passed! Output directory set to: %s\n", dir)
	fmt.Fprintf(out, "Directory exists: %t\n", true)
	return nil
}

// Verify reports whether p has recorded dir and dir exists as a directory.
func Verify(p proposal.Proposal, dir string) error {
	if p.Output() != dir {
		return fmt.Errorf("output mismatch: expected %s, got %s", dir, p.Output())
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("output directory missing: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("output path is not a directory: %s", dir)
	}
	return nil
}
