package imgio

import (
	"context"
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"

	"github.com/imgrid/imgrid/pkg/errors"
)

// Show writes img to a temporary PNG and opens it in the default OS image
// viewer. The viewer is launched detached; Show returns once the launch
// succeeds. The temporary file is left for the viewer and cleaned up by the
// OS temp directory policy.
func Show(ctx context.Context, img image.Image) error {
	path := filepath.Join(os.TempDir(), "imgrid-"+uuid.NewString()+".png")
	if err := Save(img, path, 0); err != nil {
		return err
	}

	name, args := viewerCommand(path)
	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "open viewer for %s", path)
	}
	return nil
}

// viewerCommand returns the platform launcher for an image file.
func viewerCommand(path string) (string, []string) {
	switch runtime.GOOS {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	default:
		return "xdg-open", []string{path}
	}
}
