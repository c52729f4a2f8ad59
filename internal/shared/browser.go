package shared

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

const playlistWebURL = "https://open.spotify.com/playlist/"

var getRuntime = func() string { return runtime.GOOS }

// PlaylistURL returns the public web player URL of a playlist.
func PlaylistURL(id string) string {
	return playlistWebURL + url.PathEscape(id)
}

// browserCommand returns the launcher for target on the given platform.
func browserCommand(goos, target string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{target}, nil
	case "linux", "freebsd", "openbsd":
		return "xdg-open", []string{target}, nil
	case "windows":
		return "cmd", []string{"/c", "start", target}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// OpenBrowser opens the default system browser at target without waiting for it to exit.
func OpenBrowser(target string) error {
	name, args, err := browserCommand(getRuntime(), target)
	if err != nil {
		return err
	}

	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
