package util

import (
	"fmt"
	"os/exec"
	"runtime"
)

// OpenBrowser opens the default browser at url. Operators double-click the
// binary; nobody should have to type a localhost address.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		// rundll32 is more reliable than `cmd /c start` on older Windows.
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// OpenBrowserWithFallback tries common per-platform alternatives when the
// primary launcher is missing.
func OpenBrowserWithFallback(url string) error {
	if err := OpenBrowser(url); err == nil {
		return nil
	}

	var candidates []*exec.Cmd
	switch runtime.GOOS {
	case "windows":
		candidates = append(candidates, exec.Command("cmd", "/c", "start", url))
	case "darwin":
		// `open` failing usually means a broken default handler; nothing
		// sensible to fall back to.
	default:
		for _, browser := range []string{"sensible-browser", "firefox", "chromium", "google-chrome"} {
			candidates = append(candidates, exec.Command(browser, url))
		}
	}

	for _, cmd := range candidates {
		if err := cmd.Start(); err == nil {
			return nil
		}
	}
	return fmt.Errorf("no way to open a browser for %s", url)
}
