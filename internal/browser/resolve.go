package browser

import (
	"log/slog"
	"os"
	"os/exec"
	"runtime"
)

// ResolveExecutable picks the browser binary to drive. Priority: the
// user-configured path, then a system-installed Chrome, then the
// playwright-managed browser (returned as "" and installed at launch).
func ResolveExecutable(userPath string) string {
	logger := slog.Default().With("component", "browser")

	if userPath != "" {
		if _, err := os.Stat(userPath); err == nil {
			logger.Info("using configured browser", "path", userPath)
			return userPath
		}
		logger.Warn("configured browser path does not exist", "path", userPath)
	}

	if path := detectSystemChrome(); path != "" {
		logger.Info("using system chrome", "path", path)
		return path
	}

	return ""
}

func detectSystemChrome() string {
	var candidates []string
	switch runtime.GOOS {
	case "darwin":
		candidates = []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Google Chrome Canary.app/Contents/MacOS/Google Chrome Canary",
		}
	case "linux":
		candidates = []string{
			"/usr/bin/google-chrome",
			"/usr/bin/google-chrome-stable",
			"/usr/bin/chromium",
			"/usr/bin/chromium-browser",
			"/snap/bin/chromium",
		}
	case "windows":
		candidates = []string{
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
		}
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	for _, name := range []string{"google-chrome", "chromium"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	return ""
}
