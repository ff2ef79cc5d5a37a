package audio

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
)

// SinkAuto picks aplay or oto depending on the host; see Platform.
const SinkAuto = "auto"

// Platform describes the audio facilities of the host.
type Platform struct {
	OS       string
	HasAplay bool
	HasALSA  bool
}

// DetectPlatform probes for aplay and an ALSA playback device.
func DetectPlatform(command string) Platform {
	if command == "" {
		command = "aplay"
	}
	p := Platform{
		OS:       runtime.GOOS,
		HasAplay: isCommandAvailable(command),
	}
	if p.OS == "linux" {
		p.HasALSA = hasALSADevice("/dev/snd", "/proc/asound/cards")
	}

	log.Debug("Platform detected", "os", p.OS, "aplay", p.HasAplay, "alsa", p.HasALSA)
	return p
}

// PreferredSink is aplay when it can reach an ALSA device, oto otherwise.
func (p Platform) PreferredSink() string {
	if p.OS == "linux" && p.HasAplay && p.HasALSA {
		return SinkAplay
	}
	return SinkOto
}

func (p Platform) String() string {
	return fmt.Sprintf("Platform{OS: %s, aplay: %v, ALSA: %v}", p.OS, p.HasAplay, p.HasALSA)
}

// hasALSADevice looks for a pcm node under devDir or a card listed in
// cardsFile.
func hasALSADevice(devDir, cardsFile string) bool {
	if entries, err := os.ReadDir(devDir); err == nil {
		for _, entry := range entries {
			if strings.HasPrefix(entry.Name(), "pcm") {
				return true
			}
		}
	}
	content, err := os.ReadFile(cardsFile) //nolint:gosec
	if err == nil && len(content) > 0 && !strings.Contains(string(content), "no soundcards") {
		return true
	}
	return false
}

// isCommandAvailable checks if a command is available in PATH
func isCommandAvailable(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}
