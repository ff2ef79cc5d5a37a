package audio

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDetectPlatform(t *testing.T) {
	p := DetectPlatform("")
	if p.OS != runtime.GOOS {
		t.Errorf("Platform OS mismatch: got %s, expected %s", p.OS, runtime.GOOS)
	}
	if p.HasALSA && runtime.GOOS != "linux" {
		t.Error("ALSA should only be reported on linux")
	}
	t.Log(p)

	if DetectPlatform("definitely-not-a-real-player").HasAplay {
		t.Error("missing command reported as available")
	}
}

func TestPreferredSink(t *testing.T) {
	tests := []struct {
		name     string
		platform Platform
		want     string
	}{
		{"linux with aplay and alsa", Platform{OS: "linux", HasAplay: true, HasALSA: true}, SinkAplay},
		{"linux without aplay", Platform{OS: "linux", HasALSA: true}, SinkOto},
		{"linux without devices", Platform{OS: "linux", HasAplay: true}, SinkOto},
		{"darwin", Platform{OS: "darwin", HasAplay: true, HasALSA: true}, SinkOto},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.platform.PreferredSink(); got != tt.want {
				t.Errorf("PreferredSink() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestHasALSADevice(t *testing.T) {
	dir := t.TempDir()
	dev := filepath.Join(dir, "snd")
	cards := filepath.Join(dir, "cards")

	if hasALSADevice(dev, cards) {
		t.Error("nothing exists yet")
	}

	if err := os.WriteFile(cards, []byte("--- no soundcards ---\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if hasALSADevice(dev, cards) {
		t.Error("\"no soundcards\" is not a device")
	}

	if err := os.MkdirAll(dev, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dev, "pcmC0D0p"), nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if !hasALSADevice(dev, cards) {
		t.Error("pcm node should count as a device")
	}
}
