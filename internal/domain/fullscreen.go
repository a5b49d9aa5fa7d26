package domain

// FullscreenMode is the presentation mode of the player container.
// Emulated fullscreen is only entered when native fullscreen is unavailable
// or failed; the two are mutually exclusive.
type FullscreenMode string

const (
	ModeWindowed           FullscreenMode = "windowed"
	ModeNativeFullscreen   FullscreenMode = "native_fullscreen"
	ModeEmulatedFullscreen FullscreenMode = "emulated_fullscreen"
)

func (m FullscreenMode) IsFullscreen() bool {
	return m == ModeNativeFullscreen || m == ModeEmulatedFullscreen
}
