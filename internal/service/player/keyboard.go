package player

import (
	"context"
	"errors"
	"strings"
)

type KeyPressParams struct {
	PlayerID string
	Key      string
	// InTextInput is reported by the host when focus sits inside a text
	// input; the whole dispatch table is ignored then.
	InTextInput bool
}

// HandleKeyPress dispatches one keyboard shortcut:
//
//	Space      toggle play/pause
//	←/→        skip ∓10s
//	↑/↓        volume ±5
//	F          toggle fullscreen
//	M          toggle mute
//	N          play next (if available)
//	P          play previous (if available)
//	Esc        exit fullscreen, else close the session
func (s *service) HandleKeyPress(ctx context.Context, params *KeyPressParams) (*Snapshot, error) {
	if params.InTextInput {
		return nil, nil
	}

	p, err := s.getPlayer(params.PlayerID)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(params.Key) {
	case " ", "space":
		return s.TogglePlayPause(ctx, &TogglePlayPauseParams{PlayerID: params.PlayerID})

	case "arrowleft":
		return s.Skip(ctx, &SkipParams{PlayerID: params.PlayerID, DeltaSeconds: -s.cfg.SeekStep})

	case "arrowright":
		return s.Skip(ctx, &SkipParams{PlayerID: params.PlayerID, DeltaSeconds: s.cfg.SeekStep})

	case "arrowup":
		p.mu.Lock()
		level := p.volume + s.cfg.VolumeStep
		p.mu.Unlock()
		return s.SetVolume(ctx, &SetVolumeParams{PlayerID: params.PlayerID, Level: level})

	case "arrowdown":
		p.mu.Lock()
		level := p.volume - s.cfg.VolumeStep
		p.mu.Unlock()
		return s.SetVolume(ctx, &SetVolumeParams{PlayerID: params.PlayerID, Level: level})

	case "f":
		return s.ToggleFullscreen(ctx, &ToggleFullscreenParams{PlayerID: params.PlayerID})

	case "m":
		return s.ToggleMute(ctx, &ToggleMuteParams{PlayerID: params.PlayerID})

	case "n":
		snap, err := s.PlayNext(ctx, &PlayNextParams{PlayerID: params.PlayerID})
		if errors.Is(err, ErrNoNextEpisode) {
			return nil, nil
		}
		return snap, err

	case "p":
		snap, err := s.PlayPrevious(ctx, &PlayPreviousParams{PlayerID: params.PlayerID})
		if errors.Is(err, ErrNoPreviousEpisode) {
			return nil, nil
		}
		return snap, err

	case "escape":
		p.mu.Lock()
		inFullscreen := p.fullscreen.IsFullscreen()
		p.mu.Unlock()

		if inFullscreen {
			return s.ToggleFullscreen(ctx, &ToggleFullscreenParams{PlayerID: params.PlayerID})
		}
		return s.Close(ctx, &CloseParams{PlayerID: params.PlayerID})
	}

	return nil, nil
}
