package controller

import (
	"github.com/JoeSaf/sencloud-gui/pkg/wsrouter"
)

func (pc *playerConn) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()

	mux.Use(pc.wsRequestIdWSMw())
	mux.Use(pc.loggerWSMw())

	wsrouter.Handle(mux, "ALIVE", pc.handleAlive)
	wsrouter.Handle(mux, "GET_SNAPSHOT", pc.handleGetSnapshot)

	// session
	wsrouter.Handle(mux, "OPEN", pc.handleOpen)
	wsrouter.Handle(mux, "CLOSE", pc.handleClose)
	wsrouter.Handle(mux, "REPLACE", pc.handleReplace)

	// playback
	wsrouter.Handle(mux, "PLAY", pc.handlePlay)
	wsrouter.Handle(mux, "PAUSE", pc.handlePause)
	wsrouter.Handle(mux, "TOGGLE_PLAY_PAUSE", pc.handleTogglePlayPause)
	wsrouter.Handle(mux, "SEEK", pc.handleSeek)
	wsrouter.Handle(mux, "SKIP", pc.handleSkip)
	wsrouter.Handle(mux, "SET_VOLUME", pc.handleSetVolume)
	wsrouter.Handle(mux, "TOGGLE_MUTE", pc.handleToggleMute)
	wsrouter.Handle(mux, "SET_PLAYBACK_RATE", pc.handleSetPlaybackRate)
	wsrouter.Handle(mux, "ENGINE_EVENT", pc.handleEngineEvent)

	// controls visibility
	wsrouter.Handle(mux, "ACTIVITY", pc.handleActivity)

	// fullscreen
	wsrouter.Handle(mux, "TOGGLE_FULLSCREEN", pc.handleToggleFullscreen)
	wsrouter.Handle(mux, "DISPLAY_EVENT", pc.handleDisplayEvent)

	// episodes
	wsrouter.Handle(mux, "SET_AUTOPLAY", pc.handleSetAutoplay)
	wsrouter.Handle(mux, "SET_RECOMMENDATIONS", pc.handleSetRecommendations)
	wsrouter.Handle(mux, "CANCEL_AUTOPLAY", pc.handleCancelAutoplay)
	wsrouter.Handle(mux, "PLAY_NEXT", pc.handlePlayNext)
	wsrouter.Handle(mux, "PLAY_PREVIOUS", pc.handlePlayPrevious)
	wsrouter.Handle(mux, "PLAY_FROM_LIST", pc.handlePlayFromList)
	wsrouter.Handle(mux, "SELECT_RECOMMENDED", pc.handleSelectRecommended)

	// keyboard
	wsrouter.Handle(mux, "KEY_PRESS", pc.handleKeyPress)

	return mux
}
