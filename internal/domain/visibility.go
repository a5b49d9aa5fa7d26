package domain

type VisibilityState string

const (
	ControlsVisible VisibilityState = "visible"
	ControlsHidden  VisibilityState = "hidden"
)
