package domain

import (
	"fmt"
	"time"
)

// Rotation is the orientation of a captured frame, clockwise degrees.
type Rotation uint16

const (
	Rotation0   Rotation = 0
	Rotation90  Rotation = 90
	Rotation180 Rotation = 180
	Rotation270 Rotation = 270
)

func ParseRotation(deg int) (Rotation, error) {
	switch Rotation(deg) {
	case Rotation0, Rotation90, Rotation180, Rotation270:
		return Rotation(deg), nil
	}
	return 0, fmt.Errorf("invalid rotation %d", deg)
}

// VideoFrame is one encoded access unit handed over by the camera producer.
type VideoFrame struct {
	Data     []byte
	Duration time.Duration
	Rotation Rotation
	Keyframe bool
}
