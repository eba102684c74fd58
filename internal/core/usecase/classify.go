package usecase

import (
	"errors"
	"fmt"

	"github.com/Yajiroobe/SAE-VISION360/internal/core/domain"
)

// Zone thresholds over the normalized box area. The boundary values
// themselves belong to the mid band.
const (
	zoneNearAbove = 0.08
	zoneFarBelow  = 0.03
)

// Side thresholds over the normalized x center. The boundary values
// themselves belong to center.
const (
	sideLeftBelow  = 0.33
	sideRightAbove = 0.66
)

// ClassifyZone derives the depth band of a detection from its apparent
// size: the larger the box relative to the frame, the closer the object.
func ClassifyZone(box domain.BoundingBox) (domain.Zone, error) {
	if err := validateBox(box); err != nil {
		return "", err
	}
	area := box.Area()
	switch {
	case area > zoneNearAbove:
		return domain.ZoneNear, nil
	case area < zoneFarBelow:
		return domain.ZoneFar, nil
	default:
		return domain.ZoneMid, nil
	}
}

// ClassifySide derives the lateral position of a detection from its
// normalized x center.
func ClassifySide(box domain.BoundingBox) (domain.Side, error) {
	if err := validateBox(box); err != nil {
		return "", err
	}
	switch {
	case box.XCenter < sideLeftBelow:
		return domain.SideLeft, nil
	case box.XCenter > sideRightAbove:
		return domain.SideRight, nil
	default:
		return domain.SideCenter, nil
	}
}

func validateBox(box domain.BoundingBox) error {
	if box.Width <= 0 || box.Height <= 0 {
		return domain.WrapError(
			domain.ErrInvalidInput,
			"classify box",
			fmt.Errorf("width and height must be positive, got %.3fx%.3f", box.Width, box.Height),
		)
	}
	if box.XCenter < 0 || box.XCenter > 1 || box.YCenter < 0 || box.YCenter > 1 {
		return domain.WrapError(
			domain.ErrInvalidInput,
			"classify box",
			errors.New("center coordinates must lie in [0,1]"),
		)
	}
	return nil
}
