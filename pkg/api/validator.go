package api

import (
	"errors"
	"fmt"
	"regexp"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p EntityPayload) Validate() error {
	if p.TargetID == "" {
		return errors.New("targetId is required")
	}
	return nil
}

func (p MovePayload) Validate() error {
	if p.TargetID == "" {
		return errors.New("targetId is required")
	}
	return nil
}

func (p DestinationPayload) Validate() error {
	if p.TargetID == "" {
		return errors.New("targetId is required")
	}
	return nil
}

func (p PlaceObstaclePayload) Validate() error {
	if p.Cost != nil && *p.Cost < -1 {
		return fmt.Errorf("cost %d: want -1 (impassable) or a non-negative value", *p.Cost)
	}
	return nil
}

func (p PlaceUnitPayload) Validate() error {
	if p.Team < 0 || p.Team > 1 {
		return fmt.Errorf("team %d: want 0 (player) or 1 (enemy)", p.Team)
	}
	return nil
}

func (p FindPathPayload) Validate() error {
	if p.Cap != nil && *p.Cap < -1 {
		return fmt.Errorf("cap %d: want -1 (unlimited), 0 (default) or a positive value", *p.Cap)
	}
	return nil
}

var layoutName = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Validate allows an empty name (list request); anything else must be a
// plain file-safe identifier.
func (p LayoutPayload) Validate() error {
	if p.Name != "" && !layoutName.MatchString(p.Name) {
		return fmt.Errorf("layout name %q: use letters, digits, '_' or '-'", p.Name)
	}
	return nil
}
