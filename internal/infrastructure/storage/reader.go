package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
)

var ErrBadFormat = errors.New("not a layout file")

// ReadLayout decodes a BMLY stream written by WriteLayout.
func ReadLayout(r io.Reader) (domain.LayoutSnapshot, error) {
	var header LayoutFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return domain.LayoutSnapshot{}, fmt.Errorf("failed to read header: %w", err)
	}

	// Валидация
	if string(header.Magic[:]) != MagicHeader {
		return domain.LayoutSnapshot{}, fmt.Errorf("magic %q: %w", header.Magic[:], ErrBadFormat)
	}
	if header.Version != Version1 {
		return domain.LayoutSnapshot{}, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}
	if header.RecordCount < 0 {
		return domain.LayoutSnapshot{}, fmt.Errorf("record count %d: %w", header.RecordCount, ErrBadFormat)
	}

	snap := domain.LayoutSnapshot{
		MapID:     header.MapID,
		Dim:       domain.Dim{W: int(header.Width), H: int(header.Height)},
		Seed:      header.Seed,
		Timestamp: header.Timestamp,
		Records:   make([]domain.LayoutRecord, 0, header.RecordCount),
	}

	for i := 0; i < int(header.RecordCount); i++ {
		var rh RecordHeader
		if err := binary.Read(r, binary.LittleEndian, &rh); err != nil {
			return domain.LayoutSnapshot{}, fmt.Errorf("record %d: %w", i, err)
		}

		sprite := make([]byte, rh.SpriteLen)
		if _, err := io.ReadFull(r, sprite); err != nil {
			return domain.LayoutSnapshot{}, fmt.Errorf("record %d sprite: %w", i, err)
		}

		snap.Records = append(snap.Records, domain.LayoutRecord{
			ID:          domain.EntityID(rh.ID),
			Kind:        domain.EntityKind(rh.Kind),
			Pos:         domain.Position{X: int(rh.X), Y: int(rh.Y)},
			Collidable:  rh.Collidable != 0,
			Cost:        int(rh.Cost),
			Team:        int(rh.Team),
			Sprite:      string(sprite),
			Destination: domain.Position{X: int(rh.DestX), Y: int(rh.DestY)},
		})
	}

	return snap, nil
}
