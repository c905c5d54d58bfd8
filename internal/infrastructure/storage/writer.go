package storage

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
)

const (
	MagicHeader string = `BMLY` // 4 байта
	Version1    uint32 = 1
)

// LayoutFileHeader: точное представление заголовка файла в памяти.
// binary.Write пишет его целиком: тут нет слайсов и строк, только массивы и числа.
type LayoutFileHeader struct {
	Magic       [4]byte // 4 байта
	Version     uint32  // 4 байта
	MapID       uint16  // 2 байта
	Reserved    uint16  // 2 байта
	Width       int32   // 4 байта
	Height      int32   // 4 байта
	Seed        int64   // 8 байт
	Timestamp   int64   // 8 байт
	RecordCount int32   // 4 байта
}

// RecordHeader: заголовок каждой записи сущности. Sprite bytes follow.
type RecordHeader struct {
	ID         uint64 // 8
	Kind       uint8  // 1
	Collidable uint8  // 1
	Team       int16  // 2
	X, Y       int32  // 8
	Cost       int32  // 4
	DestX      int32  // 4
	DestY      int32  // 4
	SpriteLen  uint8  // 1
}

// WriteLayout encodes snap in the BMLY little-endian format.
func WriteLayout(w io.Writer, snap domain.LayoutSnapshot) error {
	header := LayoutFileHeader{
		Version:     Version1,
		MapID:       snap.MapID,
		Width:       int32(snap.Dim.W),
		Height:      int32(snap.Dim.H),
		Seed:        snap.Seed,
		Timestamp:   snap.Timestamp,
		RecordCount: int32(len(snap.Records)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, rec := range snap.Records {
		sprite := []byte(rec.Sprite)
		if len(sprite) > 255 {
			return fmt.Errorf("record %d: sprite name too long: %d", i, len(sprite))
		}

		rh := RecordHeader{
			ID:        uint64(rec.ID),
			Kind:      uint8(rec.Kind),
			Team:      int16(rec.Team),
			X:         int32(rec.Pos.X),
			Y:         int32(rec.Pos.Y),
			Cost:      int32(rec.Cost),
			DestX:     int32(rec.Destination.X),
			DestY:     int32(rec.Destination.Y),
			SpriteLen: uint8(len(sprite)),
		}
		if rec.Collidable {
			rh.Collidable = 1
		}

		if err := binary.Write(w, binary.LittleEndian, &rh); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if _, err := w.Write(sprite); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}

	return nil
}
