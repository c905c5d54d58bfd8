package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// EntityID - упакованный идентификатор (Kind + Map + Index)
type EntityID uint64

// NilEntityID is never handed out by the registry.
const NilEntityID EntityID = 0

// Bit layout, high to low: [ Kind (8) | Map (16) | Index (40) ]
const (
	bitsIndex = 40
	bitsMap   = 16
	bitsKind  = 8

	shiftMap  = bitsIndex
	shiftKind = bitsIndex + bitsMap

	maskIndex = (1 << bitsIndex) - 1 // 0x000000FFFFFFFFFF
	maskMap   = (1 << bitsMap) - 1   // 0xFFFF
	maskKind  = (1 << bitsKind) - 1  // 0xFF
)

// PackEntityID создает ID из компонентов
func PackEntityID(kind EntityKind, mapID uint16, index uint64) EntityID {
	id := index & maskIndex
	id |= (uint64(mapID) & maskMap) << shiftMap
	id |= (uint64(kind) & maskKind) << shiftKind
	return EntityID(id)
}

func (id EntityID) Kind() EntityKind {
	return EntityKind((id >> shiftKind) & maskKind)
}

func (id EntityID) Map() uint16 {
	return uint16((id >> shiftMap) & maskMap)
}

func (id EntityID) Index() uint64 {
	return uint64(id & maskIndex)
}

func (id EntityID) IsNil() bool {
	return id == NilEntityID
}

// MarshalJSON пишет ID строкой: JS теряет точность на больших uint64.
func (id EntityID) MarshalJSON() ([]byte, error) {
	s := strconv.FormatUint(uint64(id), 10)
	return []byte(`"` + s + `"`), nil
}

// UnmarshalJSON принимает и строку, и число.
func (id *EntityID) UnmarshalJSON(data []byte) error {
	if len(data) > 1 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	val, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid entity id %q: %w", string(data), err)
	}
	*id = EntityID(val)
	return nil
}

// String для логов: [Kind:Map:Idx]
func (id EntityID) String() string {
	return fmt.Sprintf("[%s:%d:%d]", id.Kind(), id.Map(), id.Index())
}

// Key is the decimal form used on the wire.
func (id EntityID) Key() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseEntityID accepts the wire form ("72057594037927937") and the log
// form ("[UNIT:0:1]").
func ParseEntityID(s string) (EntityID, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		parts := strings.Split(s[1:len(s)-1], ":")
		if len(parts) != 3 {
			return NilEntityID, fmt.Errorf("invalid entity id %q", s)
		}
		kind := ParseKind(parts[0])
		mapID, err := strconv.ParseUint(parts[1], 10, bitsMap)
		if err != nil {
			return NilEntityID, fmt.Errorf("invalid entity id %q: %w", s, err)
		}
		idx, err := strconv.ParseUint(parts[2], 10, bitsIndex)
		if err != nil {
			return NilEntityID, fmt.Errorf("invalid entity id %q: %w", s, err)
		}
		return PackEntityID(kind, uint16(mapID), idx), nil
	}
	val, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return NilEntityID, fmt.Errorf("invalid entity id %q: %w", s, err)
	}
	return EntityID(val), nil
}
