package storage

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLayout() domain.LayoutSnapshot {
	return domain.LayoutSnapshot{
		MapID:     3,
		Dim:       domain.Dim{W: 12, H: 8},
		Seed:      -77,
		Timestamp: 1700000000,
		Records: []domain.LayoutRecord{
			{
				ID:         domain.PackEntityID(domain.KindScenery, 3, 97),
				Kind:       domain.KindScenery,
				Pos:        domain.Position{X: 4, Y: 1},
				Collidable: true,
				Sprite:     "tree_round",
			},
			{
				ID:         domain.PackEntityID(domain.KindObstacle, 3, 98),
				Kind:       domain.KindObstacle,
				Pos:        domain.Position{X: 5, Y: 5},
				Collidable: true,
				Cost:       domain.Impassable,
				Sprite:     "cactus",
			},
			{
				ID:          domain.PackEntityID(domain.KindUnit, 3, 99),
				Kind:        domain.KindUnit,
				Pos:         domain.Position{X: 0, Y: 7},
				Collidable:  true,
				Cost:        domain.UnitPathCost,
				Team:        domain.TeamEnemy,
				Sprite:      "soldier_spear",
				Destination: domain.Position{X: 11, Y: 7},
			},
		},
	}
}

func TestLayoutCodec(t *testing.T) {
	snap := sampleLayout()

	var buf bytes.Buffer
	require.NoError(t, WriteLayout(&buf, snap))
	assert.Equal(t, MagicHeader, buf.String()[:4])

	got, err := ReadLayout(&buf)
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestLayoutCodec_Empty(t *testing.T) {
	snap := domain.LayoutSnapshot{Dim: domain.Dim{W: 1, H: 1}}

	var buf bytes.Buffer
	require.NoError(t, WriteLayout(&buf, snap))
	got, err := ReadLayout(&buf)
	require.NoError(t, err)
	assert.Empty(t, got.Records)
	assert.Equal(t, snap.Dim, got.Dim)
}

func TestReadLayout_Errors(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLayout(&buf, sampleLayout()))
	data := buf.Bytes()

	t.Run("bad magic", func(t *testing.T) {
		bad := append([]byte("CDRP"), data[4:]...)
		_, err := ReadLayout(bytes.NewReader(bad))
		assert.ErrorIs(t, err, ErrBadFormat)
	})

	t.Run("bad version", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[4] = 9
		_, err := ReadLayout(bytes.NewReader(bad))
		assert.ErrorContains(t, err, "unsupported version")
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := ReadLayout(bytes.NewReader(data[:len(data)-3]))
		assert.Error(t, err)
	})

	t.Run("header only", func(t *testing.T) {
		_, err := ReadLayout(bytes.NewReader(data[:10]))
		assert.Error(t, err)
	})
}

func TestWriteLayout_LongSprite(t *testing.T) {
	snap := sampleLayout()
	snap.Records[0].Sprite = strings.Repeat("x", 256)

	var buf bytes.Buffer
	assert.Error(t, WriteLayout(&buf, snap))
}
