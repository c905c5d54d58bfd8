package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestValidators(t *testing.T) {
	tests := []struct {
		name    string
		payload Validator
		wantErr bool
	}{
		{"entity ok", EntityPayload{TargetID: "[UNIT:0:1]"}, false},
		{"entity empty", EntityPayload{}, true},
		{"move empty target", MovePayload{X: 1}, true},
		{"destination ok", DestinationPayload{TargetID: "42", X: 3}, false},
		{"obstacle default cost", PlaceObstaclePayload{}, false},
		{"obstacle impassable", PlaceObstaclePayload{Cost: intPtr(-1)}, false},
		{"obstacle bad cost", PlaceObstaclePayload{Cost: intPtr(-2)}, true},
		{"unit enemy", PlaceUnitPayload{Team: 1}, false},
		{"unit bad team", PlaceUnitPayload{Team: 3}, true},
		{"path no cap", FindPathPayload{Cap: intPtr(-1)}, false},
		{"path bad cap", FindPathPayload{Cap: intPtr(-5)}, true},
		{"layout list", LayoutPayload{}, false},
		{"layout name", LayoutPayload{Name: "siege_2"}, false},
		{"layout traversal", LayoutPayload{Name: "../etc"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
