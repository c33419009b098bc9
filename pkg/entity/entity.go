// pkg/entity/entity.go
package entity

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-planes/pkg/physics"
)

// ID is a unique identifier for an entity
type ID uint64

// Well-known entity IDs. The game always flies one player and two escorts.
const (
	PlayerID  ID = 1
	EscortID1 ID = 2
	EscortID2 ID = 3
)

// Entity is the base interface for all aircraft in the scene
type Entity interface {
	GetID() ID
	GetTransform() physics.Transform
	Render(r Renderer)
}

// BaseEntity holds what every aircraft shares
type BaseEntity struct {
	ID        ID
	Callsign  string
	Transform physics.Transform
	Active    bool
}

// GetID returns the entity's unique identifier
func (e *BaseEntity) GetID() ID {
	return e.ID
}

// GetTransform returns a copy of the entity's transform
func (e *BaseEntity) GetTransform() physics.Transform {
	return e.Transform
}

// Position returns the entity's world position
func (e *BaseEntity) Position() mgl64.Vec3 {
	return e.Transform.Position
}

// Aircraft is the player-flown plane.
type Aircraft struct {
	BaseEntity
	Kinematics physics.Kinematics
}

// NewAircraft creates the player aircraft at the origin.
func NewAircraft(callsign string) *Aircraft {
	return &Aircraft{
		BaseEntity: BaseEntity{
			ID:       PlayerID,
			Callsign: callsign,
			Active:   true,
		},
	}
}

// Reset returns the aircraft to the origin, level and at rest.
func (a *Aircraft) Reset() {
	a.Transform = physics.Transform{}
	a.Kinematics = physics.Kinematics{}
}

// Render implements Entity
func (a *Aircraft) Render(r Renderer) {
	r.RenderAircraft(a)
}

// Escort is an AI wingman. Its transform is written only by its controller.
type Escort struct {
	BaseEntity
	CruiseSpeed float64
}

// NewEscort creates an escort at the given start position.
func NewEscort(id ID, callsign string, start mgl64.Vec3, cruiseSpeed float64) *Escort {
	return &Escort{
		BaseEntity: BaseEntity{
			ID:        id,
			Callsign:  callsign,
			Transform: physics.Transform{Position: start},
			Active:    true,
		},
		CruiseSpeed: cruiseSpeed,
	}
}

// Render implements Entity
func (e *Escort) Render(r Renderer) {
	r.RenderEscort(e)
}
