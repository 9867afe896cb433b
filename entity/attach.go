package entity

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/akmonengine/rayforce/actor"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// AttachBody gives the entity a physical body built from geometry, or adds a shape to the
// body it already owns (see Config.ShapePolicy). The body starts at rest at the entity's
// position with an identity orientation.
//
// A nil geometry aborts with ErrInvalidArgument and leaves the entity untouched. A non-finite
// position is reset to the origin and a non-positive mass to Config.FallbackMass.
func (e *Entity) AttachBody(geometry actor.Geometry) error {
	t := e.table
	if e.destroyed {
		return ErrDestroyed
	}
	if isNil(geometry) {
		t.logger.Warn("attach body called with nil geometry", t.entityFields(e)...)
		t.metrics.attachFailure()
		return fmt.Errorf("attach body to entity %d: nil geometry: %w", e.id.Index, ErrInvalidArgument)
	}

	e.sanitize()

	world := t.world
	if e.body == nil {
		id, err := world.CreateBody(actor.NewPose(e.position))
		if err != nil {
			t.metrics.attachFailure()
			return fmt.Errorf("attach body to entity %d: %w", e.id.Index, err)
		}
		if err := world.SetUserData(id, e.id.Pack()); err != nil {
			if releaseErr := world.ReleaseBody(id); releaseErr != nil {
				t.logger.Error("release body failed", append(t.entityFields(e), zap.Uint32("body", id.Index), zap.Error(releaseErr))...)
				err = errors.Join(err, releaseErr)
			}
			t.metrics.attachFailure()
			return fmt.Errorf("attach body to entity %d: %w", e.id.Index, err)
		}

		e.body = &ownedBody{id: id}
		t.metrics.bodyCreated()
	} else if t.config.ShapePolicy == ShapePolicyReplace {
		if err := world.DetachShapes(e.body.id); err != nil {
			t.metrics.attachFailure()
			return fmt.Errorf("attach body to entity %d: %w", e.id.Index, err)
		}
	}

	if err := e.configureBody(geometry); err != nil {
		t.metrics.attachFailure()
		return fmt.Errorf("attach body to entity %d: %w", e.id.Index, err)
	}
	e.velocity = mgl64.Vec3{}

	t.logger.Debug("body attached", t.entityFields(e)...)

	return nil
}

func (e *Entity) configureBody(geometry actor.Geometry) error {
	world := e.table.world
	config := e.table.config
	id := e.body.id

	material := e.table.registry.ResolveMaterial(e.modelID)
	if err := world.AttachShape(id, geometry, material, config.ContactOffset, config.RestOffset); err != nil {
		return err
	}
	if err := world.SetMassAndUpdateInertia(id, e.mass); err != nil {
		return err
	}
	if err := world.SetLinearVelocity(id, mgl64.Vec3{}); err != nil {
		return err
	}
	if err := world.SetAngularVelocity(id, mgl64.Vec3{}); err != nil {
		return err
	}

	return world.SetSleepThreshold(id, config.SleepThreshold)
}

// sanitize heals the states a body cannot be created from
func (e *Entity) sanitize() {
	t := e.table

	if !actor.IsFiniteVec3(e.position) {
		t.logger.Debug("non-finite position reset to origin", append(t.entityFields(e), zap.Stringer("position", vec3Stringer(e.position)))...)
		t.metrics.correction(correctionNonFiniteState)
		e.position = mgl64.Vec3{}
	}
	if !(e.mass > 0) || math.IsInf(e.mass, 0) {
		t.logger.Debug("invalid mass replaced", append(t.entityFields(e), zap.Float64("mass", e.mass), zap.Float64("fallback", t.config.FallbackMass))...)
		t.metrics.correction(correctionInvalidPhysicalProperty)
		e.mass = t.config.FallbackMass
	}
}

// isNil also catches a nil pointer wrapped in a non-nil interface
func isNil(v any) bool {
	if v == nil {
		return true
	}

	value := reflect.ValueOf(v)
	return value.Kind() == reflect.Pointer && value.IsNil()
}

type vec3Stringer mgl64.Vec3

func (v vec3Stringer) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v[0], v[1], v[2])
}
