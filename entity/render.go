package entity

import "github.com/go-gl/mathgl/mgl64"

// RenderSubmit hands the resource and the current world matrix to the render buffer.
// It must run after PullSync in the same frame, otherwise the previous pose is drawn.
func (e *Entity) RenderSubmit() {
	if isNil(e.resource) {
		return
	}
	e.table.buffer.Submit(e.resource, e.worldMatrix)
}

// RenderMatrix returns the world matrix with the entity's scale applied in local space
func (e *Entity) RenderMatrix() mgl64.Mat4 {
	return e.worldMatrix.Mul4(mgl64.Scale3D(e.scale.X(), e.scale.Y(), e.scale.Z()))
}
