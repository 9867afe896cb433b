package actor

// Material describes the surface response of a collision shape
type Material struct {
	StaticFriction  float64
	DynamicFriction float64
	Restitution     float64 // 0= no rebound, 1= perfect restitution
}

func DefaultMaterial() *Material {
	return &Material{
		StaticFriction:  0.5,
		DynamicFriction: 0.5,
		Restitution:     0.1,
	}
}
