// SPDX-License-Identifier: GPL-2.0-or-later

package physics

import (
	"bspworld/cvars"
	qmath "bspworld/math"
)

type Config struct {
	StepHeight    float32 // highest ledge WalkMove climbs without jumping
	SlopeAngle    float32 // steepest walkable ground in degrees
	Gravity       float32
	Overbounce    float32
	MaxIterations int
}

func DefaultConfig() Config {
	return Config{
		StepHeight:    20,
		SlopeAngle:    45,
		Gravity:       300,
		Overbounce:    1.01,
		MaxIterations: 8,
	}
}

// ConfigFromCvars reads the mv_* cvars.
func ConfigFromCvars(cv *cvars.Cvars) Config {
	return Config{
		StepHeight:    cv.MoveStepHeight.Value(),
		SlopeAngle:    qmath.Clamp(0, cv.MoveSlopeAngle.Value(), 90),
		Gravity:       cv.MoveGravity.Value(),
		Overbounce:    qmath.Clamp(1, cv.MoveOverbounce.Value(), 2),
		MaxIterations: qmath.Clamp(1, int(cv.MoveMaxIteration.Value()), 64),
	}
}

// minNormalZ is the smallest normal z of ground a body can stand on.
func (c *Config) minNormalZ() float32 {
	return qmath.Cos(qmath.DegToRad(c.SlopeAngle))
}
