// SPDX-License-Identifier: GPL-2.0-or-later

package cvars

import (
	"bspworld/cvar"
)

type Cvars struct {
	Developer        *cvar.Cvar
	Fov              *cvar.Cvar
	MoveGravity      *cvar.Cvar
	MoveMaxIteration *cvar.Cvar
	MoveOverbounce   *cvar.Cvar
	MoveSlopeAngle   *cvar.Cvar
	MoveStepHeight   *cvar.Cvar
	TraceMask        *cvar.Cvar
}

func Register(r *cvar.Registry) *Cvars {
	return &Cvars{
		Developer:        r.MustRegister("developer", "0", cvar.NONE),
		Fov:              r.MustRegister("fov", "90", cvar.ARCHIVE),
		MoveGravity:      r.MustRegister("mv_gravity", "300", cvar.ARCHIVE),
		MoveMaxIteration: r.MustRegister("mv_maxiterations", "8", cvar.NONE),
		MoveOverbounce:   r.MustRegister("mv_overbounce", "1.01", cvar.NONE),
		MoveSlopeAngle:   r.MustRegister("mv_slopeangle", "45", cvar.ARCHIVE),
		MoveStepHeight:   r.MustRegister("mv_stepheight", "20", cvar.ARCHIVE),
		TraceMask:        r.MustRegister("tr_mask", "solid", cvar.NONE), // solid, player, shot, water or all
	}
}
