// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

// Contents flags of leafs and brushes. Lower bits are stronger and eat weaker
// brushes completely.
const (
	ContentsSolid  = 1 << iota // an eye is never valid in a solid
	ContentsWindow             // translucent, but not watery
	ContentsAux
	ContentsLava
	ContentsSlime
	ContentsWater
	ContentsMist
)

const (
	ContentsAreaPortal  = 0x8000
	ContentsPlayerClip  = 0x10000
	ContentsMonsterClip = 0x20000

	// currents can be added to any other contents, and may be mixed
	ContentsCurrent0    = 0x40000
	ContentsCurrent90   = 0x80000
	ContentsCurrent180  = 0x100000
	ContentsCurrent270  = 0x200000
	ContentsCurrentUp   = 0x400000
	ContentsCurrentDown = 0x800000

	ContentsOrigin      = 0x1000000 // removed before bsping an entity
	ContentsMonster     = 0x2000000 // should never be on a brush, only in game
	ContentsDeadMonster = 0x4000000
	ContentsDetail      = 0x8000000 // brushes to be added after vis leafs
	ContentsTranslucent = 0x10000000
	ContentsLadder      = 0x20000000
)

// Content masks used by traces.
const (
	MaskAll          = 0xffffffff
	MaskSolid        = ContentsSolid | ContentsWindow
	MaskPlayerSolid  = ContentsSolid | ContentsPlayerClip | ContentsWindow | ContentsMonster
	MaskDeadSolid    = ContentsSolid | ContentsPlayerClip | ContentsWindow
	MaskMonsterSolid = ContentsSolid | ContentsMonsterClip | ContentsWindow | ContentsMonster
	MaskWater        = ContentsWater | ContentsLava | ContentsSlime
	MaskOpaque       = ContentsSolid | ContentsSlime | ContentsLava
	MaskShot         = ContentsSolid | ContentsMonster | ContentsWindow | ContentsDeadMonster
	MaskCurrent      = ContentsCurrent0 | ContentsCurrent90 | ContentsCurrent180 |
		ContentsCurrent270 | ContentsCurrentUp | ContentsCurrentDown
)
