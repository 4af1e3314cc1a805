package battle

// Effect classifies a logged day for combat feedback.
type Effect string

const (
	EffectNone Effect = "NONE" // no attack has happened yet
	EffectHit  Effect = "HIT"
	EffectCrit Effect = "CRIT"
	EffectHeal Effect = "HEAL"
	EffectMiss Effect = "MISS"
)

// Classify maps a deficit to its effect. A deficit above CritThreshold is a
// critical hit, any other positive deficit a hit, zero a miss and a surplus
// heals the monster.
func Classify(deficit int) Effect {
	switch {
	case deficit > CritThreshold:
		return EffectCrit
	case deficit > 0:
		return EffectHit
	case deficit == 0:
		return EffectMiss
	default:
		return EffectHeal
	}
}

// IsDamage reports whether the effect lowered the monster's HP.
func (e Effect) IsDamage() bool {
	return e == EffectHit || e == EffectCrit
}
