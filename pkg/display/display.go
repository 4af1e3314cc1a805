// Package display formats battle numbers and combat text for people.
package display

import (
	"github.com/jwebster45206/deficit-slayer/pkg/battle"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Number formats n with thousands separators, e.g. 70,000.
func Number(n int) string {
	return printer.Sprintf("%d", n)
}

// HPLabel renders "current / total" with current floored at zero.
func HPLabel(hp, totalHP int) string {
	return Number(max(0, hp)) + " / " + Number(totalHP)
}

// Percent renders a 0..1 fraction as a whole percentage.
func Percent(p float64) string {
	return printer.Sprintf("%.0f%%", p*100)
}

// SignedDeficit shows a deficit as the change it makes to monster HP:
// damage is negative, healing positive.
func SignedDeficit(deficit int) string {
	switch {
	case deficit > 0:
		return "-" + Number(deficit)
	case deficit < 0:
		return "+" + Number(-deficit)
	default:
		return "0"
	}
}

// FloatingText is one piece of combat text shown over the monster.
type FloatingText struct {
	Text  string  `json:"text"`
	Kind  string  `json:"kind"` // damage, crit, heal, miss
	Scale float64 `json:"scale"`
}

// CombatText returns the floating texts for a logged day in display order.
func CombatText(res battle.Result) []FloatingText {
	switch res.Effect {
	case battle.EffectCrit:
		return []FloatingText{
			{Text: SignedDeficit(res.Deficit), Kind: "damage", Scale: 1.5},
			{Text: "CRITICAL!", Kind: "crit", Scale: 1.2},
		}
	case battle.EffectHit:
		return []FloatingText{{Text: SignedDeficit(res.Deficit), Kind: "damage", Scale: 1}}
	case battle.EffectHeal:
		return []FloatingText{{Text: SignedDeficit(res.Deficit), Kind: "heal", Scale: 1}}
	case battle.EffectMiss:
		return []FloatingText{{Text: "MISS", Kind: "miss", Scale: 1}}
	default:
		return nil
	}
}
