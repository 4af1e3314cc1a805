package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jwebster45206/deficit-slayer/pkg/roster"
)

// Migrate merges a possibly partial or older persisted record over the
// default state, field by field. It never fails: anything it cannot use is
// replaced by the default and named in repairs. An empty record yields the
// default state with no repairs.
func Migrate(data []byte, r *roster.Roster, now time.Time) (gs GameState, repairs []string) {
	gs = New(r, now)

	if len(bytes.TrimSpace(data)) == 0 {
		return gs, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return gs, []string{"record"}
	}

	decode := func(field string, target any) bool {
		v, ok := raw[field]
		if !ok {
			return false
		}
		if !decodeValue(v, target) {
			repairs = append(repairs, field)
			return false
		}
		return true
	}

	var index int
	if decode("currentMonsterIndex", &index) {
		switch {
		case index < 0:
			repairs = append(repairs, "currentMonsterIndex")
			index = 0
		case index > r.Len():
			repairs = append(repairs, "currentMonsterIndex")
			index = r.Len()
		}
		gs.CurrentMonsterIndex = index
	}

	monster, hasMonster := r.At(gs.CurrentMonsterIndex)
	if hasMonster {
		gs.CurrentMonsterHP = monster.TotalHP
	} else {
		gs.CurrentMonsterHP = 0
	}

	var hp int
	if decode("currentMonsterHp", &hp) {
		if hasMonster && hp > monster.TotalHP {
			repairs = append(repairs, "currentMonsterHp")
			hp = monster.TotalHP
		}
		gs.CurrentMonsterHP = hp
	}

	var total int
	if decode("totalDeficit", &total) {
		gs.TotalDeficit = total
	}

	// Undecodable entries are dropped individually.
	var entries []json.RawMessage
	if decode("logs", &entries) {
		logs := make([]GameLog, 0, len(entries))
		for i, entry := range entries {
			var l GameLog
			if !decodeValue(entry, &l) {
				repairs = append(repairs, fmt.Sprintf("logs[%d]", i))
				continue
			}
			logs = append(logs, l)
		}
		gs.Logs = logs
	}

	var lastLogin time.Time
	if decode("lastLogin", &lastLogin) {
		gs.LastLogin = lastLogin
	}

	return gs, repairs
}

// decodeValue unmarshals v into target, treating an explicit null as unusable.
func decodeValue(v json.RawMessage, target any) bool {
	if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return false
	}
	return json.Unmarshal(v, target) == nil
}
