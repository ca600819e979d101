// Package featureflags evaluates rollout flags from a comma-separated
// config string, e.g. "phone_verification=on,friend_locations=25%".
package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

type flagRule struct {
	enabled bool
	percent int
}

// Manager holds parsed flag rules. A nil Manager evaluates every flag
// as disabled.
type Manager struct {
	rules map[string]flagRule
}

// NewManager parses a comma-separated flag list. Malformed pairs are
// skipped. Values are on/true/1, off/false/0, or N% for a deterministic
// per-user rollout.
func NewManager(raw string) *Manager {
	rules := make(map[string]flagRule)

	for _, pair := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name = normalize(name)
		value = normalize(value)
		if name == "" || value == "" {
			continue
		}

		switch value {
		case "on", "true", "1":
			rules[name] = flagRule{enabled: true}
		case "off", "false", "0":
			rules[name] = flagRule{enabled: false}
		default:
			pct, ok := parsePercent(value)
			if !ok {
				continue
			}
			rules[name] = flagRule{percent: pct}
		}
	}

	return &Manager{rules: rules}
}

// Enabled reports whether the flag is on for the given user. Unknown
// flags are off. Percentage rollouts bucket users deterministically, so
// a user stays in or out of a rollout across requests.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}

	rule, ok := m.rules[normalize(name)]
	if !ok {
		return false
	}
	if rule.percent == 0 {
		return rule.enabled
	}
	if rule.percent >= 100 {
		return true
	}
	if userID == 0 {
		return false
	}
	return rolloutBucket(name, userID) < rule.percent
}

// Snapshot evaluates every configured flag for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	if m == nil {
		return map[string]bool{}
	}
	out := make(map[string]bool, len(m.rules))
	for name := range m.rules {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func parsePercent(value string) (int, bool) {
	raw, ok := strings.CutSuffix(value, "%")
	if !ok {
		return 0, false
	}
	pct, err := strconv.Atoi(raw)
	if err != nil || pct <= 0 {
		return 0, false
	}
	return pct, true
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", normalize(name), userID)))
	return int(h.Sum32() % 100)
}
