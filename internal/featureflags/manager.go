// Package featureflags evaluates operator-controlled switches such as mode enforcement.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// EnforceModes restricts opportunity creation to builders and applying to hustlers.
const EnforceModes = "enforce_modes"

// rule is a parsed flag value: fully on, fully off, or a percentage of users.
type rule struct {
	percent int
}

// Manager evaluates flags from a comma separated list such as "enforce_modes=on,beta_feed=25%".
type Manager struct {
	rules map[string]rule
}

// NewManager parses raw. Malformed entries are ignored.
func NewManager(raw string) *Manager {
	rules := make(map[string]rule)
	for _, entry := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		key, value = normalize(key), normalize(value)
		if key == "" {
			continue
		}
		if r, ok := parseRule(value); ok {
			rules[key] = r
		}
	}
	return &Manager{rules: rules}
}

func parseRule(value string) (rule, bool) {
	switch value {
	case "on", "true", "1":
		return rule{percent: 100}, true
	case "off", "false", "0":
		return rule{percent: 0}, true
	}
	pct, found := strings.CutSuffix(value, "%")
	if !found {
		return rule{}, false
	}
	n, err := strconv.Atoi(pct)
	if err != nil {
		return rule{}, false
	}
	return rule{percent: min(max(n, 0), 100)}, true
}

// Enabled reports whether name is on for userID. Partial rollouts bucket users
// deterministically and never include the zero user.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}
	r, ok := m.rules[normalize(name)]
	switch {
	case !ok || r.percent == 0:
		return false
	case r.percent == 100:
		return true
	case userID == 0:
		return false
	default:
		return bucket(name, userID) < r.percent
	}
}

// Names lists the configured flags in sorted order.
func (m *Manager) Names() []string {
	if m == nil {
		return []string{}
	}
	names := make([]string, 0, len(m.rules))
	for name := range m.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns every configured flag evaluated for one user.
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

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func bucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%s:%d", normalize(name), userID)
	return int(h.Sum32() % 100)
}
