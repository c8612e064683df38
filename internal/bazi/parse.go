package bazi

import (
	"fmt"
	"strings"
)

// ParsePillars parses the textual chart form produced by Chart.String.
func ParsePillars(s string) ([4]Pillar, error) {
	var out [4]Pillar
	parts := strings.Split(s, " ")
	if len(parts) != len(out) {
		return out, fmt.Errorf("chart %q: want 4 space separated pillars, got %d", s, len(parts))
	}
	for i, part := range parts {
		p, err := ParsePillar(part)
		if err != nil {
			return out, fmt.Errorf("chart %q: %w", s, err)
		}
		out[i] = p
	}
	return out, nil
}

// ParsePillar parses a single stem-branch pair such as "甲子".
func ParsePillar(s string) (Pillar, error) {
	r := []rune(s)
	if len(r) != 2 {
		return Pillar{}, fmt.Errorf("pillar %q: want 2 characters", s)
	}
	stem := indexOf(stemNames[:], string(r[0]))
	if stem < 0 {
		return Pillar{}, fmt.Errorf("pillar %q: unknown stem %q", s, string(r[0]))
	}
	branch := indexOf(branchNames[:], string(r[1]))
	if branch < 0 {
		return Pillar{}, fmt.Errorf("pillar %q: unknown branch %q", s, string(r[1]))
	}
	p := Pillar{Stem: Stem(stem), Branch: Branch(branch)}
	if !p.Valid() {
		return Pillar{}, fmt.Errorf("pillar %q: stem and branch parity differ", s)
	}
	return p, nil
}

func indexOf(names []string, s string) int {
	for i, n := range names {
		if n == s {
			return i
		}
	}
	return -1
}
