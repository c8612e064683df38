package bazi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPillarIndexRoundTrip(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 60; i++ {
		p := NewPillar(i)
		require.True(t, p.Valid(), "pillar %d", i)
		assert.Equal(t, i, p.Index())
		seen[p.String()] = true
	}
	assert.Len(t, seen, 60)
	assert.Equal(t, "甲子", NewPillar(0).String())
	assert.Equal(t, "癸亥", NewPillar(59).String())
	assert.Equal(t, "癸亥", NewPillar(-1).String())
	assert.Equal(t, "甲子", NewPillar(60).String())
}

func TestPillarParity(t *testing.T) {
	valid := 0
	for s := StemJia; s <= StemGui; s++ {
		for b := BranchZi; b <= BranchHai; b++ {
			if (Pillar{Stem: s, Branch: b}).Valid() {
				valid++
			}
		}
	}
	assert.Equal(t, 60, valid)
	assert.False(t, Pillar{Stem: StemJia, Branch: BranchChou}.Valid())
	assert.False(t, Pillar{Stem: Stem(10), Branch: BranchZi}.Valid())
}

func TestPillarNext(t *testing.T) {
	p := NewPillar(58) // 壬戌
	assert.Equal(t, "癸亥", p.Next(1).String())
	assert.Equal(t, "甲子", p.Next(2).String())
	assert.Equal(t, "辛酉", p.Next(-1).String())
	assert.Equal(t, p, p.Next(60))
}

func TestFiveTigers(t *testing.T) {
	want := map[Stem]string{
		StemJia: "丙", StemJi: "丙",
		StemYi: "戊", StemGeng: "戊",
		StemBing: "庚", StemXin: "庚",
		StemDing: "壬", StemRen: "壬",
		StemWu: "甲", StemGui: "甲",
	}
	for year, stem := range want {
		assert.Equal(t, stem, firstMonthStem(year).String(), "year stem %s", year)
	}
}

func TestFiveRats(t *testing.T) {
	want := map[Stem]string{
		StemJia: "甲", StemJi: "甲",
		StemYi: "丙", StemGeng: "丙",
		StemBing: "戊", StemXin: "戊",
		StemDing: "庚", StemRen: "庚",
		StemWu: "壬", StemGui: "壬",
	}
	for day, stem := range want {
		assert.Equal(t, stem, firstHourStem(day).String(), "day stem %s", day)
	}
}

func TestStemElement(t *testing.T) {
	assert.Equal(t, Wood, StemJia.Element())
	assert.Equal(t, Fire, StemDing.Element())
	assert.Equal(t, Earth, StemJi.Element())
	assert.Equal(t, Metal, StemXin.Element())
	assert.Equal(t, Water, StemGui.Element())
	assert.True(t, StemBing.Yang())
	assert.False(t, StemGui.Yang())
	assert.Equal(t, "Metal", StemGeng.Element().String())
}

func TestParsePillars(t *testing.T) {
	ps, err := ParsePillars("己巳 丙子 丙寅 戊子")
	require.NoError(t, err)
	assert.Equal(t, "丙寅", ps[2].String())
	assert.Equal(t, StemBing, ps[2].Stem)

	for _, bad := range []string{
		"",
		"己巳 丙子 丙寅",
		"己巳  丙子 丙寅 戊子",
		"己巳 丙子 丙寅 戊丑",
		"己巳 丙子 丙寅 X子",
		"己巳 丙子 丙寅 戊子子",
	} {
		_, err := ParsePillars(bad)
		assert.Error(t, err, "input %q", bad)
	}
}
