package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bazi-agent/server/internal/bazi"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestChart(t *testing.T) {
	out, err := run(t, "", "chart", "1990-01-01", "00:00")
	require.NoError(t, err)
	assert.Equal(t, "己巳 丙子 丙寅 戊子\n", out)
}

func TestChartJSON(t *testing.T) {
	out, err := run(t, "", "chart", "1990-01-01", "--json")
	require.NoError(t, err)

	var got chartJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "1990-01-01 00:00", got.Input)
	assert.Equal(t, "己巳 丙子 丙寅 戊子", got.Bazi)
	assert.Equal(t, "丙", got.DayMaster)
	assert.Equal(t, "Fire", got.DayMasterElement)
	assert.Equal(t, "一九八九年腊月初五", got.LunarDate)
}

func TestChartYearBoundaryFlag(t *testing.T) {
	// Between 立春 (Feb 4) and Lunar New Year (Feb 10) 2024
	lny, err := run(t, "", "chart", "2024-02-09", "12:00")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(lny, "癸卯 "), lny)

	lichun, err := run(t, "", "--year-boundary", "lichun", "chart", "2024-02-09", "12:00")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(lichun, "甲辰 "), lichun)
}

func TestChartErrors(t *testing.T) {
	_, err := run(t, "", "chart", "2023-02-30")
	assert.True(t, errors.Is(err, bazi.ErrInvalidDate))

	_, err = run(t, "", "chart", "1899-12-31", "12:00")
	assert.True(t, errors.Is(err, bazi.ErrUnsupportedRange))

	_, err = run(t, "", "chart", "1990/01/01")
	assert.Error(t, err)

	_, err = run(t, "", "--sect", "3", "chart", "1990-01-01")
	assert.Error(t, err)
}

func TestLunar(t *testing.T) {
	out, err := run(t, "", "lunar", "1990-01-01")
	require.NoError(t, err)
	assert.Equal(t, "一九八九年腊月初五 (己巳)\n", out)
}

func TestTerms(t *testing.T) {
	out, err := run(t, "", "terms", "2024")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 24)
	assert.True(t, strings.HasPrefix(lines[0], "小寒\t2024-01-06 "), lines[0])
	assert.True(t, strings.HasPrefix(lines[2], "立春\t2024-02-04 16:"), lines[2])
	assert.True(t, strings.HasPrefix(lines[23], "冬至\t2024-12-21 "), lines[23])

	_, err = run(t, "", "terms", "2200")
	assert.True(t, errors.Is(err, bazi.ErrUnsupportedRange))
}

func TestBatchKeepsInputOrder(t *testing.T) {
	input := strings.Join([]string{
		"# birth moments",
		"1990-01-01 00:00",
		"",
		"2023-01-22 12:00",
		"1990-01-01",
	}, "\n")

	out, err := run(t, input, "batch")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "1990-01-01 00:00\t己巳 丙子 丙寅 戊子", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2023-01-22 12:00\t癸卯 "), lines[1])
	assert.Equal(t, lines[0], lines[2])
}

func TestBatchFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "births.txt")
	require.NoError(t, os.WriteFile(path, []byte("1990-01-01 00:00\n"), 0o600))

	out, err := run(t, "", "batch", path)
	require.NoError(t, err)
	assert.Equal(t, "1990-01-01 00:00\t己巳 丙子 丙寅 戊子\n", out)
}

func TestBatchStopsAtFirstInvalidLine(t *testing.T) {
	input := "1990-01-01 00:00\n2023-02-30 10:00\n2101-01-01 00:00\n"
	out, err := run(t, input, "batch")
	require.Error(t, err)
	assert.Empty(t, out)
	assert.Contains(t, err.Error(), "line 2")
	assert.True(t, errors.Is(err, bazi.ErrInvalidDate))

	_, err = run(t, "2101-01-01 00:00\n", "batch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
	assert.True(t, errors.Is(err, bazi.ErrUnsupportedRange))
}

func TestParseCivil(t *testing.T) {
	c, err := parseCivil("2024-02-04", "16:27")
	require.NoError(t, err)
	assert.Equal(t, bazi.CivilDateTime{Year: 2024, Month: 2, Day: 4, Hour: 16, Minute: 27}, c)

	for _, tt := range []struct{ date, clock string }{
		{"2024-02", ""},
		{"2024-xx-04", ""},
		{"2024-02-04", "16"},
		{"2024-02-04", "16:aa"},
		{"2024-02-04", "25:00"},
	} {
		_, err := parseCivil(tt.date, tt.clock)
		assert.Error(t, err, "%s %s", tt.date, tt.clock)
	}
}
