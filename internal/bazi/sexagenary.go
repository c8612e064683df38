package bazi

// Stem is one of the ten Heavenly Stems, 甲 (0) through 癸 (9).
type Stem int

const (
	StemJia Stem = iota
	StemYi
	StemBing
	StemDing
	StemWu
	StemJi
	StemGeng
	StemXin
	StemRen
	StemGui
)

var stemNames = [10]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}

func (s Stem) String() string {
	if s < 0 || int(s) >= len(stemNames) {
		return "?"
	}
	return stemNames[s]
}

// Element is the Five Phases element of the stem. Stems come in yang/yin
// pairs per element: 甲乙 wood, 丙丁 fire, 戊己 earth, 庚辛 metal, 壬癸 water.
func (s Stem) Element() Element {
	return Element(mod(int(s), 10) / 2)
}

// Yang reports whether the stem is yang (even index).
func (s Stem) Yang() bool {
	return mod(int(s), 2) == 0
}

// Branch is one of the twelve Earthly Branches, 子 (0) through 亥 (11).
type Branch int

const (
	BranchZi Branch = iota
	BranchChou
	BranchYin
	BranchMao
	BranchChen
	BranchSi
	BranchWu
	BranchWei
	BranchShen
	BranchYou
	BranchXu
	BranchHai
)

var branchNames = [12]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}

func (b Branch) String() string {
	if b < 0 || int(b) >= len(branchNames) {
		return "?"
	}
	return branchNames[b]
}

// Element names one of the Five Phases.
type Element int

const (
	Wood Element = iota
	Fire
	Earth
	Metal
	Water
)

var elementNames = [5]string{"Wood", "Fire", "Earth", "Metal", "Water"}

func (e Element) String() string {
	if e < 0 || int(e) >= len(elementNames) {
		return "?"
	}
	return elementNames[e]
}

// Pillar is a stem-branch pair of the sexagenary cycle.
type Pillar struct {
	Stem   Stem
	Branch Branch
}

// NewPillar returns the pillar at position index of the 60-cycle, where
// 0 is 甲子. Indexes wrap in both directions.
func NewPillar(index int) Pillar {
	i := mod(index, 60)
	return Pillar{Stem: Stem(i % 10), Branch: Branch(i % 12)}
}

// Index returns the position of p in the 60-cycle. It is only meaningful
// for valid pillars.
func (p Pillar) Index() int {
	return mod(6*int(p.Stem)-5*int(p.Branch), 60)
}

// Next returns the pillar n steps after p (n may be negative).
func (p Pillar) Next(n int) Pillar {
	return NewPillar(p.Index() + n)
}

// Valid reports whether both halves are in range and share parity; only
// 60 of the 120 naive combinations belong to the cycle.
func (p Pillar) Valid() bool {
	if p.Stem < 0 || p.Stem > StemGui || p.Branch < 0 || p.Branch > BranchHai {
		return false
	}
	return int(p.Stem)%2 == int(p.Branch)%2
}

func (p Pillar) String() string {
	return p.Stem.String() + p.Branch.String()
}

// yearPillar maps a year number onto the cycle; 1984 is 甲子.
func yearPillar(year int) Pillar {
	return NewPillar(year - 4)
}

// firstMonthStem is the "Five Tigers" rule: the stem of the 寅 month for a
// given year stem. 甲己 -> 丙, 乙庚 -> 戊, 丙辛 -> 庚, 丁壬 -> 壬, 戊癸 -> 甲.
func firstMonthStem(year Stem) Stem {
	return Stem(mod(int(year)%5*2+2, 10))
}

// firstHourStem is the "Five Rats" rule: the stem of the 子 hour that opens
// a day with the given stem. 甲己 -> 甲, 乙庚 -> 丙, 丙辛 -> 戊, 丁壬 -> 庚, 戊癸 -> 壬.
func firstHourStem(day Stem) Stem {
	return Stem(mod(int(day)%5*2, 10))
}

func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
