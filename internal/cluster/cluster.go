// Package cluster groups matched blood pixels into bounding-box findings.
//
// Matched pixels are binned into a coarse grid; cells with too few matches
// are dropped as stray noise, the remaining active cells are joined by
// 4-connected BFS, and each component becomes one finding with a dominant
// profile.
package cluster

import (
	"container/list"

	"github.com/MeKo-Tech/hemoscan/internal/mempool"
	"github.com/MeKo-Tech/hemoscan/internal/utils"
)

// Config holds the clustering grid geometry and noise thresholds.
type Config struct {
	// CellSize is the grid cell edge in pixels.
	CellSize int `mapstructure:"cell_size" yaml:"cell_size" json:"cell_size"`
	// CellThreshold is the minimum matches for a cell to count as active.
	CellThreshold int `mapstructure:"cell_threshold" yaml:"cell_threshold" json:"cell_threshold"`
	// MinTotal is the minimum matched pixels for a component to survive.
	MinTotal int `mapstructure:"min_total" yaml:"min_total" json:"min_total"`
}

// DefaultConfig returns the standard clustering parameters.
func DefaultConfig() Config {
	return Config{CellSize: 12, CellThreshold: 3, MinTotal: 8}
}

// MatchedPixel is one sampled pixel that matched a blood profile.
// Profile is the index into the ordered profile table.
type MatchedPixel struct {
	X       int
	Y       int
	Profile int
}

// Finding is a clustered region of matched pixels.
type Finding struct {
	Box        utils.Box // pixel coordinates
	Profile    int       // dominant profile index
	PixelCount int       // matched pixels backing the finding
}

// Engine clusters matched pixels for images of one profile-table size.
type Engine struct {
	cfg         Config
	numProfiles int
}

// NewEngine creates a cluster engine. numProfiles is the length of the
// ordered profile table the pixel indices refer to.
func NewEngine(cfg Config, numProfiles int) *Engine {
	if cfg.CellSize < 1 {
		cfg.CellSize = 1
	}
	return &Engine{cfg: cfg, numProfiles: numProfiles}
}

// compStats represents statistics for one connected component of cells.
type compStats struct {
	count   int
	tallies []int
	minCX   int
	minCY   int
	maxCX   int
	maxCY   int
}

// Cluster groups the matched pixels into findings. The result order follows
// the row-major scan of component seeds, so identical input yields identical
// output.
func (e *Engine) Cluster(pixels []MatchedPixel, width, height int) []Finding {
	if len(pixels) == 0 || width <= 0 || height <= 0 {
		return nil
	}
	cols := (width + e.cfg.CellSize - 1) / e.cfg.CellSize
	rows := (height + e.cfg.CellSize - 1) / e.cfg.CellSize

	counts := make([]int, cols*rows)
	tallies := make([]int, cols*rows*e.numProfiles)
	for _, px := range pixels {
		cx := utils.ClampInt(px.X/e.cfg.CellSize, 0, cols-1)
		cy := utils.ClampInt(px.Y/e.cfg.CellSize, 0, rows-1)
		idx := cy*cols + cx
		counts[idx]++
		if px.Profile >= 0 && px.Profile < e.numProfiles {
			tallies[idx*e.numProfiles+px.Profile]++
		}
	}

	active := mempool.GetBool(cols * rows)
	defer mempool.PutBool(active)
	for i, c := range counts {
		if c >= e.cfg.CellThreshold {
			active[i] = true
		}
	}

	visited := mempool.GetBool(cols * rows)
	defer mempool.PutBool(visited)

	var findings []Finding
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			idx := cy*cols + cx
			if !active[idx] || visited[idx] {
				continue
			}
			st := e.performComponentBFS(active, visited, counts, tallies, cols, rows, cx, cy)
			if st.count < e.cfg.MinTotal {
				continue
			}
			findings = append(findings, e.findingFromComponent(st, width, height))
		}
	}
	return findings
}

// performComponentBFS walks one 4-connected component of active cells using
// an explicit queue. No recursion, so stack depth stays bounded on large
// grids.
func (e *Engine) performComponentBFS(active, visited []bool, counts, tallies []int,
	cols, rows, startCX, startCY int,
) compStats {
	idx := func(cx, cy int) int { return cy*cols + cx }
	st := compStats{
		tallies: make([]int, e.numProfiles),
		minCX:   startCX, minCY: startCY, maxCX: startCX, maxCY: startCY,
	}

	q := list.New()
	start := idx(startCX, startCY)
	q.PushBack(start)
	visited[start] = true

	dirs := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for q.Len() > 0 {
		el := q.Front()
		q.Remove(el)
		ci, ok := el.Value.(int)
		if !ok {
			continue
		}
		cx, cy := ci%cols, ci/cols
		e.updateComponentStats(&st, counts[ci], tallies[ci*e.numProfiles:(ci+1)*e.numProfiles], cx, cy)
		for _, d := range dirs {
			nx, ny := cx+d[0], cy+d[1]
			if nx < 0 || nx >= cols || ny < 0 || ny >= rows {
				continue
			}
			ni := idx(nx, ny)
			if active[ni] && !visited[ni] {
				visited[ni] = true
				q.PushBack(ni)
			}
		}
	}
	return st
}

func (e *Engine) updateComponentStats(st *compStats, count int, cellTallies []int, cx, cy int) {
	st.count += count
	for i, t := range cellTallies {
		st.tallies[i] += t
	}
	if cx < st.minCX {
		st.minCX = cx
	}
	if cy < st.minCY {
		st.minCY = cy
	}
	if cx > st.maxCX {
		st.maxCX = cx
	}
	if cy > st.maxCY {
		st.maxCY = cy
	}
}

// findingFromComponent scales the cell range back to pixel coordinates and
// resolves the dominant profile: highest tally, ties broken by declaration
// order (lowest index wins).
func (e *Engine) findingFromComponent(st compStats, width, height int) Finding {
	dominant := 0
	best := -1
	for i, t := range st.tallies {
		if t > best {
			best = t
			dominant = i
		}
	}
	x1 := float64(st.minCX * e.cfg.CellSize)
	y1 := float64(st.minCY * e.cfg.CellSize)
	x2 := float64((st.maxCX + 1) * e.cfg.CellSize)
	y2 := float64((st.maxCY + 1) * e.cfg.CellSize)
	box := utils.NewBox(
		x1, y1,
		utils.ClampFloat(x2, 0, float64(width)),
		utils.ClampFloat(y2, 0, float64(height)),
	)
	return Finding{Box: box, Profile: dominant, PixelCount: st.count}
}
