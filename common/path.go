package common

import (
	"container/heap"
	"image"
)

// Path finds a shortest 4-way route between two cells, both included. It
// returns nil when the goal is solid, unreachable, or not found within
// maxNodes expansions. The start cell itself may be solid.
func (g *CollisionGrid) Path(from, to image.Point, maxNodes int) []image.Point {
	if g == nil || g.Width <= 0 || g.Height <= 0 {
		return nil
	}
	if !from.In(image.Rect(0, 0, g.Width, g.Height)) || g.Blocked(to.X, to.Y) {
		return nil
	}
	if from == to {
		return []image.Point{from}
	}

	idx := func(p image.Point) int { return p.Y*g.Width + p.X }
	cameFrom := make(map[int]int, 64)
	cost := map[int]int{idx(from): 0}
	open := &pathQueue{{cell: from, score: manhattan(from, to)}}

	for expanded := 0; open.Len() > 0 && expanded < maxNodes; expanded++ {
		cur := heap.Pop(open).(pathNode)
		if cur.cell == to {
			return g.unwind(cameFrom, idx(to), idx(from))
		}
		ci := idx(cur.cell)
		for _, d := range []image.Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			n := cur.cell.Add(d)
			if g.Blocked(n.X, n.Y) {
				continue
			}
			ni := idx(n)
			c := cost[ci] + 1
			if prev, seen := cost[ni]; seen && c >= prev {
				continue
			}
			cost[ni] = c
			cameFrom[ni] = ci
			heap.Push(open, pathNode{cell: n, score: c + manhattan(n, to)})
		}
	}
	return nil
}

func (g *CollisionGrid) unwind(cameFrom map[int]int, cur, start int) []image.Point {
	var path []image.Point
	for {
		path = append(path, image.Pt(cur%g.Width, cur/g.Width))
		if cur == start {
			break
		}
		cur = cameFrom[cur]
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func manhattan(a, b image.Point) int {
	d := a.Sub(b)
	return abs(d.X) + abs(d.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

type pathNode struct {
	cell  image.Point
	score int
}

// pathQueue is a min-heap on score.
type pathQueue []pathNode

func (q pathQueue) Len() int           { return len(q) }
func (q pathQueue) Less(i, j int) bool { return q[i].score < q[j].score }
func (q pathQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *pathQueue) Push(x any)        { *q = append(*q, x.(pathNode)) }
func (q *pathQueue) Pop() any {
	old := *q
	n := old[len(old)-1]
	*q = old[:len(old)-1]
	return n
}
