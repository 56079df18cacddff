package tools

import (
	"sort"

	"github.com/lewtec/segtrack/internal/geometry"
	"github.com/tidwall/rtree"
)

// polygonIndex is an R-tree over polygon bounding boxes.
type polygonIndex struct {
	tree rtree.RTreeG[string]
}

func (ix *polygonIndex) insert(id string, p *geometry.Polygon) {
	if p.NumPoints() < 3 {
		return
	}
	box := p.BoundingBox()
	ix.tree.Insert(box.Min(), box.Max(), id)
}

// search returns the ids whose boxes intersect box, sorted.
func (ix *polygonIndex) search(box geometry.Box) []string {
	var ids []string
	ix.tree.Search(box.Min(), box.Max(), func(_, _ [2]float64, id string) bool {
		ids = append(ids, id)
		return true
	})
	sort.Strings(ids)
	return ids
}

func (ix *polygonIndex) size() int {
	return ix.tree.Len()
}
