package formats

import (
	"fmt"
	"iter"
	"math"

	"github.com/Faultbox/ganesha/pkg/resource"
)

// Extents is the axis-aligned bounding box of a polygon set.
type Extents struct {
	Min Point3
	Max Point3
}

// Size returns the box dimensions along each axis.
func (e Extents) Size() (dx, dy, dz int) {
	return int(e.Max.X) - int(e.Min.X), int(e.Max.Y) - int(e.Min.Y), int(e.Max.Z) - int(e.Min.Z)
}

// Center returns the middle of the box.
func (e Extents) Center() (x, y, z float64) {
	x = (float64(e.Min.X) + float64(e.Max.X)) / 2
	y = (float64(e.Min.Y) + float64(e.Max.Y)) / 2
	z = (float64(e.Min.Z) + float64(e.Max.Z)) / 2
	return x, y, z
}

// Diagonal returns the horizontal diagonal of the box over X and Z.
// Height is ignored since the value frames a top-down camera.
func (e Extents) Diagonal() float64 {
	dx, _, dz := e.Size()
	return math.Hypot(float64(dx), float64(dz))
}

// include grows the box to contain p.
func (e *Extents) include(p Point3) {
	e.Min.X = min(e.Min.X, p.X)
	e.Min.Y = min(e.Min.Y, p.Y)
	e.Min.Z = min(e.Min.Z, p.Z)
	e.Max.X = max(e.Max.X, p.X)
	e.Max.Y = max(e.Max.Y, p.Y)
	e.Max.Z = max(e.Max.Z, p.Z)
}

// PolygonSet is the fully assembled geometry of one polygon chunk.
type PolygonSet struct {
	Header   RecordHeader
	Polygons []Polygon
	Extents  Extents
}

// All iterates the polygons in decode order.
func (ps *PolygonSet) All() iter.Seq2[int, *Polygon] {
	return func(yield func(int, *Polygon) bool) {
		for i := range ps.Polygons {
			if !yield(i, &ps.Polygons[i]) {
				return
			}
		}
	}
}

// Len returns the number of polygons.
func (ps *PolygonSet) Len() int {
	return len(ps.Polygons)
}

// DecodePolygons assembles every polygon of a polygon chunk.
//
// Position, normal, UV, terrain and visibility data live in separate
// sections and are zipped by index. Visibility is only read for the
// default polygon slot; for any other slot every angle is hidden. A nil
// visibility chunk also hides every angle.
func DecodePolygons(chunk, visibility []byte, slot int) (*PolygonSet, error) {
	sections, err := ParseSections(chunk)
	if err != nil {
		return nil, err
	}
	if slot != SlotPolygons {
		visibility = nil
	}

	h := sections.Header
	ps := &PolygonSet{
		Header:   h,
		Polygons: make([]Polygon, 0, h.Total()),
	}

	for g := TexturedTriangles; g <= UntexturedQuads; g++ {
		count := h.Count(g)
		vis, err := ParseVisibility(visibility, g, count)
		if err != nil {
			return nil, err
		}
		points := sections.Points[g].Records(chunk)

		if g.Textured() {
			normals := sections.Normals[g].Records(chunk)
			uvs := sections.UVs[g].Records(chunk)
			terrain := sections.Terrain[g].Records(chunk)
			if err := sameLength(g, count, len(points), len(vis), len(normals), len(uvs), len(terrain)); err != nil {
				return nil, err
			}
			for i := 0; i < count; i++ {
				ps.Polygons = append(ps.Polygons, parseTextured(g, points[i], normals[i], uvs[i], terrain[i], vis[i]))
			}
			continue
		}

		unknown := sections.Unknown[g-UntexturedTriangles].Records(chunk)
		if err := sameLength(g, count, len(points), len(vis), len(unknown)); err != nil {
			return nil, err
		}
		for i := 0; i < count; i++ {
			ps.Polygons = append(ps.Polygons, parseUntextured(g, points[i], unknown[i], vis[i]))
		}
	}

	for i := range ps.Polygons {
		p := &ps.Polygons[i]
		p.Index = i
		for j, v := range p.Corners() {
			if i == 0 && j == 0 {
				ps.Extents = Extents{Min: v.Point, Max: v.Point}
				continue
			}
			ps.Extents.include(v.Point)
		}
	}
	return ps, nil
}

// sameLength fails when the parallel streams of a group disagree.
func sameLength(g Group, want int, lengths ...int) error {
	for _, n := range lengths {
		if n != want {
			return fmt.Errorf("%w: %s streams have %v records, header says %d",
				resource.ErrMalformedRecord, g, lengths, want)
		}
	}
	return nil
}
