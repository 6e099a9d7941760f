package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"traces/pkg/render"
)

// GeometryHandler exports the current frame as GeoJSON in pixel space.
type GeometryHandler struct {
	src Source
}

// NewGeometryHandler creates a new handler.
func NewGeometryHandler(src Source) *GeometryHandler {
	return &GeometryHandler{src: src}
}

// Handle answers GET /api/geometry[?layer=<name>] with one Polygon feature per quad.
func (h *GeometryHandler) Handle(w http.ResponseWriter, r *http.Request) {
	s, ok := latest(w, h.src)
	if !ok {
		return
	}

	layers := s.Layers
	if name := r.URL.Query().Get("layer"); name != "" {
		l, found := s.Layer(name)
		if !found {
			http.Error(w, "unknown layer", http.StatusNotFound)
			return
		}
		layers = []render.LayerSnapshot{l}
	}

	data, err := buildCollection(layers).MarshalJSON()
	if err != nil {
		slog.Error("Failed to marshal geometry", "error", err)
		http.Error(w, "failed to marshal geometry", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	if _, err := w.Write(data); err != nil {
		slog.Error("Failed to write geometry response", "error", err)
	}
}

func buildCollection(layers []render.LayerSnapshot) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	var bound orb.Bound
	first := true
	for _, l := range layers {
		hex := colorHex(l.Color)
		for i, q := range l.Quads {
			f := geojson.NewFeature(orb.Polygon{q.Ring()})
			f.Properties["drawable"] = l.Name
			f.Properties["color"] = hex
			f.Properties["index"] = i
			fc.Append(f)

			if first {
				bound = q.Bound()
				first = false
			} else {
				bound = bound.Union(q.Bound())
			}
		}
	}
	if !first {
		fc.BBox = geojson.NewBBox(bound)
	}
	return fc
}

func colorHex(c render.Color) string {
	n := c.NRGBA()
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}
