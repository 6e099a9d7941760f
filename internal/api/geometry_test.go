package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traces/pkg/render"
)

func TestGeometryHandler(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		expectedStatus int
		features       int
		bound          orb.Bound
	}{
		{
			name:           "AllLayers",
			expectedStatus: http.StatusOK,
			features:       3,
			bound:          orb.Bound{Min: orb.Point{0, 8}, Max: orb.Point{30, 50}},
		},
		{
			name:           "OneLayer",
			query:          "?layer=throttle",
			expectedStatus: http.StatusOK,
			features:       2,
			bound:          orb.Bound{Min: orb.Point{0, 8}, Max: orb.Point{20, 10}},
		},
		{
			name:           "UnknownLayer",
			query:          "?layer=wheel",
			expectedStatus: http.StatusNotFound,
		},
	}

	h := NewGeometryHandler(&staticSource{snap: testSnapshot()})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/geometry"+tt.query, http.NoBody)
			w := httptest.NewRecorder()
			h.Handle(w, req)

			require.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				return
			}
			assert.Equal(t, "application/geo+json", w.Header().Get("Content-Type"))

			fc, err := geojson.UnmarshalFeatureCollection(w.Body.Bytes())
			require.NoError(t, err)
			require.Len(t, fc.Features, tt.features)
			assert.Equal(t, tt.bound, fc.BBox.Bound())

			f := fc.Features[0]
			poly, ok := f.Geometry.(orb.Polygon)
			require.True(t, ok)
			require.Len(t, poly, 1)
			assert.True(t, poly[0].Closed())
			assert.Equal(t, "throttle", f.Properties.MustString("drawable"))
			assert.Equal(t, "#29ff00ff", f.Properties.MustString("color"))
		})
	}
}

func TestBuildCollection_Empty(t *testing.T) {
	fc := buildCollection([]render.LayerSnapshot{{Name: "steering"}})
	assert.Empty(t, fc.Features)
	assert.Nil(t, fc.BBox)
}

func TestColorHex(t *testing.T) {
	assert.Equal(t, "#ffffffff", colorHex(render.White))
	assert.Equal(t, "#ff2900ff", colorHex(render.Red))
}
