package handler

import (
	"net/http"
	"strconv"

	frontend_domain "github.com/tastelink/tastelink/frontend/internal/domain"
	"github.com/tastelink/tastelink/frontend/internal/kakao"
	"github.com/tastelink/tastelink/frontend/internal/mapview"
	"github.com/tastelink/tastelink/shared/utils"
)

type placeSearchResponse struct {
	Center   kakao.LatLng `json:"center"`
	Rows     []kakao.Row  `json:"rows"`
	Selected string       `json:"selected,omitempty"`
	Plan     mapview.Plan `json:"plan"`
}

func (h *Handler) MapGetHandler(w http.ResponseWriter, r *http.Request) {
	var data frontend_domain.MapPageData
	data.Center.Lat = h.Public.Map.DefaultLat
	data.Center.Lng = h.Public.Map.DefaultLng
	data.Radius = kakao.NormalizeRadius(h.Public.Map.DefaultRadius)
	data.Radii = kakao.Radii
	data.Keyword = h.Public.Map.DefaultKeyword
	h.renderTemplate(w, r, "map.html", data)
}

func queryFloat(r *http.Request, key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(r.URL.Query().Get(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

// MapSearchHandler answers the map script. Query parameters:
// q, lat, lng, radius, nationwide, where (region to move to first),
// selected, and rendered ("id:rev,...") for the markers already on the map.
func (h *Handler) MapSearchHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	center := kakao.LatLng{
		Lat: queryFloat(r, "lat", h.Public.Map.DefaultLat),
		Lng: queryFloat(r, "lng", h.Public.Map.DefaultLng),
	}

	if where := q.Get("where"); where != "" {
		moved, err := h.Places.Geocode(r.Context(), where)
		if err != nil {
			utils.WriteJSONError(w, err)
			return
		}
		center = moved
	}

	radius, _ := strconv.Atoi(q.Get("radius"))
	keyword := q.Get("q")
	if keyword == "" {
		keyword = h.Public.Map.DefaultKeyword
	}
	places, err := h.Places.SearchKeyword(r.Context(), kakao.KeywordQuery{
		Query:      keyword,
		Center:     center,
		Radius:     radius,
		Nationwide: q.Get("nationwide") == "1" || q.Get("nationwide") == "true",
	})
	if err != nil {
		utils.WriteJSONError(w, err)
		return
	}

	rows := kakao.Rows(places)
	selected := q.Get("selected")
	if !hasRow(rows, selected) {
		selected = ""
		if len(rows) > 0 {
			selected = rows[0].ID
		}
	}

	binding := mapview.Binding{Rendered: mapview.ParseRendered(q.Get("rendered"))}
	utils.WriteJSON(w, http.StatusOK, placeSearchResponse{
		Center:   center,
		Rows:     rows,
		Selected: selected,
		Plan:     binding.Diff(rows, selected),
	})
}

func hasRow(rows []kakao.Row, id string) bool {
	if id == "" {
		return false
	}
	for _, r := range rows {
		if r.ID == id {
			return true
		}
	}
	return false
}
