package kakao

import (
	"fmt"
	"strconv"
)

// Row is a place shaped for the result list and the marker layer.
type Row struct {
	ID       string  `json:"id"`
	Index    int     `json:"index"`
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	Category string  `json:"category"`
	Phone    string  `json:"phone,omitempty"`
	URL      string  `json:"url"`
	Distance string  `json:"distance,omitempty"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// Rows numbers places from 1 and prefers road addresses and category groups.
// Places without usable coordinates are dropped.
func Rows(places []Place) []Row {
	rows := make([]Row, 0, len(places))
	for _, p := range places {
		lat, errLat := strconv.ParseFloat(p.Y, 64)
		lng, errLng := strconv.ParseFloat(p.X, 64)
		if errLat != nil || errLng != nil {
			continue
		}
		row := Row{
			ID:       p.ID,
			Index:    len(rows) + 1,
			Name:     p.PlaceName,
			Address:  firstNonEmpty(p.RoadAddressName, p.AddressName),
			Category: firstNonEmpty(p.CategoryGroupName, p.CategoryName),
			Phone:    p.Phone,
			URL:      p.PlaceURL,
			Lat:      lat,
			Lng:      lng,
		}
		if m, err := strconv.Atoi(p.Distance); err == nil {
			row.Distance = FormatDistance(m)
		}
		rows = append(rows, row)
	}
	return rows
}

// FormatDistance renders meters as "350m" or "1.2km".
func FormatDistance(meters int) string {
	if meters >= 1000 {
		return fmt.Sprintf("%.1fkm", float64(meters)/1000)
	}
	return fmt.Sprintf("%dm", meters)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
