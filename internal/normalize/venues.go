package normalize

import (
	"github.com/sgeorgiev1993-gif/kingscross-hospitality-ai/internal/domain/models"
)

// Venues normalizes a raw places list. Entries without a usable name or
// rating are skipped; a singular "type" field is folded into Types.
func Venues(raw []byte) []models.Venue {
	items := asSlice(decodeAny(raw))
	out := make([]models.Venue, 0, len(items))
	for _, item := range items {
		m := asMap(item)
		if m == nil {
			continue
		}
		v := models.Venue{}
		if name, ok := asString(m["name"]); ok {
			v.Name = name
		}
		if v.Name == "" {
			continue
		}
		if rating := firstFloat(m, "rating"); rating != nil {
			v.Rating = *rating
		}
		if lat := firstFloat(m, "lat"); lat != nil {
			v.Lat = *lat
		}
		if lng := firstFloat(m, "lng", "lon"); lng != nil {
			v.Lng = *lng
		}
		if types := asSlice(m["types"]); types != nil {
			for _, t := range types {
				if s, ok := asString(t); ok {
					v.Types = append(v.Types, s)
				}
			}
		} else if t, ok := asString(m["type"]); ok {
			v.Types = []string{t}
		}
		out = append(out, v)
	}
	return out
}
