package content

import (
	"github.com/mitchellh/mapstructure"

	"trinhnail/models"
)

// Record is the generic document form exchanged with remote stores.
type Record = map[string]interface{}

func encodeRecord(c models.SiteContent) Record {
	return Record{
		"heroImage":     c.HeroImage,
		"storeImage":    c.StoreImage,
		"serviceImages": serviceRecord(c.ServiceImages),
	}
}

func serviceRecord(s models.ServiceImages) map[string]interface{} {
	return map[string]interface{}{
		"nail":   s.Nail,
		"lash":   s.Lash,
		"tattoo": s.Tattoo,
		"wax":    s.Wax,
	}
}

// decodeRecord validates and converts a remote document. Records without a
// hero image or without the serviceImages map are rejected; any other
// missing field takes its default.
func decodeRecord(rec Record) (models.SiteContent, bool) {
	if rec == nil {
		return models.SiteContent{}, false
	}
	if hero, _ := rec["heroImage"].(string); hero == "" {
		return models.SiteContent{}, false
	}
	if si, ok := rec["serviceImages"]; !ok || si == nil {
		return models.SiteContent{}, false
	}

	var c models.SiteContent
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &c,
		WeaklyTypedInput: false,
	})
	if err != nil {
		return models.SiteContent{}, false
	}
	if err := dec.Decode(rec); err != nil {
		return models.SiteContent{}, false
	}
	return c.WithDefaults(), true
}
