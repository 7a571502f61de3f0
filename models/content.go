package models

import (
	"errors"
	"strings"
)

// ServiceImages holds one showcase image per service line.
type ServiceImages struct {
	Nail   string `json:"nail" mapstructure:"nail" bson:"nail" firestore:"nail"`
	Lash   string `json:"lash" mapstructure:"lash" bson:"lash" firestore:"lash"`
	Tattoo string `json:"tattoo" mapstructure:"tattoo" bson:"tattoo" firestore:"tattoo"`
	Wax    string `json:"wax" mapstructure:"wax" bson:"wax" firestore:"wax"`
}

// SiteContent is the single editable content record of the site. Each field
// holds either a remote URL or an embedded data URI.
type SiteContent struct {
	HeroImage     string        `json:"heroImage" mapstructure:"heroImage" bson:"heroImage" firestore:"heroImage"`
	StoreImage    string        `json:"storeImage" mapstructure:"storeImage" bson:"storeImage" firestore:"storeImage"`
	ServiceImages ServiceImages `json:"serviceImages" mapstructure:"serviceImages" bson:"serviceImages" firestore:"serviceImages"`
}

// DefaultContent returns the compiled-in content used until the owner edits anything.
func DefaultContent() SiteContent {
	return SiteContent{
		HeroImage:  "https://images.unsplash.com/photo-1516975080664-ed2fc6a32937?q=80&w=2070&auto=format&fit=crop",
		StoreImage: "https://images.unsplash.com/photo-1600948836101-f9ffda59d250?auto=format&fit=crop&q=80&w=1200",
		ServiceImages: ServiceImages{
			Nail:   "https://images.unsplash.com/photo-1632345031435-8727f6897d53?auto=format&fit=crop&q=80&w=800",
			Lash:   "https://images.unsplash.com/photo-1512496015851-a90fb38ba796?auto=format&fit=crop&q=80&w=800",
			Tattoo: "https://images.unsplash.com/photo-1522337660859-02fbefca4702?auto=format&fit=crop&q=80&w=800",
			Wax:    "https://images.unsplash.com/photo-1600334089648-b0d9d3028eb2?auto=format&fit=crop&q=80&w=800",
		},
	}
}

// WithDefaults fills every empty image field from the defaults.
func (c SiteContent) WithDefaults() SiteContent {
	d := DefaultContent()
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&c.HeroImage, d.HeroImage)
	fill(&c.StoreImage, d.StoreImage)
	fill(&c.ServiceImages.Nail, d.ServiceImages.Nail)
	fill(&c.ServiceImages.Lash, d.ServiceImages.Lash)
	fill(&c.ServiceImages.Tattoo, d.ServiceImages.Tattoo)
	fill(&c.ServiceImages.Wax, d.ServiceImages.Wax)
	return c
}

// ContentKey addresses one image field. Service images use the
// "service_" prefix, e.g. "service_nail".
type ContentKey string

const (
	KeyHeroImage     ContentKey = "heroImage"
	KeyStoreImage    ContentKey = "storeImage"
	KeyServiceNail   ContentKey = "service_nail"
	KeyServiceLash   ContentKey = "service_lash"
	KeyServiceTattoo ContentKey = "service_tattoo"
	KeyServiceWax    ContentKey = "service_wax"

	serviceKeyPrefix = "service_"
)

// ContentKeys lists every addressable image field.
var ContentKeys = []ContentKey{
	KeyHeroImage, KeyStoreImage,
	KeyServiceNail, KeyServiceLash, KeyServiceTattoo, KeyServiceWax,
}

var ErrUnknownKey = errors.New("unknown content key")

// ParseContentKey validates a raw key.
func ParseContentKey(raw string) (ContentKey, error) {
	for _, k := range ContentKeys {
		if string(k) == raw {
			return k, nil
		}
	}
	return "", ErrUnknownKey
}

// IsService reports whether the key addresses a service sub-field.
func (k ContentKey) IsService() bool {
	return strings.HasPrefix(string(k), serviceKeyPrefix)
}

// Path returns the dotted document path of the field, e.g. "serviceImages.nail".
func (k ContentKey) Path() string {
	if k.IsService() {
		return "serviceImages." + strings.TrimPrefix(string(k), serviceKeyPrefix)
	}
	return string(k)
}

// With returns a copy of c with exactly the field addressed by k replaced.
func (c SiteContent) With(k ContentKey, value string) (SiteContent, error) {
	switch k {
	case KeyHeroImage:
		c.HeroImage = value
	case KeyStoreImage:
		c.StoreImage = value
	case KeyServiceNail:
		c.ServiceImages.Nail = value
	case KeyServiceLash:
		c.ServiceImages.Lash = value
	case KeyServiceTattoo:
		c.ServiceImages.Tattoo = value
	case KeyServiceWax:
		c.ServiceImages.Wax = value
	default:
		return c, ErrUnknownKey
	}
	return c, nil
}

// Get returns the value of the field addressed by k.
func (c SiteContent) Get(k ContentKey) string {
	switch k {
	case KeyHeroImage:
		return c.HeroImage
	case KeyStoreImage:
		return c.StoreImage
	case KeyServiceNail:
		return c.ServiceImages.Nail
	case KeyServiceLash:
		return c.ServiceImages.Lash
	case KeyServiceTattoo:
		return c.ServiceImages.Tattoo
	case KeyServiceWax:
		return c.ServiceImages.Wax
	}
	return ""
}
