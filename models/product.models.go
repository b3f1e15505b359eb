package models

import "strings"

// Brand is the manufacturer block of a catalog record
type Brand struct {
	ID   string `bson:"id,omitempty" json:"Id,omitempty"`
	Name string `bson:"name" json:"Name"`
}

// Color is one colorway a product is offered in
type Color struct {
	ColorCode            string `bson:"color_code,omitempty" json:"ColorCode,omitempty"`
	ColorName            string `bson:"color_name" json:"ColorName"`
	ColorChipImageSrc    string `bson:"color_chip_image_src,omitempty" json:"ColorChipImageSrc,omitempty"`
	ColorPreviewImageSrc string `bson:"color_preview_image_src,omitempty" json:"ColorPreviewImageSrc,omitempty"`
}

// Images holds the sized product photos
type Images struct {
	PrimarySmall      string `bson:"primary_small,omitempty" json:"PrimarySmall,omitempty"`
	PrimaryMedium     string `bson:"primary_medium,omitempty" json:"PrimaryMedium,omitempty"`
	PrimaryLarge      string `bson:"primary_large,omitempty" json:"PrimaryLarge,omitempty"`
	PrimaryExtraLarge string `bson:"primary_extra_large,omitempty" json:"PrimaryExtraLarge,omitempty"`
}

// Product is a catalog record. ID is only unique within one category.
type Product struct {
	ID               string  `bson:"id" json:"Id"`
	Name             string  `bson:"name" json:"Name"`
	NameWithoutBrand string  `bson:"name_without_brand" json:"NameWithoutBrand"`
	Brand            Brand   `bson:"brand" json:"Brand"`
	FinalPrice       float64 `bson:"final_price" json:"FinalPrice"`
	Colors           []Color `bson:"colors" json:"Colors"`
	Image            string  `bson:"image,omitempty" json:"Image,omitempty"`
	Images           Images  `bson:"images" json:"Images"`
	DescriptionHTML  string  `bson:"description_html" json:"DescriptionHtmlSimple"`
	Category         string  `bson:"category" json:"category"`
}

// Key identifies a product across categories
func (p Product) Key() ProductKey {
	return ProductKey{ID: p.ID, Category: p.Category}
}

// PrimaryColor returns the first color name, or "" when the record has none
func (p Product) PrimaryColor() string {
	if len(p.Colors) == 0 {
		return ""
	}
	return p.Colors[0].ColorName
}

// DisplayName prefers the brandless name used on product cards
func (p Product) DisplayName() string {
	if p.NameWithoutBrand != "" {
		return p.NameWithoutBrand
	}
	return p.Name
}

// Normalize rewrites every image path on the product once, at decode time.
func (p *Product) Normalize() {
	p.Image = NormalizeImagePath(p.Image)
	p.Images.PrimarySmall = NormalizeImagePath(p.Images.PrimarySmall)
	p.Images.PrimaryMedium = NormalizeImagePath(p.Images.PrimaryMedium)
	p.Images.PrimaryLarge = NormalizeImagePath(p.Images.PrimaryLarge)
	p.Images.PrimaryExtraLarge = NormalizeImagePath(p.Images.PrimaryExtraLarge)
	for i := range p.Colors {
		p.Colors[i].ColorChipImageSrc = NormalizeImagePath(p.Colors[i].ColorChipImageSrc)
		p.Colors[i].ColorPreviewImageSrc = NormalizeImagePath(p.Colors[i].ColorPreviewImageSrc)
	}
}

// NormalizeImagePath turns the relative paths found in the catalog data
// ("../images/x.jpg", "images/x.jpg") into root-absolute ones. Absolute
// URLs and empty strings are returned unchanged.
func NormalizeImagePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if strings.Contains(path, "://") || strings.HasPrefix(path, "//") || strings.HasPrefix(path, "data:") {
		return path
	}
	for strings.HasPrefix(path, "../") {
		path = strings.TrimPrefix(path, "../")
	}
	path = strings.TrimPrefix(path, "./")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// ProductKey is the (id, category) pair that disambiguates products in the
// aggregated index and in the cart.
type ProductKey struct {
	ID       string `bson:"id" json:"id"`
	Category string `bson:"category" json:"category"`
}
