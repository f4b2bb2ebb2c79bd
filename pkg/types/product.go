package types

// ProductImage points at an object stored by the external media collaborator.
type ProductImage struct {
	URL       string `json:"url"`
	StorageID string `json:"storage_id"`
}

// ProductImages is the ordered image list serialized as jsonb.
type ProductImages []ProductImage

// First returns the lead image, or a zero value when none exist.
func (p ProductImages) First() ProductImage {
	if len(p) == 0 {
		return ProductImage{}
	}
	return p[0]
}

// ProductVariation is a purchasable color/size combination with its own count.
type ProductVariation struct {
	Color    string `json:"color"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// ProductVariations is the variation list serialized as jsonb.
type ProductVariations []ProductVariation

// ItemVariation is the variation choice the buyer attached to a line item.
type ItemVariation struct {
	Color string `json:"color,omitempty"`
	Size  string `json:"size,omitempty"`
}
