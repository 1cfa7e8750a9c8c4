package entity

// MintGardenCollection is the collections/{id} response.
type MintGardenCollection struct {
	ID           FlexString `json:"id"`
	Name         FlexString `json:"name"`
	ThumbnailURI FlexString `json:"thumbnail_uri"`
	FloorPrice   FlexFloat  `json:"floor_price"`
	NFTCount     FlexFloat  `json:"nft_count"`
}
