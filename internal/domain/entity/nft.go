package entity

// NFT is a single non-fungible item held by a wallet.
type NFT struct {
	NFTID        string `json:"nft_id"`
	Name         string `json:"name"`
	CollectionID string `json:"collection_id"`
	PreviewURL   string `json:"preview_url"`
}

// UncategorizedCollection groups NFTs that carry no collection id.
const UncategorizedCollection = "uncategorized"

// NFTCollection is a group of held NFTs sharing a collection id.
type NFTCollection struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Count   int    `json:"count"`
	Image   string `json:"image,omitempty"`
	Samples []NFT  `json:"nfts"`
}

// CollectionInfo is marketplace metadata about a collection.
type CollectionInfo struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Thumbnail  string  `json:"thumbnail"`
	FloorPrice float64 `json:"floor_xch"`
	NFTCount   int     `json:"nft_count"`
}
