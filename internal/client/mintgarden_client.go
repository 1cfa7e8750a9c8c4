package client

import (
	"context"
	"time"

	"treasury_checker/internal/domain/entity"
	raw "treasury_checker/internal/entity"
	"treasury_checker/internal/infrastructure/httpclient"

	"go.uber.org/zap"
)

const (
	MintGardenBaseURL = "https://api.mintgarden.io"

	mintGardenTimeout = 3 * time.Second
)

// MintGardenClient fetches NFT collection metadata.
type MintGardenClient interface {
	Collection(ctx context.Context, id string) entity.Lookup[entity.CollectionInfo]
}

type mintGardenClientImpl struct {
	upstream
}

// NewMintGardenClient creates a MintGarden adapter.
func NewMintGardenClient(doer httpclient.Doer, opts Options, logger *zap.Logger) MintGardenClient {
	c := &mintGardenClientImpl{upstream: newUpstream("mintgarden", doer, opts, MintGardenBaseURL, logger.Named("MintGardenClient"))}
	if opts.APIKey != "" {
		c.headers["Authorization"] = "Bearer " + opts.APIKey
	}
	return c
}

func (c *mintGardenClientImpl) Collection(ctx context.Context, id string) entity.Lookup[entity.CollectionInfo] {
	var body raw.MintGardenCollection
	if err := c.getJSON(ctx, c.resource("collections", id), mintGardenTimeout, &body); err != nil {
		return failed[entity.CollectionInfo](&c.upstream, "collection", id, err)
	}
	if body.ID == "" || body.Name == "" {
		return entity.Absent[entity.CollectionInfo]()
	}
	return entity.Found(entity.CollectionInfo{
		ID:         body.ID.String(),
		Name:       body.Name.String(),
		Thumbnail:  body.ThumbnailURI.String(),
		FloorPrice: body.FloorPrice.Float(),
		NFTCount:   int(body.NFTCount.Float()),
	})
}
