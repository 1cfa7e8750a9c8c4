package service

import (
	"context"
	"strings"
	"sync"

	"treasury_checker/internal/app/port"
	"treasury_checker/internal/client"
	"treasury_checker/internal/domain/entity"

	"golang.org/x/sync/errgroup"
)

const collectionFetchers = 8

var _ port.CollectionsService = (*CollectionsServiceImpl)(nil)

// CollectionsServiceImpl implements port.CollectionsService.
type CollectionsServiceImpl struct {
	mintgarden client.MintGardenClient
	maxIDs     int
	logger     port.Logger
}

// NewCollectionsService creates a CollectionsServiceImpl. At most maxIDs
// collections are looked up per call.
func NewCollectionsService(mg client.MintGardenClient, maxIDs int, l port.Logger) *CollectionsServiceImpl {
	if maxIDs <= 0 {
		maxIDs = 60
	}
	return &CollectionsServiceImpl{mintgarden: mg, maxIDs: maxIDs, logger: l}
}

// Collections fans out one lookup per distinct id. Unknown ids are left out.
func (s *CollectionsServiceImpl) Collections(ctx context.Context, ids []string) map[string]entity.CollectionInfo {
	wanted := make([]string, 0, len(ids))
	seen := map[string]bool{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || id == entity.UncategorizedCollection || seen[id] {
			continue
		}
		seen[id] = true
		wanted = append(wanted, id)
	}
	if len(wanted) > s.maxIDs {
		s.logger.Debug("Collection lookup truncated", "requested", len(wanted), "max", s.maxIDs)
		wanted = wanted[:s.maxIDs]
	}

	out := make(map[string]entity.CollectionInfo, len(wanted))
	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(collectionFetchers)
	for _, id := range wanted {
		id := id
		g.Go(func() error {
			l := s.mintgarden.Collection(ctx, id)
			if !l.OK {
				return nil
			}
			mu.Lock()
			out[id] = l.Value
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}
