package segment

import (
	"github.com/google/uuid"

	"github.com/sillsdev/FieldWorks-sub105/core/cache"
	"github.com/sillsdev/FieldWorks-sub105/core/ir"
	"github.com/sillsdev/FieldWorks-sub105/core/styled"
)

// listKey identifies one segmentation result. The fingerprint makes an
// edited paragraph miss the cache.
type listKey struct {
	paragraph   uuid.UUID
	ws          string
	style       string
	start       ir.Ref
	fingerprint [32]byte
}

// ListCache memoizes paragraph segmentations. It is safe for concurrent use.
type ListCache struct {
	lru    *cache.LRU[listKey, List]
	styles *styled.StyleMap
}

// NewListCache creates a cache holding up to config.MaxSize lists.
func NewListCache(config cache.Config, styles *styled.StyleMap) *ListCache {
	if styles == nil {
		styles = styled.DefaultStyles()
	}
	return &ListCache{
		lru:    cache.New[listKey, List](config),
		styles: styles,
	}
}

// Get returns the segmentation of p's vernacular text.
func (c *ListCache) Get(p Paragraph) (List, error) {
	text := p.Contents()
	return c.lru.GetOrLoad(c.key(p, "", text), func() (List, error) {
		return CollectParagraph(p, WithStyles(c.styles))
	})
}

// GetBackTranslation returns the segmentation of p's back translation in ws.
func (c *ListCache) GetBackTranslation(p TranslatedParagraph, ws string) (List, error) {
	text, _ := p.Translation(ws)
	return c.lru.GetOrLoad(c.key(p, ws, text), func() (List, error) {
		return CollectBackTranslation(p, ws, WithStyles(c.styles))
	})
}

// Invalidate drops every cached list.
func (c *ListCache) Invalidate() {
	c.lru.Clear()
}

// Stats returns cache statistics.
func (c *ListCache) Stats() cache.Stats {
	return c.lru.Stats()
}

func (c *ListCache) key(p Paragraph, ws string, text styled.Text) listKey {
	return listKey{
		paragraph:   p.ID(),
		ws:          ws,
		style:       p.StyleName(),
		start:       p.StartRef(),
		fingerprint: text.Fingerprint(),
	}
}
