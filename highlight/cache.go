package highlight

import "github.com/a4-editor/a4/editor"

// TagCache maps a style signature to the tag created for it in one buffer's
// tag table. Entries are never evicted; a grammar only defines a handful of
// distinct styles.
type TagCache struct {
	table *editor.TagTable
	tags  map[Style]editor.TagID
}

// NewTagCache returns an empty cache creating tags in table.
func NewTagCache(table *editor.TagTable) *TagCache {
	return &TagCache{
		table: table,
		tags:  make(map[Style]editor.TagID),
	}
}

// Tag returns the tag for s, creating it on first use.
func (c *TagCache) Tag(s Style) editor.TagID {
	if id, ok := c.tags[s]; ok {
		return id
	}
	id := c.table.Create(editor.TagAttrs{
		Foreground: s.Color.Hex(),
		Bold:       s.Bold,
		Italic:     s.Italic,
	})
	c.tags[s] = id
	return id
}

// Len returns the number of cached tags.
func (c *TagCache) Len() int {
	return len(c.tags)
}

// IDs returns every tag the cache has created.
func (c *TagCache) IDs() []editor.TagID {
	ids := make([]editor.TagID, 0, len(c.tags))
	for _, id := range c.tags {
		ids = append(ids, id)
	}
	return ids
}
