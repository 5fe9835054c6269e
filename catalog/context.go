package catalog

import (
	"sort"

	"github.com/camden-git/takeoutorganizer/config"
)

// Context is the run-scoped aggregate shared by all pipeline stages: the
// configuration, the identity-keyed item catalog and the running stats.
// stages 4-6 read it concurrently, but each worker mutates only the one
// item it owns plus the atomic stats counters
type Context struct {
	Cfg       *config.Config
	MediaRoot string // resolved media root inside the staging directory
	Items     map[string]*MediaItem
	Stats     *Stats
}

// NewContext creates an empty processing context for one run
func NewContext(cfg *config.Config) *Context {
	return &Context{
		Cfg:   cfg,
		Items: make(map[string]*MediaItem),
		Stats: &Stats{},
	}
}

// Add inserts an item into the catalog keyed by its identity
func (c *Context) Add(item *MediaItem) {
	c.Items[item.ID] = item
}

// ItemsWithStatus returns the items currently in the given state, ordered
// by original path so stage batches are deterministic
func (c *Context) ItemsWithStatus(status Status) []*MediaItem {
	out := make([]*MediaItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.Status == status {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OriginalPath < out[j].OriginalPath })
	return out
}
