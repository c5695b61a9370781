package edlkit

import (
	"context"
	"path/filepath"

	"github.com/tsawler/edlkit/format"
	"github.com/tsawler/edlkit/schema"
	"github.com/tsawler/edlkit/substitute"
	"github.com/tsawler/edlkit/transform"
)

// EditOptions holds the settings shared by every operation of an Editor.
type EditOptions struct {
	ctx      context.Context
	encoding format.Encoding
	fsys     substitute.FileSystem

	// Resize
	rounding    transform.Rounding
	snapFonts   bool
	noFontScale []string

	// Flip
	keepGroups  bool
	variantDirs []string

	// Substitution and inlining
	searchPaths []string
	maxDepth    int
	inlineAll   bool

	// Validation
	catalog *schema.Catalog
}

// defaultOptions returns the default edit options.
func defaultOptions() EditOptions {
	return EditOptions{
		ctx:       context.Background(),
		encoding:  format.Latin1,
		fsys:      substitute.OSFS{},
		rounding:  transform.RoundHalfAwayFromZero,
		snapFonts: true,
		maxDepth:  100,
	}
}

// clone creates a deep copy of EditOptions.
func (o EditOptions) clone() EditOptions {
	c := o
	c.noFontScale = append([]string(nil), o.noFontScale...)
	c.searchPaths = append([]string(nil), o.searchPaths...)
	c.variantDirs = append([]string(nil), o.variantDirs...)
	return c
}

func (o EditOptions) resizeOptions() []transform.ResizeOption {
	opts := []transform.ResizeOption{transform.WithFontSnap(o.snapFonts)}
	if len(o.noFontScale) > 0 {
		opts = append(opts, transform.WithNoFontScale(o.noFontScale...))
	}
	if o.catalog != nil {
		cat := o.catalog
		opts = append(opts, transform.WithKnownClasses(func(class string) bool {
			return cat.Known(class) || defaultKnown(class)
		}))
	}
	return opts
}

func (o EditOptions) flipOptions() []transform.FlipOption {
	opts := []transform.FlipOption{transform.WithKeepGroupsIntact(o.keepGroups)}
	if len(o.variantDirs) > 0 {
		fsys, dirs := o.fsys, o.variantDirs
		opts = append(opts, transform.WithFlippedVariants(func(name string) bool {
			if filepath.IsAbs(name) {
				return fsys.Exists(name)
			}
			for _, dir := range dirs {
				if fsys.Exists(filepath.Join(dir, name)) {
					return true
				}
			}
			return false
		}))
	}
	return opts
}

func (o EditOptions) engineOptions() []substitute.Option {
	return []substitute.Option{
		substitute.WithFileSystem(o.fsys),
		substitute.WithSearchPaths(o.searchPaths...),
		substitute.WithMaxDepth(o.maxDepth),
		substitute.WithEncoding(o.encoding),
		substitute.WithInlineAll(o.inlineAll),
	}
}
