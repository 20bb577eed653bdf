package dot

import (
	"context"
	"time"

	"github.com/matzehuels/flashtrack/pkg/cache"
	"github.com/matzehuels/flashtrack/pkg/course"
	errs "github.com/matzehuels/flashtrack/pkg/errors"
)

// Renderer renders courses through a cache.
type Renderer struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewRenderer returns a renderer backed by c. A nil cache disables caching.
func NewRenderer(c cache.Cache, ttl time.Duration) *Renderer {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Renderer{cache: c, ttl: ttl}
}

// Render produces crs in the given format. DOT output is never cached.
func (r *Renderer) Render(ctx context.Context, crs *course.Course, format Format, opts Options) ([]byte, error) {
	src := ToDOT(crs, opts)
	if format == FormatDOT {
		return []byte(src), nil
	}

	key := cache.Key(string(format), cache.Hash([]byte(src)))
	if data, ok, err := r.cache.Get(ctx, key); err == nil && ok {
		return data, nil
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatSVG:
		data, err = RenderSVG(ctx, src)
	case FormatPNG:
		data, err = RenderPNG(ctx, src)
	default:
		return nil, errs.New(errs.ErrCodeUnsupported, "unknown render format %q", format)
	}
	if err != nil {
		return nil, err
	}

	// Cache write errors are ignored.
	_ = r.cache.Set(ctx, key, data, r.ttl)
	return data, nil
}
