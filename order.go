package youtube

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rubpy/crawly"
	"github.com/rubpy/crawly/clog"
)

//////////////////////////////////////////////////

type OrderData struct{}

func (t *Tracker) orderHandler(ctx context.Context, order *crawly.Order, result *crawly.TrackingResult) error {
	ref, ok := order.Handle.(Reference)
	if !ok || !ref.Valid() {
		return crawly.InvalidHandle
	}

	data, _ := order.Data.(OrderData)
	defer func() {
		order.Data = data
	}()

	canonical, err := t.resolveOrder(ctx, ref)
	if err != nil {
		return err
	}

	if !canonical.Equal(ref) {
		result.Entity.Value.Handle = canonical
	}

	return nil
}

// resolveOrder returns the canonical RawID reference of a tracked reference,
// normalizing it through the resolver the first time.
func (t *Tracker) resolveOrder(ctx context.Context, ref Reference) (Reference, error) {
	if ref.platform != Platform {
		return Reference{}, crawly.InvalidHandle
	}

	if ref.kind == KindRawID {
		if !IsValidChannelID(ref.value) {
			return Reference{}, crawly.InvalidHandle
		}

		return ref.Bare(), nil
	}

	if canonical, ok := t.loadCanonical(ref); ok {
		return canonical, nil
	}

	lp := clog.Params{
		Message: "normalize",
		Level:   slog.LevelDebug,

		Values: clog.ParamGroup{
			"reference": ref.String(),
		},
	}

	normalized, ok, err := t.resolver.Normalize(ctx, ref)
	if err == nil {
		if ok && normalized.Validated() {
			t.storeCanonical(ref, normalized)
			lp.Set("channelID", normalized.value)
		} else {
			err = fmt.Errorf("%w: %s", UnresolvedReference, ref)
		}
	} else {
		err = fmt.Errorf("Resolver.Normalize: %w", err)
	}

	lp.Err = err
	t.Log(ctx, lp)

	if err != nil {
		return Reference{}, err
	}

	return normalized.Bare(), nil
}
