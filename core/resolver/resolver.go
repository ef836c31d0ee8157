// Package resolver resolves a body measurement to US, UK and EU size labels.
// Tiers are tried in order: the range data source, the bundled brand catalog,
// then the generic estimate, which always answers.
package resolver

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"size-convert/core/catalog"
	"size-convert/core/fallback"
	"size-convert/core/types"
	"size-convert/core/units"
	apperrors "size-convert/internal/errors"
	"size-convert/internal/logging"
)

// ErrInvalidMeasurement matches every input rejection returned by Resolve
var ErrInvalidMeasurement = apperrors.New(apperrors.TypeInput, "")

// DefaultRemoteTimeout bounds the data source tier when no timeout is configured
const DefaultRemoteTimeout = 2 * time.Second

// Resolver is safe for concurrent use
type Resolver struct {
	remote  *remoteTier
	catalog catalogTier
	log     *zap.Logger
	flight  singleflight.Group
}

// Option configures a Resolver
type Option func(*Resolver)

// WithSource enables the data source tier. A non-positive timeout uses DefaultRemoteTimeout.
func WithSource(source RangeSource, timeout time.Duration) Option {
	return func(r *Resolver) {
		if source == nil {
			return
		}
		if timeout <= 0 {
			timeout = DefaultRemoteTimeout
		}
		r.remote = &remoteTier{source: source, timeout: timeout}
	}
}

// WithLogger replaces the component logger
func WithLogger(log *zap.Logger) Option {
	return func(r *Resolver) {
		r.log = log
	}
}

// New creates a resolver over a catalog provider
func New(cat catalog.Provider, opts ...Option) *Resolver {
	r := &Resolver{
		catalog: catalogTier{catalog: cat},
		log:     logging.Named("resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type callOptions struct {
	skipRemote bool
}

// CallOption adjusts a single Resolve call
type CallOption func(*callOptions)

// WithoutRemote skips the data source tier, for callers that know it is unreachable
func WithoutRemote() CallOption {
	return func(o *callOptions) {
		o.skipRemote = true
	}
}

// Validate rejects queries that must not reach any tier
func Validate(q types.SizeQuery) error {
	if math.IsNaN(q.Value) || math.IsInf(q.Value, 0) || q.Value <= 0 {
		return apperrors.Input("measurement must be a positive number").WithContext("value", q.Value)
	}
	if !q.Unit.Valid() {
		return apperrors.Newf(apperrors.TypeInput, "unknown unit %q", q.Unit)
	}
	if !q.MeasurementType.Valid() {
		return apperrors.Newf(apperrors.TypeInput, "unknown measurement type %q", q.MeasurementType)
	}
	return nil
}

// Resolve returns the size labels for q. The only error is an input rejection
// matching ErrInvalidMeasurement; data source failures fall through to later tiers.
//
// Concurrent calls with identical queries share one resolution. The shared work
// does not observe the caller's cancellation; the data source tier is bounded by
// its own timeout instead.
func (r *Resolver) Resolve(ctx context.Context, q types.SizeQuery, opts ...CallOption) (types.SizeResult, error) {
	if err := Validate(q); err != nil {
		return types.SizeResult{}, err
	}

	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	useRemote := r.remote != nil && !o.skipRemote

	detached := context.WithoutCancel(ctx)
	v, _, _ := r.flight.Do(flightKey(q, useRemote), func() (any, error) {
		return r.resolve(detached, q, useRemote), nil
	})
	return v.(types.SizeResult), nil
}

func (r *Resolver) resolve(ctx context.Context, q types.SizeQuery, useRemote bool) types.SizeResult {
	nq := normalizedQuery{SizeQuery: q, inches: units.Normalize(q)}
	log := r.log.With(
		zap.String("brand", q.Brand),
		zap.String("garment", q.GarmentType),
		zap.String("measurement", string(q.MeasurementType)),
		zap.Float64("inches", nq.inches),
	)

	useCatalog := true
	if useRemote {
		out := r.remote.lookup(ctx, nq)
		switch out.Kind {
		case Matched:
			if out.Err != nil {
				log.Warn("partial data source failure", zap.Error(out.Err))
			}
			log.Debug("resolved", zap.String("tier", string(types.TierRemote)))
			return types.NewSizeResult(types.TierRemote, out.Labels())
		case SourceUnavailable:
			if apperrors.IsType(out.Err, apperrors.TypeQuery) {
				// a rejected query goes straight to the estimate
				log.Warn("data source rejected query, using estimate", zap.Error(out.Err))
				useCatalog = false
				break
			}
			log.Warn("data source unavailable, using catalog", zap.Error(out.Err))
		case NotFound:
			log.Debug("no data source match", zap.NamedError("reason", out.Err))
		}
	}

	if useCatalog {
		if out := r.catalog.lookup(nq); out.Kind == Matched {
			log.Debug("resolved", zap.String("tier", string(types.TierCatalog)))
			return types.NewSizeResult(types.TierCatalog, out.Labels())
		}
	}

	// measurement types were validated, so the estimate never misses
	res, _ := fallback.Result(q.MeasurementType, nq.inches)
	log.Debug("resolved", zap.String("tier", string(types.TierEstimate)))
	return res
}

// flightKey identifies a query for coalescing
func flightKey(q types.SizeQuery, useRemote bool) string {
	return strings.Join([]string{
		q.Brand,
		q.GarmentType,
		string(q.MeasurementType),
		strconv.FormatFloat(q.Value, 'g', -1, 64),
		string(q.Unit),
		strconv.FormatBool(useRemote),
	}, "\x00")
}
