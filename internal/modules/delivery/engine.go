// README: Delivery engine turns a request text and area into a recommendation.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"medidrop/internal/geo"
	"medidrop/internal/modules/eta"
	"medidrop/internal/obs"
	"medidrop/internal/types"
)

var ErrAreaNotFound = errors.New("area not found or outside service region")

// Geocoder resolves an area name to a point inside the service region.
type Geocoder interface {
	Resolve(ctx context.Context, area string) (types.Point, error)
}

// WeatherProvider returns the raw current condition ("Rain", "Clear", ...).
type WeatherProvider interface {
	Current(ctx context.Context, p types.Point) (string, error)
}

type RouteEstimate struct {
	TravelTimeHours float64
	DistanceKm      float64
}

type RoutingProvider interface {
	Route(ctx context.Context, from, to types.Point) (RouteEstimate, error)
}

type PriorityPredictor interface {
	Predict(ctx context.Context, text string) (string, error)
}

// BaseOrigin is the dispatch hub every delivery starts from.
var BaseOrigin = types.Point{Lat: 26.1445, Lng: 91.7362}

type EngineOptions struct {
	Origin              types.Point
	DistanceFactor      float64
	ProviderTimeout     time.Duration
	FallbackLiveTraffic bool
	Location            *time.Location
	Calculator          eta.Calculator
}

type Engine struct {
	geocoder  Geocoder
	weather   WeatherProvider
	routing   RoutingProvider
	predictor PriorityPredictor
	opts      EngineOptions
	now       func() time.Time
}

func NewEngine(g Geocoder, w WeatherProvider, r RoutingProvider, p PriorityPredictor, opts EngineOptions) *Engine {
	if opts.Origin == (types.Point{}) {
		opts.Origin = BaseOrigin
	}
	if opts.DistanceFactor <= 0 {
		opts.DistanceFactor = geo.DefaultRouteFactor
	}
	if opts.ProviderTimeout <= 0 {
		opts.ProviderTimeout = 10 * time.Second
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	opts.Calculator = eta.NewCalculator(opts.Calculator.DroneSpeedKmph, opts.Calculator.RoadBaseSpeedKmph)
	return &Engine{
		geocoder:  g,
		weather:   w,
		routing:   r,
		predictor: p,
		opts:      opts,
		now:       time.Now,
	}
}

// Process runs the full pipeline for one request. Only geocoding and
// prediction failures abort; weather and routing degrade to estimates.
func (e *Engine) Process(ctx context.Context, requestText, area string) (Result, error) {
	coord, err := e.resolve(ctx, area)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrAreaNotFound, err)
	}

	distance := geo.RouteDistanceKm(e.opts.Origin, coord, e.opts.DistanceFactor)

	weather, weatherFallback := e.currentWeather(ctx, coord)
	traffic := eta.TrafficAt(e.now().In(e.opts.Location).Hour())

	priority, err := e.predict(ctx, strings.ToLower(requestText))
	if err != nil {
		return Result{}, fmt.Errorf("predict priority: %w", err)
	}

	roadHours, source := e.roadHours(ctx, coord, distance, traffic)
	droneHours := e.opts.Calculator.DroneMinutes(distance) / 60

	return Result{
		RequestText:       requestText,
		Area:              area,
		Coordinates:       coord,
		DistanceKm:        geo.Round(distance, 2),
		Priority:          priority,
		DroneETA:          eta.FormatHoursHM(droneHours),
		RoadETA:           eta.FormatHoursHM(roadHours),
		RecommendedMethod: eta.Recommend(weather),
		Weather:           weather,
		Traffic:           traffic,
		RoadETASource:     source,
		WeatherFallback:   weatherFallback,
	}, nil
}

func (e *Engine) resolve(ctx context.Context, area string) (p types.Point, err error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.ProviderTimeout)
	defer cancel()
	defer obs.Time(ctx, "geocoder.Resolve")(&err)
	return e.geocoder.Resolve(ctx, area)
}

func (e *Engine) currentWeather(ctx context.Context, p types.Point) (eta.WeatherState, bool) {
	raw, err := e.fetchWeather(ctx, p)
	if err != nil {
		log.WithFields(log.Fields{
			"req_id": obs.RequestID(ctx),
			"reason": types.FailureReasonOf(err),
		}).Warn("weather unavailable, assuming clear")
		return eta.WeatherClear, true
	}
	return eta.ParseWeather(raw), false
}

func (e *Engine) fetchWeather(ctx context.Context, p types.Point) (raw string, err error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.ProviderTimeout)
	defer cancel()
	defer obs.Time(ctx, "weather.Current")(&err)
	return e.weather.Current(ctx, p)
}

func (e *Engine) predict(ctx context.Context, text string) (label string, err error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.ProviderTimeout)
	defer cancel()
	defer obs.Time(ctx, "predictor.Predict")(&err)
	return e.predictor.Predict(ctx, text)
}

func (e *Engine) roadHours(ctx context.Context, to types.Point, distance float64, live eta.TrafficLevel) (float64, RoadETASource) {
	est, err := e.fetchRoute(ctx, to)
	if err == nil && est.TravelTimeHours > 0 {
		return est.TravelTimeHours, RoadETALive
	}

	level := eta.TrafficMedium
	if e.opts.FallbackLiveTraffic {
		level = live
	}
	log.WithFields(log.Fields{
		"req_id":        obs.RequestID(ctx),
		"reason":        types.FailureReasonOf(err),
		"traffic_level": level,
	}).Warn("routing unavailable, using road estimate")
	return e.opts.Calculator.RoadHours(distance, level), RoadETAEstimate
}

func (e *Engine) fetchRoute(ctx context.Context, to types.Point) (est RouteEstimate, err error) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.ProviderTimeout)
	defer cancel()
	defer obs.Time(ctx, "routing.Route")(&err)
	return e.routing.Route(ctx, e.opts.Origin, to)
}
