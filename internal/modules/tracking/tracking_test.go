package tracking

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"medidrop/internal/types"
)

var (
	guwahati = types.Point{Lat: 26.1445, Lng: 91.7362}
	tezpur   = types.Point{Lat: 26.6528, Lng: 92.7926}
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestService(store RouteStore) (*Service, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	svc := NewService(store)
	svc.now = clock.now
	return svc, clock
}

func TestStart_Validation(t *testing.T) {
	svc, _ := newTestService(NewMemoryStore())
	ctx := context.Background()

	cases := []struct {
		name string
		cmd  StartCommand
	}{
		{"missing drone", StartCommand{Source: guwahati, Destination: tezpur, SpeedKmph: 60}},
		{"zero speed", StartCommand{DroneID: "d1", Source: guwahati, Destination: tezpur}},
		{"negative speed", StartCommand{DroneID: "d1", Source: guwahati, Destination: tezpur, SpeedKmph: -5}},
		{"bad latitude", StartCommand{DroneID: "d1", Source: types.Point{Lat: 91}, Destination: tezpur, SpeedKmph: 60}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Start(ctx, tc.cmd)
			if !errors.Is(err, ErrBadRequest) {
				t.Fatalf("expected ErrBadRequest, got %v", err)
			}
		})
	}
}

func TestStart_ReturnsDistanceAndETA(t *testing.T) {
	svc, _ := newTestService(NewMemoryStore())
	res, err := svc.Start(context.Background(), StartCommand{
		DroneID: "d1", Source: guwahati, Destination: tezpur, SpeedKmph: 60,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.DistanceKm < 110 || res.DistanceKm > 130 {
		t.Errorf("distance %.2f outside expected range", res.DistanceKm)
	}
	if math.Abs(res.ETAHours-res.DistanceKm/60) > 1e-9 {
		t.Errorf("eta %.4f != distance/speed", res.ETAHours)
	}
}

func TestLiveLocation_NotFound(t *testing.T) {
	svc, _ := newTestService(NewMemoryStore())
	_, err := svc.LiveLocation(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLiveLocation_ProgressOverTime(t *testing.T) {
	svc, clock := newTestService(NewMemoryStore())
	ctx := context.Background()
	res, err := svc.Start(ctx, StartCommand{DroneID: "d1", Source: guwahati, Destination: tezpur, SpeedKmph: 60})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	pos, err := svc.LiveLocation(ctx, "d1")
	if err != nil {
		t.Fatalf("live location: %v", err)
	}
	if pos.ProgressPercent != 0 || pos.Lat != guwahati.Lat || pos.Lng != guwahati.Lng {
		t.Errorf("at start expected source with 0%%, got %+v", pos)
	}

	total := time.Duration(res.ETAHours * float64(time.Hour))
	clock.advance(total / 2)
	pos, _ = svc.LiveLocation(ctx, "d1")
	if math.Abs(pos.ProgressPercent-50) > 0.01 {
		t.Errorf("expected ~50%%, got %.2f", pos.ProgressPercent)
	}
	midLat := (guwahati.Lat + tezpur.Lat) / 2
	if math.Abs(pos.Lat-midLat) > 1e-4 {
		t.Errorf("expected lat ~%.4f, got %.4f", midLat, pos.Lat)
	}

	clock.advance(total)
	pos, _ = svc.LiveLocation(ctx, "d1")
	if pos.ProgressPercent != 100 || pos.Lat != tezpur.Lat || pos.Lng != tezpur.Lng {
		t.Errorf("after arrival expected destination with 100%%, got %+v", pos)
	}
}

func TestLiveLocation_Monotonic(t *testing.T) {
	svc, clock := newTestService(NewMemoryStore())
	ctx := context.Background()
	if _, err := svc.Start(ctx, StartCommand{DroneID: "d1", Source: guwahati, Destination: tezpur, SpeedKmph: 80}); err != nil {
		t.Fatalf("start: %v", err)
	}
	last := -1.0
	for i := 0; i < 30; i++ {
		pos, err := svc.LiveLocation(ctx, "d1")
		if err != nil {
			t.Fatalf("live location: %v", err)
		}
		if pos.ProgressPercent < last {
			t.Fatalf("progress went backwards: %.2f -> %.2f", last, pos.ProgressPercent)
		}
		if pos.ProgressPercent > 100 {
			t.Fatalf("progress above 100: %.2f", pos.ProgressPercent)
		}
		last = pos.ProgressPercent
		clock.advance(7 * time.Minute)
	}
}

func TestStart_ReplacesExistingRoute(t *testing.T) {
	svc, clock := newTestService(NewMemoryStore())
	ctx := context.Background()
	_, _ = svc.Start(ctx, StartCommand{DroneID: "d1", Source: guwahati, Destination: tezpur, SpeedKmph: 60})
	clock.advance(3 * time.Hour)

	_, err := svc.Start(ctx, StartCommand{DroneID: "d1", Source: tezpur, Destination: guwahati, SpeedKmph: 60})
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	pos, _ := svc.LiveLocation(ctx, "d1")
	if pos.ProgressPercent != 0 || pos.Lat != tezpur.Lat {
		t.Errorf("expected fresh route at new source, got %+v", pos)
	}
}

func TestProgress_Edges(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	r := Route{StartedAt: start, DurationSeconds: 0}
	if got := Progress(r, start); got != 1 {
		t.Errorf("zero duration: got %v, want 1", got)
	}
	r.DurationSeconds = 600
	if got := Progress(r, start.Add(-time.Minute)); got != 0 {
		t.Errorf("clock before start: got %v, want 0", got)
	}
	if got := Progress(r, start.Add(5*time.Minute)); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("halfway: got %v, want 0.5", got)
	}
}

func TestRedisStore_RoundTripAndOverwrite(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	store := NewRedisStore(rdb, time.Hour)
	ctx := context.Background()

	if _, err := store.Get(ctx, "d1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}

	started := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	r := Route{DroneID: "d1", Source: guwahati, Destination: tezpur, DistanceKm: 120, SpeedKmph: 60, StartedAt: started, DurationSeconds: 7200}
	if err := store.Put(ctx, r); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := store.Get(ctx, "d1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.StartedAt.Equal(started) || got.Destination != tezpur || got.DurationSeconds != 7200 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if ttl := mr.TTL("tracking:route:d1"); ttl != time.Hour {
		t.Errorf("expected 1h ttl, got %v", ttl)
	}

	r.Destination = guwahati
	r.Source = tezpur
	if err := store.Put(ctx, r); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _ = store.Get(ctx, "d1")
	if got.Destination != guwahati {
		t.Errorf("expected overwritten destination, got %+v", got.Destination)
	}
}

func TestService_WithRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	svc, clock := newTestService(NewRedisStore(rdb, 0))
	ctx := context.Background()
	res, err := svc.Start(ctx, StartCommand{DroneID: "d9", Source: guwahati, Destination: tezpur, SpeedKmph: 120})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.advance(time.Duration(res.ETAHours * float64(time.Hour) / 4))
	pos, err := svc.LiveLocation(ctx, "d9")
	if err != nil {
		t.Fatalf("live location: %v", err)
	}
	if math.Abs(pos.ProgressPercent-25) > 0.01 {
		t.Errorf("expected ~25%%, got %.2f", pos.ProgressPercent)
	}
}
