// README: Concurrency tests for the in-memory route store (run with -race).
package tracking

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestConcurrentStartVsLiveLocation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(NewMemoryStore())

	if _, err := svc.Start(ctx, StartCommand{DroneID: "d_race", Source: guwahati, Destination: tezpur, SpeedKmph: 60}); err != nil {
		t.Fatalf("seed route: %v", err)
	}

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, 2*n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Start(ctx, StartCommand{DroneID: "d_race", Source: guwahati, Destination: tezpur, SpeedKmph: 60})
			errs <- err
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			pos, err := svc.LiveLocation(ctx, "d_race")
			if err == nil && (pos.ProgressPercent < 0 || pos.ProgressPercent > 100) {
				err = errors.New("progress out of range")
			}
			errs <- err
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	pos, err := svc.LiveLocation(ctx, "d_race")
	if err != nil {
		t.Fatalf("live location after race: %v", err)
	}
	if pos.Lat != guwahati.Lat || pos.Lng != guwahati.Lng {
		t.Errorf("expected drone at source after restarts, got %+v", pos)
	}
}
