package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medidrop/internal/types"
)

func TestCurrent_DecodesMain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/2.5/weather" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("lat") != "26.6528" || q.Get("lon") != "92.7926" || q.Get("appid") != "k" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"weather":[{"id":500,"main":"Rain","description":"light rain"}],"name":"Tezpur"}`))
	}))
	defer srv.Close()

	c := NewClient("k", srv.URL, time.Second)
	got, err := c.Current(context.Background(), types.Point{Lat: 26.6528, Lng: 92.7926})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Rain" {
		t.Errorf("got %q, want Rain", got)
	}
}

func TestCurrent_FailureReasons(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		want    types.FailureReason
	}{
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"cod":401}`, http.StatusUnauthorized)
			},
			want: types.ReasonStatus,
		},
		{
			name: "bad json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"weather":`))
			},
			want: types.ReasonMalformed,
		},
		{
			name: "empty list",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"weather":[]}`))
			},
			want: types.ReasonNoResult,
		},
		{
			name: "slow",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(300 * time.Millisecond)
				_, _ = w.Write([]byte(`{"weather":[{"main":"Clear"}]}`))
			},
			want: types.ReasonTimeout,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			c := NewClient("k", srv.URL, 100*time.Millisecond)
			_, err := c.Current(context.Background(), types.Point{Lat: 26, Lng: 92})
			if got := types.FailureReasonOf(err); got != tc.want {
				t.Errorf("reason = %q, want %q (err=%v)", got, tc.want, err)
			}
		})
	}
}
