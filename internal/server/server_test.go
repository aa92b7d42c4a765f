package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chenyingyu-main/IDD-Final-Project/internal/game"
	"github.com/chenyingyu-main/IDD-Final-Project/internal/notify"
)

type fakeControl struct {
	running  bool
	startErr error
	stops    int
	restarts int
}

func (f *fakeControl) Start(*game.Chart) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.running = true
	return nil
}

func (f *fakeControl) Stop() { f.stops++; f.running = false }

func (f *fakeControl) Restart(*game.Chart) error { f.restarts++; return nil }

func (f *fakeControl) Running() bool { return f.running }

func newTestServer(ctl *fakeControl) *Server {
	chart := &game.Chart{BPM: 120, Events: []game.Event{{Utensil: game.Pan}}}
	return New(ctl, chart, notify.NewHub(), NewRing(10))
}

func TestStartEndpoint(t *testing.T) {
	ctl := &fakeControl{}
	srv := httptest.NewServer(newTestServer(ctl).Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/chart/start", "application/json", nil)
	if nil != err {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !ctl.running {
		t.Log("status", resp.StatusCode, "running", ctl.running)
		t.Fail()
	}
}

func TestStartConflict(t *testing.T) {
	ctl := &fakeControl{startErr: errors.New("chart already running")}
	srv := httptest.NewServer(newTestServer(ctl).Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/chart/start", "application/json", nil)
	if nil != err {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Log("status", resp.StatusCode)
		t.Fail()
	}
}

func TestStopAndRestartEndpoints(t *testing.T) {
	ctl := &fakeControl{}
	srv := httptest.NewServer(newTestServer(ctl).Handler())
	defer srv.Close()

	if _, err := http.Post(srv.URL+"/chart/stop", "application/json", nil); nil != err {
		t.Fatal(err)
	}
	if _, err := http.Post(srv.URL+"/chart/restart", "application/json", nil); nil != err {
		t.Fatal(err)
	}
	if ctl.stops != 1 || ctl.restarts != 1 {
		t.Log("stops", ctl.stops, "restarts", ctl.restarts)
		t.Fail()
	}
}

func TestMessagesEndpoint(t *testing.T) {
	ctl := &fakeControl{}
	s := newTestServer(ctl)
	s.messages.Record("kitchen", []byte(`{"utensil": "pan"}`))
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/messages")
	if nil != err {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var msgs []Message
	if err := json.NewDecoder(resp.Body).Decode(&msgs); nil != err {
		t.Fatal(err)
	}
	if len(msgs) != 1 || !msgs[0].IsJSON || msgs[0].Topic != "kitchen" {
		t.Log("messages", msgs)
		t.Fail()
	}
}

func TestRingDropsOldest(t *testing.T) {
	r := NewRing(3)
	for _, p := range []string{"a", "b", "c", "d"} {
		r.Record("t", []byte(p))
	}
	recent := r.Recent()
	if len(recent) != 3 || recent[0].Payload != "b" || recent[2].Payload != "d" {
		t.Log("recent", recent)
		t.Fail()
	}
}
