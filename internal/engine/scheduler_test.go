package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jellycord/jellycord/internal/domain"
	"github.com/jellycord/jellycord/internal/domain/mocks"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func testOptions() Options {
	return Options{
		PollInterval:      15 * time.Second,
		LoginRetryDelay:   5 * time.Millisecond,
		SessionInactivity: 60 * time.Second,
		EndOfMediaBuffer:  1500 * time.Millisecond,
	}
}

func testSchedulerDeps(t *testing.T) (*mocks.MockRegistry, *mocks.MockPresenceChannel, *mocks.MockMediaServer) {
	t.Helper()
	ctrl := gomock.NewController(t)
	return mocks.NewMockRegistry(ctrl), mocks.NewMockPresenceChannel(ctrl), mocks.NewMockMediaServer(ctrl)
}

func playingSession(user string, runtimeSeconds, positionSeconds int64) domain.Session {
	return domain.Session{
		UserName: user,
		Client:   "Jellyfin Web",
		NowPlayingItem: &domain.MediaItem{
			ID:           "item-1",
			Name:         "Dune",
			Type:         domain.ContentMovie,
			RunTimeTicks: runtimeSeconds * domain.TicksPerSecond,
		},
		PlayState: domain.PlayState{
			PositionTicks: positionSeconds * domain.TicksPerSecond,
		},
	}
}

func TestScheduler_StartWithoutSelectedServer(t *testing.T) {
	registry, channel, _ := testSchedulerDeps(t)
	registry.EXPECT().SelectedServer().Return(domain.ServerConfig{}, false)

	factoryCalls := 0
	s := NewScheduler(zap.NewNop(), testOptions(), registry, channel, func(domain.ServerConfig) (domain.MediaServer, error) {
		factoryCalls++
		return nil, nil
	})

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if factoryCalls != 0 {
		t.Errorf("no client must be built without a selected server, got %d", factoryCalls)
	}
}

func TestScheduler_UpdateSkipsWhenChannelDown(t *testing.T) {
	registry, channel, client := testSchedulerDeps(t)
	channel.EXPECT().State().Return(domain.Disconnected)

	s := NewScheduler(zap.NewNop(), testOptions(), registry, channel, nil)

	if got := s.update(context.Background(), client); got != s.opts.PollInterval {
		t.Errorf("expected base interval, got %v", got)
	}
}

func TestScheduler_UpdateDisplayDisabled(t *testing.T) {
	registry, channel, client := testSchedulerDeps(t)
	channel.EXPECT().State().Return(domain.Connected)
	registry.EXPECT().DisplayEnabled().Return(false)
	channel.EXPECT().ClearActivity().Return(nil)
	// Sessions must never be fetched while the display is off

	s := NewScheduler(zap.NewNop(), testOptions(), registry, channel, nil)

	if got := s.update(context.Background(), client); got != s.opts.PollInterval {
		t.Errorf("expected base interval, got %v", got)
	}
}

func TestScheduler_UpdateFetchFailureLeavesPresence(t *testing.T) {
	registry, channel, client := testSchedulerDeps(t)
	channel.EXPECT().State().Return(domain.Connected)
	registry.EXPECT().DisplayEnabled().Return(true)
	client.EXPECT().Sessions(gomock.Any(), 60).
		Return(nil, &domain.SessionFetchError{Err: errors.New("bad gateway")})

	s := NewScheduler(zap.NewNop(), testOptions(), registry, channel, nil)

	if got := s.update(context.Background(), client); got != s.opts.PollInterval {
		t.Errorf("expected base interval, got %v", got)
	}
}

func TestScheduler_UpdatePushesMatchingSession(t *testing.T) {
	registry, channel, client := testSchedulerDeps(t)
	server := domain.ServerConfig{Username: "Alice", ServerID: "srv-1"}

	channel.EXPECT().State().Return(domain.Connected)
	registry.EXPECT().DisplayEnabled().Return(true)
	registry.EXPECT().SelectedServer().Return(server, true).AnyTimes()
	registry.EXPECT().ExternalButtonsEnabled().Return(false)
	client.EXPECT().Sessions(gomock.Any(), 60).Return([]domain.Session{
		{UserName: "bob", NowPlayingItem: &domain.MediaItem{ID: "x", Name: "Other", Type: domain.ContentMovie}},
		{UserName: "alice"}, // no item, skipped despite matching name
		playingSession("ALICE", 9000, 600),
	}, nil)
	client.EXPECT().BaseURL().Return("http://jellyfin.local:8096")

	var pushed *domain.PresencePayload
	channel.EXPECT().SetActivity(gomock.Any()).DoAndReturn(func(p *domain.PresencePayload) error {
		pushed = p
		return nil
	})

	s := NewScheduler(zap.NewNop(), testOptions(), registry, channel, nil)

	if got := s.update(context.Background(), client); got != s.opts.PollInterval {
		t.Errorf("expected base interval, got %v", got)
	}
	if pushed == nil || pushed.Details != "Dune" {
		t.Fatalf("expected the matching user's session pushed, got %+v", pushed)
	}
}

func TestScheduler_UpdateClearsWithoutMatch(t *testing.T) {
	registry, channel, client := testSchedulerDeps(t)
	server := domain.ServerConfig{Username: "alice", ServerID: "srv-1"}

	channel.EXPECT().State().Return(domain.Connected)
	registry.EXPECT().DisplayEnabled().Return(true)
	registry.EXPECT().SelectedServer().Return(server, true)
	client.EXPECT().Sessions(gomock.Any(), 60).Return([]domain.Session{
		playingSession("bob", 9000, 600),
	}, nil)
	channel.EXPECT().ClearActivity().Return(nil)

	s := NewScheduler(zap.NewNop(), testOptions(), registry, channel, nil)
	s.update(context.Background(), client)
}

func TestScheduler_UpdateWakesAtEndOfMedia(t *testing.T) {
	registry, channel, client := testSchedulerDeps(t)
	server := domain.ServerConfig{Username: "alice", ServerID: "srv-1"}

	opts := testOptions()
	opts.PollInterval = 24 * time.Hour // force the end-of-media wake to win

	channel.EXPECT().State().Return(domain.Connected)
	registry.EXPECT().DisplayEnabled().Return(true)
	registry.EXPECT().SelectedServer().Return(server, true).AnyTimes()
	registry.EXPECT().ExternalButtonsEnabled().Return(false)
	client.EXPECT().Sessions(gomock.Any(), 60).Return([]domain.Session{
		playingSession("alice", 9600, 600), // 9000s remaining
	}, nil)
	client.EXPECT().BaseURL().Return("http://jellyfin.local:8096")
	channel.EXPECT().SetActivity(gomock.Any()).Return(nil)

	s := NewScheduler(zap.NewNop(), opts, registry, channel, nil)

	got := s.update(context.Background(), client)
	want := 9000*time.Second + opts.EndOfMediaBuffer
	if got != want {
		t.Errorf("next wake: expected %v, got %v", want, got)
	}
}

func TestScheduler_UpdatePausedUsesBaseInterval(t *testing.T) {
	registry, channel, client := testSchedulerDeps(t)
	server := domain.ServerConfig{Username: "alice", ServerID: "srv-1"}

	opts := testOptions()
	opts.PollInterval = 24 * time.Hour

	session := playingSession("alice", 9600, 600)
	session.PlayState.IsPaused = true

	channel.EXPECT().State().Return(domain.Connected)
	registry.EXPECT().DisplayEnabled().Return(true)
	registry.EXPECT().SelectedServer().Return(server, true).AnyTimes()
	registry.EXPECT().ExternalButtonsEnabled().Return(false)
	client.EXPECT().Sessions(gomock.Any(), 60).Return([]domain.Session{session}, nil)
	client.EXPECT().BaseURL().Return("http://jellyfin.local:8096")
	channel.EXPECT().SetActivity(gomock.Any()).Return(nil)

	s := NewScheduler(zap.NewNop(), opts, registry, channel, nil)

	// Paused playback never ends on its own, so no early wake
	if got := s.update(context.Background(), client); got != opts.PollInterval {
		t.Errorf("expected base interval for paused playback, got %v", got)
	}
}

func TestScheduler_CoincidingWakesRunSingleUpdate(t *testing.T) {
	registry, channel, client := testSchedulerDeps(t)

	opts := testOptions()
	opts.PollInterval = time.Hour // only kicks wake the loop after the first pass

	registry.EXPECT().DisplayEnabled().Return(true).AnyTimes()
	registry.EXPECT().SelectedServer().
		Return(domain.ServerConfig{Username: "alice", ServerID: "srv-1"}, true).AnyTimes()
	channel.EXPECT().State().Return(domain.Connected).AnyTimes()
	channel.EXPECT().ClearActivity().Return(nil).AnyTimes()
	client.EXPECT().Login(gomock.Any()).Return(nil)

	var inFlight, calls int32
	entered := make(chan struct{}, 2)
	release := make(chan struct{})
	client.EXPECT().Sessions(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ int) ([]domain.Session, error) {
			if atomic.AddInt32(&inFlight, 1) > 1 {
				t.Error("update passes overlapped")
			}
			n := atomic.AddInt32(&calls, 1)
			entered <- struct{}{}
			if n == 1 {
				<-release
			}
			atomic.AddInt32(&inFlight, -1)
			return nil, nil
		}).Times(2)

	s := NewScheduler(zap.NewNop(), opts, registry, channel, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go s.run(ctx, client, done)

	<-entered // first pass parked mid-fetch

	// Both wake reasons arrive while the pass is still in flight; they must
	// fold into a single follow-up
	s.Kick()
	s.Kick()
	close(release)

	<-entered // the one follow-up pass

	time.Sleep(20 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected exactly 2 update passes, got %d", got)
	}

	cancel()
	<-done
}

func TestScheduler_LoginRetriesUntilSuccess(t *testing.T) {
	_, _, client := testSchedulerDeps(t)

	gomock.InOrder(
		client.EXPECT().Login(gomock.Any()).
			Return(&domain.AuthenticationError{Err: errors.New("bad password")}),
		client.EXPECT().Login(gomock.Any()).Return(nil),
	)

	s := NewScheduler(zap.NewNop(), testOptions(), nil, nil, nil)

	if !s.login(context.Background(), client) {
		t.Fatal("expected login to eventually succeed")
	}
}

func TestScheduler_LoginStopsOnCancel(t *testing.T) {
	_, _, client := testSchedulerDeps(t)

	opts := testOptions()
	opts.LoginRetryDelay = time.Hour

	client.EXPECT().Login(gomock.Any()).
		Return(&domain.AuthenticationError{Err: errors.New("unreachable")})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewScheduler(zap.NewNop(), opts, nil, nil, nil)

	if s.login(ctx, client) {
		t.Fatal("expected login to give up once the loop context ends")
	}
}

func TestScheduler_KickCollapses(t *testing.T) {
	s := NewScheduler(zap.NewNop(), testOptions(), nil, nil, nil)

	s.Kick()
	s.Kick()
	s.Kick()

	if got := len(s.kick); got != 1 {
		t.Errorf("kicks must collapse into one pending pass, got %d", got)
	}
}

func TestScheduler_StopLogsOut(t *testing.T) {
	registry, channel, client := testSchedulerDeps(t)
	server := domain.ServerConfig{Username: "alice", ServerID: "srv-1", ServerName: "Home"}

	registry.EXPECT().SelectedServer().Return(server, true)
	channel.EXPECT().Disconnect().Return(nil)
	channel.EXPECT().Connect(gomock.Any()).Return(nil)
	channel.EXPECT().State().Return(domain.Disconnected).AnyTimes()
	client.EXPECT().Login(gomock.Any()).Return(nil).AnyTimes()
	client.EXPECT().Logout(gomock.Any()).Return(nil)

	s := NewScheduler(zap.NewNop(), testOptions(), registry, channel, func(domain.ServerConfig) (domain.MediaServer, error) {
		return client, nil
	})

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}
