package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"moviecat/cli/internal/backend"
	"moviecat/cli/internal/credstore"
	apperrors "moviecat/cli/internal/errors"
)

// fakeAPI is a scripted identity provider that counts its calls.
type fakeAPI struct {
	mu       sync.Mutex
	login    backend.LoginResult
	loginErr error
	profile  backend.Profile
	profErr  error
	calls    int
}

func (f *fakeAPI) Login(context.Context, string, string) (backend.LoginResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.login, f.loginErr
}

func (f *fakeAPI) Register(ctx context.Context, u, p, _ string) (backend.LoginResult, error) {
	return f.Login(ctx, u, p)
}

func (f *fakeAPI) Profile(context.Context, string) (backend.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.profile, f.profErr
}

func (f *fakeAPI) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakePipe struct{ cred string }

func (p *fakePipe) SetDefaultCredential(t string) { p.cred = t }
func (p *fakePipe) ClearDefaultCredential()       { p.cred = "" }

var (
	errOffline  = apperrors.Wrap(apperrors.NoResponse, "network request failed", context.DeadlineExceeded)
	errRejected = apperrors.New(apperrors.Rejected, "token expired")
)

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	api   *fakeAPI
	mem   *credstore.MemoryBackend
	jar   *credstore.Jar
	pipe  *fakePipe
	svc   *Service
	clock *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := epoch
	f := &fixture{api: &fakeAPI{}, mem: credstore.NewMemoryBackend(), pipe: &fakePipe{}, clock: &now}
	f.jar = credstore.New(f.mem, credstore.WithClock(func() time.Time { return *f.clock }))
	f.svc = f.newService()
	return f
}

// newService models a process start: fresh session, same store.
func (f *fixture) newService() *Service {
	f.pipe = &fakePipe{}
	return NewService(Options{API: f.api, Store: f.jar, Pipeline: f.pipe, Timeout: time.Second})
}

func (f *fixture) stored() map[string]string {
	out := map[string]string{}
	for k, e := range f.mem.Snapshot() {
		out[k] = e.Value
	}
	return out
}

func (f *fixture) seed(t *testing.T, values map[string]string, days int) {
	t.Helper()
	if err := f.jar.SetMany(context.Background(), values, days); err != nil {
		t.Fatal(err)
	}
}
