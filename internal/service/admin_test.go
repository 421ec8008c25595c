package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/folio/signupd/internal/auth"
	"github.com/folio/signupd/internal/metrics"
	"github.com/folio/signupd/internal/model"
	"github.com/folio/signupd/internal/repository"
	"github.com/folio/signupd/internal/testutil"
)

func newAdminService(t *testing.T, hasher auth.Hasher) (*AdminService, repository.Store, *metrics.InMemoryRecorder) {
	t.Helper()
	store := testutil.NewSQLiteStore(t)
	rec := metrics.NewInMemory()
	return NewAdminService(store, hasher, discardLogger(), rec), store, rec
}

func TestAdminService_StateTransition(t *testing.T) {
	svc, _, _ := newAdminService(t, nil)
	ctx := context.Background()

	state, err := svc.State(ctx)
	if err != nil {
		t.Fatalf("State failed: %v", err)
	}
	if state != model.AdminUninitialized {
		t.Fatalf("initial state = %s, want uninitialized", state)
	}

	if err := svc.Setup(ctx, "s3cret-pass"); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	state, _ = svc.State(ctx)
	if state != model.AdminActive {
		t.Errorf("state after setup = %s, want active", state)
	}
}

func TestAdminService_Setup_WeakPassword(t *testing.T) {
	svc, _, _ := newAdminService(t, nil)
	ctx := context.Background()

	for _, pw := range []string{"", "short", "1234567"} {
		if err := svc.Setup(ctx, pw); !errors.Is(err, ErrWeakPassword) {
			t.Errorf("Setup(%q) error = %v, want ErrWeakPassword", pw, err)
		}
	}

	if state, _ := svc.State(ctx); state != model.AdminUninitialized {
		t.Error("weak password must leave the service uninitialized")
	}
}

func TestAdminService_Setup_OnlyOnce(t *testing.T) {
	svc, store, _ := newAdminService(t, nil)
	ctx := context.Background()

	if err := svc.Setup(ctx, "first-password"); err != nil {
		t.Fatalf("first Setup failed: %v", err)
	}
	before, _ := store.GetAdminCredential(ctx)

	if err := svc.Setup(ctx, "second-password"); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("second Setup error = %v, want ErrAlreadyInitialized", err)
	}

	after, _ := store.GetAdminCredential(ctx)
	if before.PasswordHash != after.PasswordHash {
		t.Error("password hash changed after second setup")
	}
}

func TestAdminService_Setup_ConcurrentFirstCalls(t *testing.T) {
	svc, _, _ := newAdminService(t, nil)
	ctx := context.Background()

	const callers = 6
	results := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results <- svc.Setup(ctx, strings.Repeat("p", 8+i))
		}(i)
	}
	wg.Wait()
	close(results)

	var ok int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrAlreadyInitialized):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("%d setups succeeded, want exactly 1", ok)
	}
}

func TestAdminService_Authenticate(t *testing.T) {
	svc, _, rec := newAdminService(t, nil)
	ctx := context.Background()

	if err := svc.Authenticate(ctx, "anything"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Authenticate before setup = %v, want ErrUnauthorized", err)
	}

	if err := svc.Setup(ctx, "CaseSensitive1"); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	if err := svc.Authenticate(ctx, "CaseSensitive1"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := svc.Authenticate(ctx, "casesensitive1"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("wrong-case password = %v, want ErrUnauthorized", err)
	}

	if got := rec.Snapshot().AdminAuthFailures; got != 2 {
		t.Errorf("AdminAuthFailures = %d, want 2", got)
	}
}

func TestAdminService_StoresSHA256HexByDefault(t *testing.T) {
	svc, store, _ := newAdminService(t, nil)
	ctx := context.Background()

	if err := svc.Setup(ctx, "password"); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	cred, _ := store.GetAdminCredential(ctx)
	if cred.PasswordHash != "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8" {
		t.Errorf("stored hash = %s, want hex sha256", cred.PasswordHash)
	}
}

func TestAdminService_Argon2idScheme(t *testing.T) {
	svc, store, _ := newAdminService(t, auth.Argon2idHasher{})
	ctx := context.Background()

	if err := svc.Setup(ctx, "argon-password"); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	cred, _ := store.GetAdminCredential(ctx)
	if !strings.HasPrefix(cred.PasswordHash, "$argon2id$") {
		t.Errorf("stored hash = %s, want PHC string", cred.PasswordHash)
	}

	if err := svc.Authenticate(ctx, "argon-password"); err != nil {
		t.Errorf("Authenticate failed: %v", err)
	}
}
