package syncbase_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/violin0622/syncbase"
)

// countingBackend implements syncbase.Backend for testing. It delegates to
// sync.Mutex and counts every create/destroy/lock/unlock.
type countingBackend struct {
	createCnt  atomic.Int32
	destroyCnt atomic.Int32
	lockCnt    atomic.Int32
	unlockCnt  atomic.Int32
	createErr  error
}

func newCountingBackend() *countingBackend {
	return &countingBackend{}
}

func (b *countingBackend) Create(h *syncbase.Handle) (any, error) {
	if b.createErr != nil {
		return nil, b.createErr
	}
	b.createCnt.Add(1)
	return new(sync.Mutex), nil
}

func (b *countingBackend) Destroy(h *syncbase.Handle, state any) {
	b.destroyCnt.Add(1)
}

func (b *countingBackend) Lock(h *syncbase.Handle, state any) {
	b.lockCnt.Add(1)
	state.(*sync.Mutex).Lock()
}

func (b *countingBackend) Unlock(h *syncbase.Handle, state any) {
	state.(*sync.Mutex).Unlock()
	b.unlockCnt.Add(1)
}

// =============================================================================
// Basic Tests
// =============================================================================

func TestHub_LockUnlockGlobal(t *testing.T) {
	hub := syncbase.New()
	defer hub.Shutdown()

	// nil handle addresses the global mutex; first Init creates it.
	hub.Init(nil)

	hub.Lock(nil)
	hub.Unlock(nil)

	s := hub.Stats()
	if s.Locks != 1 || s.Unlocks != 1 {
		t.Errorf("expected 1 lock / 1 unlock, got %d / %d", s.Locks, s.Unlocks)
	}
}

func TestHub_LockUnlockHandle(t *testing.T) {
	hub := syncbase.New()
	defer hub.Shutdown()

	var h syncbase.Handle
	hub.Init(&h)
	if !h.Ready() {
		t.Fatal("handle should be ready after Init")
	}

	hub.Lock(&h)
	hub.Unlock(&h)
}

func TestHub_InitIdempotent(t *testing.T) {
	b := newCountingBackend()
	hub := syncbase.New(syncbase.WithBackend(b))
	defer hub.Shutdown()

	var h syncbase.Handle
	hub.Init(&h)
	st := h.State()

	for n1 := 0; n1 < 10; n1++ {
		hub.Init(&h)
	}

	if h.State() != st {
		t.Error("redundant Init must not replace the published state")
	}
	// One object for h, one each for the global and inc/dec mutexes.
	if got := b.createCnt.Load(); got != 3 {
		t.Errorf("expected 3 creates, got %d", got)
	}
}

func TestHub_InitGlobalCreatesIncDecTogether(t *testing.T) {
	b := newCountingBackend()
	hub := syncbase.New(syncbase.WithBackend(b))

	hub.Init(nil)
	if got := b.createCnt.Load(); got != 2 {
		t.Errorf("expected global + inc/dec creates, got %d", got)
	}

	hub.Destroy(nil)
	if got := b.destroyCnt.Load(); got != 2 {
		t.Errorf("expected global + inc/dec destroys, got %d", got)
	}
}

func TestHub_DestroyIdempotent(t *testing.T) {
	hub := syncbase.New()
	defer hub.Shutdown()

	var h syncbase.Handle
	hub.Init(&h)

	hub.Destroy(&h)
	if h.Ready() {
		t.Fatal("handle should be uninitialized after Destroy")
	}

	// Destroying again is a no-op.
	hub.Destroy(&h)
	if h.Ready() {
		t.Fatal("handle should stay uninitialized")
	}
}

func TestHub_InitAfterDestroy(t *testing.T) {
	hub := syncbase.New()
	defer hub.Shutdown()

	var h syncbase.Handle
	hub.Init(&h)
	hub.Destroy(&h)

	hub.Init(&h)
	if !h.Ready() {
		t.Fatal("handle should be ready after re-Init")
	}
	hub.Lock(&h)
	hub.Unlock(&h)
}

func TestHub_CreateFailureLeavesHandleUnready(t *testing.T) {
	b := newCountingBackend()
	b.createErr = errors.New("out of memory")
	hub := syncbase.New(syncbase.WithBackend(b))

	var h syncbase.Handle
	hub.Init(&h)
	if h.Ready() {
		t.Fatal("handle must stay unready when the backend cannot create")
	}
}

// =============================================================================
// Misuse Tests
// =============================================================================

func TestHub_EmergencyInitOnLock(t *testing.T) {
	hub := syncbase.New()
	defer hub.Shutdown()

	// Locking a never-initialized handle is misuse; without debug checks
	// the hub recovers with an emergency init.
	var h syncbase.Handle
	hub.Lock(&h)
	hub.Unlock(&h)

	if !h.Ready() {
		t.Fatal("emergency init should have initialized the handle")
	}
	if got := hub.Stats().EmergencyInits; got != 1 {
		t.Errorf("expected 1 emergency init, got %d", got)
	}
}

func TestHub_UnlockUninitializedIgnored(t *testing.T) {
	hub := syncbase.New()
	defer hub.Shutdown()

	var h syncbase.Handle
	hub.Unlock(&h)

	if h.Ready() {
		t.Fatal("unlock must not initialize the handle")
	}
}

func TestHub_DebugLockUninitializedPanics(t *testing.T) {
	hub := syncbase.New(syncbase.WithDebugChecks())

	var h syncbase.Handle
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on lock of uninitialized handle")
		}
	}()
	hub.Lock(&h)
}

func TestHub_DebugUnlockUninitializedPanics(t *testing.T) {
	hub := syncbase.New(syncbase.WithDebugChecks())

	var h syncbase.Handle
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unlock of uninitialized handle")
		}
	}()
	hub.Unlock(&h)
}

func TestHub_DebugReentrantGlobalLockPanics(t *testing.T) {
	hub := syncbase.New(syncbase.WithDebugChecks())
	hub.Init(nil)

	hub.Lock(nil)

	// Relocking the global mutex from the same goroutine deadlocks on
	// non-recursive backends; debug checks catch it before blocking.
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on reentrant global lock")
		}
	}()
	hub.Lock(nil)
}

func TestHub_DebugUnlockUnlockedGlobalPanics(t *testing.T) {
	hub := syncbase.New(syncbase.WithDebugChecks())
	hub.Init(nil)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unlock of unlocked global mutex")
		}
	}()
	hub.Unlock(nil)
}

// =============================================================================
// Race Tests
// =============================================================================

func TestHub_InitConcurrent(t *testing.T) {
	b := newCountingBackend()
	hub := syncbase.New(syncbase.WithBackend(b))
	defer hub.Shutdown()

	// Create the global handles up front so the race below is only about h.
	hub.Init(nil)
	baseline := b.createCnt.Load()

	const goroutines = 64

	var h syncbase.Handle
	var wg sync.WaitGroup
	start := make(chan struct{})
	var unready atomic.Int32

	for n1 := 0; n1 < goroutines; n1++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			hub.Init(&h)
			if !h.Ready() {
				unready.Add(1)
			}
		}()
	}

	close(start)
	wg.Wait()

	if unready.Load() != 0 {
		t.Errorf("%d goroutines returned from Init with an unready handle", unready.Load())
	}

	// Exactly one object was published; every extra create was destroyed.
	creates := b.createCnt.Load() - baseline
	destroys := b.destroyCnt.Load()
	if creates < 1 {
		t.Fatalf("expected at least 1 create, got %d", creates)
	}
	if destroys != creates-1 {
		t.Errorf("expected %d destroys of redundant objects, got %d", creates-1, destroys)
	}
	if lost := hub.Stats().InitRacesLost; int32(lost) != destroys {
		t.Errorf("stats disagree: %d races lost vs %d destroys", lost, destroys)
	}

	// The published object must be fully usable.
	hub.Lock(&h)
	hub.Unlock(&h)
}

func TestHub_MutualExclusion(t *testing.T) {
	hub := syncbase.New()
	defer hub.Shutdown()

	var h syncbase.Handle
	hub.Init(&h)

	const goroutines = 32
	const iterations = 200

	var inside atomic.Int32
	var overlaps atomic.Int32
	counter := 0

	var wg sync.WaitGroup
	for n1 := 0; n1 < goroutines; n1++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n3 := 0; n3 < iterations; n3++ {
				hub.Lock(&h)
				if inside.Add(1) != 1 {
					overlaps.Add(1)
				}
				counter++
				inside.Add(-1)
				hub.Unlock(&h)
			}
		}()
	}
	wg.Wait()

	if overlaps.Load() != 0 {
		t.Errorf("critical sections overlapped %d times", overlaps.Load())
	}
	if counter != goroutines*iterations {
		t.Errorf("lost updates: expected %d, got %d", goroutines*iterations, counter)
	}
}

func TestHub_ConcurrentLazyInitManyHandles(t *testing.T) {
	hub := syncbase.New()
	defer hub.Shutdown()

	const handles = 16
	const goroutines = 8

	hs := make([]syncbase.Handle, handles)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for n1 := 0; n1 < goroutines; n1++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for i := range hs {
				hub.Init(&hs[i])
				hub.Lock(&hs[i])
				hub.Unlock(&hs[i])
			}
		}()
	}
	close(start)
	wg.Wait()

	for i := range hs {
		if !hs[i].Ready() {
			t.Fatalf("handle %d not ready", i)
		}
	}
}

// =============================================================================
// Lifecycle Tests
// =============================================================================

func TestHub_ShutdownRestoresPristine(t *testing.T) {
	hub := syncbase.New()

	var h syncbase.Handle
	hub.Init(&h)

	// In-use hubs refuse new callbacks.
	err := hub.SetAtomicCallbacks(nil, incBy1, decBy1)
	if !errors.Is(err, syncbase.ErrInUse) {
		t.Fatalf("expected ErrInUse, got: %v", err)
	}

	hub.Destroy(&h)
	hub.Shutdown()

	// Back to pristine: installation is legal again.
	if err := hub.SetAtomicCallbacks(nil, incBy1, decBy1); err != nil {
		t.Fatalf("expected pristine hub after Shutdown, got: %v", err)
	}
}

func TestHub_ShutdownIdempotent(t *testing.T) {
	hub := syncbase.New()
	hub.Init(nil)

	hub.Shutdown()
	hub.Shutdown()
}

func TestHub_UseAfterShutdown(t *testing.T) {
	hub := syncbase.New()
	hub.Init(nil)
	hub.Shutdown()

	// The global mutex reinitializes lazily on the next Init.
	hub.Init(nil)
	hub.Lock(nil)
	hub.Unlock(nil)
	hub.Shutdown()
}

func incBy1(_ any, p *int32) int32 {
	return atomic.AddInt32(p, 1)
}

func decBy1(_ any, p *int32) int32 {
	return atomic.AddInt32(p, -1)
}
