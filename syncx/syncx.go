package syncx

import "sync"

// LockFunc runs fn while holding mux.
func LockFunc(mux sync.Locker, fn func()) {
	mux.Lock()
	defer mux.Unlock()
	fn()
}

// LockFuncT runs fn while holding mux and returns its result.
func LockFuncT[T any](mux sync.Locker, fn func() T) T {
	mux.Lock()
	defer mux.Unlock()
	return fn()
}

// RLocker is satisfied by [sync.RWMutex].
type RLocker interface {
	RLock()
	RUnlock()
}

// RLockFunc runs fn while holding the read side of mux.
func RLockFunc(mux RLocker, fn func()) {
	mux.RLock()
	defer mux.RUnlock()
	fn()
}

// RLockFuncT runs fn while holding the read side of mux and returns its result.
func RLockFuncT[T any](mux RLocker, fn func() T) T {
	mux.RLock()
	defer mux.RUnlock()
	return fn()
}

// RLockFuncTOk is [RLockFuncT] for lookups that report whether a value was found.
func RLockFuncTOk[T any](mux RLocker, fn func() (T, bool)) (T, bool) {
	mux.RLock()
	defer mux.RUnlock()
	return fn()
}
