package session

import (
	"sync"
	"time"
)

// Scheduler ejecuta fn cada interval hasta que se llame a stop.
// Se inyecta para poder disparar los ticks a mano en pruebas.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (stop func())
}

// TickerScheduler implementación sobre time.Ticker.
type TickerScheduler struct{}

// Every lanza una goroutine con un ticker. Los ticks no se solapan: si fn tarda más que
// interval, el ticker descarta los ticks intermedios.
func (TickerScheduler) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}
