package cell_test

import (
	"math"
	"sync"
	"testing"

	"github.com/momentics/jackpipe/cell"
)

func TestZeroValue(t *testing.T) {
	var c cell.Float32
	if got := c.Load(); got != 0 {
		t.Fatalf("zero value Load() = %v, want 0", got)
	}
}

func TestStoreLoad(t *testing.T) {
	var c cell.Float32
	for _, v := range []float32{0.5, -12.0, 1, 0, float32(math.Inf(1)), math.SmallestNonzeroFloat32} {
		c.Store(v)
		if got := c.Load(); got != v {
			t.Fatalf("Load() = %v, want %v", got, v)
		}
	}
}

func TestLastWriteWins(t *testing.T) {
	var c cell.Float32
	c.Store(0.25)
	c.Store(0.75)
	if got := c.Load(); got != 0.75 {
		t.Fatalf("Load() = %v, want 0.75", got)
	}
}

// TestConcurrentReader exercises the single-writer/single-reader roles under
// the race detector. Every observed value must be one the writer actually
// stored, never a torn mix.
func TestConcurrentReader(t *testing.T) {
	var c cell.Float32
	valid := map[float32]bool{0: true}
	values := []float32{0.1, 0.2, 0.3, 0.4, 0.5}
	for _, v := range values {
		valid[v] = true
	}

	var wg sync.WaitGroup
	done := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 10000; i++ {
			c.Store(values[i%len(values)])
		}
		close(done)
	}()

	for {
		v := c.Load()
		if !valid[v] {
			t.Errorf("Load() observed %v, never stored", v)
			break
		}
		select {
		case <-done:
			wg.Wait()
			return
		default:
		}
	}
	wg.Wait()
}

func BenchmarkLoad(b *testing.B) {
	var c cell.Float32
	c.Store(0.5)
	for i := 0; i < b.N; i++ {
		_ = c.Load()
	}
}
