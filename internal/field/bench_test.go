package field

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func BenchmarkSegmentsField(b *testing.B) {
	segs := loop(100, 250, 0)
	p := mgl64.Vec3{10, 20, 5}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = SegmentsField(segs, 10, p)
	}
}

func BenchmarkFieldAt_Coils(b *testing.B) {
	sources := make([]Source, 12)
	for i := range sources {
		sources[i] = Source{Segments: loop(100, 250, float64(i)), Current: float64(i)}
	}
	p := mgl64.Vec3{10, 20, 5}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = FieldAt(sources, p)
	}
}
