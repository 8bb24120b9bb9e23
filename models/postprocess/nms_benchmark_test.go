package postprocess

import (
	"fmt"
	"testing"
)

func BenchmarkSuppress(b *testing.B) {
	for _, n := range []int{100, 1000, 10000} {
		pred := randomPredictions(b, 1, n, 80)

		for _, partition := range []bool{false, true} {
			config := DefaultNMSConfig()
			config.PartitionByClass = partition
			s := newSuppressor(b, config)

			b.Run(fmt.Sprintf("rows=%d/partition=%t", n, partition), func(b *testing.B) {
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					if _, err := s.Suppress(pred, nil); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}

func BenchmarkMerge(b *testing.B) {
	config := DefaultNMSConfig()
	config.Merge = true
	s := newSuppressor(b, config)
	pred := randomPredictions(b, 3, 2000, 4)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := s.Suppress(pred, nil); err != nil {
			b.Fatal(err)
		}
	}
}
