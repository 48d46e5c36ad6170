//go:build bench
// +build bench

package codec

import (
	"strings"
	"testing"
)

func BenchmarkLineCodec_Encode(b *testing.B) {
	codec := NewLineCodec()

	benchmarks := []struct {
		name string
		book Book
	}{
		{
			name: "small",
			book: Book{ID: "111", Title: "A", Price: 9.99, Quantity: 3},
		},
		{
			name: "long text",
			book: Book{
				ID:        "9787111547426",
				Title:     strings.Repeat("t", 200),
				Author:    strings.Repeat("a", 100),
				Publisher: strings.Repeat("p", 100),
				Price:     123.45,
				Quantity:  10,
			},
		},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := codec.Encode(bm.book); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkLineCodec_Decode(b *testing.B) {
	codec := NewLineCodec()

	lines := map[string]string{
		"small":     "111|A|B|C|2020-01-01|9.99|3",
		"long text": "9787111547426|" + strings.Repeat("t", 200) + "|" + strings.Repeat("a", 100) + "|P|2020|123.45|10",
	}

	for name, line := range lines {
		b.Run(name, func(b *testing.B) {
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := codec.Decode(line); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
