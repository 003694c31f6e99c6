package codec

import (
	"testing"
)

type benchNode struct {
	ID         uint64            `json:"id"`
	Level      int               `json:"level"`
	Anonymity  string            `json:"anonymity"`
	Checked    bool              `json:"checked"`
	Lowest     *float64          `json:"lowest,omitempty"`
	Highest    *float64          `json:"highest,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

type benchSnapshot struct {
	Model    string      `json:"model"`
	Complete bool        `json:"complete"`
	Header   []string    `json:"header"`
	Nodes    []benchNode `json:"nodes"`
}

func newBenchSnapshot(n int) benchSnapshot {
	s := benchSnapshot{
		Model:    "height",
		Complete: true,
		Header:   []string{"age", "zip", "sex", "education"},
		Nodes:    make([]benchNode, n),
	}
	for i := range s.Nodes {
		lo, hi := float64(i)/float64(n), float64(i+1)/float64(n)
		s.Nodes[i] = benchNode{
			ID:        uint64(i),
			Level:     i % 12,
			Anonymity: "ANONYMOUS",
			Checked:   i%3 == 0,
			Lowest:    &lo,
			Highest:   &hi,
		}
		if i%50 == 0 {
			s.Nodes[i].Attributes = map[string]string{"note": "pinned"}
		}
	}
	return s
}

func benchmarkCodecMarshal(b *testing.B, c Codec, v any) {
	b.Helper()
	b.ReportAllocs()

	warm, err := c.Marshal(v)
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(warm)))

	var sink []byte
	b.ResetTimer()
	for b.Loop() {
		out, err := c.Marshal(v)
		if err != nil {
			b.Fatal(err)
		}
		sink = out
	}
	_ = sink
}

func benchmarkCodecUnmarshal[T any](b *testing.B, c Codec, data []byte, dst *T) {
	b.Helper()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))

	var v T
	b.ResetTimer()
	for b.Loop() {
		if err := c.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
	if dst != nil {
		*dst = v
	}
}

func BenchmarkCodec_Marshal_Snapshot(b *testing.B) {
	snap := newBenchSnapshot(4096)

	b.Run("stdlib", func(b *testing.B) { benchmarkCodecMarshal(b, JSON{}, snap) })
	b.Run("go-json", func(b *testing.B) { benchmarkCodecMarshal(b, GoJSON{}, snap) })
}

func BenchmarkCodec_Unmarshal_Snapshot(b *testing.B) {
	jsonData := MustMarshal(JSON{}, newBenchSnapshot(4096))

	b.Run("stdlib", func(b *testing.B) {
		var sink benchSnapshot
		benchmarkCodecUnmarshal(b, JSON{}, jsonData, &sink)
		_ = sink
	})
	b.Run("go-json", func(b *testing.B) {
		var sink benchSnapshot
		benchmarkCodecUnmarshal(b, GoJSON{}, jsonData, &sink)
		_ = sink
	})
}
