package sensor

import "testing"

func drainFramer(f *Framer) []int {
	var out []int
	for {
		mm, ok := f.Next()
		if !ok {
			return out
		}
		out = append(out, mm)
	}
}

func TestFramer(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		want   []int
		left   int
	}{
		{"single frame", []string{"R0850\r"}, []int{850}, 0},
		{"stream", []string{"R1000\rR0999\rR0031\r"}, []int{1000, 999, 31}, 0},
		{"split across feeds", []string{"R0", "8", "50\rR12", "34\r"}, []int{850, 1234}, 0},
		{"partial tail", []string{"R0850\rR12"}, []int{850}, 3},
		{"leading junk", []string{"\x00\xffxyz\rR2000\r"}, []int{2000}, 0},
		{"bad digits resync", []string{"R08R0700\r"}, []int{700}, 0},
		{"marker inside garbage", []string{"RRRR0450\r"}, []int{450}, 0},
		{"no frames", []string{"hello\r\n"}, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Framer
			var got []int
			for _, c := range tt.chunks {
				f.Feed([]byte(c))
				got = append(got, drainFramer(&f)...)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("reading %d: got %d, want %d", i, got[i], tt.want[i])
				}
			}
			if f.Buffered() != tt.left {
				t.Errorf("buffered: got %d, want %d", f.Buffered(), tt.left)
			}
		})
	}
}
