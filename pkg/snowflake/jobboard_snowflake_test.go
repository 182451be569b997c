package snowflake

import (
	"sync"
	"testing"
	"time"
)

func TestNewGenerator(t *testing.T) {
	tests := []struct {
		name    string
		nodeID  int64
		wantErr bool
	}{
		{"node 0", 0, false},
		{"node max", 1023, false},
		{"negative node", -1, true},
		{"node too large", 1024, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGenerator(tt.nodeID)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewGenerator(%d) error = %v, wantErr %v", tt.nodeID, err, tt.wantErr)
			}
		})
	}
}

func TestGenerate_ConcurrentUnique(t *testing.T) {
	gen, err := NewGenerator(7)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	var ids sync.Map
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				id, err := gen.Generate()
				if err != nil {
					t.Errorf("Generate() error = %v", err)
					return
				}
				if _, dup := ids.LoadOrStore(id, true); dup {
					t.Errorf("duplicate ID: %d", id)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestGenerate_ClockMovedBack(t *testing.T) {
	gen, _ := NewGenerator(1)
	now := time.Now().UnixMilli()
	gen.now = func() int64 { return now }

	if _, err := gen.Generate(); err != nil {
		t.Fatal(err)
	}

	gen.now = func() int64 { return now - 5 }
	if _, err := gen.Generate(); err != ErrClockMovedBack {
		t.Fatalf("err = %v, want ErrClockMovedBack", err)
	}
}

func TestTimestampAndNode(t *testing.T) {
	gen, _ := NewGenerator(42)
	before := time.Now()
	id, _ := gen.Generate()

	if NodeID(id) != 42 {
		t.Errorf("NodeID = %d, want 42", NodeID(id))
	}
	if ts := Timestamp(id); ts.Before(before.Add(-time.Second)) || ts.After(time.Now().Add(time.Second)) {
		t.Errorf("timestamp %v out of range", ts)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12345", 12345, false},
		{"0", 0, true},
		{"-4", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseID(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseID(%q) = %d, %v", tt.in, got, err)
		}
	}
}
