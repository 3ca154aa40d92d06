package service

import "testing"

func TestJobQueueOrder(t *testing.T) {
	q := newJobQueue()

	var got []int
	for i := 0; i < 100; i++ {
		if !q.push(func() { got = append(got, i) }) {
			t.Fatal("push failed on open queue")
		}
	}
	q.close()

	if len(got) != 100 {
		t.Fatalf("ran %d jobs, expected 100", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("job %d ran at position %d", v, i)
		}
	}

	if q.push(func() {}) {
		t.Errorf("push succeeded on closed queue")
	}
}
