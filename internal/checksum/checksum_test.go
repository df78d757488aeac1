package checksum

import "testing"

func TestSum(t *testing.T) {
	// sha256("")
	if got := Sum(nil); got != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Errorf("Sum(nil) = %q", got)
	}
}

func TestChanged(t *testing.T) {
	data := []byte("days: []\n")
	if Changed(Sum(data), data) {
		t.Error("same data reported as changed")
	}
	if !Changed("", data) || !Changed(Sum([]byte("x")), data) {
		t.Error("different data reported as unchanged")
	}
}
