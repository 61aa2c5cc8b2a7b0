package embedding

import "testing"

func TestToFloat32(t *testing.T) {
	in := []float64{0.25, -1.5, 0}
	out := toFloat32(in)

	if len(out) != len(in) {
		t.Fatalf("expected %d values, got %d", len(in), len(out))
	}
	for i := range in {
		if float64(out[i]) != in[i] {
			t.Errorf("value %d: expected %v, got %v", i, in[i], out[i])
		}
	}
}

func TestNewEmbedderDefaults(t *testing.T) {
	e := NewEmbedder(nil, "", 0)
	if e.model != DefaultModel {
		t.Errorf("expected default model %q, got %q", DefaultModel, e.model)
	}
	if e.batchSize != DefaultBatchSize {
		t.Errorf("expected default batch size %d, got %d", DefaultBatchSize, e.batchSize)
	}

	e = NewEmbedder(nil, "text-embedding-3-large", 16)
	if e.model != "text-embedding-3-large" || e.batchSize != 16 {
		t.Errorf("overrides not applied: %q %d", e.model, e.batchSize)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Error("expected error for empty API key")
	}
}
