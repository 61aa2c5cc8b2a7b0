package storage

import "testing"

// TestPointIDDeterministic verifies the chunk-id to point-id mapping is
// stable, which is what makes re-ingestion an upsert instead of a
// duplicate insert.
func TestPointIDDeterministic(t *testing.T) {
	a := pointID("abc123def4567890")
	b := pointID("abc123def4567890")
	if a.GetUuid() != b.GetUuid() {
		t.Errorf("same chunk id produced different point ids: %s vs %s", a.GetUuid(), b.GetUuid())
	}

	c := pointID("abc123def4567891")
	if c.GetUuid() == a.GetUuid() {
		t.Error("different chunk ids collided")
	}
}
