package store

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/segmentio/ksuid"

	"github.com/danmuck/ndefkit/internal/protocol/ndef"
)

func openTestStore(t *testing.T, limits ndef.Limits) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db"), limits)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return s
}

func textImage(t *testing.T, text string) []byte {
	t.Helper()
	msg := ndef.NewMessage()
	if err := msg.Append(ndef.NewRecord(nil, ndef.Text{Language: "en", Text: text})); err != nil {
		t.Fatalf("append: %v", err)
	}
	data, err := msg.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return data
}

func TestCreateReadDelete(t *testing.T) {
	s := openTestStore(t, ndef.Limits{})
	image := textImage(t, "stored")

	id, err := s.Create(image)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := s.Read(id)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, image) {
		t.Fatalf("read mismatch")
	}
	msg, err := s.Message(id)
	if err != nil {
		t.Fatalf("message: %v", err)
	}
	if msg.Record(0).Content().(ndef.Text).Text != "stored" {
		t.Fatalf("unexpected record %+v", msg.Record(0).Content())
	}

	if err := s.Delete(id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Read(id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestCreateRejectsInvalidImage(t *testing.T) {
	s := openTestStore(t, ndef.FixedLimits())
	if _, err := s.Create([]byte{0xD1, 0x01}); !errors.Is(err, ndef.ErrSliceTooShort) {
		t.Fatalf("expected ErrSliceTooShort, got %v", err)
	}
	if _, err := s.Create(bytes.Repeat([]byte{0}, 300)); !errors.Is(err, ndef.ErrBufferTooSmall) {
		t.Fatalf("expected ErrBufferTooSmall, got %v", err)
	}
	ids, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("rejected images must not be stored, got %d", len(ids))
	}
}

func TestList(t *testing.T) {
	s := openTestStore(t, ndef.Limits{})
	want := map[ksuid.KSUID]bool{}
	for _, text := range []string{"a", "b", "c"} {
		id, err := s.Create(textImage(t, text))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		want[id] = true
	}
	ids, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != len(want) {
		t.Fatalf("expected %d ids, got %d", len(want), len(ids))
	}
	for _, id := range ids {
		if !want[id] {
			t.Fatalf("unexpected id %s", id)
		}
	}
}
